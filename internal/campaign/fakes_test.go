// File: internal/campaign/fakes_test.go
package campaign

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/outreach-cli/internal/config"
)

// fakeSession is a scripted Session. Lookups are keyed by locator or by the
// ref's XPath string; ClickLocator fails with ErrNotFound unless the locator
// was explicitly allowed, so an unscripted flow cannot loop forever.
type fakeSession struct {
	mu sync.Mutex

	current ContextID

	pages        map[string][]ElementRef
	texts        map[ElementRef]string
	attrs        map[string]map[string]string
	clickResults map[string]error
	clickRefErrs map[string]error
	waitErrs     map[string]error
	formSteps    [][]FormField

	onClickLocator func(locator string) (error, bool)

	navigated  []string
	clicked    []string
	typed      map[string]string
	openedURLs []string
	switched   []ContextID
	closed     []ContextID
	formCalls  int
	nextTab    int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		current:      ContextID("primary"),
		pages:        map[string][]ElementRef{},
		texts:        map[ElementRef]string{},
		attrs:        map[string]map[string]string{},
		clickResults: map[string]error{},
		clickRefErrs: map[string]error{},
		waitErrs:     map[string]error{},
		typed:        map[string]string{},
	}
}

// allowClick registers locators whose clicks succeed.
func (f *fakeSession) allowClick(locators ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range locators {
		f.clickResults[l] = nil
	}
}

func (f *fakeSession) setAttr(ref ElementRef, name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attrs[string(ref)] == nil {
		f.attrs[string(ref)] = map[string]string{}
	}
	f.attrs[string(ref)][name] = value
}

func (f *fakeSession) clickedCount(locator string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.clicked {
		if c == locator {
			n++
		}
	}
	return n
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeSession) CurrentLocation(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.navigated) == 0 {
		return "about:blank", nil
	}
	return f.navigated[len(f.navigated)-1], nil
}

func (f *fakeSession) FindAll(_ context.Context, locator string) ([]ElementRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[locator], nil
}

func (f *fakeSession) Click(_ context.Context, ref ElementRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicked = append(f.clicked, string(ref))
	return f.clickRefErrs[string(ref)]
}

func (f *fakeSession) ClickLocator(_ context.Context, locator string) error {
	f.mu.Lock()
	hook := f.onClickLocator
	f.clicked = append(f.clicked, locator)
	f.mu.Unlock()

	if hook != nil {
		if err, handled := hook(locator); handled {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.clickResults[locator]; ok {
		return err
	}
	return ErrNotFound
}

func (f *fakeSession) Type(_ context.Context, locator, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed[locator] = text
	return nil
}

func (f *fakeSession) Text(_ context.Context, ref ElementRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[ref], nil
}

func (f *fakeSession) Attribute(_ context.Context, ref ElementRef, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attrs[string(ref)][name], nil
}

func (f *fakeSession) WaitVisible(_ context.Context, locator string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.waitErrs[locator]; ok {
		return err
	}
	return nil
}

func (f *fakeSession) OpenContext(_ context.Context, url string) (ContextID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTab++
	id := ContextID(fmt.Sprintf("tab-%d", f.nextTab))
	f.openedURLs = append(f.openedURLs, url)
	return id, nil
}

func (f *fakeSession) SwitchContext(_ context.Context, id ContextID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = id
	f.switched = append(f.switched, id)
	return nil
}

func (f *fakeSession) CloseContext(_ context.Context, id ContextID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeSession) CurrentContext() ContextID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSession) FormFields(context.Context) ([]FormField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.formCalls < len(f.formSteps) {
		step := f.formSteps[f.formCalls]
		f.formCalls++
		return step, nil
	}
	return nil, nil
}

var _ Session = (*fakeSession)(nil)

// fakeSink records job results in memory.
type fakeSink struct {
	mu       sync.Mutex
	recs     []JobRecord
	statuses map[string]string
}

func newFakeSink() *fakeSink {
	return &fakeSink{statuses: map[string]string{}}
}

func (s *fakeSink) RecordDiscovered(rec JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	s.statuses[rec.URL] = rec.Status
	return nil
}

func (s *fakeSink) UpdateStatus(url, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[url] = status
	return nil
}

func (s *fakeSink) status(url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[url]
}

var _ ResultSink = (*fakeSink)(nil)

// testConfig returns a config with delays collapsed so runs finish fast.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("data_dir", t.TempDir())
	cfg, err := config.NewFromViper(v)
	if err != nil {
		t.Fatalf("building test config: %v", err)
	}
	cfg.Pacing.MinDelay = 0
	cfg.Pacing.MaxDelay = time.Millisecond
	cfg.Session.PageSettleMin = 0
	cfg.Session.PageSettleMax = time.Millisecond
	cfg.Session.ElementTimeout = 100 * time.Millisecond
	return cfg
}
