// File: internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/campaign"
	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/forms"
)

// PrimaryContext identifies the browser's initial tab.
const PrimaryContext = campaign.ContextID("primary")

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Session implements campaign.Session over a live Chrome instance. Element
// refs are single-element XPath expressions, so they survive protocol round
// trips without holding live node handles.
type Session struct {
	mu       sync.Mutex
	contexts map[campaign.ContextID]tab
	current  campaign.ContextID
	timeout  time.Duration
	log      *zap.Logger
}

func newSession(browserCtx context.Context, cfg *config.Config, log *zap.Logger) *Session {
	return &Session{
		contexts: map[campaign.ContextID]tab{
			PrimaryContext: {ctx: browserCtx},
		},
		current: PrimaryContext,
		timeout: cfg.Session.ElementTimeout,
		log:     log.Named("session"),
	}
}

func (s *Session) currentTab() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts[s.current].ctx
}

// run executes chromedp actions against the focused tab, bounded by timeout
// and by the caller's context. A deadline hit maps to campaign.ErrNotFound:
// within a campaign "it never appeared" and "it is not there" are the same
// outcome.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tabCtx := s.currentTab()
	if tabCtx == nil {
		return fmt.Errorf("no focused rendering context")
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return campaign.ErrNotFound
		}
		return err
	}
	return nil
}

// Navigate loads url in the focused tab and waits for the load to finish.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.log.Debug("Navigating", zap.String("url", url))
	if err := s.run(ctx, s.timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// CurrentLocation returns the focused tab's URL.
func (s *Session) CurrentLocation(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, s.timeout, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// FindAll returns one indexed ref per element matching the locator.
func (s *Session) FindAll(ctx context.Context, locator string) ([]campaign.ElementRef, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, s.timeout,
		chromedp.Nodes(locator, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	refs := make([]campaign.ElementRef, len(nodes))
	for i := range nodes {
		refs[i] = campaign.ElementRef(fmt.Sprintf("(%s)[%d]", locator, i+1))
	}
	return refs, nil
}

// Click clicks the referenced element.
func (s *Session) Click(ctx context.Context, ref campaign.ElementRef) error {
	return s.run(ctx, s.timeout, chromedp.Click(string(ref), chromedp.BySearch))
}

// ClickLocator clicks the first element matching the locator, reporting
// ErrNotFound immediately when nothing matches instead of burning the whole
// wait budget.
func (s *Session) ClickLocator(ctx context.Context, locator string) error {
	refs, err := s.FindAll(ctx, locator)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return campaign.ErrNotFound
	}
	return s.Click(ctx, refs[0])
}

// Type clears the first matching field and types text into it.
func (s *Session) Type(ctx context.Context, locator, text string) error {
	return s.run(ctx, s.timeout,
		chromedp.Clear(locator, chromedp.BySearch),
		chromedp.SendKeys(locator, text, chromedp.BySearch))
}

// Text returns the visible text of the referenced element.
func (s *Session) Text(ctx context.Context, ref campaign.ElementRef) (string, error) {
	var text string
	if err := s.run(ctx, s.timeout, chromedp.Text(string(ref), &text, chromedp.BySearch)); err != nil {
		return "", err
	}
	return text, nil
}

// Attribute returns the named attribute of the referenced element, empty
// when the attribute is absent.
func (s *Session) Attribute(ctx context.Context, ref campaign.ElementRef, name string) (string, error) {
	var value string
	var ok bool
	err := s.run(ctx, s.timeout,
		chromedp.AttributeValue(string(ref), name, &value, &ok, chromedp.BySearch))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

// WaitVisible blocks until the locator matches a visible element.
func (s *Session) WaitVisible(ctx context.Context, locator string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.WaitVisible(locator, chromedp.BySearch))
}

// OpenContext loads url in a new background tab. Focus stays where it is.
func (s *Session) OpenContext(ctx context.Context, url string) (campaign.ContextID, error) {
	s.mu.Lock()
	browserCtx := s.contexts[PrimaryContext].ctx
	s.mu.Unlock()

	var targetID target.ID
	err := s.run(ctx, s.timeout, chromedp.ActionFunc(func(cctx context.Context) error {
		id, err := target.CreateTarget(url).WithBackground(true).Do(cctx)
		targetID = id
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("creating background target: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(targetID))
	id := campaign.ContextID(uuid.NewString())
	s.mu.Lock()
	s.contexts[id] = tab{ctx: tabCtx, cancel: tabCancel}
	s.mu.Unlock()

	s.log.Debug("Opened background context", zap.String("context", string(id)), zap.String("url", url))
	return id, nil
}

// SwitchContext moves focus to the given context and raises its tab.
func (s *Session) SwitchContext(ctx context.Context, id campaign.ContextID) error {
	s.mu.Lock()
	t, ok := s.contexts[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown rendering context %q", id)
	}

	runCtx, cancel := context.WithTimeout(t.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(runCtx, chromedp.ActionFunc(func(cctx context.Context) error {
		c := chromedp.FromContext(cctx)
		if c == nil || c.Target == nil {
			return nil
		}
		return target.ActivateTarget(c.Target.TargetID).Do(cctx)
	})); err != nil {
		return fmt.Errorf("activating context %q: %w", id, err)
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}

// CloseContext closes the given context's tab. The primary context cannot be
// closed; it belongs to the browser lifecycle.
func (s *Session) CloseContext(_ context.Context, id campaign.ContextID) error {
	if id == PrimaryContext {
		return fmt.Errorf("refusing to close the primary context")
	}
	s.mu.Lock()
	t, ok := s.contexts[id]
	delete(s.contexts, id)
	if s.current == id {
		s.current = PrimaryContext
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown rendering context %q", id)
	}

	err := chromedp.Cancel(t.ctx)
	if t.cancel != nil {
		t.cancel()
	}
	if err != nil {
		return fmt.Errorf("closing context %q: %w", id, err)
	}
	return nil
}

// CurrentContext reports the focused context.
func (s *Session) CurrentContext() campaign.ContextID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// probedField mirrors the JSON shape produced by the in-page form probe.
type probedField struct {
	XPath   string `json:"xpath"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
	Options []struct {
		XPath string `json:"xpath"`
		Label string `json:"label"`
	} `json:"options"`
}

// FormFields probes the page for fillable application-form controls.
func (s *Session) FormFields(ctx context.Context) ([]campaign.FormField, error) {
	var probed []probedField
	if err := s.run(ctx, s.timeout, chromedp.Evaluate(formProbeJS, &probed)); err != nil {
		return nil, fmt.Errorf("probing form fields: %w", err)
	}
	return mapProbedFields(probed), nil
}

func mapProbedFields(probed []probedField) []campaign.FormField {
	fields := make([]campaign.FormField, 0, len(probed))
	for _, p := range probed {
		kind, ok := fieldKind(p.Kind)
		if !ok {
			continue
		}
		f := campaign.FormField{
			Ref:     campaign.ElementRef(p.XPath),
			Kind:    kind,
			Label:   p.Label,
			Checked: p.Checked,
		}
		for _, opt := range p.Options {
			f.Options = append(f.Options, campaign.FieldOption{
				Ref:   campaign.ElementRef(opt.XPath),
				Label: opt.Label,
			})
		}
		fields = append(fields, f)
	}
	return fields
}

func fieldKind(kind string) (forms.FieldKind, bool) {
	switch kind {
	case "text":
		return forms.KindText, true
	case "dropdown":
		return forms.KindDropdown, true
	case "textarea":
		return forms.KindTextarea, true
	case "radio":
		return forms.KindRadio, true
	case "checkbox":
		return forms.KindCheckbox, true
	}
	return 0, false
}

// Cookies returns all cookies of the browser profile.
func (s *Session) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, s.timeout, chromedp.ActionFunc(func(cctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(cctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("reading cookies: %w", err)
	}
	return cookies, nil
}

// SetCookies installs cookies into the browser profile.
func (s *Session) SetCookies(ctx context.Context, cookies []*network.CookieParam) error {
	if len(cookies) == 0 {
		return nil
	}
	err := s.run(ctx, s.timeout, chromedp.ActionFunc(func(cctx context.Context) error {
		return storage.SetCookies(cookies).Do(cctx)
	}))
	if err != nil {
		return fmt.Errorf("installing cookies: %w", err)
	}
	return nil
}

var _ campaign.Session = (*Session)(nil)
