// File: internal/campaign/jobs_test.go
package campaign

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/forms"
	"github.com/xkilldash9x/outreach-cli/internal/pacing"
	"github.com/xkilldash9x/outreach-cli/internal/profile"
	"github.com/xkilldash9x/outreach-cli/internal/retry"
)

func newTestJobEngine(fs *fakeSession, cfg *config.Config, rec profile.Record, sink ResultSink) *JobEngine {
	clock := pacing.NewClock(cfg.Pacing, zap.NewNop())
	resolver := forms.NewResolver(profile.NewStore(rec, nil, zap.NewNop()), zap.NewNop())
	return NewJobEngine(fs, cfg, clock, retry.NewPolicy(zap.NewNop()), resolver, sink, zap.NewNop())
}

// seedJobCard puts one job card with full metadata on the results page and
// returns its posting URL.
func seedJobCard(fs *fakeSession, sel config.Selectors, idx int) (ElementRef, string) {
	card := ElementRef(jobCardRef(idx))
	url := jobURL(idx)
	fs.pages[sel.JobCards] = append(fs.pages[sel.JobCards], card)
	fs.texts[relativeRef(card, sel.JobCardTitle)] = "Go Engineer"
	fs.texts[relativeRef(card, sel.JobCardCompany)] = "Acme Corp"
	fs.texts[relativeRef(card, sel.JobCardLocation)] = "Berlin, Germany"
	fs.texts[relativeRef(card, sel.JobCardPostTime)] = "2 days ago"
	fs.setAttr(relativeRef(card, sel.JobCardLink), "href", url)
	return card, url
}

func jobCardRef(idx int) string {
	return fmt.Sprintf("//div[contains(@class,'job-card-container')][%d]", idx)
}

func jobURL(idx int) string {
	return fmt.Sprintf("https://example.com/jobs/view/%d", idx)
}

func TestJobRunSubmitsApplication(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = "https://example.com/jobs/search?keywords=golang"
	sel := cfg.Selectors

	fs := newFakeSession()
	_, url := seedJobCard(fs, sel, 1)
	fs.allowClick(sel.EasyApply, sel.SubmitApplication)
	fs.formSteps = [][]FormField{
		{
			{Ref: "//input[@id='phone']", Kind: forms.KindText, Label: "Mobile phone number"},
			{
				Ref:  "//fieldset[1]",
				Kind: forms.KindRadio, Label: "Will you require sponsorship?",
				Options: []FieldOption{
					{Ref: "//fieldset[1]//label[1]", Label: "Yes"},
					{Ref: "//fieldset[1]//label[2]", Label: "No"},
				},
			},
		},
	}
	advances := 0
	fs.onClickLocator = func(loc string) (error, bool) {
		if loc == sel.FormAdvance {
			advances++
			if advances == 1 {
				return nil, true // one review step, then submit
			}
			return ErrNotFound, true
		}
		return nil, false
	}

	sink := newFakeSink()
	stats, err := newTestJobEngine(fs, cfg, profile.Record{
		"phone":               "555-0100",
		"require_sponsorship": "No",
	}, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Discovered)
	assert.Equal(t, 1, stats.Submitted)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, StatusSubmitted, sink.status(url))
	assert.Equal(t, "555-0100", fs.typed["//input[@id='phone']"])
	assert.Contains(t, fs.clicked, "//fieldset[1]//label[2]", "the No radio option must be chosen")

	require.Len(t, sink.recs, 1)
	assert.Equal(t, "Go Engineer", sink.recs[0].Title)
	assert.Equal(t, "Acme Corp", sink.recs[0].Company)
	assert.Equal(t, "Berlin, Germany", sink.recs[0].Location)
}

func TestJobRunSkipsPostingsWithoutSimplifiedFlow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = "https://example.com/jobs/search"
	sel := cfg.Selectors

	fs := newFakeSession()
	_, url := seedJobCard(fs, sel, 1)
	// EasyApply stays unregistered, so the click reports ErrNotFound.

	sink := newFakeSink()
	stats, err := newTestJobEngine(fs, cfg, profile.Record{}, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Discovered)
	assert.Zero(t, stats.Submitted)
	assert.Zero(t, stats.Failed, "a missing flow is a skip, not a failure")
	assert.Equal(t, StatusSkipped, sink.status(url))
}

func TestJobRunMarksFailureWhenConfirmationMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = "https://example.com/jobs/search"
	sel := cfg.Selectors

	fs := newFakeSession()
	_, url := seedJobCard(fs, sel, 1)
	fs.allowClick(sel.EasyApply, sel.SubmitApplication)
	fs.waitErrs[sel.SuccessIndicator] = ErrNotFound

	sink := newFakeSink()
	stats, err := newTestJobEngine(fs, cfg, profile.Record{}, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Submitted)
	assert.Equal(t, StatusError, sink.status(url))
	assert.Equal(t, 1, fs.clickedCount(sel.Dismiss), "the hung application modal must be dismissed")
	// The submit control is clicked exactly once: double-submitting is
	// worse than failing.
	assert.Equal(t, 1, fs.clickedCount(sel.SubmitApplication))
}

func TestJobRunStopsAtQuota(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = "https://example.com/jobs/search"
	cfg.Jobs.MaxApplications = 1
	sel := cfg.Selectors

	fs := newFakeSession()
	seedJobCard(fs, sel, 1)
	seedJobCard(fs, sel, 2)
	fs.allowClick(sel.EasyApply, sel.SubmitApplication)

	sink := newFakeSink()
	stats, err := newTestJobEngine(fs, cfg, profile.Record{}, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Submitted)
	assert.Equal(t, 1, stats.Discovered, "the second card is never touched")
	assert.Equal(t, 1, fs.clickedCount(sel.EasyApply))
}

func TestJobRunSearchesByKeywords(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = ""
	cfg.Jobs.Keywords = "site reliability engineer"
	cfg.Jobs.Location = "Berlin"
	sel := cfg.Selectors

	fs := newFakeSession()
	fs.allowClick(sel.SearchSubmit)

	stats, err := newTestJobEngine(fs, cfg, profile.Record{}, newFakeSink()).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fs.navigated, cfg.Jobs.JobsURL)
	assert.Equal(t, "site reliability engineer", fs.typed[sel.SearchKeyword])
	assert.Equal(t, "Berlin", fs.typed[sel.SearchLocation])
	assert.Zero(t, stats.Discovered)
}

func TestJobRunRequiresSearchInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.SearchURL = ""
	cfg.Jobs.Keywords = ""

	_, err := newTestJobEngine(newFakeSession(), cfg, profile.Record{}, newFakeSink()).Run(context.Background())
	assert.Error(t, err)
}
