// File: internal/campaign/jobs.go
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/forms"
	"github.com/xkilldash9x/outreach-cli/internal/pacing"
	"github.com/xkilldash9x/outreach-cli/internal/retry"
)

// StatusSkipped marks jobs that exposed no simplified application flow.
const StatusSkipped = "Skipped"

// JobEngine runs a job application campaign: it pages through job search
// results, records every posting in the result sink, and walks the
// simplified application form for each, answering fields from the profile.
type JobEngine struct {
	session  Session
	cfg      *config.Config
	sel      config.Selectors
	clock    *pacing.Clock
	retrier  *retry.Policy
	resolver *forms.Resolver
	sink     ResultSink
	quota    *Quota
	log      *zap.Logger

	stats JobStats
}

// NewJobEngine builds a job campaign engine over the given session.
func NewJobEngine(session Session, cfg *config.Config, clock *pacing.Clock, retrier *retry.Policy, resolver *forms.Resolver, sink ResultSink, log *zap.Logger) *JobEngine {
	return &JobEngine{
		session:  session,
		cfg:      cfg,
		sel:      cfg.Selectors,
		clock:    clock,
		retrier:  retrier,
		resolver: resolver,
		sink:     sink,
		quota:    NewQuota(cfg.Jobs.MaxApplications),
		log:      log.Named("jobs"),
	}
}

// Run executes the campaign until the result pages are exhausted, the
// application quota is reached, or ctx is canceled.
func (e *JobEngine) Run(ctx context.Context) (JobStats, error) {
	e.stats = JobStats{QuotaLimit: e.quota.Limit()}

	if err := e.openSearch(ctx); err != nil {
		return e.stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return e.stats, err
		}

		cards, err := e.session.FindAll(ctx, e.sel.JobCards)
		if err != nil {
			return e.stats, fmt.Errorf("finding job cards: %w", err)
		}
		e.stats.Pages++
		e.log.Info("Processing job results page",
			zap.Int("page", e.stats.Pages),
			zap.Int("cards", len(cards)))

		for _, card := range cards {
			if err := ctx.Err(); err != nil {
				return e.stats, err
			}
			if e.quota.Reached() {
				e.log.Info("Application quota reached", zap.Int("submitted", e.quota.Count()))
				return e.stats, nil
			}
			if err := e.clock.Wait(ctx); err != nil {
				return e.stats, err
			}
			e.processCard(ctx, card)
		}

		if err := e.settle(ctx); err != nil {
			return e.stats, err
		}
		err = advancePage(ctx, e.session, e.sel, e.clock, e.retrier, e.log)
		if errors.Is(err, ErrNotFound) {
			e.log.Info("No further job result pages")
			break
		}
		if err != nil {
			return e.stats, err
		}
		if err := e.settle(ctx); err != nil {
			return e.stats, err
		}
	}

	e.log.Info("Job campaign finished",
		zap.Int("discovered", e.stats.Discovered),
		zap.Int("submitted", e.stats.Submitted),
		zap.Int("failed", e.stats.Failed))
	return e.stats, nil
}

// openSearch brings up the job results: a preconfigured search URL when one
// exists, otherwise a fresh search typed from keywords and location.
func (e *JobEngine) openSearch(ctx context.Context) error {
	if e.cfg.Jobs.SearchURL != "" {
		e.log.Info("Opening job search results", zap.String("url", e.cfg.Jobs.SearchURL))
		if err := e.session.Navigate(ctx, e.cfg.Jobs.SearchURL); err != nil {
			return fmt.Errorf("navigating to job search: %w", err)
		}
		return e.settle(ctx)
	}

	if e.cfg.Jobs.Keywords == "" {
		return fmt.Errorf("no job search URL or keywords configured")
	}
	e.log.Info("Searching jobs",
		zap.String("keywords", e.cfg.Jobs.Keywords),
		zap.String("location", e.cfg.Jobs.Location))

	if err := e.session.Navigate(ctx, e.cfg.Jobs.JobsURL); err != nil {
		return fmt.Errorf("navigating to jobs home: %w", err)
	}
	if err := e.settle(ctx); err != nil {
		return err
	}
	if err := e.session.Type(ctx, e.sel.SearchKeyword, e.cfg.Jobs.Keywords); err != nil {
		return fmt.Errorf("entering keywords: %w", err)
	}
	if e.cfg.Jobs.Location != "" {
		if err := e.session.Type(ctx, e.sel.SearchLocation, e.cfg.Jobs.Location); err != nil {
			return fmt.Errorf("entering location: %w", err)
		}
	}
	if err := e.session.ClickLocator(ctx, e.sel.SearchSubmit); err != nil {
		return fmt.Errorf("submitting job search: %w", err)
	}
	return e.settle(ctx)
}

// processCard records one job posting and attempts to apply to it.
// Failures mark the record and move on; they never abort the page.
func (e *JobEngine) processCard(ctx context.Context, card ElementRef) {
	rec := e.readCard(ctx, card)
	if rec.URL == "" {
		e.log.Debug("Job card carries no posting link, skipping")
		return
	}
	if err := e.sink.RecordDiscovered(rec); err != nil {
		e.log.Warn("Failed to record job", zap.String("url", rec.URL), zap.Error(err))
	}
	e.stats.Discovered++

	if err := e.session.Click(ctx, card); err != nil {
		e.log.Warn("Could not open job card", zap.String("url", rec.URL), zap.Error(err))
		return
	}
	if err := e.clock.Wait(ctx); err != nil {
		return
	}

	err := e.apply(ctx, rec)
	switch {
	case err == nil:
		e.quota.Record()
		e.stats.Submitted++
		e.setStatus(rec.URL, StatusSubmitted)
		e.log.Info("Application submitted",
			zap.String("title", rec.Title),
			zap.String("company", rec.Company),
			zap.Int("total", e.quota.Count()))
	case errors.Is(err, ErrNotFound):
		e.setStatus(rec.URL, StatusSkipped)
		e.log.Info("No simplified application flow, skipping",
			zap.String("title", rec.Title))
	default:
		e.stats.Failed++
		e.setStatus(rec.URL, StatusError)
		e.dismiss(ctx)
		e.log.Warn("Application failed",
			zap.String("title", rec.Title),
			zap.Error(err))
	}
}

// readCard extracts the posting metadata from a result card.
func (e *JobEngine) readCard(ctx context.Context, card ElementRef) JobRecord {
	rec := JobRecord{Status: StatusDiscovered}
	rec.Title = e.cardText(ctx, card, e.sel.JobCardTitle)
	rec.Company = e.cardText(ctx, card, e.sel.JobCardCompany)
	rec.Location = e.cardText(ctx, card, e.sel.JobCardLocation)
	rec.PostTime = e.cardText(ctx, card, e.sel.JobCardPostTime)

	link := relativeRef(card, e.sel.JobCardLink)
	if href, err := e.session.Attribute(ctx, link, "href"); err == nil {
		rec.URL = href
	}
	return rec
}

func (e *JobEngine) cardText(ctx context.Context, card ElementRef, rel string) string {
	text, err := e.session.Text(ctx, relativeRef(card, rel))
	if err != nil {
		return ""
	}
	return text
}

// relativeRef scopes a card-relative locator (".//...") onto a resolved card
// ref, keeping the result a single-element XPath.
func relativeRef(base ElementRef, rel string) ElementRef {
	if len(rel) > 0 && rel[0] == '.' {
		rel = rel[1:]
	}
	return ElementRef(fmt.Sprintf("(%s%s)[1]", base, rel))
}

// apply walks the simplified application flow for the currently opened
// posting: open the form, fill each step, submit, and verify the
// confirmation. The submission itself is never retried; a second click on
// Submit could double-apply.
func (e *JobEngine) apply(ctx context.Context, rec JobRecord) error {
	err := e.retrier.Execute(ctx, "open application form", func() error {
		return e.session.ClickLocator(ctx, e.sel.EasyApply)
	}, 2, time.Second)
	if err != nil {
		return err
	}
	if err := e.clock.Wait(ctx); err != nil {
		return err
	}

	if err := e.fillForm(ctx); err != nil {
		return fmt.Errorf("filling application form: %w", err)
	}

	if err := e.session.ClickLocator(ctx, e.sel.SubmitApplication); err != nil {
		return fmt.Errorf("submitting application: %w", err)
	}
	if err := e.session.WaitVisible(ctx, e.sel.SuccessIndicator, e.cfg.Session.ElementTimeout); err != nil {
		return fmt.Errorf("confirmation not shown: %w", err)
	}
	return nil
}

// fillForm answers every step of the application form until no advance
// control remains.
func (e *JobEngine) fillForm(ctx context.Context) error {
	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.clock.Wait(ctx); err != nil {
			return err
		}

		fields, err := e.session.FormFields(ctx)
		if err != nil {
			return fmt.Errorf("probing form step %d: %w", step, err)
		}
		e.log.Debug("Filling form step", zap.Int("step", step), zap.Int("fields", len(fields)))
		e.fillStep(ctx, fields)

		err = e.session.ClickLocator(ctx, e.sel.FormAdvance)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("advancing past form step %d: %w", step, err)
		}
	}
}

// fillStep answers the controls of one form step. Unresolvable labels are
// registered on the profile so the next run can answer them.
func (e *JobEngine) fillStep(ctx context.Context, fields []FormField) {
	for _, f := range fields {
		if f.Label == "" {
			continue
		}
		m, ok := e.resolver.Resolve(f.Kind, f.Label)
		if !ok {
			e.log.Debug("No answer for form field",
				zap.String("kind", f.Kind.String()),
				zap.String("label", f.Label))
			e.resolver.Augment(f.Label)
			continue
		}

		var err error
		switch f.Kind {
		case forms.KindText, forms.KindTextarea:
			err = e.session.Type(ctx, string(f.Ref), m.Value)

		case forms.KindDropdown, forms.KindRadio:
			labels := make([]string, len(f.Options))
			for i, opt := range f.Options {
				labels[i] = opt.Label
			}
			idx := forms.MatchOption(m.Value, labels)
			if idx < 0 {
				e.log.Debug("No option matches the stored answer",
					zap.String("label", f.Label),
					zap.String("answer", m.Value))
				continue
			}
			err = e.session.Click(ctx, f.Options[idx].Ref)

		case forms.KindCheckbox:
			if forms.IsAffirmative(m.Value) != f.Checked {
				err = e.session.Click(ctx, f.Ref)
			}
		}

		if err != nil {
			e.log.Warn("Failed to fill form field",
				zap.String("label", f.Label),
				zap.Error(err))
			continue
		}
		e.log.Debug("Filled form field",
			zap.String("label", f.Label),
			zap.String("key", m.Key))
		_ = e.throttleShort(ctx)
	}
}

func (e *JobEngine) throttleShort(ctx context.Context) error {
	return e.clock.Wait(ctx, 200*time.Millisecond, 600*time.Millisecond)
}

func (e *JobEngine) setStatus(url, status string) {
	if err := e.sink.UpdateStatus(url, status); err != nil {
		e.log.Warn("Failed to update job status", zap.String("url", url), zap.Error(err))
	}
}

func (e *JobEngine) dismiss(ctx context.Context) {
	if err := e.session.ClickLocator(ctx, e.sel.Dismiss); err != nil && !errors.Is(err, ErrNotFound) {
		e.log.Warn("Failed to dismiss application modal", zap.Error(err))
	}
}

func (e *JobEngine) settle(ctx context.Context) error {
	return e.clock.Wait(ctx, e.cfg.Session.PageSettleMin, e.cfg.Session.PageSettleMax)
}
