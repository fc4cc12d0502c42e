// File: internal/campaign/engine.go
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/pacing"
	"github.com/xkilldash9x/outreach-cli/internal/retry"
)

// state is the connection campaign's position in its page-processing cycle.
type state int

const (
	stateSearching state = iota
	stateDiscovering
	stateProcessing
	stateDraining
	statePaginating
	stateComplete
)

func (s state) String() string {
	switch s {
	case stateSearching:
		return "searching"
	case stateDiscovering:
		return "discovering"
	case stateProcessing:
		return "processing"
	case stateDraining:
		return "draining"
	case statePaginating:
		return "paginating"
	default:
		return "complete"
	}
}

// Engine runs a connection campaign: it pages through people search results,
// sends requests inline where a Connect control exists, and routes
// follow-only rows through a bounded pool of background profile tabs.
type Engine struct {
	session Session
	cfg     *config.Config
	sel     config.Selectors
	clock   *pacing.Clock
	retrier *retry.Policy
	quota   *Quota
	pool    *TabPool
	log     *zap.Logger

	stats Stats
}

// NewEngine builds a connection campaign engine over the given session.
func NewEngine(session Session, cfg *config.Config, clock *pacing.Clock, retrier *retry.Policy, log *zap.Logger) *Engine {
	return &Engine{
		session: session,
		cfg:     cfg,
		sel:     cfg.Selectors,
		clock:   clock,
		retrier: retrier,
		quota:   NewQuota(cfg.Connection.MaxConnections),
		log:     log.Named("engine"),
	}
}

// Run executes the campaign until the result pages are exhausted, the quota
// is reached, or ctx is canceled. Opened background tabs are always drained
// before Run returns, cancellation included, so no request opportunity that
// was already paid for with a page load is wasted.
func (e *Engine) Run(ctx context.Context) (stats Stats, err error) {
	e.stats = Stats{QuotaLimit: e.quota.Limit()}
	if e.cfg.Connection.SearchURL == "" {
		return e.stats, fmt.Errorf("no search URL configured")
	}
	if e.quota.Limit() == 0 {
		e.log.Info("Running with unlimited connection requests")
	} else {
		e.log.Info("Connection request cap set", zap.Int("max", e.quota.Limit()))
	}

	primary := e.session.CurrentContext()
	e.pool = NewTabPool(e.session, primary, e.cfg.Connection.MaxTabs, e.log)
	defer func() {
		// Runs past cancellation: already-opened tabs represent page loads
		// we have paid for, and they must be closed either way.
		e.drainPool(context.WithoutCancel(ctx))
		stats = e.stats
	}()

	st := stateSearching
	var targets []Target
	for st != stateComplete {
		if err := ctx.Err(); err != nil {
			e.log.Info("Campaign interrupted", zap.String("state", st.String()))
			return e.stats, err
		}

		switch st {
		case stateSearching:
			e.log.Info("Starting connection campaign", zap.String("url", e.cfg.Connection.SearchURL))
			if err := e.session.Navigate(ctx, e.cfg.Connection.SearchURL); err != nil {
				return e.stats, fmt.Errorf("navigating to search results: %w", err)
			}
			_ = e.settle(ctx)
			st = stateDiscovering

		case stateDiscovering:
			refs, err := e.discoverControls(ctx)
			if err != nil {
				return e.stats, err
			}
			targets = classifyTargets(ctx, e.session, refs)
			e.stats.Pages++
			e.log.Info("Discovered result page",
				zap.Int("page", e.stats.Pages),
				zap.Int("targets", len(targets)))
			st = stateProcessing

		case stateProcessing:
			err := e.processTargets(ctx, targets)
			switch {
			case errors.Is(err, ErrQuotaReached):
				e.log.Info("Quota reached", zap.Int("sent", e.quota.Count()))
				st = stateComplete
			case err != nil:
				return e.stats, err
			default:
				st = stateDraining
			}

		case stateDraining:
			e.drainPool(ctx)
			if e.quota.Reached() {
				e.log.Info("Quota reached", zap.Int("sent", e.quota.Count()))
				st = stateComplete
			} else {
				st = statePaginating
			}

		case statePaginating:
			err := e.nextPage(ctx)
			switch {
			case errors.Is(err, ErrNotFound):
				e.log.Info("No further result pages")
				st = stateComplete
			case err != nil:
				return e.stats, err
			default:
				_ = e.settle(ctx)
				st = stateDiscovering
			}
		}
	}

	e.log.Info("Connection campaign finished",
		zap.Int("requested", e.stats.Requested),
		zap.Int("profiles_opened", e.stats.ProfilesOpened),
		zap.Int("pages", e.stats.Pages))
	return e.stats, nil
}

// discoverControls finds the invite controls on the current page, retrying
// once after a longer wait when the page came up empty.
func (e *Engine) discoverControls(ctx context.Context) ([]ElementRef, error) {
	refs, err := e.session.FindAll(ctx, e.sel.InviteControls)
	if err != nil {
		return nil, fmt.Errorf("discovering invite controls: %w", err)
	}
	if len(refs) == 0 {
		e.log.Debug("No invite controls found, waiting for the page to settle")
		if err := e.settle(ctx); err != nil {
			return nil, err
		}
		refs, err = e.session.FindAll(ctx, e.sel.InviteControls)
		if err != nil {
			return nil, fmt.Errorf("discovering invite controls: %w", err)
		}
	}
	return refs, nil
}

// processTargets engages each target in page order. Individual failures are
// logged and skipped; only cancellation and the quota stop the page.
func (e *Engine) processTargets(ctx context.Context, targets []Target) error {
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.quota.Reached() {
			return ErrQuotaReached
		}
		if err := e.clock.Wait(ctx); err != nil {
			return err
		}

		switch t.Kind {
		case TargetConnect:
			if err := e.connectInline(ctx, t); err != nil {
				e.log.Warn("Connection request failed", zap.Error(err))
				continue
			}
			e.quota.Record()
			e.stats.Requested++
			e.log.Info("Connection request sent", zap.Int("total", e.quota.Count()))

		case TargetFollow:
			if e.pool.Full() {
				e.log.Debug("Tab pool full, draining before opening more")
				e.drainPool(ctx)
				if e.quota.Reached() {
					return ErrQuotaReached
				}
			}
			if err := e.pool.Open(ctx, t, e.sel.ProfileLink); err != nil {
				e.log.Warn("Could not open profile for follow-only row", zap.Error(err))
				continue
			}
			e.stats.ProfilesOpened++
		}
	}
	return nil
}

// connectInline clicks a Connect control and completes the request modal.
// On failure the modal is dismissed so it cannot block the rest of the page.
func (e *Engine) connectInline(ctx context.Context, t Target) error {
	err := e.retrier.Execute(ctx, "connect", func() error {
		if err := e.session.Click(ctx, t.Ref); err != nil {
			return err
		}
		if err := e.clock.Wait(ctx); err != nil {
			return err
		}
		return e.sendRequest(ctx)
	}, 2, time.Second)
	if err != nil {
		e.dismissModal(ctx)
		return err
	}
	return nil
}

// connectViaProfile sends a request from a profile page through the More
// dropdown. Used while draining the tab pool.
func (e *Engine) connectViaProfile(ctx context.Context) error {
	return e.retrier.Execute(ctx, "connect via profile", func() error {
		if err := e.session.ClickLocator(ctx, e.sel.ProfileMore); err != nil {
			return fmt.Errorf("opening More menu: %w", err)
		}
		if err := e.clock.Wait(ctx); err != nil {
			return err
		}
		if err := e.session.ClickLocator(ctx, e.sel.ProfileConnect); err != nil {
			return fmt.Errorf("clicking Connect in menu: %w", err)
		}
		if err := e.clock.Wait(ctx); err != nil {
			return err
		}
		return e.sendRequest(ctx)
	}, 2, time.Second)
}

// sendRequest completes the open request modal, preferring the no-note path.
func (e *Engine) sendRequest(ctx context.Context) error {
	err := e.session.ClickLocator(ctx, e.sel.SendWithoutNote)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clicking send without a note: %w", err)
	}
	if err := e.session.ClickLocator(ctx, e.sel.Send); err != nil {
		return fmt.Errorf("clicking send: %w", err)
	}
	return nil
}

func (e *Engine) dismissModal(ctx context.Context) {
	if err := e.session.ClickLocator(ctx, e.sel.Dismiss); err != nil && !errors.Is(err, ErrNotFound) {
		e.log.Warn("Failed to dismiss request modal", zap.Error(err))
	}
}

// drainPool processes every pooled profile tab, sending a request from each
// unless the quota fills mid-drain. Tabs are closed either way and focus
// returns to the results page.
func (e *Engine) drainPool(ctx context.Context) {
	if e.pool == nil || e.pool.OpenCount() == 0 {
		return
	}
	e.log.Info("Draining profile tabs", zap.Int("open", e.pool.OpenCount()))
	e.pool.Drain(ctx, func(ctx context.Context) (bool, error) {
		if e.quota.Reached() {
			return false, nil
		}
		if err := e.settle(ctx); err != nil {
			return false, err
		}
		if err := e.connectViaProfile(ctx); err != nil {
			return false, err
		}
		e.quota.Record()
		e.stats.Requested++
		e.log.Info("Connection request sent from profile tab", zap.Int("total", e.quota.Count()))
		return true, nil
	})
}

// nextPage advances to the next result page. ErrNotFound means the results
// are exhausted.
func (e *Engine) nextPage(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	return advancePage(ctx, e.session, e.sel, e.clock, e.retrier, e.log)
}

// advancePage drives pagination with bounded retries. ErrNotFound means the
// results are exhausted. A page that stays stuck past the retries ends the
// run the same way; the cause is logged, not escalated.
func advancePage(ctx context.Context, s Session, sel config.Selectors, clock *pacing.Clock, retrier *retry.Policy, log *zap.Logger) error {
	var exhausted bool
	err := retrier.Execute(ctx, "next page", func() error {
		err := clickNextPage(ctx, s, sel, clock, log)
		if errors.Is(err, ErrNotFound) {
			exhausted = true
			return nil
		}
		return err
	}, 2, time.Second)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		log.Warn("Pagination did not recover, treating results as exhausted", zap.Error(err))
		return ErrNotFound
	}
	if exhausted {
		return ErrNotFound
	}
	return nil
}

// clickNextPage clicks the pagination control once. A first-run tooltip can
// intercept the click; it is dismissed and the click reattempted.
// ErrNotFound means no further page exists.
func clickNextPage(ctx context.Context, s Session, sel config.Selectors, clock *pacing.Clock, log *zap.Logger) error {
	err := s.ClickLocator(ctx, sel.Next)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	log.Debug("Next click blocked, dismissing onboarding dialog")
	if derr := s.ClickLocator(ctx, sel.GotIt); derr != nil {
		log.Debug("Dialog dismissal failed", zap.NamedError("dismiss", derr))
		return fmt.Errorf("paginating: %w", err)
	}
	if err := clock.Wait(ctx); err != nil {
		return err
	}
	if err := s.ClickLocator(ctx, sel.Next); err != nil {
		return fmt.Errorf("paginating after dialog dismissal: %w", err)
	}
	return nil
}

// settle waits a page-load-sized delay.
func (e *Engine) settle(ctx context.Context) error {
	return e.clock.Wait(ctx, e.cfg.Session.PageSettleMin, e.cfg.Session.PageSettleMax)
}
