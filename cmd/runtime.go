// -- cmd/runtime.go --
package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/auth"
	"github.com/xkilldash9x/outreach-cli/internal/browser"
	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/pacing"
	"github.com/xkilldash9x/outreach-cli/internal/retry"
)

// runtimeComponents holds the services a campaign needs: a live, signed-in
// browser session plus the pacing and retry helpers driving it.
type runtimeComponents struct {
	Manager *browser.Manager
	Session *browser.Session
	Clock   *pacing.Clock
	Retrier *retry.Policy
}

// Shutdown tears the browser down. Safe to call after a partial init.
func (rc *runtimeComponents) Shutdown() {
	if rc.Manager != nil {
		rc.Manager.Close()
	}
}

// initializeRuntime handles dependency injection for both campaign commands:
// it launches the browser, opens the primary session and signs it in.
func initializeRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runtimeComponents, error) {
	components := &runtimeComponents{}

	manager, err := browser.NewManager(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	components.Manager = manager
	components.Session = manager.NewSession()
	components.Clock = pacing.NewClock(cfg.Pacing, logger)
	components.Retrier = retry.NewPolicy(logger)

	authenticator := auth.New(components.Session, cfg, components.Clock, logger)
	if err := authenticator.SignIn(ctx); err != nil {
		return components, fmt.Errorf("failed to sign in: %w", err)
	}
	return components, nil
}
