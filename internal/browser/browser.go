// File: internal/browser/browser.go

// Package browser owns the Chrome process and exposes a rendering Session
// the campaigns drive over the DevTools protocol.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/config"
)

// Manager handles the browser process lifecycle and session creation.
type Manager struct {
	cfg *config.Config
	log *zap.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewManager launches a Chrome instance configured for campaign traffic.
// The returned manager must be closed to tear the process down.
func NewManager(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Manager, error) {
	m := &Manager{
		cfg: cfg,
		log: log.Named("browser"),
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", cfg.Browser.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Automation banners and navigator.webdriver give the session away.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(cfg.Browser.UserAgent),
		chromedp.WindowSize(cfg.Browser.Width, cfg.Browser.Height),
	)
	for _, arg := range cfg.Browser.Args {
		name := strings.TrimLeft(arg, "-")
		if k, v, ok := strings.Cut(name, "="); ok {
			opts = append(opts, chromedp.Flag(k, v))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	m.allocCancel = allocCancel

	m.browserCtx, m.browserCancel = chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			m.log.Debug(fmt.Sprintf(format, args...))
		}))

	// First Run starts the process; fail fast if Chrome cannot come up.
	if err := chromedp.Run(m.browserCtx, chromedp.Navigate("about:blank")); err != nil {
		m.Close()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	m.log.Info("Browser launched",
		zap.Bool("headless", cfg.Browser.Headless),
		zap.Int("width", cfg.Browser.Width),
		zap.Int("height", cfg.Browser.Height))
	return m, nil
}

// NewSession returns a Session bound to the browser's primary tab.
func (m *Manager) NewSession() *Session {
	return newSession(m.browserCtx, m.cfg, m.log)
}

// Close shuts the browser process down.
func (m *Manager) Close() {
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.log.Info("Browser closed")
}
