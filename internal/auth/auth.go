// File: internal/auth/auth.go

// Package auth signs the rendering session in, preferring cookies persisted
// from an earlier run over typing credentials into the login form.
package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/browser"
	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/pacing"
)

const feedURL = "https://www.linkedin.com/feed/"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cookieRecord is the on-disk cookie shape. A dedicated type keeps the file
// format stable regardless of protocol struct changes.
type cookieRecord struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httpOnly"`
}

// Authenticator signs a browser session in and keeps its cookies on disk.
type Authenticator struct {
	session *browser.Session
	cfg     *config.Config
	clock   *pacing.Clock
	log     *zap.Logger
}

// New builds an Authenticator for the given session.
func New(session *browser.Session, cfg *config.Config, clock *pacing.Clock, log *zap.Logger) *Authenticator {
	return &Authenticator{
		session: session,
		cfg:     cfg,
		clock:   clock,
		log:     log.Named("auth"),
	}
}

// SignIn establishes an authenticated session: restored cookies first, the
// login form as fallback. Fresh cookies are persisted after a form login so
// the next run can skip it.
func (a *Authenticator) SignIn(ctx context.Context) error {
	if a.cfg.Auth.UseCookies {
		if err := a.signInWithCookies(ctx); err == nil {
			a.log.Info("Session restored from stored cookies")
			return nil
		} else {
			a.log.Debug("Cookie sign-in failed, falling back to the login form", zap.Error(err))
		}
	}

	if err := a.signInWithForm(ctx); err != nil {
		return err
	}
	if a.cfg.Auth.UseCookies {
		if err := a.saveCookies(ctx); err != nil {
			a.log.Warn("Failed to persist session cookies", zap.Error(err))
		}
	}
	return nil
}

func (a *Authenticator) signInWithCookies(ctx context.Context) error {
	records, err := readCookieRecords(a.cfg.CookiePath())
	if err != nil {
		return err
	}
	if err := a.session.SetCookies(ctx, recordsToParams(records)); err != nil {
		return err
	}

	if err := a.session.Navigate(ctx, feedURL); err != nil {
		return err
	}
	if err := a.clock.Wait(ctx, a.cfg.Session.PageSettleMin, a.cfg.Session.PageSettleMax); err != nil {
		return err
	}
	if err := a.session.WaitVisible(ctx, a.cfg.Selectors.SignedInProbe, a.cfg.Session.ElementTimeout); err != nil {
		return fmt.Errorf("stored cookies no longer authenticate: %w", err)
	}
	return nil
}

func (a *Authenticator) signInWithForm(ctx context.Context) error {
	if a.cfg.Auth.Username == "" || a.cfg.Auth.Password == "" {
		return fmt.Errorf("no credentials configured and no valid cookie session")
	}
	a.log.Info("Signing in with credentials", zap.String("username", a.cfg.Auth.Username))

	sel := a.cfg.Selectors
	if err := a.session.Navigate(ctx, a.cfg.Auth.LoginURL); err != nil {
		return err
	}
	if err := a.clock.Wait(ctx); err != nil {
		return err
	}
	if err := a.session.Type(ctx, sel.LoginUser, a.cfg.Auth.Username); err != nil {
		return fmt.Errorf("entering username: %w", err)
	}
	if err := a.clock.Wait(ctx); err != nil {
		return err
	}
	if err := a.session.Type(ctx, sel.LoginPass, a.cfg.Auth.Password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}
	if err := a.clock.Wait(ctx); err != nil {
		return err
	}
	if err := a.session.ClickLocator(ctx, sel.LoginSubmit); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	if err := a.session.WaitVisible(ctx, sel.SignedInProbe, a.cfg.Session.ElementTimeout); err != nil {
		return fmt.Errorf("sign-in not confirmed, possibly a checkpoint or bad credentials: %w", err)
	}
	a.log.Info("Signed in")
	return nil
}

func (a *Authenticator) saveCookies(ctx context.Context) error {
	cookies, err := a.session.Cookies(ctx)
	if err != nil {
		return err
	}
	records := cookiesToRecords(cookies)
	if err := writeCookieRecords(a.cfg.CookiePath(), records); err != nil {
		return err
	}
	a.log.Debug("Session cookies persisted", zap.Int("count", len(records)))
	return nil
}

func recordsToParams(records []cookieRecord) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(records))
	for _, r := range records {
		p := &network.CookieParam{
			Name:     r.Name,
			Value:    r.Value,
			Domain:   r.Domain,
			Path:     r.Path,
			Secure:   r.Secure,
			HTTPOnly: r.HTTPOnly,
		}
		if r.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(r.Expires), 0))
			p.Expires = &exp
		}
		params = append(params, p)
	}
	return params
}

func cookiesToRecords(cookies []*network.Cookie) []cookieRecord {
	records := make([]cookieRecord, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, cookieRecord{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return records
}

func readCookieRecords(path string) ([]cookieRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}
	var records []cookieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing cookie file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cookie file is empty")
	}
	return records, nil
}

func writeCookieRecords(path string, records []cookieRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cookies: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating cookie directory: %w", err)
	}
	// Session cookies are credentials; keep the file private.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing cookie file: %w", err)
	}
	return nil
}
