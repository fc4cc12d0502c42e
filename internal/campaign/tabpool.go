// File: internal/campaign/tabpool.go
package campaign

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TabPool holds the background contexts opened for follow-only rows. The
// pool is bounded; when it fills, the caller drains it before opening more.
// Focus stays on the primary context except while draining, and draining
// always restores it.
type TabPool struct {
	session Session
	primary ContextID
	max     int
	slots   []ContextID
	log     *zap.Logger
}

// NewTabPool builds a pool of at most max background contexts. primary is
// the context focus returns to after every drain.
func NewTabPool(session Session, primary ContextID, max int, log *zap.Logger) *TabPool {
	if max < 1 {
		max = 1
	}
	return &TabPool{
		session: session,
		primary: primary,
		max:     max,
		log:     log.Named("tabpool"),
	}
}

// Full reports whether the pool has no free slot.
func (p *TabPool) Full() bool {
	return len(p.slots) >= p.max
}

// OpenCount returns the number of occupied slots.
func (p *TabPool) OpenCount() int {
	return len(p.slots)
}

// Open resolves the detail link next to the target and loads it in a new
// background context. Focus on the primary context is not disturbed.
// Returns ErrNoDetailLink when the row carries no usable link.
func (p *TabPool) Open(ctx context.Context, target Target, linkLocator string) error {
	if p.Full() {
		return fmt.Errorf("tab pool is full (%d slots)", p.max)
	}

	// The link locator is relative to the invite control's row; composing
	// it onto the control ref keeps the lookup row-scoped.
	link := ElementRef(fmt.Sprintf("(%s/%s)[1]", target.Ref, linkLocator))
	href, err := p.session.Attribute(ctx, link, "href")
	if err != nil || href == "" {
		return ErrNoDetailLink
	}

	id, err := p.session.OpenContext(ctx, href)
	if err != nil {
		return fmt.Errorf("opening background context for %s: %w", href, err)
	}
	p.slots = append(p.slots, id)
	p.log.Debug("Opened profile in background context",
		zap.String("url", href),
		zap.Int("open", len(p.slots)),
		zap.Int("max", p.max))
	return nil
}

// Drain visits every pooled context in order, runs handler with that context
// focused, and closes it. Every slot is closed even when its handler fails.
// Focus is restored to the primary context before Drain returns, including
// on error paths. Returns the number of handlers that reported success.
func (p *TabPool) Drain(ctx context.Context, handler func(context.Context) (bool, error)) int {
	if len(p.slots) == 0 {
		return 0
	}
	defer func() {
		if err := p.session.SwitchContext(ctx, p.primary); err != nil {
			p.log.Warn("Failed to restore primary context", zap.Error(err))
		}
	}()

	succeeded := 0
	for _, id := range p.slots {
		if err := p.session.SwitchContext(ctx, id); err != nil {
			p.log.Warn("Failed to focus pooled context", zap.String("context", string(id)), zap.Error(err))
			p.close(ctx, id)
			continue
		}
		if handler != nil {
			ok, err := handler(ctx)
			if err != nil {
				p.log.Warn("Pooled context handler failed", zap.String("context", string(id)), zap.Error(err))
			} else if ok {
				succeeded++
			}
		}
		p.close(ctx, id)
	}
	p.slots = p.slots[:0]
	return succeeded
}

func (p *TabPool) close(ctx context.Context, id ContextID) {
	if err := p.session.CloseContext(ctx, id); err != nil {
		p.log.Warn("Failed to close pooled context", zap.String("context", string(id)), zap.Error(err))
	}
}
