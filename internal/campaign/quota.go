// File: internal/campaign/quota.go
package campaign

import "sync"

// Quota caps the number of successful outreach actions in a run. A limit of
// zero means unlimited.
type Quota struct {
	mu    sync.Mutex
	limit int
	count int
}

// NewQuota builds a Quota with the given limit. Negative limits are treated
// as unlimited.
func NewQuota(limit int) *Quota {
	if limit < 0 {
		limit = 0
	}
	return &Quota{limit: limit}
}

// Reached reports whether the cap is hit. Unlimited quotas are never
// reached.
func (q *Quota) Reached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit > 0 && q.count >= q.limit
}

// Record counts one successful action.
func (q *Quota) Record() {
	q.mu.Lock()
	q.count++
	q.mu.Unlock()
}

// Count returns the number of recorded actions.
func (q *Quota) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Limit returns the configured cap, zero for unlimited.
func (q *Quota) Limit() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit
}
