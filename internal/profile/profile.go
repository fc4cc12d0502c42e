// File: internal/profile/profile.go

// Package profile holds the answers used to fill application forms, keyed by
// normalized field names, and grows its key set as unknown fields are seen.
package profile

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Record maps normalized profile keys to the user's answers. Empty values
// mean the key is known but unanswered.
type Record map[string]string

// Value returns the answer for key. The second return is false when the key
// is absent or the answer is empty.
func (r Record) Value(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether the key exists at all, answered or not.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Keys returns all known keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PersistFunc writes a newly discovered key through to the backing
// configuration so the user can answer it before the next run.
type PersistFunc func(key string) error

// Store wraps a Record with safe concurrent access and write-through
// persistence of newly discovered keys.
type Store struct {
	mu      sync.Mutex
	rec     Record
	persist PersistFunc
	log     *zap.Logger
}

// NewStore builds a Store around rec. persist may be nil, in which case new
// keys live only in memory.
func NewStore(rec Record, persist PersistFunc, log *zap.Logger) *Store {
	if rec == nil {
		rec = Record{}
	}
	return &Store{rec: rec, persist: persist, log: log.Named("profile")}
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Record, len(s.rec))
	for k, v := range s.rec {
		out[k] = v
	}
	return out
}

// Value looks up a non-empty answer for key.
func (s *Store) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Value(key)
}

// Has reports whether key is known.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Has(key)
}

// Add registers a newly discovered key with an empty answer and persists it.
// Adding an existing key is a no-op, so repeat sightings of the same form
// field never touch the configuration twice.
func (s *Store) Add(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	if s.rec.Has(key) {
		s.mu.Unlock()
		return
	}
	s.rec[key] = ""
	s.mu.Unlock()

	s.log.Debug("Discovered unanswered form field", zap.String("key", key))
	if s.persist != nil {
		if err := s.persist(key); err != nil {
			s.log.Warn("Failed to persist discovered field", zap.String("key", key), zap.Error(err))
		}
	}
}

// NormalizeKey converts a form label into a profile key: lowercased, spaces
// and hyphens collapsed to underscores, all other punctuation stripped.
func NormalizeKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
