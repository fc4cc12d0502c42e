// File: internal/forms/resolver.go

// Package forms maps application-form labels onto profile answers. Matching
// is fuzzy: an ordered rule table per control kind, then a direct lookup of
// the profile key spelled out inside the label. Labels that match nothing
// get registered on the profile so the user can answer them next time.
package forms

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/profile"
)

// Match is a resolved label: the profile key that matched and its answer.
type Match struct {
	Key   string
	Value string
}

// Resolver turns form labels into profile answers.
type Resolver struct {
	store *profile.Store
	log   *zap.Logger
}

// NewResolver builds a Resolver over the given profile store.
func NewResolver(store *profile.Store, log *zap.Logger) *Resolver {
	return &Resolver{store: store, log: log.Named("forms")}
}

// Resolve maps a field label to a profile answer. Rule patterns for the
// control kind are tried in order; a pattern matches when it appears inside
// the lowercased label and the mapped key holds a non-empty answer. Failing
// that, any profile key whose underscores-to-spaces form appears in the
// label matches. Checkbox labels skip the tables and normalize straight to a
// key. The second return is false when nothing matched.
func (r *Resolver) Resolve(kind FieldKind, label string) (Match, bool) {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return Match{}, false
	}

	if kind == KindCheckbox {
		key := profile.NormalizeKey(lowered)
		if v, ok := r.store.Value(key); ok {
			return Match{Key: key, Value: v}, true
		}
		return Match{}, false
	}

	for _, rule := range rulesFor(kind) {
		if strings.Contains(lowered, rule.Pattern) {
			if v, ok := r.store.Value(rule.Key); ok {
				return Match{Key: rule.Key, Value: v}, true
			}
		}
	}

	// Loose fallback: a profile key written out in the label, e.g. a field
	// labeled "Expected salary in EUR" matching the expected_salary key.
	rec := r.store.Snapshot()
	for _, key := range rec.Keys() {
		spelled := strings.ReplaceAll(key, "_", " ")
		if strings.Contains(lowered, spelled) {
			if v, ok := rec.Value(key); ok {
				return Match{Key: key, Value: v}, true
			}
		}
	}
	return Match{}, false
}

// Augment registers an unmatched label as a new profile key. Labels shorter
// than three characters are noise and are dropped.
func (r *Resolver) Augment(label string) {
	label = strings.TrimSpace(label)
	if len(label) < 3 {
		return
	}
	key := profile.NormalizeKey(label)
	if key == "" {
		return
	}
	r.store.Add(key)
}

// IsAffirmative reports whether a stored answer means "check the box".
func IsAffirmative(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "checked":
		return true
	}
	return false
}

// MatchOption picks the option best matching the stored answer: mutual
// substring containment first, then a shared yes/no token. Returns -1 when
// no option fits.
func MatchOption(value string, options []string) int {
	want := strings.ToLower(strings.TrimSpace(value))
	if want == "" {
		return -1
	}
	for i, opt := range options {
		have := strings.ToLower(strings.TrimSpace(opt))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return i
		}
	}
	wantYes := strings.Contains(want, "yes")
	wantNo := strings.Contains(want, "no")
	for i, opt := range options {
		have := strings.ToLower(opt)
		if wantYes && strings.Contains(have, "yes") {
			return i
		}
		if wantNo && strings.Contains(have, "no") {
			return i
		}
	}
	return -1
}
