// File: internal/forms/resolver_test.go
package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/profile"
)

func newTestResolver(rec profile.Record, persist profile.PersistFunc) *Resolver {
	store := profile.NewStore(rec, persist, zap.NewNop())
	return NewResolver(store, zap.NewNop())
}

func TestResolveTextRules(t *testing.T) {
	r := newTestResolver(profile.Record{
		"full_name":        "Ada Lovelace",
		"phone":            "555-0100",
		"expected_salary":  "90000",
		"school":           "Cambridge",
		"current_company":  "Analytical Engines Ltd",
		"linkedin_profile": "https://www.linkedin.com/in/ada",
	}, nil)

	cases := []struct {
		label   string
		wantKey string
	}{
		{"First Name", "full_name"},
		{"Mobile phone number", "phone"},
		{"Expected salary", "expected_salary"},
		{"University attended", "school"},
		{"Current company", "current_company"},
		{"LinkedIn URL", "linkedin_profile"},
	}
	for _, tc := range cases {
		m, ok := r.Resolve(KindText, tc.label)
		require.True(t, ok, "label %q should resolve", tc.label)
		assert.Equal(t, tc.wantKey, m.Key, "label %q", tc.label)
	}
}

func TestResolveRuleOrderWins(t *testing.T) {
	// "years of experience" precedes the bare "years" pattern, so the more
	// specific key must win when both could match.
	r := newTestResolver(profile.Record{
		"years_of_experience":    "8",
		"total_years_experience": "12",
	}, nil)

	m, ok := r.Resolve(KindText, "Years of experience with Go")
	require.True(t, ok)
	assert.Equal(t, "years_of_experience", m.Key)
	assert.Equal(t, "8", m.Value)

	m, ok = r.Resolve(KindText, "Years in industry")
	require.True(t, ok)
	assert.Equal(t, "total_years_experience", m.Key)
}

func TestResolveSkipsRulesWithEmptyAnswers(t *testing.T) {
	// An unanswered key must not satisfy a rule; the next rule or the
	// fallback may still apply.
	r := newTestResolver(profile.Record{
		"reason_for_leaving": "",
		"technical_skills":   "Go, Kubernetes",
	}, nil)

	m, ok := r.Resolve(KindTextarea, "Reason you have these skills")
	require.True(t, ok)
	assert.Equal(t, "technical_skills", m.Key)
}

func TestResolveDropdownAndRadio(t *testing.T) {
	r := newTestResolver(profile.Record{
		"education_level":     "Master's",
		"require_sponsorship": "No",
		"willing_to_relocate": "Yes",
	}, nil)

	m, ok := r.Resolve(KindDropdown, "Highest degree completed")
	require.True(t, ok)
	assert.Equal(t, "education_level", m.Key)

	m, ok = r.Resolve(KindRadio, "Will you now or in the future require sponsorship?")
	require.True(t, ok)
	assert.Equal(t, "require_sponsorship", m.Key)
	assert.Equal(t, "No", m.Value)
}

func TestResolveLooseFallback(t *testing.T) {
	r := newTestResolver(profile.Record{
		"notice_period": "4 weeks",
	}, nil)

	// No dropdown rule mentions notice period; the spelled-out key match
	// catches it.
	m, ok := r.Resolve(KindDropdown, "What is your notice period?")
	require.True(t, ok)
	assert.Equal(t, "notice_period", m.Key)
	assert.Equal(t, "4 weeks", m.Value)
}

func TestResolveCheckboxUsesNormalizedKey(t *testing.T) {
	r := newTestResolver(profile.Record{
		"agree_to_terms": "yes",
	}, nil)

	m, ok := r.Resolve(KindCheckbox, "Agree to terms")
	require.True(t, ok)
	assert.Equal(t, "agree_to_terms", m.Key)
	assert.True(t, IsAffirmative(m.Value))

	_, ok = r.Resolve(KindCheckbox, "Subscribe to newsletter")
	assert.False(t, ok)
}

func TestResolveUnmatchedLabel(t *testing.T) {
	r := newTestResolver(profile.Record{"full_name": "Ada"}, nil)

	_, ok := r.Resolve(KindText, "Security clearance level")
	assert.False(t, ok)
}

func TestAugmentRegistersNewKeysOnce(t *testing.T) {
	var persisted []string
	r := newTestResolver(profile.Record{}, func(key string) error {
		persisted = append(persisted, key)
		return nil
	})

	r.Augment("Security clearance level")
	r.Augment("Security clearance level")
	r.Augment("security-clearance level")

	assert.Equal(t, []string{"security_clearance_level"}, persisted)
}

func TestAugmentDropsShortLabels(t *testing.T) {
	var persisted []string
	r := newTestResolver(profile.Record{}, func(key string) error {
		persisted = append(persisted, key)
		return nil
	})

	r.Augment("ID")
	r.Augment("  x ")
	assert.Empty(t, persisted)
}

func TestIsAffirmative(t *testing.T) {
	for _, v := range []string{"yes", "Yes", "TRUE", "1", "checked", " yes "} {
		assert.True(t, IsAffirmative(v), "%q", v)
	}
	for _, v := range []string{"no", "false", "0", "", "maybe"} {
		assert.False(t, IsAffirmative(v), "%q", v)
	}
}

func TestMatchOption(t *testing.T) {
	opts := []string{"Select an option", "Bachelor's Degree", "Master's Degree", "Doctorate"}
	assert.Equal(t, 2, MatchOption("Master's", opts))
	assert.Equal(t, 1, MatchOption("bachelor's degree", opts))
	assert.Equal(t, -1, MatchOption("High school", opts))

	yesNo := []string{"Yes, I am willing", "No, I am not"}
	assert.Equal(t, 0, MatchOption("yes", yesNo))
	assert.Equal(t, 1, MatchOption("no", yesNo))
	assert.Equal(t, -1, MatchOption("", yesNo))
}
