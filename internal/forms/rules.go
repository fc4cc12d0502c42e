// File: internal/forms/rules.go
package forms

// FieldKind classifies a form control so the right rule table and fill
// strategy apply.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDropdown
	KindTextarea
	KindRadio
	KindCheckbox
)

// String returns the kind name used in logs.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDropdown:
		return "dropdown"
	case KindTextarea:
		return "textarea"
	case KindRadio:
		return "radio"
	case KindCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// Rule maps a label substring to a profile key. Rules are evaluated in
// order; the first pattern contained in the lowercased label whose profile
// key has a non-empty answer wins.
type Rule struct {
	Pattern string
	Key     string
}

// textRules match free-text inputs (text, tel, email, url).
var textRules = []Rule{
	{"name", "full_name"},
	{"first name", "full_name"},
	{"last name", "full_name"},
	{"phone", "phone"},
	{"email", "email"},
	{"address", "location"},
	{"city", "location"},
	{"years of experience", "years_of_experience"},
	{"linkedin", "linkedin_profile"},
	{"website", "linkedin_profile"},
	{"salary", "expected_salary"},
	{"notice period", "notice_period"},
	{"university", "school"},
	{"college", "school"},
	{"institution", "school"},
	{"gpa", "gpa"},
	{"graduation date", "graduation_date"},
	{"company", "current_company"},
	{"job title", "current_job_title"},
	{"years", "total_years_experience"},
}

var dropdownRules = []Rule{
	{"education", "education_level"},
	{"degree", "education_level"},
	{"field of study", "field_of_study"},
	{"major", "field_of_study"},
	{"authorization", "work_authorization"},
	{"sponsorship", "require_sponsorship"},
	{"relocate", "willing_to_relocate"},
	{"work location", "remote_preference"},
	{"remote", "remote_preference"},
	{"language", "languages"},
}

var textareaRules = []Rule{
	{"reason", "reason_for_leaving"},
	{"leaving", "reason_for_leaving"},
	{"skills", "technical_skills"},
	{"technical", "technical_skills"},
	{"soft skills", "soft_skills"},
	{"experience", "total_years_experience"},
	{"additional information", "additional_information"},
}

var radioRules = []Rule{
	{"relocate", "willing_to_relocate"},
	{"work remotely", "remote_preference"},
	{"authorized", "work_authorization"},
	{"sponsorship", "require_sponsorship"},
}

// Checkboxes carry no pattern table; their labels normalize directly to a
// profile key.
var checkboxRules []Rule

func rulesFor(kind FieldKind) []Rule {
	switch kind {
	case KindText:
		return textRules
	case KindDropdown:
		return dropdownRules
	case KindTextarea:
		return textareaRules
	case KindRadio:
		return radioRules
	default:
		return checkboxRules
	}
}
