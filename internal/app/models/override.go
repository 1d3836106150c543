package models

// PolicyOverride is an institution-supplied edit to a bulk-loaded exam
// policy, stored independently and merged over the loaded policy at read
// time. Score and credits are kept as raw strings; the normalizer applies
// the same parsing rules as the bulk loader when merging.
type PolicyOverride struct {
	ID                int64  `json:"id"`
	InstitutionDICode int64  `json:"institutionDiCode"`
	ExamName          string `json:"examName"`
	MinScore          string `json:"minScore"`
	Credits           string `json:"credits"`
	CourseCode        string `json:"courseCode"`
	LastUpdated       string `json:"lastUpdated"`
	Category          string `json:"category"`
}

// OverridePatch carries the fields of a partial override update. Nil
// fields are left untouched on merge; overrides only ever merge forward,
// a field is never cleared back to the bulk-loaded value.
type OverridePatch struct {
	MinScore   *string
	Credits    *string
	CourseCode *string
	Category   *string
}

// Empty reports whether the patch carries no fields at all.
func (p OverridePatch) Empty() bool {
	return p.MinScore == nil && p.Credits == nil && p.CourseCode == nil && p.Category == nil
}

// UpdateAction is a single validated field update extracted from a portal
// chat message.
type UpdateAction struct {
	Exam  string `json:"exam"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// Update action field names.
const (
	FieldMinScore   = "minScore"
	FieldCredits    = "credits"
	FieldCourseCode = "courseCode"
)
