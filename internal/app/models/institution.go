package models

// ExamPolicy represents one exam's acceptance terms at one institution.
// A nil MinimumScore means the exam is not accepted; zero is never stored.
type ExamPolicy struct {
	ExamName         string   `json:"examName"`
	MinimumScore     *int     `json:"minimumScore"`
	CreditsAwarded   *float64 `json:"creditsAwarded"`
	CourseEquivalent string   `json:"courseEquivalent,omitempty"`
}

// Accepted reports whether the exam is accepted at this institution.
func (p *ExamPolicy) Accepted() bool {
	return p.MinimumScore != nil && *p.MinimumScore > 0
}

// Institution represents one college/university and its CLEP policy list.
// ExamsAccepted and AvgScore are derived; they are recomputed whenever the
// policy list changes and are never persisted.
type Institution struct {
	ID                         int64        `json:"id"`
	Name                       string       `json:"name"`
	City                       string       `json:"city"`
	State                      string       `json:"state"`
	Zip                        string       `json:"zip,omitempty"`
	DICode                     int64        `json:"diCode"`
	Enrollment                 int          `json:"enrollment"`
	URL                        string       `json:"url,omitempty"`
	MaxCredits                 int          `json:"maxCredits"`
	TranscriptionFee           float64      `json:"transcriptionFee"`
	ScoreValidityYears         int          `json:"scoreValidityYears"`
	CanUseForFailedCourses     bool         `json:"canUseForFailedCourses"`
	CanEnrolledStudentsUseCLEP bool         `json:"canEnrolledStudentsUseClep"`
	MseaOrgID                  string       `json:"mseaOrgId,omitempty"`
	ExamsAccepted              int          `json:"examsAccepted"`
	AvgScore                   int          `json:"avgScore"`
	Policies                   []ExamPolicy `json:"policies"`
}

// PolicyFor returns the policy entry for the named exam, or nil when the
// exam is not in the institution's policy list.
func (i *Institution) PolicyFor(examName string) *ExamPolicy {
	for idx := range i.Policies {
		if i.Policies[idx].ExamName == examName {
			return &i.Policies[idx]
		}
	}
	return nil
}

// Clone returns a deep copy, including the policy list. Callers that merge
// overrides into a cached institution must clone first so the shared cache
// entry is never mutated.
func (i *Institution) Clone() *Institution {
	out := *i
	out.Policies = make([]ExamPolicy, len(i.Policies))
	copy(out.Policies, i.Policies)
	for idx := range i.Policies {
		if i.Policies[idx].MinimumScore != nil {
			v := *i.Policies[idx].MinimumScore
			out.Policies[idx].MinimumScore = &v
		}
		if i.Policies[idx].CreditsAwarded != nil {
			v := *i.Policies[idx].CreditsAwarded
			out.Policies[idx].CreditsAwarded = &v
		}
	}
	return &out
}
