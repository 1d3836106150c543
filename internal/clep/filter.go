package clep

import "github.com/openclep/clepfinder/internal/app/models"

// UserExamScore is a learner-entered score for one exam. A nil Score
// means the learner selected the exam without entering a score.
type UserExamScore struct {
	Exam  string `json:"exam"`
	Score *int   `json:"score"`
}

// Criteria is the composable filter set. Every field is optional; an
// absent criterion imposes no restriction.
type Criteria struct {
	State            string          `json:"state"`
	MinScore         *int            `json:"minScore"`
	MinCredits       *float64        `json:"minCredits"`
	MinExamsAccepted *int            `json:"minExamsAccepted"`
	ExamNames        []string        `json:"examNames"`
	UserExamScores   []UserExamScore `json:"userExamScores"`
}

// Filter applies the criteria over the institution collection and returns
// the passing subset in input order. The input is never mutated and the
// result is a fresh slice.
//
// Institutions with zero accepted exams are treated as "insufficient
// data": they are never excluded by the score or credit thresholds, but
// they do fail an ExamNames filter, since they cannot accept any of the
// named exams.
func Filter(institutions []*models.Institution, c Criteria) []*models.Institution {
	out := make([]*models.Institution, 0, len(institutions))
	for _, inst := range institutions {
		if matches(inst, c) {
			out = append(out, inst)
		}
	}
	return out
}

func matches(inst *models.Institution, c Criteria) bool {
	if c.State != "" && inst.State != c.State {
		return false
	}

	if c.MinScore != nil && inst.ExamsAccepted > 0 && inst.AvgScore > 0 {
		if inst.AvgScore < *c.MinScore {
			return false
		}
	}

	if c.MinExamsAccepted != nil && inst.ExamsAccepted < *c.MinExamsAccepted {
		return false
	}

	if len(c.ExamNames) > 0 && !matchesExams(inst, c) {
		return false
	}

	if c.MinCredits != nil && inst.ExamsAccepted > 0 {
		if !anyPolicyAwards(inst, *c.MinCredits) {
			return false
		}
	}

	return true
}

func matchesExams(inst *models.Institution, c Criteria) bool {
	acceptsAny := false
	for _, name := range c.ExamNames {
		if p := inst.PolicyFor(name); p != nil && p.Accepted() {
			acceptsAny = true
			break
		}
	}
	if !acceptsAny {
		return false
	}

	// When the learner entered scores, every scored exam among the
	// selected ones must be accepted with a met minimum. Scores for exams
	// outside the selection are ignored; no entered scores means the
	// sub-check is satisfied.
	for _, user := range c.UserExamScores {
		if user.Score == nil || !containsExam(c.ExamNames, user.Exam) {
			continue
		}
		p := inst.PolicyFor(user.Exam)
		if p == nil || !p.Accepted() {
			return false
		}
		if *user.Score < *p.MinimumScore {
			return false
		}
	}
	return true
}

func anyPolicyAwards(inst *models.Institution, minCredits float64) bool {
	for i := range inst.Policies {
		credits := inst.Policies[i].CreditsAwarded
		if credits != nil && *credits > 0 && *credits >= minCredits {
			return true
		}
	}
	return false
}

func containsExam(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
