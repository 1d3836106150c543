package clep

import (
	"math"

	"github.com/openclep/clepfinder/internal/app/models"
)

// ExamStatistics summarizes one exam's acceptance terms across all
// institutions, for the comparison views.
type ExamStatistics struct {
	ExamName              string  `json:"examName"`
	UniversitiesAccepting int     `json:"universitiesAccepting"`
	AverageMinimumScore   int     `json:"averageMinimumScore"`
	AverageCreditsAwarded float64 `json:"averageCreditsAwarded"`
	MinScore              int     `json:"minScore"`
	MaxScore              int     `json:"maxScore"`
}

// ComputeExamStatistics aggregates the named exam over the given
// institutions. Returns nil when no institution accepts the exam.
func ComputeExamStatistics(institutions []*models.Institution, examName string) *ExamStatistics {
	var scores []int
	var credits []float64

	for _, inst := range institutions {
		p := inst.PolicyFor(examName)
		if p == nil || !p.Accepted() {
			continue
		}
		scores = append(scores, *p.MinimumScore)
		if p.CreditsAwarded != nil {
			credits = append(credits, *p.CreditsAwarded)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	stats := &ExamStatistics{
		ExamName:              examName,
		UniversitiesAccepting: len(scores),
		MinScore:              scores[0],
		MaxScore:              scores[0],
	}

	total := 0
	for _, s := range scores {
		total += s
		if s < stats.MinScore {
			stats.MinScore = s
		}
		if s > stats.MaxScore {
			stats.MaxScore = s
		}
	}
	stats.AverageMinimumScore = int(math.Round(float64(total) / float64(len(scores))))

	if len(credits) > 0 {
		sum := 0.0
		for _, c := range credits {
			sum += c
		}
		// One decimal place, matching the comparison view.
		stats.AverageCreditsAwarded = math.Round(sum/float64(len(credits))*10) / 10
	}
	return stats
}
