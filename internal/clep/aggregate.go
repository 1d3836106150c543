package clep

import (
	"math"

	"github.com/openclep/clepfinder/internal/app/models"
)

// Recompute refreshes the derived statistics on an institution from its
// policy list: ExamsAccepted is the count of accepted policies, AvgScore
// the rounded mean of their minimum scores (0 when none are accepted).
// Must be called after any change to the policy list so derived values
// are never stale.
func Recompute(inst *models.Institution) {
	total := 0
	count := 0
	for i := range inst.Policies {
		if inst.Policies[i].Accepted() {
			total += *inst.Policies[i].MinimumScore
			count++
		}
	}
	inst.ExamsAccepted = count
	if count == 0 {
		inst.AvgScore = 0
		return
	}
	inst.AvgScore = int(math.Round(float64(total) / float64(count)))
}
