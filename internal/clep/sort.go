package clep

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/openclep/clepfinder/internal/app/models"
)

// SortOrder selects one of the supported result orderings.
type SortOrder string

// Supported sort orders. Filtering never sorts; callers request one of
// these explicitly.
const (
	SortByName          SortOrder = "name"
	SortByExamsAccepted SortOrder = "exams"
	SortByAvgScore      SortOrder = "score"
)

// ParseSortOrder maps a request parameter onto a sort order, defaulting
// to name ascending.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortByExamsAccepted, SortByAvgScore, SortByName:
		return SortOrder(s)
	default:
		return SortByName
	}
}

// Sort returns a sorted copy of the institution list. Name sorts
// ascending with a locale-aware collator, exams-accepted sorts
// descending, and avg-score sorts ascending with no-data institutions
// (zero accepted exams) last. All orders are stable for equal keys.
func Sort(institutions []*models.Institution, order SortOrder) []*models.Institution {
	out := make([]*models.Institution, len(institutions))
	copy(out, institutions)

	switch order {
	case SortByExamsAccepted:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ExamsAccepted > out[j].ExamsAccepted
		})
	case SortByAvgScore:
		sort.SliceStable(out, func(i, j int) bool {
			return scoreKey(out[i]) < scoreKey(out[j])
		})
	default:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// scoreKey treats institutions with no accepted exams as effectively
// infinite so they sort after every institution with real data.
func scoreKey(inst *models.Institution) int {
	if inst.ExamsAccepted == 0 || inst.AvgScore == 0 {
		return int(^uint(0) >> 1)
	}
	return inst.AvgScore
}
