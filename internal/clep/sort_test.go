package clep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models"
)

func TestSortByNameAscending(t *testing.T) {
	list := []*models.Institution{
		testInstitution(1, "zeta college", "", nil),
		testInstitution(2, "Alpha University", "", nil),
		testInstitution(3, "maple State", "", nil),
	}
	got := Sort(list, SortByName)
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha University", got[0].Name)
	assert.Equal(t, "maple State", got[1].Name)
	assert.Equal(t, "zeta college", got[2].Name)

	// Input order untouched.
	assert.Equal(t, "zeta college", list[0].Name)
}

func TestSortByExamsAcceptedDescending(t *testing.T) {
	list := []*models.Institution{
		testInstitution(1, "One", "", map[string][2]float64{"Biology": {50, 3}}),
		testInstitution(2, "Two", "", map[string][2]float64{"Biology": {50, 3}, "Chemistry": {55, 3}}),
		testInstitution(3, "None", "", nil),
	}
	got := Sort(list, SortByExamsAccepted)
	assert.Equal(t, "Two", got[0].Name)
	assert.Equal(t, "One", got[1].Name)
	assert.Equal(t, "None", got[2].Name)
}

func TestSortByAvgScoreNoDataLast(t *testing.T) {
	list := []*models.Institution{
		testInstitution(1, "No Data", "", nil),
		testInstitution(2, "High", "", map[string][2]float64{"Biology": {70, 3}}),
		testInstitution(3, "Low", "", map[string][2]float64{"Biology": {45, 3}}),
	}
	got := Sort(list, SortByAvgScore)
	assert.Equal(t, "Low", got[0].Name)
	assert.Equal(t, "High", got[1].Name)
	assert.Equal(t, "No Data", got[2].Name)
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	list := []*models.Institution{
		testInstitution(1, "First", "", map[string][2]float64{"Biology": {50, 3}}),
		testInstitution(2, "Second", "", map[string][2]float64{"Chemistry": {50, 3}}),
		testInstitution(3, "Third", "", map[string][2]float64{"Calculus": {50, 3}}),
	}
	got := Sort(list, SortByAvgScore)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestParseSortOrderDefaultsToName(t *testing.T) {
	assert.Equal(t, SortByName, ParseSortOrder(""))
	assert.Equal(t, SortByName, ParseSortOrder("bogus"))
	assert.Equal(t, SortByExamsAccepted, ParseSortOrder("exams"))
	assert.Equal(t, SortByAvgScore, ParseSortOrder("score"))
}
