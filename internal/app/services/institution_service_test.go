package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/cache"
)

func newTestInstitutionService(institutions *fakeInstitutionStore, overrides *fakeOverrideStore) InstitutionService {
	return NewInstitutionService(institutions, overrides,
		cache.NewTTL[[]*models.Institution](5*time.Minute, nil))
}

func TestInstitutionServiceMergesOverrides(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 1426, "Alpha College", "OH", map[string][2]float64{
			"Biology": {50, 3},
		}),
	}}
	overrides := newFakeOverrideStore()
	overrides.Upsert(context.Background(), &models.PolicyOverride{
		InstitutionDICode: 1426,
		ExamName:          "Biology",
		MinScore:          "55",
		Credits:           "4",
		CourseCode:        "BIO 101",
	})

	svc := newTestInstitutionService(store, overrides)
	inst, err := svc.GetByDICode(context.Background(), 1426)
	require.NoError(t, err)

	p := inst.PolicyFor("Biology")
	require.NotNil(t, p)
	require.NotNil(t, p.MinimumScore)
	assert.Equal(t, 55, *p.MinimumScore)
	require.NotNil(t, p.CreditsAwarded)
	assert.Equal(t, 4.0, *p.CreditsAwarded)
	assert.Equal(t, "BIO 101", p.CourseEquivalent)
	assert.Equal(t, 1, inst.ExamsAccepted)
	assert.Equal(t, 55, inst.AvgScore)
}

func TestInstitutionServiceOverrideCanAddNewExam(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 1426, "Alpha College", "OH", nil),
	}}
	overrides := newFakeOverrideStore()
	overrides.Upsert(context.Background(), &models.PolicyOverride{
		InstitutionDICode: 1426,
		ExamName:          "Chemistry",
		MinScore:          "50",
	})

	svc := newTestInstitutionService(store, overrides)
	inst, err := svc.GetByDICode(context.Background(), 1426)
	require.NoError(t, err)
	assert.Equal(t, 1, inst.ExamsAccepted)
	assert.Equal(t, 50, inst.AvgScore)
}

func TestInstitutionServiceEmptyOverrideFieldsKeepBase(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 1426, "Alpha College", "OH", map[string][2]float64{
			"Biology": {50, 3},
		}),
	}}
	overrides := newFakeOverrideStore()
	overrides.Upsert(context.Background(), &models.PolicyOverride{
		InstitutionDICode: 1426,
		ExamName:          "Biology",
		CourseCode:        "BIO 101",
	})

	svc := newTestInstitutionService(store, overrides)
	inst, err := svc.GetByDICode(context.Background(), 1426)
	require.NoError(t, err)

	p := inst.PolicyFor("Biology")
	require.NotNil(t, p.MinimumScore)
	assert.Equal(t, 50, *p.MinimumScore)
	assert.Equal(t, "BIO 101", p.CourseEquivalent)
}

func TestInstitutionServiceCachesSnapshot(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 1426, "Alpha College", "OH", nil),
	}}
	svc := newTestInstitutionService(store, newFakeOverrideStore())

	_, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	_, err = svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)

	svc.ClearCache()
	_, err = svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

func TestInstitutionServiceSearchFiltersAndSorts(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 100, "Zeta University", "OH", map[string][2]float64{
			"Biology": {50, 3},
		}),
		newTestInstitution(2, 200, "Alpha College", "OH", map[string][2]float64{
			"Biology":   {55, 3},
			"Chemistry": {55, 4},
		}),
		newTestInstitution(3, 300, "Beta Institute", "TX", map[string][2]float64{
			"Biology": {60, 3},
		}),
	}}
	svc := newTestInstitutionService(store, newFakeOverrideStore())

	results, err := svc.Search(context.Background(), clep.Criteria{State: "OH"}, "name")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Alpha College", results[0].Name)
	assert.Equal(t, "Zeta University", results[1].Name)
}

func TestInstitutionServiceSearchByName(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 100, "Ohio State University", "OH", nil),
		newTestInstitution(2, 200, "Rice University", "TX", nil),
	}}
	svc := newTestInstitutionService(store, newFakeOverrideStore())

	results, err := svc.SearchByName(context.Background(), "ohio")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ohio State University", results[0].Name)

	results, err = svc.SearchByName(context.Background(), "tx")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Rice University", results[0].Name)
}

func TestInstitutionServiceExamStats(t *testing.T) {
	store := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{
			"Biology": {50, 3},
		}),
		newTestInstitution(2, 200, "Beta Institute", "TX", map[string][2]float64{
			"Biology": {60, 4},
		}),
	}}
	svc := newTestInstitutionService(store, newFakeOverrideStore())

	stats, err := svc.ExamStats(context.Background(), "Biology")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.UniversitiesAccepting)
	assert.Equal(t, 55, stats.AverageMinimumScore)
	assert.Equal(t, 50, stats.MinScore)
	assert.Equal(t, 60, stats.MaxScore)

	_, err = svc.ExamStats(context.Background(), "Underwater Basket Weaving")
	assert.Error(t, err)
}
