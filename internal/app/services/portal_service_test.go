package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/cache"
)

func strPtr(s string) *string { return &s }

func newTestPortalService(overrides *fakeOverrideStore, institutions *fakeInstitutionStore) (*portalServiceImpl, InstitutionService) {
	instSvc := NewInstitutionService(institutions, overrides,
		cache.NewTTL[[]*models.Institution](5*time.Minute, nil))
	svc := NewPortalService(overrides, institutions, instSvc, nil).(*portalServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, instSvc
}

func defaultInstitutionStore() *fakeInstitutionStore {
	return &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 1426, "Alpha College", "OH", map[string][2]float64{
			"Biology": {50, 3},
		}),
	}}
}

func TestUpsertOverrideCreatesRowWithDefaults(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	ok := svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		MinScore: strPtr("55"),
	})
	require.True(t, ok)

	stored, err := overrides.GetByExam(context.Background(), 1426, "Biology")
	require.NoError(t, err)
	assert.Equal(t, "55", stored.MinScore)
	assert.Equal(t, "", stored.Credits)
	assert.Equal(t, "", stored.CourseCode)
	assert.Equal(t, "2026-03-15", stored.LastUpdated)
}

func TestUpsertOverrideMergesForward(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		MinScore: strPtr("55"),
	}))
	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		Credits: strPtr("4"),
	}))

	stored, err := overrides.GetByExam(context.Background(), 1426, "Biology")
	require.NoError(t, err)
	assert.Equal(t, "55", stored.MinScore, "earlier field should survive a later partial update")
	assert.Equal(t, "4", stored.Credits)
}

func TestUpsertOverrideStoreFailureReturnsFalse(t *testing.T) {
	overrides := newFakeOverrideStore()
	overrides.upsertErr = errors.New("connection reset")
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	ok := svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		MinScore: strPtr("55"),
	})
	assert.False(t, ok)
}

func TestUpsertOverrideInvalidatesInstitutionCache(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, instSvc := newTestPortalService(overrides, defaultInstitutionStore())

	inst, err := instSvc.GetByDICode(context.Background(), 1426)
	require.NoError(t, err)
	require.Equal(t, 50, *inst.PolicyFor("Biology").MinimumScore)

	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		MinScore: strPtr("55"),
	}))

	inst, err = instSvc.GetByDICode(context.Background(), 1426)
	require.NoError(t, err)
	assert.Equal(t, 55, *inst.PolicyFor("Biology").MinimumScore)
}

func TestInitializeDefaultsCreatesCatalogRows(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	created, skipped, err := svc.InitializeDefaults(context.Background(), 1426)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, len(clep.Catalog()), created)

	stored, err := overrides.ListByInstitution(context.Background(), 1426)
	require.NoError(t, err)
	assert.Len(t, stored, len(clep.Catalog()))
}

func TestInitializeDefaultsIsIdempotent(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	_, _, err := svc.InitializeDefaults(context.Background(), 1426)
	require.NoError(t, err)

	created, skipped, err := svc.InitializeDefaults(context.Background(), 1426)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Zero(t, created)
}

func TestInitializeDefaultsUnknownInstitution(t *testing.T) {
	svc, _ := newTestPortalService(newFakeOverrideStore(), defaultInstitutionStore())

	_, _, err := svc.InitializeDefaults(context.Background(), 9999)
	assert.Error(t, err)
}

func TestApplyBatchReportsPartialSuccess(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	updated, failed, results := svc.ApplyBatch(context.Background(), 1426, []models.UpdateAction{
		{Exam: "Biology", Field: models.FieldMinScore, Value: "55"},
		{Exam: "Not A Real Exam", Field: models.FieldMinScore, Value: "55"},
		{Exam: "Chemistry", Field: "tuition", Value: "100"},
		{Exam: "Chemistry", Field: models.FieldCredits, Value: "4"},
	})

	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, failed)
	require.Len(t, results, 4)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Equal(t, "unknown exam", results[1].Reason)
	assert.False(t, results[2].OK)
	assert.Equal(t, "unknown field", results[2].Reason)
	assert.True(t, results[3].OK)
}

func TestApplyBatchStoreFailureDoesNotAbort(t *testing.T) {
	overrides := newFakeOverrideStore()
	overrides.upsertErr = errors.New("connection reset")
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	updated, failed, results := svc.ApplyBatch(context.Background(), 1426, []models.UpdateAction{
		{Exam: "Biology", Field: models.FieldMinScore, Value: "55"},
		{Exam: "Chemistry", Field: models.FieldCredits, Value: "4"},
	})

	assert.Zero(t, updated)
	assert.Equal(t, 2, failed)
	require.Len(t, results, 2)
	assert.Equal(t, "store failure", results[0].Reason)
	assert.Equal(t, "store failure", results[1].Reason)
}

func TestDeleteOverrides(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, _ := newTestPortalService(overrides, defaultInstitutionStore())

	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Biology", models.OverridePatch{
		MinScore: strPtr("55"),
	}))
	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Chemistry", models.OverridePatch{
		Credits: strPtr("4"),
	}))

	deleted, err := svc.DeleteOverrides(context.Background(), 1426)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stored, err := overrides.ListByInstitution(context.Background(), 1426)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestOverrideRoundTripThroughSearch(t *testing.T) {
	overrides := newFakeOverrideStore()
	svc, instSvc := newTestPortalService(overrides, defaultInstitutionStore())

	require.True(t, svc.UpsertOverride(context.Background(), 1426, "Chemistry", models.OverridePatch{
		MinScore: strPtr("55"),
		Credits:  strPtr("4"),
	}))

	results, err := instSvc.Search(context.Background(), clep.Criteria{
		ExamNames: []string{"Chemistry"},
	}, "name")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alpha College", results[0].Name)
	p := results[0].PolicyFor("Chemistry")
	require.NotNil(t, p.MinimumScore)
	assert.Equal(t, 55, *p.MinimumScore)
	require.NotNil(t, p.CreditsAwarded)
	assert.Equal(t, 4.0, *p.CreditsAwarded)
}
