package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/pkg/cache"
)

func newTestChatService(assistant *fakeAssistant, institutions *fakeInstitutionStore) ChatService {
	overrides := newFakeOverrideStore()
	instSvc := NewInstitutionService(institutions, overrides,
		cache.NewTTL[[]*models.Institution](5*time.Minute, nil))
	portal := NewPortalService(overrides, institutions, instSvc, nil)
	return NewChatService(assistant, instSvc, portal)
}

func TestBuildContextSummaryDetectsState(t *testing.T) {
	institutions := []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{"Biology": {50, 3}}),
		newTestInstitution(2, 200, "Beta Institute", "TX", map[string][2]float64{"Biology": {55, 3}}),
	}

	summary := BuildContextSummary(institutions, "Which schools in Ohio accept CLEP?")
	assert.Contains(t, summary, "Found 1 institutions in OH")
	assert.Contains(t, summary, "Alpha College")
	assert.NotContains(t, summary, "Beta Institute")
}

func TestBuildContextSummaryDetectsExam(t *testing.T) {
	institutions := []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{"Biology": {50, 3}}),
		newTestInstitution(2, 200, "Beta Institute", "TX", nil),
	}

	summary := BuildContextSummary(institutions, "Who takes the biology exam?")
	assert.Contains(t, summary, "Biology")
	assert.Contains(t, summary, "Alpha College")
	assert.NotContains(t, summary, "Beta Institute")
}

func TestBuildContextSummaryDetectsScore(t *testing.T) {
	institutions := []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{"Biology": {50, 3}}),
	}

	summary := BuildContextSummary(institutions, "I scored 58, where can I get credit?")
	assert.Contains(t, summary, "CLEP score of 58")
}

func TestBuildContextSummaryGlobalStats(t *testing.T) {
	institutions := []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{"Biology": {50, 3}}),
		newTestInstitution(2, 200, "Beta Institute", "TX", nil),
	}

	summary := BuildContextSummary(institutions, "tell me about clep")
	assert.Contains(t, summary, "Total institutions in database: 2")
	assert.Contains(t, summary, "Average minimum CLEP score required: 50")
}

func TestAskSendsDigestNotFullDataset(t *testing.T) {
	fake := &fakeAssistant{responses: []string{"Sure, Alpha College accepts Biology."}}
	institutions := &fakeInstitutionStore{institutions: []*models.Institution{
		newTestInstitution(1, 100, "Alpha College", "OH", map[string][2]float64{"Biology": {50, 3}}),
	}}
	svc := newTestChatService(fake, institutions)

	reply, err := svc.Ask(context.Background(), "Does anyone in Ohio accept biology?")
	require.NoError(t, err)
	assert.Equal(t, "Sure, Alpha College accepts Biology.", reply)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Alpha College")
	assert.Contains(t, fake.prompts[0], "Does anyone in Ohio accept biology?")
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	svc := newTestChatService(&fakeAssistant{}, &fakeInstitutionStore{})
	_, err := svc.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestExtractIntentParsesActions(t *testing.T) {
	fake := &fakeAssistant{responses: []string{
		`[{"exam":"Biology","field":"minScore","value":55},{"exam":"Biology","field":"courseCode","value":"BIO 101"}]`,
	}}
	svc := newTestChatService(fake, defaultInstitutionStore())

	summary, actions, err := svc.ExtractIntent(context.Background(), "Set Biology min score to 55 and course to BIO 101")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, models.UpdateAction{Exam: "Biology", Field: "minScore", Value: "55"}, actions[0])
	assert.Equal(t, models.UpdateAction{Exam: "Biology", Field: "courseCode", Value: "BIO 101"}, actions[1])
	assert.Contains(t, summary, "Biology")
	assert.Contains(t, summary, "Minimum Score = 55")
}

func TestExtractIntentTrimsSurroundingProse(t *testing.T) {
	fake := &fakeAssistant{responses: []string{
		"Here you go:\n[{\"exam\":\"Chemistry\",\"field\":\"credits\",\"value\":4}]\nDone.",
	}}
	svc := newTestChatService(fake, defaultInstitutionStore())

	_, actions, err := svc.ExtractIntent(context.Background(), "chemistry credits to 4")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "4", actions[0].Value)
}

func TestExtractIntentDropsInvalidActions(t *testing.T) {
	fake := &fakeAssistant{responses: []string{
		`[{"exam":"Biology","field":"tuition","value":100},{"exam":"Quantum Flux","field":"minScore","value":55},{"exam":"Biology","field":"credits","value":3}]`,
	}}
	svc := newTestChatService(fake, defaultInstitutionStore())

	_, actions, err := svc.ExtractIntent(context.Background(), "update things")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "credits", actions[0].Field)
}

func TestExtractIntentUnparseableResponse(t *testing.T) {
	fake := &fakeAssistant{responses: []string{"I cannot help with that."}}
	svc := newTestChatService(fake, defaultInstitutionStore())

	_, _, err := svc.ExtractIntent(context.Background(), "hello")
	assert.Error(t, err)
}

func TestResolveExamName(t *testing.T) {
	name, ok := resolveExamName("Biology")
	require.True(t, ok)
	assert.Equal(t, "Biology", name)

	name, ok = resolveExamName("biology")
	require.True(t, ok)
	assert.Equal(t, "Biology", name)

	name, ok = resolveExamName("Macroeconomics")
	require.True(t, ok)
	assert.Equal(t, "Principles of Macroeconomics", name)

	_, ok = resolveExamName("History of the United States")
	assert.False(t, ok, "a name matching two catalog exams should not resolve")

	_, ok = resolveExamName("Quantum Flux")
	assert.False(t, ok)
}

func TestConfirmActionsAppliesBatch(t *testing.T) {
	fake := &fakeAssistant{}
	institutions := defaultInstitutionStore()
	overrides := newFakeOverrideStore()
	instSvc := NewInstitutionService(institutions, overrides,
		cache.NewTTL[[]*models.Institution](5*time.Minute, nil))
	portal := NewPortalService(overrides, institutions, instSvc, nil)
	svc := NewChatService(fake, instSvc, portal)

	updated, failed, results := svc.ConfirmActions(context.Background(), 1426, []models.UpdateAction{
		{Exam: "Biology", Field: models.FieldMinScore, Value: "60"},
	})
	assert.Equal(t, 1, updated)
	assert.Zero(t, failed)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)

	stored, err := overrides.GetByExam(context.Background(), 1426, "Biology")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.LastUpdated, "20"))
	assert.Equal(t, "60", stored.MinScore)
}
