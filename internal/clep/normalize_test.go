package clep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlatRecord(t *testing.T) {
	raw := map[string]any{
		"School Name":                    "Maple State University",
		"City":                           "Augusta",
		"State":                          "ME",
		"DI Code":                        float64(1234),
		"Zip":                            "04330",
		"Enrollment":                     "12500",
		"Max Credits":                    "30",
		"Transcription Fee":              "25.50",
		"Can Use For Failed Courses":     float64(1),
		"Can Enrolled Students Use CLEP": float64(0),
		"Score Validity (years)":         float64(10),
		"Biology":                        "50/63",
		"Biology_credit_awarded":         "3/4",
		"Biology_class_equivalent":       "BIO 101",
		"Chemistry":                      float64(55),
		"Chemistry_credit_awarded":       float64(4),
		"Calculus":                       "0",
		"Calculus_credit_awarded":        float64(0),
		"Calculus_class_equivalent":      "0",
	}

	inst := NormalizeRecord(raw, 7)

	assert.Equal(t, int64(7), inst.ID)
	assert.Equal(t, "Maple State University", inst.Name)
	assert.Equal(t, int64(1234), inst.DICode)
	assert.Equal(t, 12500, inst.Enrollment)
	assert.Equal(t, 30, inst.MaxCredits)
	assert.InDelta(t, 25.50, inst.TranscriptionFee, 0.001)
	assert.True(t, inst.CanUseForFailedCourses)
	assert.False(t, inst.CanEnrolledStudentsUseCLEP)

	bio := inst.PolicyFor("Biology")
	require.NotNil(t, bio)
	require.NotNil(t, bio.MinimumScore)
	assert.Equal(t, 50, *bio.MinimumScore)
	require.NotNil(t, bio.CreditsAwarded)
	assert.InDelta(t, 3, *bio.CreditsAwarded, 0.001)
	assert.Equal(t, "BIO 101", bio.CourseEquivalent)

	chem := inst.PolicyFor("Chemistry")
	require.NotNil(t, chem.MinimumScore)
	assert.Equal(t, 55, *chem.MinimumScore)

	calc := inst.PolicyFor("Calculus")
	assert.Nil(t, calc.MinimumScore)
	assert.Nil(t, calc.CreditsAwarded)
	assert.Empty(t, calc.CourseEquivalent)

	assert.Equal(t, 2, inst.ExamsAccepted)
	assert.Equal(t, 53, inst.AvgScore) // round((50+55)/2)
}

func TestNormalizeNestedRecord(t *testing.T) {
	raw := map[string]any{
		"school_name":          "Cedar College",
		"city":                 "Boise",
		"state":                "ID",
		"di_code":              "4521",
		"zip":                  "83702",
		"enrollment":           float64(4200),
		"max_credits":          "24",
		"transcription_fee":    float64(15),
		"score_validity_years": float64(5),
		"clep_exams": map[string]any{
			"Biology": map[string]any{
				"minimum_score":     float64(52),
				"credits_awarded":   float64(4),
				"course_equivalent": "BIOL 100",
			},
			"Chemistry": map[string]any{
				"minimum_score":     float64(0),
				"credits_awarded":   float64(0),
				"course_equivalent": float64(0),
			},
		},
	}

	inst := NormalizeRecord(raw, 2)

	assert.Equal(t, "Cedar College", inst.Name)
	assert.Equal(t, int64(4521), inst.DICode)

	bio := inst.PolicyFor("Biology")
	require.NotNil(t, bio.MinimumScore)
	assert.Equal(t, 52, *bio.MinimumScore)
	assert.Equal(t, "BIOL 100", bio.CourseEquivalent)

	// A 0 minimum score means not accepted, even with credits listed.
	chem := inst.PolicyFor("Chemistry")
	assert.Nil(t, chem.MinimumScore)
	assert.Nil(t, chem.CreditsAwarded)
	assert.Empty(t, chem.CourseEquivalent)

	assert.Equal(t, 1, inst.ExamsAccepted)
	assert.Equal(t, 52, inst.AvgScore)
}

func TestNormalizePolicyListAlwaysFull(t *testing.T) {
	for _, raw := range []map[string]any{
		{},
		{"School Name": "Empty U"},
		{"school_name": "Nested Empty", "clep_exams": map[string]any{}},
	} {
		inst := NormalizeRecord(raw, 1)
		require.Len(t, inst.Policies, len(examCatalog))
		for i, name := range examCatalog {
			assert.Equal(t, name, inst.Policies[i].ExamName)
		}
		assert.Equal(t, 0, inst.ExamsAccepted)
		assert.Equal(t, 0, inst.AvgScore)
	}
}

func TestNormalizeMissingIdentityDefaultsToEmpty(t *testing.T) {
	inst := NormalizeRecord(map[string]any{"Biology": float64(50)}, 3)
	assert.Empty(t, inst.Name)
	assert.Empty(t, inst.City)
	assert.Empty(t, inst.State)
	assert.Equal(t, 1, inst.ExamsAccepted)
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *int
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"zero string", "0", nil},
		{"zero number", float64(0), nil},
		{"negative number", float64(-5), nil},
		{"negative string", "-5", nil},
		{"plain number", float64(55), intPtr(55)},
		{"numeric string", "50", intPtr(50)},
		{"range", "50/63", intPtr(50)},
		{"escaped range", `50\/63`, intPtr(50)},
		{"range with spaces", " 48 /60", intPtr(48)},
		{"non-numeric", "varies", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseScore(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestParseCreditsKeepsFractions(t *testing.T) {
	got := ParseCredits("3.5")
	require.NotNil(t, got)
	assert.InDelta(t, 3.5, *got, 0.001)

	got = ParseCredits("4/8")
	require.NotNil(t, got)
	assert.InDelta(t, 4, *got, 0.001)

	assert.Nil(t, ParseCredits("0"))
	assert.Nil(t, ParseCredits(float64(-1)))
}

func TestCatalogIsCopied(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 38)
	c[0] = "mutated"
	assert.Equal(t, "American Government", Catalog()[0])
	assert.True(t, InCatalog("Biology"))
	assert.False(t, InCatalog("Underwater Basket Weaving"))
}

func intPtr(v int) *int { return &v }
