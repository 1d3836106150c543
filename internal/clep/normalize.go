package clep

import (
	"math"
	"strconv"
	"strings"

	"github.com/openclep/clepfinder/internal/app/models"
)

// Raw records arrive in one of two historical shapes. The flat shape keys
// fields by human-readable labels and stores each exam as three sibling
// fields ("Biology", "Biology_credit_awarded", "Biology_class_equivalent");
// the nested shape uses snake_case fields with exams grouped under a
// "clep_exams" map. NormalizeRecord handles both.

// IsNestedRecord reports whether a raw record uses the nested shape.
func IsNestedRecord(raw map[string]any) bool {
	_, hasName := raw["school_name"]
	_, hasExams := raw["clep_exams"]
	return hasName && hasExams
}

// NormalizeRecord converts a raw record of either shape into a canonical
// Institution with a fully populated policy list (one entry per catalog
// exam, in catalog order) and recomputed aggregates. Malformed fields
// normalize to absent or empty; no record is ever rejected.
func NormalizeRecord(raw map[string]any, id int64) *models.Institution {
	var inst *models.Institution
	if IsNestedRecord(raw) {
		inst = normalizeNested(raw, id)
	} else {
		inst = normalizeFlat(raw, id)
	}
	Recompute(inst)
	return inst
}

func normalizeNested(raw map[string]any, id int64) *models.Institution {
	inst := &models.Institution{
		ID:                         id,
		Name:                       stringField(raw["school_name"]),
		City:                       stringField(raw["city"]),
		State:                      stringField(raw["state"]),
		Zip:                        stringField(raw["zip"]),
		DICode:                     intField(raw["di_code"]),
		Enrollment:                 int(intField(raw["enrollment"])),
		URL:                        stringField(raw["url"]),
		MaxCredits:                 int(intField(raw["max_credits"])),
		TranscriptionFee:           floatField(raw["transcription_fee"]),
		ScoreValidityYears:         int(intField(raw["score_validity_years"])),
		CanUseForFailedCourses:     intField(raw["can_use_for_failed_courses"]) == 1,
		CanEnrolledStudentsUseCLEP: intField(raw["can_enrolled_students_use_clep"]) == 1,
		MseaOrgID:                  stringField(raw["msea_org_id"]),
	}

	exams, _ := raw["clep_exams"].(map[string]any)
	inst.Policies = make([]models.ExamPolicy, 0, len(examCatalog))
	for _, examName := range examCatalog {
		policy := models.ExamPolicy{ExamName: examName}
		if entry, ok := exams[examName].(map[string]any); ok {
			policy.MinimumScore = ParseScore(entry["minimum_score"])
			policy.CreditsAwarded = ParseCredits(entry["credits_awarded"])
			policy.CourseEquivalent = ParseCourseEquivalent(entry["course_equivalent"])
		}
		inst.Policies = append(inst.Policies, policy)
	}
	return inst
}

func normalizeFlat(raw map[string]any, id int64) *models.Institution {
	inst := &models.Institution{
		ID:                         id,
		Name:                       stringField(raw["School Name"]),
		City:                       stringField(raw["City"]),
		State:                      stringField(raw["State"]),
		Zip:                        stringField(raw["Zip"]),
		DICode:                     intField(raw["DI Code"]),
		Enrollment:                 int(intField(raw["Enrollment"])),
		URL:                        stringField(raw["url"]),
		MaxCredits:                 int(intField(raw["Max Credits"])),
		TranscriptionFee:           floatField(raw["Transcription Fee"]),
		ScoreValidityYears:         int(intField(raw["Score Validity (years)"])),
		CanUseForFailedCourses:     intField(raw["Can Use For Failed Courses"]) == 1,
		CanEnrolledStudentsUseCLEP: intField(raw["Can Enrolled Students Use CLEP"]) == 1,
		MseaOrgID:                  stringField(raw["MSEA Org ID"]),
	}

	inst.Policies = make([]models.ExamPolicy, 0, len(examCatalog))
	for _, examName := range examCatalog {
		inst.Policies = append(inst.Policies, models.ExamPolicy{
			ExamName:         examName,
			MinimumScore:     ParseScore(raw[examName]),
			CreditsAwarded:   ParseCredits(raw[examName+"_credit_awarded"]),
			CourseEquivalent: ParseCourseEquivalent(raw[examName+"_class_equivalent"]),
		})
	}
	return inst
}

// ParseScore normalizes a raw minimum-score value. CLEP scores run 20-80,
// so zero means "not accepted"; range strings like "50/63" (or escaped
// "50\/63") reduce to their first component. Anything non-numeric or not
// strictly positive is absent.
func ParseScore(v any) *int {
	f := parsePositive(v)
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	if n <= 0 {
		return nil
	}
	return &n
}

// ParseCredits normalizes a raw credits-awarded value with the same
// zero-is-absent and range rules as ParseScore.
func ParseCredits(v any) *float64 {
	return parsePositive(v)
}

// ParseCourseEquivalent normalizes a raw course-equivalent value. The
// literal zero (number or string) means "no equivalent".
func ParseCourseEquivalent(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "" || t == "0" {
			return ""
		}
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// parsePositive reduces a raw numeric-or-string value to a strictly
// positive float, or nil when the value normalizes to absent.
func parsePositive(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if t > 0 {
			return &t
		}
		return nil
	case int:
		if t > 0 {
			f := float64(t)
			return &f
		}
		return nil
	case int64:
		if t > 0 {
			f := float64(t)
			return &f
		}
		return nil
	case string:
		if t == "" || t == "0" {
			return nil
		}
		// Ranges like "50/63" or "50\/63" reduce to the first component.
		clean := strings.ReplaceAll(t, `\`, "")
		first := strings.TrimSpace(strings.SplitN(clean, "/", 2)[0])
		f, err := strconv.ParseFloat(first, 64)
		if err != nil || f <= 0 {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func intField(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		// Tolerate decimals and trailing junk the way a lenient integer
		// parse would.
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

func floatField(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}
