package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/apperrors"
	"github.com/openclep/clepfinder/internal/pkg/assistant"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// ChatService defines the interface for the assistant features
type ChatService interface {
	Ask(ctx context.Context, message string) (string, error)
	ExtractIntent(ctx context.Context, message string) (string, []models.UpdateAction, error)
	ConfirmActions(ctx context.Context, diCode int64, actions []models.UpdateAction) (int, int, []BatchResult)
}

// chatServiceImpl implements the ChatService interface
type chatServiceImpl struct {
	assistant    assistant.Assistant
	institutions InstitutionService
	portal       PortalService
}

// NewChatService creates a new chat service instance
func NewChatService(a assistant.Assistant, institutions InstitutionService, portal PortalService) ChatService {
	return &chatServiceImpl{
		assistant:    a,
		institutions: institutions,
		portal:       portal,
	}
}

var stateNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
}

var examKeywords = map[string][]string{
	"biology":     {"biology"},
	"chemistry":   {"chemistry"},
	"calculus":    {"calculus"},
	"algebra":     {"algebra", "college algebra"},
	"psychology":  {"psychology", "introductory psychology"},
	"economics":   {"economics", "macro", "micro"},
	"history":     {"history", "united states", "western civilization"},
	"literature":  {"literature", "english", "american literature"},
	"composition": {"composition", "writing", "college composition"},
	"sociology":   {"sociology"},
	"government":  {"government", "american government"},
	"spanish":     {"spanish"},
	"french":      {"french"},
	"german":      {"german"},
}

var scorePattern = regexp.MustCompile(`\b(\d{2,3})\b`)

// BuildContextSummary builds a bounded plain-text digest of the data that
// is relevant to the user's message. The digest, not the full dataset, is
// what gets sent to the assistant.
func BuildContextSummary(institutions []*models.Institution, message string) string {
	lower := strings.ToLower(message)
	var parts []string

	relevant := institutions

	var mentionedState, mentionedStateName string
	for name, abbr := range stateNames {
		if strings.Contains(lower, name) {
			mentionedState, mentionedStateName = abbr, name
			break
		}
	}
	if mentionedState != "" {
		relevant = clep.Filter(relevant, clep.Criteria{State: mentionedState})
		parts = append(parts, fmt.Sprintf("User is asking about %s. Found %d institutions in %s.",
			strings.ToUpper(mentionedStateName), len(relevant), mentionedState))
	}

	var mentioned []string
	for exam, keywords := range examKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				mentioned = append(mentioned, exam)
				break
			}
		}
	}
	if len(mentioned) > 0 {
		var examNames []string
		for _, catalogName := range clep.Catalog() {
			lowerName := strings.ToLower(catalogName)
			for _, m := range mentioned {
				if strings.Contains(lowerName, m) {
					examNames = append(examNames, catalogName)
					break
				}
			}
		}
		if len(examNames) > 0 {
			relevant = clep.Filter(relevant, clep.Criteria{ExamNames: examNames})
			parts = append(parts, fmt.Sprintf("User is asking about %s. Found %d institutions that accept these exams.",
				strings.Join(examNames, ", "), len(relevant)))
		}
	}

	if m := scorePattern.FindStringSubmatch(message); m != nil {
		var score int
		fmt.Sscanf(m[1], "%d", &score)
		if score >= 20 && score <= 80 {
			parts = append(parts, fmt.Sprintf("User mentioned a CLEP score of %d.", score))
			relevant = clep.Filter(relevant, clep.Criteria{MinScore: &score})
		}
	}

	if len(relevant) > 0 && len(relevant) <= 10 {
		parts = append(parts, "\nRelevant institutions:")
		for _, inst := range relevant {
			parts = append(parts, fmt.Sprintf("- %s (%s, %s): accepts %d CLEP exams, average minimum score %s, max credits %d, score validity %d years",
				inst.Name, inst.City, inst.State, inst.ExamsAccepted, avgScoreLabel(inst), inst.MaxCredits, inst.ScoreValidityYears))
		}
	} else if len(relevant) > 10 {
		parts = append(parts, fmt.Sprintf("\nFound %d relevant institutions. Here are the top 10:", len(relevant)))
		for _, inst := range relevant[:10] {
			parts = append(parts, fmt.Sprintf("- %s (%s, %s): accepts %d exams, avg score %s",
				inst.Name, inst.City, inst.State, inst.ExamsAccepted, avgScoreLabel(inst)))
		}
	}

	total := len(institutions)
	sumExams, sumScores, withScores := 0, 0, 0
	for _, inst := range institutions {
		sumExams += inst.ExamsAccepted
		if inst.AvgScore > 0 {
			sumScores += inst.AvgScore
			withScores++
		}
	}
	avgExams, avgMinScore := 0, 0
	if total > 0 {
		avgExams = (sumExams + total/2) / total
	}
	if withScores > 0 {
		avgMinScore = (sumScores + withScores/2) / withScores
	}
	parts = append(parts,
		"\nGeneral statistics:",
		fmt.Sprintf("- Total institutions in database: %d", total),
		fmt.Sprintf("- Average exams accepted per institution: %d", avgExams),
		fmt.Sprintf("- Average minimum CLEP score required: %d", avgMinScore),
	)

	header := fmt.Sprintf("You have access to data about %d institutions and their CLEP acceptance policies.\n\n", total)
	return header + strings.Join(parts, "\n")
}

func avgScoreLabel(inst *models.Institution) string {
	if inst.AvgScore == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", inst.AvgScore)
}

// Ask answers a visitor question grounded in the institution data.
func (s *chatServiceImpl) Ask(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewValidationError("message is required")
	}

	institutions, err := s.institutions.GetAll(ctx)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a helpful assistant for CLEP (College Level Examination Program) exam credit acceptance. You help students find institutions that accept CLEP credits and answer questions about CLEP policies.

%s

User question: %s

Formatting rules:
- Plain text only, no markdown
- Use line breaks for readability
- Use simple dashes (-) for bullet points
- Be conversational and helpful
- Answer only from the institution data above`,
		BuildContextSummary(institutions, message), message)

	reply, err := s.assistant.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("Assistant request failed")
		return "", err
	}
	return reply, nil
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// rawAction mirrors the JSON shape the extraction prompt asks for. Value
// may come back as a number or a string.
type rawAction struct {
	Exam  string          `json:"exam"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// ExtractIntent asks the assistant to turn a natural-language update
// request into field-level update actions, then validates every action
// against the exam catalog and the editable field set. Returns a
// confirmation summary alongside the validated actions.
func (s *chatServiceImpl) ExtractIntent(ctx context.Context, message string) (string, []models.UpdateAction, error) {
	if strings.TrimSpace(message) == "" {
		return "", nil, apperrors.NewValidationError("message is required")
	}

	prompt := fmt.Sprintf(`You extract update commands from the user message about CLEP exam data and return ONLY JSON.

Output must be an ARRAY of objects:
[
  {"exam":"", "field":"", "value": ""}
]

Field must be one of: "minScore", "credits", "courseCode"
- "minScore" for minimum score (a number like 50 or 55)
- "credits" for credits awarded (a number like 3 or 4)
- "courseCode" for course equivalent (a string like "BIO 101")

Example: "Set Biology minimum score to 55"
Output: [{"exam":"Biology","field":"minScore","value":55}]

Known CLEP exam names: %s

Return ONLY valid JSON. No natural language.

User: %s
JSON:`, strings.Join(clep.Catalog(), ", "), message)

	response, err := s.assistant.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("Intent extraction request failed")
		return "", nil, err
	}

	raw := jsonArrayPattern.FindString(response)
	if raw == "" {
		raw = response
	}
	var parsed []rawAction
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn().Err(err).Msg("Assistant returned unparseable intent JSON")
		return "", nil, apperrors.ErrIntentNotUnderstood
	}

	var actions []models.UpdateAction
	for _, ra := range parsed {
		exam, ok := resolveExamName(ra.Exam)
		if !ok {
			continue
		}
		if ra.Field != models.FieldMinScore && ra.Field != models.FieldCredits && ra.Field != models.FieldCourseCode {
			continue
		}
		value := decodeActionValue(ra.Value)
		if value == "" {
			continue
		}
		actions = append(actions, models.UpdateAction{Exam: exam, Field: ra.Field, Value: value})
	}
	if len(actions) == 0 {
		return "", nil, apperrors.ErrIntentNotUnderstood
	}

	var b strings.Builder
	b.WriteString("You want to apply these updates:\n")
	for _, a := range actions {
		b.WriteString(fmt.Sprintf("- %s: %s = %s\n", a.Exam, fieldLabel(a.Field), a.Value))
	}
	b.WriteString("\nConfirm?")
	return b.String(), actions, nil
}

// ConfirmActions applies previously extracted actions as a batch.
func (s *chatServiceImpl) ConfirmActions(ctx context.Context, diCode int64, actions []models.UpdateAction) (int, int, []BatchResult) {
	return s.portal.ApplyBatch(ctx, diCode, actions)
}

// resolveExamName maps an assistant-supplied exam name onto the catalog:
// exact first, then case-insensitive, then unique substring.
func resolveExamName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if clep.InCatalog(name) {
		return name, true
	}
	lower := strings.ToLower(name)
	var match string
	for _, catalogName := range clep.Catalog() {
		cl := strings.ToLower(catalogName)
		if cl == lower {
			return catalogName, true
		}
		if strings.Contains(cl, lower) {
			if match != "" {
				return "", false // ambiguous
			}
			match = catalogName
		}
	}
	return match, match != ""
}

// decodeActionValue normalizes a JSON number or string into a trimmed string.
func decodeActionValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	}
	return ""
}

func fieldLabel(field string) string {
	switch field {
	case models.FieldMinScore:
		return "Minimum Score"
	case models.FieldCredits:
		return "Credits"
	default:
		return "Course Code"
	}
}
