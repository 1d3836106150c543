package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/repositories"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/apperrors"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// BatchResult reports the outcome of one update inside a batch.
type BatchResult struct {
	Exam   string
	Field  string
	OK     bool
	Reason string
}

// DigestNotifier is notified after a batch changes an institution's
// policies. A nil notifier disables digests.
type DigestNotifier interface {
	SendPolicyUpdateDigest(institutionName string, diCode int64, actions []models.UpdateAction) error
}

// PortalService defines the interface for institution-side policy editing
type PortalService interface {
	GetOverrides(ctx context.Context, diCode int64) ([]*models.PolicyOverride, error)
	UpsertOverride(ctx context.Context, diCode int64, examName string, patch models.OverridePatch) bool
	InitializeDefaults(ctx context.Context, diCode int64) (int, bool, error)
	ApplyBatch(ctx context.Context, diCode int64, actions []models.UpdateAction) (updated, failed int, results []BatchResult)
	DeleteOverrides(ctx context.Context, diCode int64) (int64, error)
}

// portalServiceImpl implements the PortalService interface
type portalServiceImpl struct {
	overrideStore    OverrideStore
	institutionStore InstitutionStore
	institutions     InstitutionService
	notifier         DigestNotifier
	now              func() time.Time
}

// NewPortalService creates a new portal service instance
func NewPortalService(overrideStore OverrideStore, institutionStore InstitutionStore, institutions InstitutionService, notifier DigestNotifier) PortalService {
	return &portalServiceImpl{
		overrideStore:    overrideStore,
		institutionStore: institutionStore,
		institutions:     institutions,
		notifier:         notifier,
		now:              time.Now,
	}
}

// GetOverrides returns an institution's stored overrides.
func (s *portalServiceImpl) GetOverrides(ctx context.Context, diCode int64) ([]*models.PolicyOverride, error) {
	if _, err := s.institutionStore.GetByDICode(ctx, diCode); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, err
	}
	return s.overrideStore.ListByInstitution(ctx, diCode)
}

// UpsertOverride merges the patch into the stored override for
// (institution, exam), creating the row with empty defaults when missing.
// Patch fields merge forward only; a field already stored is never
// cleared. Every write stamps LastUpdated. Store failures report false
// instead of an error so a batch can keep going.
func (s *portalServiceImpl) UpsertOverride(ctx context.Context, diCode int64, examName string, patch models.OverridePatch) bool {
	existing, err := s.overrideStore.GetByExam(ctx, diCode, examName)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Error().Err(err).Int64("diCode", diCode).Str("exam", examName).
			Msg("Failed to read existing override")
		return false
	}
	if existing == nil {
		existing = &models.PolicyOverride{
			InstitutionDICode: diCode,
			ExamName:          examName,
		}
	}

	if patch.MinScore != nil {
		existing.MinScore = *patch.MinScore
	}
	if patch.Credits != nil {
		existing.Credits = *patch.Credits
	}
	if patch.CourseCode != nil {
		existing.CourseCode = *patch.CourseCode
	}
	if patch.Category != nil {
		existing.Category = *patch.Category
	}
	existing.LastUpdated = s.now().Format("2006-01-02")

	if err := s.overrideStore.Upsert(ctx, existing); err != nil {
		logger.Error().Err(err).Int64("diCode", diCode).Str("exam", examName).
			Msg("Failed to upsert override")
		return false
	}

	s.institutions.ClearCache()
	return true
}

// InitializeDefaults creates an empty override row for every catalog exam
// the institution does not have one for yet. Returns the number created
// and whether the call was skipped because rows already existed.
func (s *portalServiceImpl) InitializeDefaults(ctx context.Context, diCode int64) (int, bool, error) {
	if _, err := s.institutionStore.GetByDICode(ctx, diCode); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, false, apperrors.ErrInstitutionNotFound
		}
		return 0, false, err
	}

	existing, err := s.overrideStore.ListByInstitution(ctx, diCode)
	if err != nil {
		return 0, false, err
	}
	if len(existing) > 0 {
		logger.Debug().Int64("diCode", diCode).Int("existing", len(existing)).
			Msg("Overrides already initialized, skipping")
		return 0, true, nil
	}

	stamp := s.now().Format("2006-01-02")
	created := 0
	for _, examName := range clep.Catalog() {
		o := &models.PolicyOverride{
			InstitutionDICode: diCode,
			ExamName:          examName,
			LastUpdated:       stamp,
		}
		if err := s.overrideStore.Upsert(ctx, o); err != nil {
			logger.Error().Err(err).Int64("diCode", diCode).Str("exam", examName).
				Msg("Failed to create default override")
			continue
		}
		created++
	}

	if created > 0 {
		s.institutions.ClearCache()
	}
	return created, false, nil
}

// ApplyBatch runs each update independently and reports per-item results.
// A failed item never aborts the rest; partial success is reported as
// updated and failed counts. A digest is sent when at least one update
// landed and a notifier is configured.
func (s *portalServiceImpl) ApplyBatch(ctx context.Context, diCode int64, actions []models.UpdateAction) (int, int, []BatchResult) {
	results := make([]BatchResult, 0, len(actions))
	updated, failed := 0, 0
	var applied []models.UpdateAction

	for _, a := range actions {
		res := BatchResult{Exam: a.Exam, Field: a.Field}
		patch, reason := patchForAction(a)
		if reason != "" {
			res.Reason = reason
			failed++
			results = append(results, res)
			continue
		}
		if s.UpsertOverride(ctx, diCode, a.Exam, patch) {
			res.OK = true
			updated++
			applied = append(applied, a)
		} else {
			res.Reason = "store failure"
			failed++
		}
		results = append(results, res)
	}

	if updated > 0 && s.notifier != nil {
		name := fmt.Sprintf("DI %d", diCode)
		if inst, err := s.institutionStore.GetByDICode(ctx, diCode); err == nil {
			name = inst.Name
		}
		if err := s.notifier.SendPolicyUpdateDigest(name, diCode, applied); err != nil {
			logger.Warn().Err(err).Int64("diCode", diCode).Msg("Failed to send policy update digest")
		}
	}

	return updated, failed, results
}

// patchForAction validates one action and turns it into an override patch.
// A non-empty reason means validation failed.
func patchForAction(a models.UpdateAction) (models.OverridePatch, string) {
	if !clep.InCatalog(a.Exam) {
		return models.OverridePatch{}, "unknown exam"
	}
	value := strings.TrimSpace(a.Value)
	switch a.Field {
	case models.FieldMinScore:
		return models.OverridePatch{MinScore: &value}, ""
	case models.FieldCredits:
		return models.OverridePatch{Credits: &value}, ""
	case models.FieldCourseCode:
		return models.OverridePatch{CourseCode: &value}, ""
	default:
		return models.OverridePatch{}, "unknown field"
	}
}

// DeleteOverrides removes every override for an institution. Admin-only.
func (s *portalServiceImpl) DeleteOverrides(ctx context.Context, diCode int64) (int64, error) {
	deleted, err := s.overrideStore.DeleteForInstitution(ctx, diCode)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.institutions.ClearCache()
	}
	logger.Info().Int64("diCode", diCode).Int64("deleted", deleted).Msg("Deleted institution overrides")
	return deleted, nil
}
