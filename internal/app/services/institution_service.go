package services

import (
	"context"
	"strings"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/apperrors"
	"github.com/openclep/clepfinder/internal/pkg/cache"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// InstitutionStore is the institution persistence surface the service needs
type InstitutionStore interface {
	ListInstitutions(ctx context.Context) ([]*models.Institution, error)
	GetByDICode(ctx context.Context, diCode int64) (*models.Institution, error)
}

// OverrideStore is the override persistence surface the service needs
type OverrideStore interface {
	ListByInstitution(ctx context.Context, diCode int64) ([]*models.PolicyOverride, error)
	ListAll(ctx context.Context) ([]*models.PolicyOverride, error)
	GetByExam(ctx context.Context, diCode int64, examName string) (*models.PolicyOverride, error)
	Upsert(ctx context.Context, o *models.PolicyOverride) error
	DeleteForInstitution(ctx context.Context, diCode int64) (int64, error)
}

// InstitutionService defines the interface for institution queries
type InstitutionService interface {
	GetAll(ctx context.Context) ([]*models.Institution, error)
	Search(ctx context.Context, criteria clep.Criteria, sortBy string) ([]*models.Institution, error)
	GetByID(ctx context.Context, id int64) (*models.Institution, error)
	GetByDICode(ctx context.Context, diCode int64) (*models.Institution, error)
	SearchByName(ctx context.Context, query string) ([]*models.Institution, error)
	ExamStats(ctx context.Context, examName string) (*clep.ExamStatistics, error)
	ClearCache()
}

// institutionServiceImpl implements the InstitutionService interface
type institutionServiceImpl struct {
	institutionStore InstitutionStore
	overrideStore    OverrideStore
	cache            *cache.TTL[[]*models.Institution]
}

// NewInstitutionService creates a new institution service instance
func NewInstitutionService(institutionStore InstitutionStore, overrideStore OverrideStore, c *cache.TTL[[]*models.Institution]) InstitutionService {
	return &institutionServiceImpl{
		institutionStore: institutionStore,
		overrideStore:    overrideStore,
		cache:            c,
	}
}

// loadMerged loads the bulk institution list with every stored override
// merged over it and aggregates recomputed. The merged snapshot is what
// the cache holds; any override write invalidates it.
func (s *institutionServiceImpl) loadMerged(ctx context.Context) ([]*models.Institution, error) {
	institutions, err := s.institutionStore.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideStore.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byDICode := make(map[int64]*models.Institution, len(institutions))
	for _, inst := range institutions {
		byDICode[inst.DICode] = inst
	}

	touched := map[int64]struct{}{}
	for _, o := range overrides {
		inst, ok := byDICode[o.InstitutionDICode]
		if !ok {
			logger.Warn().Int64("diCode", o.InstitutionDICode).Str("exam", o.ExamName).
				Msg("Override references unknown institution, skipping")
			continue
		}
		if mergeOverride(inst, o) {
			touched[inst.ID] = struct{}{}
		}
	}
	for _, inst := range institutions {
		if _, ok := touched[inst.ID]; ok {
			clep.Recompute(inst)
		}
	}

	logger.Debug().Int("institutions", len(institutions)).Int("overrides", len(overrides)).
		Msg("Loaded institution snapshot")
	return institutions, nil
}

// mergeOverride applies one override onto the matching policy entry.
// Override fields win over bulk-loaded values; empty override fields keep
// the bulk value, an override never clears a field. Score and credit
// strings go through the same parsing rules as the bulk loader, so a
// stored "0" or garbage value merges to absent.
func mergeOverride(inst *models.Institution, o *models.PolicyOverride) bool {
	p := inst.PolicyFor(o.ExamName)
	if p == nil {
		return false
	}
	changed := false
	if o.MinScore != "" {
		p.MinimumScore = clep.ParseScore(o.MinScore)
		changed = true
	}
	if o.Credits != "" {
		p.CreditsAwarded = clep.ParseCredits(o.Credits)
		changed = true
	}
	if o.CourseCode != "" {
		p.CourseEquivalent = o.CourseCode
		changed = true
	}
	return changed
}

func (s *institutionServiceImpl) snapshot(ctx context.Context) ([]*models.Institution, error) {
	return s.cache.Get(func() ([]*models.Institution, error) {
		return s.loadMerged(ctx)
	})
}

// GetAll returns the full merged institution list.
func (s *institutionServiceImpl) GetAll(ctx context.Context) ([]*models.Institution, error) {
	return s.snapshot(ctx)
}

// Search filters and sorts the merged institution list.
func (s *institutionServiceImpl) Search(ctx context.Context, criteria clep.Criteria, sortBy string) ([]*models.Institution, error) {
	institutions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	matched := clep.Filter(institutions, criteria)
	return clep.Sort(matched, clep.ParseSortOrder(sortBy)), nil
}

// GetByID returns one institution from the merged snapshot.
func (s *institutionServiceImpl) GetByID(ctx context.Context, id int64) (*models.Institution, error) {
	institutions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, inst := range institutions {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, apperrors.ErrInstitutionNotFound
}

// GetByDICode returns one institution from the merged snapshot.
func (s *institutionServiceImpl) GetByDICode(ctx context.Context, diCode int64) (*models.Institution, error) {
	institutions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, inst := range institutions {
		if inst.DICode == diCode {
			return inst, nil
		}
	}
	return nil, apperrors.ErrInstitutionNotFound
}

// SearchByName returns institutions whose name, city or state contains
// the query, case-insensitively.
func (s *institutionServiceImpl) SearchByName(ctx context.Context, query string) ([]*models.Institution, error) {
	institutions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return institutions, nil
	}
	var matched []*models.Institution
	for _, inst := range institutions {
		if strings.Contains(strings.ToLower(inst.Name), q) ||
			strings.Contains(strings.ToLower(inst.City), q) ||
			strings.Contains(strings.ToLower(inst.State), q) {
			matched = append(matched, inst)
		}
	}
	return matched, nil
}

// ExamStats aggregates one exam's acceptance terms across all institutions.
func (s *institutionServiceImpl) ExamStats(ctx context.Context, examName string) (*clep.ExamStatistics, error) {
	if !clep.InCatalog(examName) {
		return nil, apperrors.ErrUnknownExam
	}
	institutions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats := clep.ComputeExamStatistics(institutions, examName)
	if stats == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return stats, nil
}

// ClearCache drops the cached snapshot so the next read reloads.
func (s *institutionServiceImpl) ClearCache() {
	s.cache.Invalidate()
}
