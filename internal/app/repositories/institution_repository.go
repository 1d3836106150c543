package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// Institution error types
var (
	// ErrInstitutionNotFound is returned when an institution is not found.
	ErrInstitutionNotFound = ErrNotFound
	// ErrInstitutionAlreadyExists is returned when an institution with the same DI code exists.
	ErrInstitutionAlreadyExists = errors.New("institution with this DI code already exists")
)

// InstitutionRepository handles institution and policy database operations
type InstitutionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstitutionRepository creates a new InstitutionRepository
func NewInstitutionRepository(db *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

var institutionColumns = []string{
	"id", "name", "city", "state", "zip", "di_code", "enrollment", "url",
	"max_credits", "transcription_fee", "score_validity_years",
	"can_use_for_failed_courses", "can_enrolled_students_use_clep", "msea_org_id",
}

func scanInstitution(row pgx.Row) (*models.Institution, error) {
	inst := &models.Institution{}
	err := row.Scan(
		&inst.ID, &inst.Name, &inst.City, &inst.State, &inst.Zip, &inst.DICode,
		&inst.Enrollment, &inst.URL, &inst.MaxCredits, &inst.TranscriptionFee,
		&inst.ScoreValidityYears, &inst.CanUseForFailedCourses,
		&inst.CanEnrolledStudentsUseCLEP, &inst.MseaOrgID,
	)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstitutions retrieves every institution with a fully populated,
// catalog-ordered policy list. Exams with no stored policy row are
// synthesized as not-accepted placeholders.
func (r *InstitutionRepository) ListInstitutions(ctx context.Context) ([]*models.Institution, error) {
	sql, args, err := r.sb.Select(institutionColumns...).
		From("universities").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list institutions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list institutions query")
		return nil, fmt.Errorf("error querying institutions: %w", err)
	}
	defer rows.Close()

	byID := map[int64]*models.Institution{}
	institutions := []*models.Institution{}
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning institution row")
			return nil, fmt.Errorf("error scanning institution row: %w", err)
		}
		byID[inst.ID] = inst
		institutions = append(institutions, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating institution rows: %w", err)
	}

	policies, err := r.listPolicies(ctx)
	if err != nil {
		return nil, err
	}

	for _, inst := range institutions {
		inst.Policies = buildPolicyList(policies[inst.ID])
		clep.Recompute(inst)
	}
	return institutions, nil
}

// GetByDICode retrieves one institution by its external DI code.
func (r *InstitutionRepository) GetByDICode(ctx context.Context, diCode int64) (*models.Institution, error) {
	sql, args, err := r.sb.Select(institutionColumns...).
		From("universities").
		Where(squirrel.Eq{"di_code": diCode}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get institution query: %w", err)
	}

	inst, err := scanInstitution(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInstitutionNotFound
		}
		logger.Error().Err(err).Int64("diCode", diCode).Msg("Error scanning institution row")
		return nil, fmt.Errorf("error getting institution by DI code: %w", err)
	}

	policies, err := r.listPoliciesFor(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	inst.Policies = buildPolicyList(policies)
	clep.Recompute(inst)
	return inst, nil
}

// CreateInstitution inserts an institution and its accepted policy rows.
// Used by the bulk load pass; placeholder policies are not persisted.
func (r *InstitutionRepository) CreateInstitution(ctx context.Context, inst *models.Institution) (int64, error) {
	sql, args, err := r.sb.Insert("universities").
		Columns(institutionColumns[1:]...).
		Values(
			inst.Name, inst.City, inst.State, inst.Zip, inst.DICode,
			inst.Enrollment, inst.URL, inst.MaxCredits, inst.TranscriptionFee,
			inst.ScoreValidityYears, inst.CanUseForFailedCourses,
			inst.CanEnrolledStudentsUseCLEP, inst.MseaOrgID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create institution query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isDuplicateKeyError(err) {
			return 0, ErrInstitutionAlreadyExists
		}
		logger.Error().Err(err).Str("name", inst.Name).Msg("Error executing create institution query")
		return 0, fmt.Errorf("error creating institution: %w", err)
	}

	for i := range inst.Policies {
		p := &inst.Policies[i]
		if p.MinimumScore == nil && p.CreditsAwarded == nil && p.CourseEquivalent == "" {
			continue
		}
		psql, pargs, err := r.sb.Insert("clep_policies").
			Columns("university_id", "exam_name", "minimum_score", "credits_awarded", "course_equivalent").
			Values(id, p.ExamName, p.MinimumScore, p.CreditsAwarded, nullableString(p.CourseEquivalent)).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build create policy query: %w", err)
		}
		if _, err := r.db.Exec(ctx, psql, pargs...); err != nil {
			logger.Error().Err(err).Str("exam", p.ExamName).Msg("Error inserting policy row")
			return 0, fmt.Errorf("error creating policy: %w", err)
		}
	}

	return id, nil
}

// CountInstitutions returns the number of stored institutions.
func (r *InstitutionRepository) CountInstitutions(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("universities").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count institutions query: %w", err)
	}
	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting institutions: %w", err)
	}
	return count, nil
}

type policyRow struct {
	universityID int64
	policy       models.ExamPolicy
}

func (r *InstitutionRepository) listPolicies(ctx context.Context) (map[int64][]models.ExamPolicy, error) {
	sql, args, err := r.sb.Select("university_id", "exam_name", "minimum_score", "credits_awarded", "course_equivalent").
		From("clep_policies").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list policies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying policies: %w", err)
	}
	defer rows.Close()

	out := map[int64][]models.ExamPolicy{}
	for rows.Next() {
		pr, err := scanPolicyRow(rows)
		if err != nil {
			return nil, err
		}
		out[pr.universityID] = append(out[pr.universityID], pr.policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rows: %w", err)
	}
	return out, nil
}

func (r *InstitutionRepository) listPoliciesFor(ctx context.Context, universityID int64) ([]models.ExamPolicy, error) {
	sql, args, err := r.sb.Select("university_id", "exam_name", "minimum_score", "credits_awarded", "course_equivalent").
		From("clep_policies").
		Where(squirrel.Eq{"university_id": universityID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list policies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying policies: %w", err)
	}
	defer rows.Close()

	var out []models.ExamPolicy
	for rows.Next() {
		pr, err := scanPolicyRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr.policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rows: %w", err)
	}
	return out, nil
}

func scanPolicyRow(rows pgx.Rows) (policyRow, error) {
	var pr policyRow
	var course *string
	if err := rows.Scan(&pr.universityID, &pr.policy.ExamName, &pr.policy.MinimumScore, &pr.policy.CreditsAwarded, &course); err != nil {
		return pr, fmt.Errorf("error scanning policy row: %w", err)
	}
	if course != nil {
		pr.policy.CourseEquivalent = *course
	}
	// Stored zeros are historical junk; the normalizer's zero-is-absent
	// rule applies on the way out too.
	if pr.policy.MinimumScore != nil && *pr.policy.MinimumScore <= 0 {
		pr.policy.MinimumScore = nil
	}
	if pr.policy.CreditsAwarded != nil && *pr.policy.CreditsAwarded <= 0 {
		pr.policy.CreditsAwarded = nil
	}
	return pr, nil
}

// buildPolicyList expands sparse stored policies into the full
// catalog-ordered list.
func buildPolicyList(stored []models.ExamPolicy) []models.ExamPolicy {
	byExam := map[string]models.ExamPolicy{}
	for _, p := range stored {
		byExam[p.ExamName] = p
	}
	catalog := clep.Catalog()
	out := make([]models.ExamPolicy, 0, len(catalog))
	for _, examName := range catalog {
		if p, ok := byExam[examName]; ok {
			out = append(out, p)
		} else {
			out = append(out, models.ExamPolicy{ExamName: examName})
		}
	}
	return out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
