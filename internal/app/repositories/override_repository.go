package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// ErrOverrideNotFound is returned when a policy override is not found.
var ErrOverrideNotFound = ErrNotFound

// OverrideRepository handles institution policy override database operations
type OverrideRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOverrideRepository creates a new OverrideRepository
func NewOverrideRepository(db *pgxpool.Pool) *OverrideRepository {
	return &OverrideRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var overrideColumns = []string{
	"id", "institution_di_code", "exam_name", "min_score", "credits",
	"course_code", "last_updated", "category",
}

func scanOverride(row pgx.Row) (*models.PolicyOverride, error) {
	o := &models.PolicyOverride{}
	err := row.Scan(
		&o.ID, &o.InstitutionDICode, &o.ExamName, &o.MinScore, &o.Credits,
		&o.CourseCode, &o.LastUpdated, &o.Category,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListByInstitution returns every override for one institution, ordered by exam name.
func (r *OverrideRepository) ListByInstitution(ctx context.Context, diCode int64) ([]*models.PolicyOverride, error) {
	sql, args, err := r.sb.Select(overrideColumns...).
		From("institution_updates").
		Where(squirrel.Eq{"institution_di_code": diCode}).
		OrderBy("exam_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list overrides query: %w", err)
	}
	return r.queryOverrides(ctx, sql, args)
}

// ListAll returns every stored override across all institutions.
func (r *OverrideRepository) ListAll(ctx context.Context) ([]*models.PolicyOverride, error) {
	sql, args, err := r.sb.Select(overrideColumns...).
		From("institution_updates").
		OrderBy("institution_di_code ASC", "exam_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list all overrides query: %w", err)
	}
	return r.queryOverrides(ctx, sql, args)
}

func (r *OverrideRepository) queryOverrides(ctx context.Context, sql string, args []interface{}) ([]*models.PolicyOverride, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing overrides query")
		return nil, fmt.Errorf("error querying overrides: %w", err)
	}
	defer rows.Close()

	overrides := []*models.PolicyOverride{}
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning override row: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating override rows: %w", err)
	}
	return overrides, nil
}

// GetByExam returns the override for one (institution, exam) pair.
func (r *OverrideRepository) GetByExam(ctx context.Context, diCode int64, examName string) (*models.PolicyOverride, error) {
	sql, args, err := r.sb.Select(overrideColumns...).
		From("institution_updates").
		Where(squirrel.Eq{"institution_di_code": diCode, "exam_name": examName}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get override query: %w", err)
	}

	o, err := scanOverride(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		logger.Error().Err(err).Int64("diCode", diCode).Str("exam", examName).Msg("Error scanning override row")
		return nil, fmt.Errorf("error getting override: %w", err)
	}
	return o, nil
}

// Upsert inserts or replaces the override row for (institution, exam).
// The caller is expected to have merged existing field values forward.
func (r *OverrideRepository) Upsert(ctx context.Context, o *models.PolicyOverride) error {
	sql, args, err := r.sb.Insert("institution_updates").
		Columns(overrideColumns[1:]...).
		Values(o.InstitutionDICode, o.ExamName, o.MinScore, o.Credits, o.CourseCode, o.LastUpdated, o.Category).
		Suffix(`ON CONFLICT (institution_di_code, exam_name) DO UPDATE SET
			min_score = EXCLUDED.min_score,
			credits = EXCLUDED.credits,
			course_code = EXCLUDED.course_code,
			last_updated = EXCLUDED.last_updated,
			category = EXCLUDED.category
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert override query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		logger.Error().Err(err).Int64("diCode", o.InstitutionDICode).Str("exam", o.ExamName).Msg("Error executing upsert override query")
		return fmt.Errorf("error upserting override: %w", err)
	}
	return nil
}

// DeleteForInstitution removes every override for an institution and
// reports how many rows were deleted.
func (r *OverrideRepository) DeleteForInstitution(ctx context.Context, diCode int64) (int64, error) {
	sql, args, err := r.sb.Delete("institution_updates").
		Where(squirrel.Eq{"institution_di_code": diCode}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete overrides query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("diCode", diCode).Msg("Error executing delete overrides query")
		return 0, fmt.Errorf("error deleting overrides: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByInstitution returns the number of overrides stored for an institution.
func (r *OverrideRepository) CountByInstitution(ctx context.Context, diCode int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("institution_updates").
		Where(squirrel.Eq{"institution_di_code": diCode}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count overrides query: %w", err)
	}
	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting overrides: %w", err)
	}
	return count, nil
}
