// Package seed loads the bulk institution dataset into postgres on first
// start. The data file carries raw records in either historical shape;
// every record goes through the normalizer, none is dropped.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/openclep/clepfinder/internal/app/repositories"
	"github.com/openclep/clepfinder/internal/clep"
)

// LoadInstitutionData ingests the JSON data file when the institution
// table is empty. A populated table makes this a no-op, so restarts never
// duplicate rows.
func LoadInstitutionData(ctx context.Context, dbPool *pgxpool.Pool, dataFile string, lgr zerolog.Logger) error {
	repo := repositories.NewInstitutionRepository(dbPool)

	count, err := repo.CountInstitutions(ctx)
	if err != nil {
		return fmt.Errorf("error checking institution count: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int64("count", count).Msg("Institution table already populated, skipping seed")
		return nil
	}

	raw, err := os.ReadFile(dataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			lgr.Warn().Str("file", dataFile).Msg("Seed data file not found, starting with an empty database")
			return nil
		}
		return fmt.Errorf("error reading seed data file: %w", err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return fmt.Errorf("error decoding seed data file %s: %w", dataFile, err)
	}

	lgr.Info().Int("records", len(records)).Str("file", dataFile).Msg("Seeding institution data")

	var loaded int
	for i, record := range records {
		inst := clep.NormalizeRecord(record, int64(i+1))
		if _, err := repo.CreateInstitution(ctx, inst); err != nil {
			if errors.Is(err, repositories.ErrInstitutionAlreadyExists) {
				lgr.Warn().Str("name", inst.Name).Int64("diCode", inst.DICode).
					Msg("Duplicate DI code in seed data, skipping")
				continue
			}
			return fmt.Errorf("error seeding institution %q: %w", inst.Name, err)
		}
		loaded++
	}

	lgr.Info().Int("loaded", loaded).Msg("Institution seed complete")
	return nil
}

// decodeRecords accepts the three historical top-level layouts: a bare
// array, an object with a "schools" array, or a single record object.
func decodeRecords(raw []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapper struct {
		Schools []map[string]any `json:"schools"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Schools != nil {
		return wrapper.Schools, nil
	}

	var single map[string]any
	if err := json.Unmarshal(raw, &single); err == nil && len(single) > 0 {
		if _, hasSchools := single["schools"]; !hasSchools {
			return []map[string]any{single}, nil
		}
	}

	return nil, errors.New("unrecognized data file layout")
}
