package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is the shared sentinel for lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Repositories holds all the repository instances
type Repositories struct {
	InstitutionRepository *InstitutionRepository
	OverrideRepository    *OverrideRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		InstitutionRepository: NewInstitutionRepository(db),
		OverrideRepository:    NewOverrideRepository(db),
	}
}
