package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/facility-ops-api/internal/models"
)

// FacilityRepository resolves facility records.
type FacilityRepository struct {
	db *sqlx.DB
}

// NewFacilityRepository constructs the repository.
func NewFacilityRepository(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// GetByID fetches a facility by identifier.
func (r *FacilityRepository) GetByID(ctx context.Context, id string) (*models.Facility, error) {
	const query = `SELECT id, name, timezone, active, created_at FROM facilities WHERE id = $1`
	var facility models.Facility
	if err := r.db.GetContext(ctx, &facility, query, id); err != nil {
		return nil, err
	}
	return &facility, nil
}

// GetCurrent returns the facility for the running deployment: the oldest
// active record. Single-facility installs have exactly one.
func (r *FacilityRepository) GetCurrent(ctx context.Context) (*models.Facility, error) {
	const query = `SELECT id, name, timezone, active, created_at
	FROM facilities WHERE active = true ORDER BY created_at ASC LIMIT 1`
	var facility models.Facility
	if err := r.db.GetContext(ctx, &facility, query); err != nil {
		return nil, err
	}
	return &facility, nil
}
