package postgres

import (
	"context"

	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SpotRepository is the Postgres spot inventory. It relies on the
// database serializing conflicting writes per spot row; that row-level
// locking guarantee is a precondition for the claim semantics below.
type SpotRepository struct {
	pool *pgxpool.Pool
}

func NewSpotRepository(pool *pgxpool.Pool) *SpotRepository {
	return &SpotRepository{pool: pool}
}

// ClaimNext marks one free spot of the given type unavailable and
// returns its id, as a single statement. SKIP LOCKED steps over rows a
// concurrent claim is holding, so among unlocked free spots the lowest
// id wins and two claims can never take the same row.
func (r *SpotRepository) ClaimNext(ctx context.Context, vehicleType domain.VehicleType) (int, error) {
	const stmt = `
UPDATE parking_spots
SET available = FALSE
WHERE id = (
	SELECT id
	FROM parking_spots
	WHERE type = $1 AND available
	ORDER BY id
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id`

	var id int
	err := r.pool.QueryRow(ctx, stmt, vehicleType).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrSpotNotAvailable
		}
		return 0, storageErr("claim next spot", err)
	}
	return id, nil
}

// Release marks the spot available again. Re-releasing an available
// spot is a no-op update, so double release stays idempotent.
func (r *SpotRepository) Release(ctx context.Context, spotID int) error {
	const stmt = `UPDATE parking_spots SET available = TRUE WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, spotID)
	if err != nil {
		return storageErr("release spot", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpotNotFound
	}
	return nil
}

func (r *SpotRepository) IsAvailable(ctx context.Context, spotID int) (bool, error) {
	const query = `SELECT available FROM parking_spots WHERE id = $1`

	var available bool
	err := r.pool.QueryRow(ctx, query, spotID).Scan(&available)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, domain.ErrSpotNotFound
		}
		return false, storageErr("spot availability", err)
	}
	return available, nil
}

func (r *SpotRepository) CountByType(ctx context.Context, vehicleType domain.VehicleType) (int, error) {
	const query = `SELECT COUNT(*) FROM parking_spots WHERE type = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, vehicleType).Scan(&count); err != nil {
		return 0, storageErr("count spots", err)
	}
	return count, nil
}
