package postgres

import (
	"context"
	"time"

	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository is the Postgres ticket ledger. The
// one-open-ticket-per-vehicle invariant lives in the partial unique
// index tickets_one_open_per_vehicle, so CreateTicket is a plain insert
// and never a check followed by a write.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) HasOpenTicket(ctx context.Context, vehicleReg string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE vehicle_reg = $1 AND out_time IS NULL)`

	var open bool
	if err := r.pool.QueryRow(ctx, query, vehicleReg).Scan(&open); err != nil {
		return false, storageErr("open ticket lookup", err)
	}
	return open, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, vehicleReg string, spotID int, spotType domain.VehicleType, inTime time.Time) (int64, error) {
	const stmt = `
INSERT INTO tickets (spot_id, spot_type, vehicle_reg, in_time)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, stmt, spotID, spotType, vehicleReg, inTime).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateOpenTicket
		}
		return 0, storageErr("create ticket", err)
	}
	return id, nil
}

func (r *TicketRepository) GetOpenTicket(ctx context.Context, vehicleReg string) (domain.Ticket, error) {
	const query = `
SELECT id, spot_id, spot_type, vehicle_reg, in_time, out_time, price
FROM tickets
WHERE vehicle_reg = $1 AND out_time IS NULL`

	var t domain.Ticket
	err := r.pool.QueryRow(ctx, query, vehicleReg).
		Scan(&t.ID, &t.SpotID, &t.SpotType, &t.VehicleReg, &t.InTime, &t.OutTime, &t.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, storageErr("get open ticket", err)
	}
	return t, nil
}

// CloseTicket sets out_time and price exactly once. The IS NULL guard
// makes the update a test-and-set: a second close matches zero rows.
func (r *TicketRepository) CloseTicket(ctx context.Context, ticketID int64, outTime time.Time, price float64) error {
	const stmt = `
UPDATE tickets
SET out_time = $2, price = $3
WHERE id = $1 AND out_time IS NULL`

	tag, err := r.pool.Exec(ctx, stmt, ticketID, outTime, price)
	if err != nil {
		return storageErr("close ticket", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, ticketID).Scan(&exists); err != nil {
		return storageErr("close ticket recheck", err)
	}
	if exists {
		return domain.ErrTicketAlreadyClosed
	}
	return domain.ErrTicketNotFound
}

// PriorTicketCount counts the vehicle's closed tickets; the session
// being closed never counts toward its own recurrence. The query is
// backed by the tickets_vehicle_reg_idx index.
func (r *TicketRepository) PriorTicketCount(ctx context.Context, vehicleReg string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE vehicle_reg = $1 AND out_time IS NOT NULL`

	var count int
	if err := r.pool.QueryRow(ctx, query, vehicleReg).Scan(&count); err != nil {
		return 0, storageErr("prior ticket count", err)
	}
	return count, nil
}
