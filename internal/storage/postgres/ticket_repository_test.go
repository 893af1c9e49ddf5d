package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/charmidable/parkingsystem/internal/testutil"
	"gopkg.in/guregu/null.v4"
)

func TestTicketRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewTicketRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateTicket rejects a second open ticket", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		id, err := repo.CreateTicket(ctx, "ABCDEF", 1, domain.VehicleTypeCar, now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id == 0 {
			t.Fatalf("expected assigned ticket id")
		}

		if _, err := repo.CreateTicket(ctx, "ABCDEF", 2, domain.VehicleTypeCar, now); !errors.Is(err, domain.ErrDuplicateOpenTicket) {
			t.Fatalf("expected ErrDuplicateOpenTicket, got %v", err)
		}

		open, err := repo.HasOpenTicket(ctx, "ABCDEF")
		if err != nil || !open {
			t.Fatalf("expected open ticket, got %v %v", open, err)
		}
	})

	t.Run("concurrent creates succeed exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		const callers = 8
		var wg sync.WaitGroup
		var mu sync.Mutex
		var created, duplicates int

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(spotID int) {
				defer wg.Done()
				_, err := repo.CreateTicket(ctx, "RACE-1", spotID%5+1, domain.VehicleTypeCar, now)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errors.Is(err, domain.ErrDuplicateOpenTicket):
					duplicates++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		if created != 1 {
			t.Fatalf("expected exactly one successful create, got %d", created)
		}
		if duplicates != callers-1 {
			t.Fatalf("expected %d duplicates, got %d", callers-1, duplicates)
		}
	})

	t.Run("GetOpenTicket returns the open session", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		if _, err := repo.GetOpenTicket(ctx, "ABCDEF"); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}

		id, err := repo.CreateTicket(ctx, "ABCDEF", 4, domain.VehicleTypeBike, now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		tk, err := repo.GetOpenTicket(ctx, "ABCDEF")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tk.ID != id || tk.SpotID != 4 || tk.SpotType != domain.VehicleTypeBike {
			t.Fatalf("unexpected ticket: %+v", tk)
		}
		if !tk.Open() || tk.Price.Valid {
			t.Fatalf("expected open unpriced ticket: %+v", tk)
		}
		if !tk.InTime.Equal(now) {
			t.Fatalf("expected in time %v, got %v", now, tk.InTime)
		}
	})

	t.Run("CloseTicket sets out time and price exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		id, err := repo.CreateTicket(ctx, "ABCDEF", 1, domain.VehicleTypeCar, now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := repo.CloseTicket(ctx, id, now.Add(time.Hour), 1.5); err != nil {
			t.Fatalf("close: %v", err)
		}
		if err := repo.CloseTicket(ctx, id, now.Add(2*time.Hour), 3.0); !errors.Is(err, domain.ErrTicketAlreadyClosed) {
			t.Fatalf("expected ErrTicketAlreadyClosed, got %v", err)
		}
		if err := repo.CloseTicket(ctx, 99999, now, 0); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}

		open, err := repo.HasOpenTicket(ctx, "ABCDEF")
		if err != nil || open {
			t.Fatalf("expected no open ticket after close, got %v %v", open, err)
		}
	})

	t.Run("PriorTicketCount counts closed tickets only", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		n, err := repo.PriorTicketCount(ctx, "ABCDEF")
		if err != nil || n != 0 {
			t.Fatalf("expected 0 prior tickets, got %d %v", n, err)
		}

		testutil.InsertTicket(t, ctx, pool, domain.Ticket{
			SpotID:     1,
			SpotType:   domain.VehicleTypeCar,
			VehicleReg: "ABCDEF",
			InTime:     now.Add(-48 * time.Hour),
			OutTime:    null.TimeFrom(now.Add(-47 * time.Hour)),
			Price:      null.FloatFrom(1.5),
		})
		testutil.InsertTicket(t, ctx, pool, domain.Ticket{
			SpotID:     1,
			SpotType:   domain.VehicleTypeCar,
			VehicleReg: "ABCDEF",
			InTime:     now.Add(-time.Hour),
		})

		n, err = repo.PriorTicketCount(ctx, "ABCDEF")
		if err != nil || n != 1 {
			t.Fatalf("expected 1 prior ticket (open one excluded), got %d %v", n, err)
		}
	})
}
