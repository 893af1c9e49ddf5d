package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmidable/parkingsystem/internal/app"
	"github.com/charmidable/parkingsystem/internal/clock"
	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/charmidable/parkingsystem/internal/fare"
	"github.com/charmidable/parkingsystem/internal/storage/memory"
)

// End-to-end workflows over the in-memory store, including the
// concurrent-entry properties the inventory and ledger must hold.

func TestParkingFlow_EntryThenExit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := app.NewParkingService(
		memory.NewInventory(3, 2),
		memory.NewLedger(),
		fare.NewCalculator(fare.DefaultRates()),
		clock.NewStepping(start, time.Hour),
	)

	entry, err := svc.ProcessEntry(ctx, "ABCDEF", domain.VehicleTypeCar)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.SpotID != 1 {
		t.Fatalf("expected first car spot, got %d", entry.SpotID)
	}

	exit, err := svc.ProcessExit(ctx, "ABCDEF")
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if exit.TicketID != entry.TicketID {
		t.Fatalf("expected same ticket, got %d and %d", entry.TicketID, exit.TicketID)
	}
	if exit.Price != 1.5 {
		t.Fatalf("expected first visit price 1.5 for one hour, got %v", exit.Price)
	}

	free, err := svc.SpotAvailable(ctx, entry.SpotID)
	if err != nil || !free {
		t.Fatalf("expected spot free after exit, got %v %v", free, err)
	}

	// Second visit: one prior ticket, so the discount applies.
	if _, err := svc.ProcessEntry(ctx, "ABCDEF", domain.VehicleTypeCar); err != nil {
		t.Fatalf("second entry: %v", err)
	}
	exit, err = svc.ProcessExit(ctx, "ABCDEF")
	if err != nil {
		t.Fatalf("second exit: %v", err)
	}
	if want := 1.5 * 0.95; !almostEqual(exit.Price, want) {
		t.Fatalf("expected discounted price %v, got %v", want, exit.Price)
	}
}

func TestParkingFlow_ConcurrentEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const cars = 8
	const vehicles = 20
	svc := app.NewParkingService(
		memory.NewInventory(cars, 0),
		memory.NewLedger(),
		fare.NewCalculator(fare.DefaultRates()),
		clock.NewSystem(),
	)

	var wg sync.WaitGroup
	spotIDs := make(chan int, vehicles)
	rejections := make(chan error, vehicles)

	for i := 0; i < vehicles; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			res, err := svc.ProcessEntry(ctx, fmt.Sprintf("CAR-%02d", n), domain.VehicleTypeCar)
			if err != nil {
				rejections <- err
				return
			}
			spotIDs <- res.SpotID
		}(i)
	}
	wg.Wait()
	close(spotIDs)
	close(rejections)

	seen := make(map[int]bool)
	for id := range spotIDs {
		if seen[id] {
			t.Fatalf("spot %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != cars {
		t.Fatalf("expected all %d spots assigned, got %d", cars, len(seen))
	}
	for err := range rejections {
		if !errors.Is(err, domain.ErrSpotNotAvailable) {
			t.Fatalf("expected only lot-full rejections, got %v", err)
		}
	}
}

func TestParkingFlow_ConcurrentEntriesSameVehicle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const callers = 12
	inv := memory.NewInventory(callers, 0)
	svc := app.NewParkingService(
		inv,
		memory.NewLedger(),
		fare.NewCalculator(fare.DefaultRates()),
		clock.NewSystem(),
	)

	var wg sync.WaitGroup
	var mu sync.Mutex
	entered := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessEntry(ctx, "SAME-1", domain.VehicleTypeCar)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				entered++
			} else if !errors.Is(err, domain.ErrDuplicateOpenTicket) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if entered != 1 {
		t.Fatalf("expected exactly one successful entry, got %d", entered)
	}

	// Compensation must have released every spot the losers claimed.
	claimed := 0
	for id := 1; id <= callers; id++ {
		free, err := inv.IsAvailable(ctx, id)
		if err != nil {
			t.Fatalf("is available: %v", err)
		}
		if !free {
			claimed++
		}
	}
	if claimed != 1 {
		t.Fatalf("expected exactly one spot held, got %d", claimed)
	}
}

func almostEqual(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
