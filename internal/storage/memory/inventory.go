package memory

import (
	"context"
	"sync"

	"github.com/charmidable/parkingsystem/internal/domain"
)

type spot struct {
	id        int
	available bool
}

// typedSpots is the critical section for one vehicle type: claims and
// releases for different types never contend with each other.
type typedSpots struct {
	mu    sync.Mutex
	spots []*spot // ascending id order, fixed after construction
}

// Inventory is a mutex-guarded in-memory spot inventory. Claim-and-mark
// is a single critical section, never a separate read then write.
type Inventory struct {
	byType map[domain.VehicleType]*typedSpots
	homeOf map[int]*typedSpots // spot id -> its type's critical section; immutable
}

// NewInventory provisions a fixed inventory: car spots numbered 1..cars,
// bike spots numbered cars+1..cars+bikes. Spots are never destroyed;
// only their availability flag mutates, through Inventory operations.
func NewInventory(cars, bikes int) *Inventory {
	inv := &Inventory{
		byType: map[domain.VehicleType]*typedSpots{
			domain.VehicleTypeCar:  {},
			domain.VehicleTypeBike: {},
		},
		homeOf: make(map[int]*typedSpots, cars+bikes),
	}
	id := 1
	for i := 0; i < cars; i++ {
		inv.add(domain.VehicleTypeCar, id)
		id++
	}
	for i := 0; i < bikes; i++ {
		inv.add(domain.VehicleTypeBike, id)
		id++
	}
	return inv
}

func (inv *Inventory) add(vehicleType domain.VehicleType, id int) {
	ts := inv.byType[vehicleType]
	ts.spots = append(ts.spots, &spot{id: id, available: true})
	inv.homeOf[id] = ts
}

// ClaimNext atomically marks the lowest-numbered free spot of the given
// type unavailable and returns its id.
func (inv *Inventory) ClaimNext(_ context.Context, vehicleType domain.VehicleType) (int, error) {
	ts, ok := inv.byType[vehicleType]
	if !ok {
		return 0, domain.ErrUnsupportedVehicleType
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, s := range ts.spots {
		if s.available {
			s.available = false
			return s.id, nil
		}
	}
	return 0, domain.ErrSpotNotAvailable
}

// Release marks a spot available again. Releasing an already-available
// spot is a no-op, so a double release cannot corrupt state.
func (inv *Inventory) Release(_ context.Context, spotID int) error {
	ts, ok := inv.homeOf[spotID]
	if !ok {
		return domain.ErrSpotNotFound
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, s := range ts.spots {
		if s.id == spotID {
			s.available = true
			return nil
		}
	}
	return domain.ErrSpotNotFound
}

func (inv *Inventory) IsAvailable(_ context.Context, spotID int) (bool, error) {
	ts, ok := inv.homeOf[spotID]
	if !ok {
		return false, domain.ErrSpotNotFound
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, s := range ts.spots {
		if s.id == spotID {
			return s.available, nil
		}
	}
	return false, domain.ErrSpotNotFound
}

// CountByType reports total provisioned spots of a type, not free ones.
func (inv *Inventory) CountByType(_ context.Context, vehicleType domain.VehicleType) (int, error) {
	ts, ok := inv.byType[vehicleType]
	if !ok {
		return 0, domain.ErrUnsupportedVehicleType
	}
	return len(ts.spots), nil
}
