package domain

// ParkingSpot is a single physical parking location. Spots are provisioned
// once at setup; only Available mutates, and only through the inventory.
type ParkingSpot struct {
	ID        int
	Type      VehicleType
	Available bool
}
