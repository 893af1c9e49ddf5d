package domain

import "strings"

type VehicleType string

const (
	VehicleTypeCar  VehicleType = "CAR"
	VehicleTypeBike VehicleType = "BIKE"
)

// ParseVehicleType maps user input onto a known vehicle type.
func ParseVehicleType(s string) (VehicleType, error) {
	switch VehicleType(strings.ToUpper(strings.TrimSpace(s))) {
	case VehicleTypeCar:
		return VehicleTypeCar, nil
	case VehicleTypeBike:
		return VehicleTypeBike, nil
	default:
		return "", ErrUnsupportedVehicleType
	}
}

// NormalizeRegistration is the single normalization policy for vehicle
// registration numbers. Entry and exit lookups must both go through it.
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.TrimSpace(reg))
}
