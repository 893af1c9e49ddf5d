package fare

import (
	"time"

	"github.com/charmidable/parkingsystem/internal/domain"
)

// Rates holds the hourly price per vehicle type. The values are a
// deployment parameter and come in through configuration.
type Rates struct {
	Car  float64
	Bike float64
}

// DefaultRates are the rates used when configuration provides none.
func DefaultRates() Rates {
	return Rates{Car: 1.5, Bike: 1.0}
}

// GracePeriod is the initial span of a session that is always free.
const GracePeriod = 30 * time.Minute

const recurringDiscount = 0.95

type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Compute returns the price for a session. It is a pure function of its
// arguments: no I/O, no clock access.
//
// Sessions lasting up to the grace period cost nothing. Beyond it the
// full elapsed time is billed at the hourly rate for the vehicle type,
// measured at sub-minute precision, and recurring users get a flat 5%
// off any non-zero price. The result carries full float64 precision;
// rounding for display is the caller's concern.
func (c *Calculator) Compute(inTime, outTime time.Time, vehicleType domain.VehicleType, recurrent bool) (float64, error) {
	if outTime.IsZero() || outTime.Before(inTime) {
		return 0, domain.ErrInvalidInterval
	}

	rate, err := c.rateFor(vehicleType)
	if err != nil {
		return 0, err
	}

	elapsed := outTime.Sub(inTime)
	if elapsed <= GracePeriod {
		return 0, nil
	}

	price := elapsed.Hours() * rate
	if recurrent {
		price *= recurringDiscount
	}
	return price, nil
}

func (c *Calculator) rateFor(vehicleType domain.VehicleType) (float64, error) {
	switch vehicleType {
	case domain.VehicleTypeCar:
		return c.rates.Car, nil
	case domain.VehicleTypeBike:
		return c.rates.Bike, nil
	default:
		return 0, domain.ErrUnsupportedVehicleType
	}
}
