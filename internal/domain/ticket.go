package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Ticket is one parking session, entry to exit. OutTime and Price stay
// null while the vehicle is parked and are set exactly once on closing.
type Ticket struct {
	ID         int64
	SpotID     int
	SpotType   VehicleType
	VehicleReg string
	InTime     time.Time
	OutTime    null.Time
	Price      null.Float
}

// Open reports whether the vehicle is still parked on this ticket.
func (t Ticket) Open() bool {
	return !t.OutTime.Valid
}
