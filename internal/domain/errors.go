package domain

import "errors"

var (
	ErrSpotNotAvailable       = errors.New("no spot of that type is available")
	ErrSpotNotFound           = errors.New("spot not found")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrDuplicateOpenTicket    = errors.New("vehicle already has an open ticket")
	ErrTicketAlreadyClosed    = errors.New("ticket already closed")
	ErrInvalidInterval        = errors.New("invalid parking interval")
	ErrUnsupportedVehicleType = errors.New("unsupported vehicle type")
	ErrRegistrationRequired   = errors.New("vehicle registration number required")
	ErrStorageUnavailable     = errors.New("storage unavailable")
)
