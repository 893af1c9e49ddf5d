package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmidable/parkingsystem/internal/clock"
	"github.com/charmidable/parkingsystem/internal/domain"
)

// SpotInventory holds the fixed spot inventory. ClaimNext must be a
// single atomic test-and-set: it never returns a spot another caller
// could claim concurrently.
type SpotInventory interface {
	ClaimNext(ctx context.Context, vehicleType domain.VehicleType) (int, error)
	Release(ctx context.Context, spotID int) error
	IsAvailable(ctx context.Context, spotID int) (bool, error)
	CountByType(ctx context.Context, vehicleType domain.VehicleType) (int, error)
}

// TicketLedger persists tickets. CreateTicket must enforce the
// one-open-ticket-per-vehicle invariant atomically, not check-then-act.
type TicketLedger interface {
	HasOpenTicket(ctx context.Context, vehicleReg string) (bool, error)
	CreateTicket(ctx context.Context, vehicleReg string, spotID int, spotType domain.VehicleType, inTime time.Time) (int64, error)
	GetOpenTicket(ctx context.Context, vehicleReg string) (domain.Ticket, error)
	CloseTicket(ctx context.Context, ticketID int64, outTime time.Time, price float64) error
	PriorTicketCount(ctx context.Context, vehicleReg string) (int, error)
}

// FareCalculator computes the price for a completed interval.
type FareCalculator interface {
	Compute(inTime, outTime time.Time, vehicleType domain.VehicleType, recurrent bool) (float64, error)
}

// ParkingService coordinates inventory, ledger and fare calculation to
// run the entry and exit workflows.
type ParkingService struct {
	inventory SpotInventory
	ledger    TicketLedger
	fares     FareCalculator
	clock     clock.Clock
}

func NewParkingService(inventory SpotInventory, ledger TicketLedger, fares FareCalculator, clk clock.Clock) *ParkingService {
	return &ParkingService{
		inventory: inventory,
		ledger:    ledger,
		fares:     fares,
		clock:     clk,
	}
}

type EntryResult struct {
	TicketID int64
	SpotID   int
	InTime   time.Time
}

// ProcessEntry claims a spot and opens a ticket for the vehicle.
//
// The ledger's atomic insert is the enforcement point for the
// one-open-ticket invariant; the HasOpenTicket pre-check only avoids a
// pointless claim/release round trip. When creation fails after a spot
// was claimed, the spot is released before the error is returned, so a
// failed entry never leaks inventory.
//
// Known limitation: a process crash between the claim and the insert
// leaves the spot unavailable with no ticket; recovering that state
// needs an external reconciliation pass against the ledger.
func (s *ParkingService) ProcessEntry(ctx context.Context, vehicleReg string, vehicleType domain.VehicleType) (EntryResult, error) {
	reg := domain.NormalizeRegistration(vehicleReg)
	if reg == "" {
		return EntryResult{}, domain.ErrRegistrationRequired
	}

	open, err := s.ledger.HasOpenTicket(ctx, reg)
	if err != nil {
		return EntryResult{}, err
	}
	if open {
		return EntryResult{}, domain.ErrDuplicateOpenTicket
	}

	spotID, err := s.inventory.ClaimNext(ctx, vehicleType)
	if err != nil {
		return EntryResult{}, err
	}

	inTime := s.clock.Now()
	ticketID, err := s.ledger.CreateTicket(ctx, reg, spotID, vehicleType, inTime)
	if err != nil {
		if relErr := s.inventory.Release(ctx, spotID); relErr != nil {
			return EntryResult{}, fmt.Errorf("release spot %d after failed ticket creation: %w (creation error: %v)", spotID, relErr, err)
		}
		return EntryResult{}, err
	}

	return EntryResult{TicketID: ticketID, SpotID: spotID, InTime: inTime}, nil
}

type ExitResult struct {
	TicketID int64
	SpotID   int
	Price    float64
	InTime   time.Time
	OutTime  time.Time
}

// ProcessExit closes the vehicle's open ticket and frees its spot.
//
// The ticket closure is the commit point: it is persisted before the
// spot release so an interruption between the two can never leave an
// open ticket on a spot that shows available. The reverse state, a
// closed ticket with its spot still unavailable, is reconcilable from
// the ledger and is surfaced as an error rather than hidden.
func (s *ParkingService) ProcessExit(ctx context.Context, vehicleReg string) (ExitResult, error) {
	reg := domain.NormalizeRegistration(vehicleReg)
	if reg == "" {
		return ExitResult{}, domain.ErrRegistrationRequired
	}

	ticket, err := s.ledger.GetOpenTicket(ctx, reg)
	if err != nil {
		return ExitResult{}, err
	}

	prior, err := s.ledger.PriorTicketCount(ctx, reg)
	if err != nil {
		return ExitResult{}, err
	}

	outTime := s.clock.Now()
	price, err := s.fares.Compute(ticket.InTime, outTime, ticket.SpotType, prior > 0)
	if err != nil {
		return ExitResult{}, err
	}

	if err := s.ledger.CloseTicket(ctx, ticket.ID, outTime, price); err != nil {
		return ExitResult{}, err
	}
	if err := s.inventory.Release(ctx, ticket.SpotID); err != nil {
		return ExitResult{}, fmt.Errorf("ticket %d closed but spot %d not released: %w", ticket.ID, ticket.SpotID, err)
	}

	return ExitResult{
		TicketID: ticket.ID,
		SpotID:   ticket.SpotID,
		Price:    price,
		InTime:   ticket.InTime,
		OutTime:  outTime,
	}, nil
}

// SpotAvailable reports the availability flag of a single spot.
func (s *ParkingService) SpotAvailable(ctx context.Context, spotID int) (bool, error) {
	return s.inventory.IsAvailable(ctx, spotID)
}

// SpotCountByType reports the total provisioned spots of a type.
func (s *ParkingService) SpotCountByType(ctx context.Context, vehicleType domain.VehicleType) (int, error) {
	return s.inventory.CountByType(ctx, vehicleType)
}
