package memory

import (
	"context"
	"sync"
	"time"

	"github.com/charmidable/parkingsystem/internal/domain"
	"gopkg.in/guregu/null.v4"
)

// Ledger is an in-memory ticket ledger. Every operation runs inside one
// short critical section, so the duplicate check and the insert in
// CreateTicket are a single indivisible step. Tickets are never deleted;
// closed ones remain as the history recurrence lookups are derived from.
type Ledger struct {
	mu            sync.Mutex
	nextID        int64
	tickets       map[int64]*domain.Ticket
	openByVehicle map[string]int64
	closedCount   map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{
		tickets:       make(map[int64]*domain.Ticket),
		openByVehicle: make(map[string]int64),
		closedCount:   make(map[string]int),
	}
}

func (l *Ledger) HasOpenTicket(_ context.Context, vehicleReg string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.openByVehicle[vehicleReg]
	return ok, nil
}

func (l *Ledger) CreateTicket(_ context.Context, vehicleReg string, spotID int, spotType domain.VehicleType, inTime time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.openByVehicle[vehicleReg]; ok {
		return 0, domain.ErrDuplicateOpenTicket
	}

	l.nextID++
	l.tickets[l.nextID] = &domain.Ticket{
		ID:         l.nextID,
		SpotID:     spotID,
		SpotType:   spotType,
		VehicleReg: vehicleReg,
		InTime:     inTime,
	}
	l.openByVehicle[vehicleReg] = l.nextID
	return l.nextID, nil
}

func (l *Ledger) GetOpenTicket(_ context.Context, vehicleReg string) (domain.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.openByVehicle[vehicleReg]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return *l.tickets[id], nil
}

func (l *Ledger) CloseTicket(_ context.Context, ticketID int64, outTime time.Time, price float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tk, ok := l.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if !tk.Open() {
		return domain.ErrTicketAlreadyClosed
	}

	tk.OutTime = null.TimeFrom(outTime)
	tk.Price = null.FloatFrom(price)
	delete(l.openByVehicle, tk.VehicleReg)
	l.closedCount[tk.VehicleReg]++
	return nil
}

// PriorTicketCount counts the vehicle's closed tickets; the ticket
// currently open never counts toward its own recurrence.
func (l *Ledger) PriorTicketCount(_ context.Context, vehicleReg string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closedCount[vehicleReg], nil
}
