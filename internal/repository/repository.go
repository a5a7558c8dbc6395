// Package repository defines the storage contract of the booking core.
//
// A Store hands out narrow repositories over the shared inventory, sale and
// ticket state. Atomic runs a function against a Store view bound to one
// serializable transaction: effects become visible to other callers only if
// the function returns nil, and concurrent Atomic scopes touching the same
// (flight, class) resource never interleave their reads and writes.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/domain"
)

type Store interface {
	Inventory() Inventory
	Sales() Sales
	Tickets() Tickets
	Query() Query

	// Atomic executes fn inside a serializable transaction and commits it
	// when fn returns nil. A failure returns ErrSerialization when the
	// attempt lost a concurrency race and may be retried as a whole.
	Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Inventory covers the static per-flight facts: aircraft, seats, schedule.
// Rows are provisioned before operations begin and are read-only during
// booking and check-in.
type Inventory interface {
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
	// ListSeats returns the aircraft's seats ordered by ascending seat ID,
	// the order the seat allocator depends on.
	ListSeats(ctx context.Context, aircraftID int64) ([]domain.Seat, error)
	SeatCounts(ctx context.Context, aircraftID int64) (map[domain.SeatClass]int, error)

	CreateAirport(ctx context.Context, a domain.Airport) error
	CreateAircraft(ctx context.Context, serialNumber, model string) (int64, error)
	BatchCreateSeats(ctx context.Context, aircraftID int64, seats []domain.Seat) error
	ScheduleFlight(ctx context.Context, f domain.Flight) (int64, error)
}

// Sales writes sale and ticket rows and derives the sold side of the
// capacity ledger. SoldCounts must be evaluated inside the same Atomic scope
// as the ticket insert that depends on it.
type Sales interface {
	CreateSale(ctx context.Context, sale *domain.Sale) error
	CreateTickets(ctx context.Context, tickets []domain.Ticket) error
	SoldCounts(ctx context.Context, flightID int64) (map[domain.SeatClass]int, error)
}

// Tickets covers the check-in side: loading a ticket, deriving per-flight
// seat occupancy and recording the one-time seat assignment.
type Tickets interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// OccupiedSeatIDs returns the seats already assigned on the flight for
	// the given class.
	OccupiedSeatIDs(ctx context.Context, flightID int64, class domain.SeatClass) (map[int64]bool, error)
	// AssignSeat sets the ticket's seat. ErrConflict when the seat is
	// already taken on the ticket's flight.
	AssignSeat(ctx context.Context, ticketID uuid.UUID, seatID int64) error
}

// Query serves the read endpoints outside the transactional core.
type Query interface {
	GetSaleWithTickets(ctx context.Context, saleID uuid.UUID) (*domain.SaleWithTickets, error)
	FlightCounts(ctx context.Context, flightID int64) (*domain.FlightCounts, error)
	ListFlightSeats(ctx context.Context, flightID int64) ([]domain.SeatWithStatus, error)
}
