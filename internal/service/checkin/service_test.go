package checkin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository/memory"
)

func seedFlight(t *testing.T, store *memory.Store, firstSeats, secondSeats int, departure time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	aircraftID, err := store.Inventory().CreateAircraft(ctx, "PT-"+t.Name(), "E195")
	require.NoError(t, err)

	var seats []domain.Seat
	for i := 0; i < firstSeats; i++ {
		seats = append(seats, domain.Seat{Number: fmt.Sprintf("%dA", i+1), Class: domain.ClassFirst})
	}
	for i := 0; i < secondSeats; i++ {
		seats = append(seats, domain.Seat{Number: fmt.Sprintf("%dC", i+1), Class: domain.ClassSecond})
	}
	require.NoError(t, store.Inventory().BatchCreateSeats(ctx, aircraftID, seats))

	flightID, err := store.Inventory().ScheduleFlight(ctx, domain.Flight{
		AircraftID:     aircraftID,
		FromAirport:    "CGH",
		ToAirport:      "SDU",
		Departure:      departure,
		Arrival:        departure.Add(time.Hour),
		BasePriceCents: 10_000,
	})
	require.NoError(t, err)

	return flightID
}

func sellTickets(t *testing.T, store *memory.Store, flightID int64, class domain.SeatClass, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	sale := &domain.Sale{ID: uuid.New(), BuyerTaxID: "123", CreatedAt: time.Now()}
	require.NoError(t, store.Sales().CreateSale(ctx, sale))

	ids := make([]uuid.UUID, 0, n)
	tickets := make([]domain.Ticket, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		ids = append(ids, id)
		tickets = append(tickets, domain.Ticket{
			ID:            id,
			SaleID:        sale.ID,
			FlightID:      flightID,
			PassengerName: fmt.Sprintf("Passenger %d", i+1),
			Class:         class,
			PriceCents:    10_000,
			CreatedAt:     sale.CreatedAt,
		})
	}
	require.NoError(t, store.Sales().CreateTickets(ctx, tickets))

	return ids
}

func newService(store *memory.Store) *Service {
	return New(store, nil, nil, nil, Config{})
}

func TestCheckInAssignsLowestFreeSeat(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 3, 0, time.Now().Add(time.Hour))
	tickets := sellTickets(t, store, flightID, domain.ClassFirst, 2)
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, tickets[0])
	require.NoError(t, err)

	second, err := svc.CheckIn(ctx, tickets[1])
	require.NoError(t, err)

	// Same class, same flight, distinct seats, filled in ascending seat ID
	// order.
	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, domain.ClassFirst, first.Class)
	assert.Equal(t, domain.ClassFirst, second.Class)

	flight, err := store.Inventory().GetFlight(ctx, flightID)
	require.NoError(t, err)
	assert.Equal(t, flight.AircraftID, first.AircraftID)
	assert.Equal(t, flight.AircraftID, second.AircraftID)
}

func TestCheckInMatchesTicketClass(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 2, time.Now().Add(time.Hour))
	tickets := sellTickets(t, store, flightID, domain.ClassSecond, 1)
	svc := newService(store)

	seat, err := svc.CheckIn(context.Background(), tickets[0])
	require.NoError(t, err)
	assert.Equal(t, domain.ClassSecond, seat.Class)
}

func TestCheckInExactlyOnce(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 0, time.Now().Add(time.Hour))
	tickets := sellTickets(t, store, flightID, domain.ClassFirst, 1)
	svc := newService(store)
	ctx := context.Background()

	seat, err := svc.CheckIn(ctx, tickets[0])
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, tickets[0])
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// The first assignment stands.
	ticket, err := store.Tickets().GetTicket(ctx, tickets[0])
	require.NoError(t, err)
	require.NotNil(t, ticket.SeatID)
	assert.Equal(t, seat.ID, *ticket.SeatID)
}

func TestCheckInTicketNotFound(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.CheckIn(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestCheckInFlightDeparted(t *testing.T) {
	store := memory.NewStore()
	departure := time.Now().Add(time.Hour)
	flightID := seedFlight(t, store, 1, 0, departure)
	tickets := sellTickets(t, store, flightID, domain.ClassFirst, 1)
	svc := newService(store)
	svc.now = func() time.Time { return departure }

	_, err := svc.CheckIn(context.Background(), tickets[0])
	assert.ErrorIs(t, err, ErrFlightDeparted)
}

func TestCheckInNoSeatAvailable(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 1, 0, time.Now().Add(time.Hour))
	tickets := sellTickets(t, store, flightID, domain.ClassFirst, 2)
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, tickets[0])
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, tickets[1])
	assert.ErrorIs(t, err, ErrNoSeatAvailable)
}

func TestCheckInSeatOccupancyIsPerFlight(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Two flights on the same aircraft: the seat taken on the first flight
	// is still free on the second.
	aircraftID, err := store.Inventory().CreateAircraft(ctx, "PT-SHARED", "E195")
	require.NoError(t, err)
	require.NoError(t, store.Inventory().BatchCreateSeats(ctx, aircraftID, []domain.Seat{
		{Number: "1A", Class: domain.ClassFirst},
	}))

	departure := time.Now().Add(time.Hour)
	flightA, err := store.Inventory().ScheduleFlight(ctx, domain.Flight{
		AircraftID: aircraftID, FromAirport: "GRU", ToAirport: "GIG",
		Departure: departure, Arrival: departure.Add(time.Hour), BasePriceCents: 10_000,
	})
	require.NoError(t, err)
	flightB, err := store.Inventory().ScheduleFlight(ctx, domain.Flight{
		AircraftID: aircraftID, FromAirport: "GIG", ToAirport: "GRU",
		Departure: departure.Add(3 * time.Hour), Arrival: departure.Add(4 * time.Hour), BasePriceCents: 10_000,
	})
	require.NoError(t, err)

	ticketA := sellTickets(t, store, flightA, domain.ClassFirst, 1)[0]
	ticketB := sellTickets(t, store, flightB, domain.ClassFirst, 1)[0]
	svc := newService(store)

	seatA, err := svc.CheckIn(ctx, ticketA)
	require.NoError(t, err)

	seatB, err := svc.CheckIn(ctx, ticketB)
	require.NoError(t, err)

	assert.Equal(t, seatA.ID, seatB.ID)
}

func TestCheckInConcurrentOneSeat(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 1, 0, time.Now().Add(time.Hour))
	tickets := sellTickets(t, store, flightID, domain.ClassFirst, 10)
	svc := newService(store)

	var wg sync.WaitGroup
	errs := make([]error, len(tickets))

	for i, id := range tickets {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	var succeeded, noSeat int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoSeatAvailable):
			noSeat++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 9, noSeat)
}
