package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository/memory"
)

func seedFlight(t *testing.T, store *memory.Store, firstSeats, secondSeats int, departure time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	aircraftID, err := store.Inventory().CreateAircraft(ctx, "PT-"+t.Name(), "ATR-72")
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
		FromAirport:    "GRU",
		ToAirport:      "GIG",
		Departure:      departure,
		Arrival:        departure.Add(time.Hour),
		BasePriceCents: 10_000,
	})
	require.NoError(t, err)

	return flightID
}

func newService(store *memory.Store) *Service {
	return New(store, nil, nil, nil, nil, nil, Config{})
}

func TestPurchaseCreatesSaleAndTickets(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 3, time.Now().Add(24*time.Hour))
	svc := newService(store)

	sale, err := svc.Purchase(context.Background(), flightID, "111.444.777-35", []Passenger{
		{Name: "Ana Souza", Class: domain.ClassFirst},
		{Name: "Bruno Lima", Class: domain.ClassSecond},
		{Name: "Carla Dias", Class: domain.ClassSecond},
	}, "")
	require.NoError(t, err)
	require.Len(t, sale.Tickets, 3)

	assert.Equal(t, "111.444.777-35", sale.Sale.BuyerTaxID)
	for _, tk := range sale.Tickets {
		assert.Equal(t, sale.Sale.ID, tk.SaleID)
		assert.Equal(t, flightID, tk.FlightID)
		assert.Nil(t, tk.SeatID, "tickets are sold unchecked-in")
		switch tk.Class {
		case domain.ClassFirst:
			assert.Equal(t, int64(20_000), tk.PriceCents)
		case domain.ClassSecond:
			assert.Equal(t, int64(10_000), tk.PriceCents)
		}
	}

	sold, err := store.Sales().SoldCounts(context.Background(), flightID)
	require.NoError(t, err)
	assert.Equal(t, 1, sold[domain.ClassFirst])
	assert.Equal(t, 2, sold[domain.ClassSecond])
}

func TestPurchaseFlightNotFound(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.Purchase(context.Background(), 404, "123", []Passenger{
		{Name: "Ana", Class: domain.ClassFirst},
	}, "")
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestPurchaseInvalidClass(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 1, 1, time.Now().Add(time.Hour))
	svc := newService(store)

	_, err := svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "Ana", Class: "business"},
	}, "")
	assert.ErrorIs(t, err, ErrInvalidClass)
}

func TestPurchaseValidatesInput(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 1, 1, time.Now().Add(time.Hour))
	svc := newService(store)

	_, err := svc.Purchase(context.Background(), flightID, "", []Passenger{
		{Name: "Ana", Class: domain.ClassFirst},
	}, "")
	assert.Error(t, err)

	_, err = svc.Purchase(context.Background(), flightID, "123", nil, "")
	assert.Error(t, err)

	_, err = svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "", Class: domain.ClassFirst},
	}, "")
	assert.Error(t, err)
}

func TestPurchaseAfterDeparture(t *testing.T) {
	store := memory.NewStore()
	departure := time.Now().Add(time.Hour)
	flightID := seedFlight(t, store, 2, 2, departure)
	svc := newService(store)
	svc.now = func() time.Time { return departure.Add(time.Minute) }

	_, err := svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "Ana", Class: domain.ClassSecond},
	}, "")
	assert.ErrorIs(t, err, ErrSaleAfterDeparture)

	// Exactly at departure is already closed.
	svc.now = func() time.Time { return departure }
	_, err = svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "Ana", Class: domain.ClassSecond},
	}, "")
	assert.ErrorIs(t, err, ErrSaleAfterDeparture)
}

func TestPurchaseExhaustsClassIndependently(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 5, time.Now().Add(time.Hour))
	svc := newService(store)
	ctx := context.Background()

	buyFirst := func() error {
		_, err := svc.Purchase(ctx, flightID, "123", []Passenger{
			{Name: "P", Class: domain.ClassFirst},
		}, "")
		return err
	}

	require.NoError(t, buyFirst())
	require.NoError(t, buyFirst())
	assert.ErrorIs(t, buyFirst(), ErrCapacityExceeded)

	// Second class is unaffected by first-class exhaustion.
	_, err := svc.Purchase(ctx, flightID, "123", []Passenger{
		{Name: "P", Class: domain.ClassSecond},
	}, "")
	assert.NoError(t, err)
}

func TestPurchaseRejectsPartialFit(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 1, 5, time.Now().Add(time.Hour))
	svc := newService(store)

	// Two first-class passengers against one seat: the whole sale fails,
	// not just the second ticket.
	_, err := svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "Ana", Class: domain.ClassFirst},
		{Name: "Bruno", Class: domain.ClassFirst},
	}, "")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	sold, err := store.Sales().SoldCounts(context.Background(), flightID)
	require.NoError(t, err)
	assert.Zero(t, sold[domain.ClassFirst])
	assert.Zero(t, sold[domain.ClassSecond])
}

func TestPurchaseAtomicUnderInjectedFailure(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 2, time.Now().Add(time.Hour))
	svc := newService(store)

	boom := errors.New("boom")
	store.SetHooks(memory.Hooks{BeforeCreateTickets: func() error { return boom }})

	_, err := svc.Purchase(context.Background(), flightID, "123", []Passenger{
		{Name: "Ana", Class: domain.ClassFirst},
	}, "")
	require.ErrorIs(t, err, boom)

	// The aborted scope left neither the sale nor any ticket behind.
	store.SetHooks(memory.Hooks{})
	sold, err := store.Sales().SoldCounts(context.Background(), flightID)
	require.NoError(t, err)
	assert.Zero(t, sold[domain.ClassFirst])

	counts, err := store.Query().FlightCounts(context.Background(), flightID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Classes[domain.ClassFirst].Available)
}

func TestPurchaseConcurrentNeverOversells(t *testing.T) {
	store := memory.NewStore()
	flightID := seedFlight(t, store, 2, 0, time.Now().Add(time.Hour))
	svc := newService(store)

	const buyers = 10

	var wg sync.WaitGroup
	errs := make([]error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Purchase(context.Background(), flightID, fmt.Sprintf("buyer-%d", i), []Passenger{
				{Name: fmt.Sprintf("P%d", i), Class: domain.ClassFirst},
			}, "")
		}(i)
	}
	wg.Wait()

	var succeeded, exceeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCapacityExceeded):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, buyers-2, exceeded)

	sold, err := store.Sales().SoldCounts(context.Background(), flightID)
	require.NoError(t, err)
	assert.Equal(t, 2, sold[domain.ClassFirst])
}

func TestBasePricer(t *testing.T) {
	flight := &domain.Flight{BasePriceCents: 10_000}
	p := BasePricer{FirstClassMultiplier: 2.5}

	assert.Equal(t, int64(25_000), p.Price(flight, domain.ClassFirst))
	assert.Equal(t, int64(10_000), p.Price(flight, domain.ClassSecond))
}
