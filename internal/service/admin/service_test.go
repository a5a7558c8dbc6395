package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository/memory"
)

func TestCreateAirport(t *testing.T) {
	store := memory.NewStore()
	svc := New(store, nil, nil)
	ctx := context.Background()

	gru := domain.Airport{Code: "GRU", Name: "Guarulhos", City: "Sao Paulo"}
	require.NoError(t, svc.CreateAirport(ctx, gru))

	assert.ErrorIs(t, svc.CreateAirport(ctx, gru), ErrAirportConflict)
	assert.Error(t, svc.CreateAirport(ctx, domain.Airport{Name: "no code"}))
}

func TestCreateAircraftWithCabin(t *testing.T) {
	store := memory.NewStore()
	svc := New(store, nil, nil)
	ctx := context.Background()

	id, err := svc.CreateAircraft(ctx, "PR-XTA", "A320neo", []domain.Seat{
		{Number: "1A", Class: domain.ClassFirst},
		{Number: "10C", Class: domain.ClassSecond},
		{Number: "10D", Class: domain.ClassSecond},
	})
	require.NoError(t, err)

	counts, err := store.Inventory().SeatCounts(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.ClassFirst])
	assert.Equal(t, 2, counts[domain.ClassSecond])

	_, err = svc.CreateAircraft(ctx, "PR-XTA", "A320neo", nil)
	assert.ErrorIs(t, err, ErrAircraftConflict)

	_, err = svc.CreateAircraft(ctx, "PR-XTB", "A320neo", []domain.Seat{
		{Number: "", Class: domain.ClassFirst},
	})
	assert.ErrorIs(t, err, ErrInvalidSeat)
}

func TestCreateAircraftAtomicCabin(t *testing.T) {
	store := memory.NewStore()
	svc := New(store, nil, nil)
	ctx := context.Background()

	// Valid seats but a duplicate serial: the whole scope aborts, no cabin
	// rows survive.
	_, err := svc.CreateAircraft(ctx, "PR-DUP", "E195", nil)
	require.NoError(t, err)

	_, err = svc.CreateAircraft(ctx, "PR-DUP", "E195", []domain.Seat{
		{Number: "1A", Class: domain.ClassFirst},
	})
	require.ErrorIs(t, err, ErrAircraftConflict)
}

func TestScheduleFlight(t *testing.T) {
	store := memory.NewStore()
	svc := New(store, nil, nil)
	ctx := context.Background()

	aircraftID, err := svc.CreateAircraft(ctx, "PR-SCH", "E195", nil)
	require.NoError(t, err)

	departure := time.Now().Add(48 * time.Hour)
	flight := domain.Flight{
		AircraftID:     aircraftID,
		FromAirport:    "GRU",
		ToAirport:      "REC",
		Departure:      departure,
		Arrival:        departure.Add(3 * time.Hour),
		BasePriceCents: 45_000,
	}

	id, err := svc.ScheduleFlight(ctx, flight)
	require.NoError(t, err)
	assert.NotZero(t, id)

	flight.Arrival = flight.Departure
	_, err = svc.ScheduleFlight(ctx, flight)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	flight.Arrival = flight.Departure.Add(time.Hour)
	flight.AircraftID = 999
	_, err = svc.ScheduleFlight(ctx, flight)
	assert.ErrorIs(t, err, ErrAircraftNotFound)
}
