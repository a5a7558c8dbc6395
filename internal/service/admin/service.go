package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
	"github.com/aerotix/aerotix/internal/uow"
)

// Service provisions the inventory: airports, aircraft with their cabin
// layout, and flight schedules. Provisioning happens before sales open;
// nothing here mutates inventory once tickets exist.
type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.FlightsPubSub
	uow    *uow.UoW
}

func New(store repository.Store, cache *redisrepo.Cache, pubsub *redisrepo.FlightsPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

// CreateAirport registers an airport under its code.
//
// Parameters:
//   - ctx: request-scoped context.
//   - airport: code, name and city of the airport.
//
// Returns:
//   - error: admin.ErrAirportConflict if the code is already taken.
func (s *Service) CreateAirport(ctx context.Context, airport domain.Airport) error {
	const op = "service.admin.CreateAirport"

	if airport.Code == "" {
		return fmt.Errorf("%s: airport code required", op)
	}

	if err := s.store.Inventory().CreateAirport(ctx, airport); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%s: %w", op, ErrAirportConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateAircraft registers an aircraft and its full cabin in one atomic
// scope, so a partially provisioned cabin is never visible.
//
// Parameters:
//   - ctx: request-scoped context.
//   - serialNumber: unique airframe serial.
//   - model: aircraft model name.
//   - seats: cabin layout; every seat needs a number and a valid class.
//
// Returns:
//   - int64: the created aircraft ID.
//   - error: admin.ErrAircraftConflict if the serial is already registered.
//   - error: admin.ErrInvalidSeat if a seat lacks a number or class.
func (s *Service) CreateAircraft(
	ctx context.Context,
	serialNumber, model string,
	seats []domain.Seat,
) (int64, error) {
	const op = "service.admin.CreateAircraft"

	if serialNumber == "" {
		return 0, fmt.Errorf("%s: serial number required", op)
	}

	for _, seat := range seats {
		if seat.Number == "" || !seat.Class.Valid() {
			return 0, fmt.Errorf("%s: %w: %q/%q", op, ErrInvalidSeat, seat.Number, seat.Class)
		}
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		var err error
		id, err = tx.Inventory().CreateAircraft(ctx, serialNumber, model)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrAircraftConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if len(seats) == 0 {
			return nil
		}

		if err := tx.Inventory().BatchCreateSeats(ctx, id, seats); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	return id, err
}

// ScheduleFlight creates a flight on an existing aircraft.
//
// Parameters:
//   - ctx: request-scoped context.
//   - flight: aircraft, route, times and base price; ID is assigned.
//
// Returns:
//   - int64: the created flight ID.
//   - error: admin.ErrInvalidSchedule if departure is not before arrival.
//   - error: admin.ErrAircraftNotFound if the aircraft does not exist.
func (s *Service) ScheduleFlight(ctx context.Context, flight domain.Flight) (int64, error) {
	const op = "service.admin.ScheduleFlight"

	if !flight.Departure.Before(flight.Arrival) {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidSchedule)
	}

	if flight.BasePriceCents <= 0 {
		return 0, fmt.Errorf("%s: base price must be positive", op)
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		var err error
		id, err = tx.Inventory().ScheduleFlight(ctx, flight)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrAircraftNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateFlight(ctx, id)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishFlightChanged(ctx, id)
			}
		})

		return nil
	})

	return id, err
}
