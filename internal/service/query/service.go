package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
)

type Config struct {
	FlightSummaryTTL time.Duration
	AvailabilityTTL  time.Duration
	SeatMapTTL       time.Duration
}

// Service serves the read endpoints through the Redis cache. Availability
// gets a short TTL because every committed purchase or check-in also
// invalidates the flight's keys. A nil cache reads straight through.
type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FlightSummaryTTL <= 0 {
		cfg.FlightSummaryTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 30 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

func cached[T any](
	ctx context.Context,
	cache *redisrepo.Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if cache == nil {
		return load(ctx)
	}

	return redisrepo.GetOrSetJSON(ctx, cache, key, ttl, load)
}

// GetFlight retrieves a flight by its ID through the caching layer.
//
// Parameters:
//   - ctx: request-scoped context.
//   - id: ID of the flight to retrieve.
//
// Returns:
//   - *domain.Flight: the retrieved flight.
//   - error: query.ErrFlightNotFound if the flight is not found.
func (s *Service) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "service.query.GetFlight"

	flight, err := cached(
		ctx,
		s.cache,
		redisrepo.KeyFlightSummary(id),
		s.cfg.FlightSummaryTTL,
		func(ctx context.Context) (domain.Flight, error) {
			f, err := s.store.Inventory().GetFlight(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Flight{}, ErrFlightNotFound
				}

				return domain.Flight{}, err
			}

			return *f, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &flight, nil
}

// Availability retrieves the per-class seat counters of a flight: capacity,
// sold, checked-in and available.
//
// Parameters:
//   - ctx: request-scoped context.
//   - flightID: ID of the flight to count seats for.
//
// Returns:
//   - *domain.FlightCounts: the per-class counters.
//   - error: query.ErrFlightNotFound if the flight is not found.
func (s *Service) Availability(ctx context.Context, flightID int64) (*domain.FlightCounts, error) {
	const op = "service.query.Availability"

	counts, err := cached(
		ctx,
		s.cache,
		redisrepo.KeyFlightAvailability(flightID),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.FlightCounts, error) {
			fc, err := s.store.Query().FlightCounts(ctx, flightID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.FlightCounts{}, ErrFlightNotFound
				}

				return domain.FlightCounts{}, err
			}

			return *fc, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}

// SeatMap lists every seat on the flight's aircraft with its occupancy on
// this flight, in ascending seat ID order.
//
// Parameters:
//   - ctx: request-scoped context.
//   - flightID: ID of the flight to map.
//
// Returns:
//   - []domain.SeatWithStatus: seats with occupancy and ticket ID.
//   - error: query.ErrFlightNotFound if the flight is not found.
func (s *Service) SeatMap(ctx context.Context, flightID int64) ([]domain.SeatWithStatus, error) {
	const op = "service.query.SeatMap"

	seats, err := cached(
		ctx,
		s.cache,
		redisrepo.KeyFlightSeatMap(flightID),
		s.cfg.SeatMapTTL,
		func(ctx context.Context) ([]domain.SeatWithStatus, error) {
			out, err := s.store.Query().ListFlightSeats(ctx, flightID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrFlightNotFound
				}

				return nil, err
			}

			return out, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// GetSale retrieves a sale along with its tickets.
//
// Parameters:
//   - ctx: request-scoped context.
//   - saleID: ID of the sale to retrieve.
//
// Returns:
//   - *domain.SaleWithTickets: the sale with its tickets.
//   - error: query.ErrSaleNotFound if the sale is not found.
func (s *Service) GetSale(ctx context.Context, saleID uuid.UUID) (*domain.SaleWithTickets, error) {
	const op = "service.query.GetSale"

	sale, err := s.store.Query().GetSaleWithTickets(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSaleNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sale, nil
}
