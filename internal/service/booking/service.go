package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/core/capacity"
	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/kafka"
	"github.com/aerotix/aerotix/internal/repository"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
	"github.com/aerotix/aerotix/internal/uow"
)

// Producer publishes post-commit ticket events. Satisfied by
// kafka.Producer; nil disables publication.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Config struct {
	// TxMaxRetries bounds how many times a purchase is re-run after losing
	// a serialization race. 0 means the default of 3.
	TxMaxRetries int
	EventsTopic  string
}

// Passenger is one requested ticket in a purchase.
type Passenger struct {
	Name  string
	Class domain.SeatClass
}

// Service runs the purchase transaction: one sale and its tickets are
// created atomically, capacity per (flight, class) is never exceeded and
// sales close at departure.
type Service struct {
	store    repository.Store
	cache    *redisrepo.Cache
	pubsub   *redisrepo.FlightsPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	producer Producer
	pricer   Pricer
	uow      *uow.UoW
	cfg      Config

	// now is overridable in tests.
	now func() time.Time
}

func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.FlightsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	producer Producer,
	pricer Pricer,
	cfg Config,
) *Service {
	if cfg.TxMaxRetries <= 0 {
		cfg.TxMaxRetries = 3
	}

	if pricer == nil {
		pricer = BasePricer{FirstClassMultiplier: 2.0}
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		producer: producer,
		pricer:   pricer,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Purchase sells one ticket per passenger on the given flight, all within
// one atomic scope. Either every ticket is created or none is.
//
// Parameters:
//   - ctx: request-scoped context.
//   - flightID: ID of the flight to sell on.
//   - buyerTaxID: tax ID of the buyer, recorded on the sale.
//   - passengers: one entry per requested ticket.
//   - rlKey: rate-limit key (client IP); empty disables limiting.
//
// Returns:
//   - *domain.SaleWithTickets: the committed sale and its tickets.
//   - error: booking.ErrFlightNotFound if the flight does not exist.
//   - error: booking.ErrInvalidClass if a requested class is unknown.
//   - error: booking.ErrSaleAfterDeparture if the flight already departed.
//   - error: booking.ErrCapacityExceeded if a class lacks unsold seats.
func (s *Service) Purchase(
	ctx context.Context,
	flightID int64,
	buyerTaxID string,
	passengers []Passenger,
	rlKey string,
) (*domain.SaleWithTickets, error) {
	const op = "service.booking.Purchase"

	if buyerTaxID == "" {
		return nil, fmt.Errorf("%s: buyer tax id required", op)
	}

	if len(passengers) == 0 {
		return nil, fmt.Errorf("%s: no passengers", op)
	}

	for _, p := range passengers {
		if p.Name == "" {
			return nil, fmt.Errorf("%s: passenger name required", op)
		}
		if !p.Class.Valid() {
			return nil, fmt.Errorf("%s:%w: %q", op, ErrInvalidClass, p.Class)
		}
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	var result *domain.SaleWithTickets
	var err error

	for attempt := 0; attempt < s.cfg.TxMaxRetries; attempt++ {
		result, err = s.purchaseOnce(ctx, flightID, buyerTaxID, passengers)
		if !errors.Is(err, repository.ErrSerialization) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return result, nil
}

func (s *Service) purchaseOnce(
	ctx context.Context,
	flightID int64,
	buyerTaxID string,
	passengers []Passenger,
) (*domain.SaleWithTickets, error) {
	var result *domain.SaleWithTickets

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx repository.Store,
		after func(uow.AfterCommit),
	) error {
		flight, err := tx.Inventory().GetFlight(ctx, flightID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrFlightNotFound
			}

			return err
		}

		soldAt := s.now().UTC()
		if !soldAt.Before(flight.Departure) {
			return ErrSaleAfterDeparture
		}

		seatCounts, err := tx.Inventory().SeatCounts(ctx, flight.AircraftID)
		if err != nil {
			return err
		}

		soldCounts, err := tx.Sales().SoldCounts(ctx, flightID)
		if err != nil {
			return err
		}

		requested := make(map[domain.SeatClass]int)
		for _, p := range passengers {
			requested[p.Class]++
		}

		if err := capacity.Check(requested, capacity.Available(seatCounts, soldCounts)); err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
		}

		sale := &domain.Sale{
			ID:         uuid.New(),
			BuyerTaxID: buyerTaxID,
			CreatedAt:  soldAt,
		}

		if err := tx.Sales().CreateSale(ctx, sale); err != nil {
			return err
		}

		tickets := make([]domain.Ticket, 0, len(passengers))
		for _, p := range passengers {
			tickets = append(tickets, domain.Ticket{
				ID:            uuid.New(),
				SaleID:        sale.ID,
				FlightID:      flightID,
				PassengerName: p.Name,
				Class:         p.Class,
				PriceCents:    s.pricer.Price(flight, p.Class),
				CreatedAt:     soldAt,
			})
		}

		if err := tx.Sales().CreateTickets(ctx, tickets); err != nil {
			return err
		}

		result = &domain.SaleWithTickets{Sale: *sale, Tickets: tickets}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateFlight(ctx, flightID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishFlightChanged(ctx, flightID)
			}
			s.publishSale(ctx, result)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) publishSale(ctx context.Context, sw *domain.SaleWithTickets) {
	if s.producer == nil || s.cfg.EventsTopic == "" {
		return
	}

	for _, t := range sw.Tickets {
		ev := kafka.TicketEvent{
			Type:          kafka.EventSaleCompleted,
			SaleID:        sw.Sale.ID.String(),
			TicketID:      t.ID.String(),
			FlightID:      t.FlightID,
			PassengerName: t.PassengerName,
			Class:         string(t.Class),
			PriceCents:    t.PriceCents,
			OccurredAt:    sw.Sale.CreatedAt,
		}

		_ = s.producer.Publish(ctx, s.cfg.EventsTopic, ev.SaleID, ev)
	}
}
