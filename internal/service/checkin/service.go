package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/core/seatalloc"
	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/kafka"
	"github.com/aerotix/aerotix/internal/repository"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
	"github.com/aerotix/aerotix/internal/uow"
)

// Producer publishes post-commit ticket events; nil disables publication.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Config struct {
	// TxMaxRetries bounds re-runs after a lost serialization or seat race.
	// 0 means the default of 3.
	TxMaxRetries int
	EventsTopic  string
}

// Service runs the check-in transaction: it assigns exactly one free seat
// of the ticket's class on the flight's aircraft, exactly once per ticket.
type Service struct {
	store    repository.Store
	cache    *redisrepo.Cache
	pubsub   *redisrepo.FlightsPubSub
	producer Producer
	uow      *uow.UoW
	cfg      Config

	// now is overridable in tests.
	now func() time.Time
}

func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.FlightsPubSub,
	producer Producer,
	cfg Config,
) *Service {
	if cfg.TxMaxRetries <= 0 {
		cfg.TxMaxRetries = 3
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		producer: producer,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
		now:      time.Now,
	}
}

// CheckIn assigns a seat to the ticket. The pick is deterministic: the free
// seat of the ticket's class with the lowest seat ID. A ticket that already
// carries a seat is never reassigned.
//
// Parameters:
//   - ctx: request-scoped context.
//   - ticketID: ID of the ticket to check in.
//
// Returns:
//   - *domain.Seat: the assigned seat.
//   - error: checkin.ErrTicketNotFound if the ticket does not exist.
//   - error: checkin.ErrAlreadyCheckedIn if the ticket already has a seat.
//   - error: checkin.ErrFlightDeparted if the flight already departed.
//   - error: checkin.ErrNoSeatAvailable if the class has no free seat left.
func (s *Service) CheckIn(ctx context.Context, ticketID uuid.UUID) (*domain.Seat, error) {
	const op = "service.checkin.CheckIn"

	var seat *domain.Seat
	var err error

	for attempt := 0; attempt < s.cfg.TxMaxRetries; attempt++ {
		seat, err = s.checkInOnce(ctx, ticketID)
		// A seat conflict means another transaction took the picked seat
		// between our read and our write; re-run to pick the next one.
		if !errors.Is(err, repository.ErrSerialization) &&
			!errors.Is(err, repository.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return seat, nil
}

func (s *Service) checkInOnce(ctx context.Context, ticketID uuid.UUID) (*domain.Seat, error) {
	var seat *domain.Seat

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx repository.Store,
		after func(uow.AfterCommit),
	) error {
		ticket, err := tx.Tickets().GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if ticket.CheckedIn() {
			return ErrAlreadyCheckedIn
		}

		flight, err := tx.Inventory().GetFlight(ctx, ticket.FlightID)
		if err != nil {
			return err
		}

		if !s.now().UTC().Before(flight.Departure) {
			return ErrFlightDeparted
		}

		seats, err := tx.Inventory().ListSeats(ctx, flight.AircraftID)
		if err != nil {
			return err
		}

		occupied, err := tx.Tickets().OccupiedSeatIDs(ctx, ticket.FlightID, ticket.Class)
		if err != nil {
			return err
		}

		picked, ok := seatalloc.Pick(seats, ticket.Class, occupied)
		if !ok {
			return ErrNoSeatAvailable
		}

		if err := tx.Tickets().AssignSeat(ctx, ticket.ID, picked.ID); err != nil {
			return err
		}

		seat = &picked

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateFlight(ctx, ticket.FlightID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishFlightChanged(ctx, ticket.FlightID)
			}
			s.publishCheckIn(ctx, ticket, picked)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return seat, nil
}

func (s *Service) publishCheckIn(ctx context.Context, t *domain.Ticket, seat domain.Seat) {
	if s.producer == nil || s.cfg.EventsTopic == "" {
		return
	}

	ev := kafka.TicketEvent{
		Type:          kafka.EventTicketCheckedIn,
		SaleID:        t.SaleID.String(),
		TicketID:      t.ID.String(),
		FlightID:      t.FlightID,
		PassengerName: t.PassengerName,
		Class:         string(t.Class),
		PriceCents:    t.PriceCents,
		SeatID:        &seat.ID,
		OccurredAt:    s.now().UTC(),
	}

	_ = s.producer.Publish(ctx, s.cfg.EventsTopic, ev.SaleID, ev)
}
