package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository"
)

// TicketRepo serves check-in: loading a ticket, deriving per-flight seat
// occupancy of a class and recording the one-time seat assignment. A
// partial unique index on tickets(flight_id, seat_id) backs the per-flight
// occupancy relation, so a lost race surfaces as ErrConflict even outside
// serializable isolation.
type TicketRepo struct {
	db DB
}

func (r *TicketRepo) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.GetTicket"

	var t domain.Ticket
	err := r.db.QueryRow(ctx,
		`SELECT id, sale_id, flight_id, passenger_name, class, price_cents, seat_id, created_at
		 FROM tickets WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.SaleID, &t.FlightID, &t.PassengerName, &t.Class, &t.PriceCents, &t.SeatID, &t.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

func (r *TicketRepo) OccupiedSeatIDs(ctx context.Context, flightID int64, class domain.SeatClass) (map[int64]bool, error) {
	const op = "postgres.TicketRepo.OccupiedSeatIDs"

	rows, err := r.db.Query(ctx,
		`SELECT seat_id FROM tickets
		 WHERE flight_id = $1 AND class = $2 AND seat_id IS NOT NULL`,
		flightID, class,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	occupied := make(map[int64]bool)
	for rows.Next() {
		var seatID int64
		if err := rows.Scan(&seatID); err != nil {
			return nil, wrapDBErr(op, err)
		}
		occupied[seatID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return occupied, nil
}

func (r *TicketRepo) AssignSeat(ctx context.Context, ticketID uuid.UUID, seatID int64) error {
	const op = "postgres.TicketRepo.AssignSeat"

	tag, err := r.db.Exec(ctx,
		`UPDATE tickets SET seat_id = $2
		 WHERE id = $1 AND seat_id IS NULL`,
		ticketID, seatID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		// Ticket gone or already checked in since it was loaded.
		return wrapDBErr(op, repository.ErrConflict)
	}

	return nil
}
