package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository"
)

// QueryRepo serves the read endpoints: sale lookups, per-class counters and
// the per-flight seat map. Reads here run outside the transactional core.
type QueryRepo struct {
	db DB
}

func (r *QueryRepo) GetSaleWithTickets(ctx context.Context, saleID uuid.UUID) (*domain.SaleWithTickets, error) {
	const op = "postgres.QueryRepo.GetSaleWithTickets"

	var out domain.SaleWithTickets
	err := r.db.QueryRow(ctx,
		`SELECT id, buyer_tax_id, created_at FROM sales WHERE id = $1`,
		saleID,
	).Scan(&out.Sale.ID, &out.Sale.BuyerTaxID, &out.Sale.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, flight_id, passenger_name, class, price_cents, seat_id, created_at
		 FROM tickets
		 WHERE sale_id = $1
		 ORDER BY created_at, id`,
		saleID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.SaleID, &t.FlightID, &t.PassengerName, &t.Class, &t.PriceCents, &t.SeatID, &t.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *QueryRepo) FlightCounts(ctx context.Context, flightID int64) (*domain.FlightCounts, error) {
	const op = "postgres.QueryRepo.FlightCounts"

	var aircraftID int64
	if err := r.db.QueryRow(ctx,
		`SELECT aircraft_id FROM flights WHERE id = $1`, flightID,
	).Scan(&aircraftID); err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT s.class,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN t.id IS NOT NULL THEN 1 ELSE 0 END), 0)
		 FROM seats s
		 LEFT JOIN tickets t ON t.flight_id = $2 AND t.seat_id = s.id
		 WHERE s.aircraft_id = $1
		 GROUP BY s.class`,
		aircraftID, flightID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	fc := &domain.FlightCounts{
		FlightID: flightID,
		Classes:  make(map[domain.SeatClass]domain.ClassCounts),
	}
	for rows.Next() {
		var class domain.SeatClass
		var capacity, checkedIn int
		if err := rows.Scan(&class, &capacity, &checkedIn); err != nil {
			return nil, wrapDBErr(op, err)
		}
		fc.Classes[class] = domain.ClassCounts{Capacity: capacity, CheckedIn: checkedIn}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	sold, err := (&SaleRepo{db: r.db}).SoldCounts(ctx, flightID)
	if err != nil {
		return nil, err
	}
	for class, cc := range fc.Classes {
		cc.Sold = sold[class]
		cc.Available = cc.Capacity - cc.Sold
		if cc.Available < 0 {
			cc.Available = 0
		}
		fc.Classes[class] = cc
	}

	return fc, nil
}

func (r *QueryRepo) ListFlightSeats(ctx context.Context, flightID int64) ([]domain.SeatWithStatus, error) {
	const op = "postgres.QueryRepo.ListFlightSeats"

	var aircraftID int64
	if err := r.db.QueryRow(ctx,
		`SELECT aircraft_id FROM flights WHERE id = $1`, flightID,
	).Scan(&aircraftID); err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.aircraft_id, s.number, s.class, t.id
		 FROM seats s
		 LEFT JOIN tickets t ON t.flight_id = $2 AND t.seat_id = s.id
		 WHERE s.aircraft_id = $1
		 ORDER BY s.id`,
		aircraftID, flightID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.SeatWithStatus
	for rows.Next() {
		var sws domain.SeatWithStatus
		if err := rows.Scan(&sws.ID, &sws.AircraftID, &sws.Number, &sws.Class, &sws.TicketID); err != nil {
			return nil, wrapDBErr(op, err)
		}
		sws.Occupied = sws.TicketID != nil
		out = append(out, sws)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

var _ repository.Query = (*QueryRepo)(nil)
