package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aerotix/aerotix/internal/domain"
)

// SaleRepo writes sale and ticket rows. Both inserts and the SoldCounts
// read they depend on are meant to run inside one serializable Atomic
// scope; the repo itself takes whatever handle it is given.
type SaleRepo struct {
	db DB
}

func (r *SaleRepo) CreateSale(ctx context.Context, sale *domain.Sale) error {
	const op = "postgres.SaleRepo.CreateSale"

	_, err := r.db.Exec(ctx,
		`INSERT INTO sales(id, buyer_tax_id, created_at)
		 VALUES ($1, $2, $3)`,
		sale.ID, sale.BuyerTaxID, sale.CreatedAt,
	)
	return wrapDBErr(op, err)
}

func (r *SaleRepo) CreateTickets(ctx context.Context, tickets []domain.Ticket) error {
	const op = "postgres.SaleRepo.CreateTickets"

	batch := &pgx.Batch{}
	for _, t := range tickets {
		batch.Queue(
			`INSERT INTO tickets(id, sale_id, flight_id, passenger_name, class, price_cents, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, t.SaleID, t.FlightID, t.PassengerName, t.Class, t.PriceCents, t.CreatedAt,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SaleRepo) SoldCounts(ctx context.Context, flightID int64) (map[domain.SeatClass]int, error) {
	const op = "postgres.SaleRepo.SoldCounts"

	rows, err := r.db.Query(ctx,
		`SELECT class, COUNT(*) FROM tickets WHERE flight_id = $1 GROUP BY class`,
		flightID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	counts := make(map[domain.SeatClass]int)
	for rows.Next() {
		var class domain.SeatClass
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return nil, wrapDBErr(op, err)
		}
		counts[class] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return counts, nil
}
