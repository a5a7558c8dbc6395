package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aerotix/aerotix/internal/domain"
)

// InventoryRepo reads the static flight/aircraft/seat facts and provides
// the provisioning writes used before a flight goes on sale.
type InventoryRepo struct {
	db DB
}

func (r *InventoryRepo) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "postgres.InventoryRepo.GetFlight"

	var f domain.Flight
	err := r.db.QueryRow(ctx,
		`SELECT id, aircraft_id, from_airport, to_airport, departure, arrival, base_price_cents
		 FROM flights WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.AircraftID, &f.FromAirport, &f.ToAirport, &f.Departure, &f.Arrival, &f.BasePriceCents)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &f, nil
}

func (r *InventoryRepo) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	const op = "postgres.InventoryRepo.GetAircraft"

	var a domain.Aircraft
	err := r.db.QueryRow(ctx,
		`SELECT id, serial_number, model FROM aircraft WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.SerialNumber, &a.Model)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func (r *InventoryRepo) ListSeats(ctx context.Context, aircraftID int64) ([]domain.Seat, error) {
	const op = "postgres.InventoryRepo.ListSeats"

	rows, err := r.db.Query(ctx,
		`SELECT id, aircraft_id, number, class
		 FROM seats
		 WHERE aircraft_id = $1
		 ORDER BY id`,
		aircraftID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.AircraftID, &s.Number, &s.Class); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *InventoryRepo) SeatCounts(ctx context.Context, aircraftID int64) (map[domain.SeatClass]int, error) {
	const op = "postgres.InventoryRepo.SeatCounts"

	rows, err := r.db.Query(ctx,
		`SELECT class, COUNT(*) FROM seats WHERE aircraft_id = $1 GROUP BY class`,
		aircraftID,
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

func (r *InventoryRepo) CreateAirport(ctx context.Context, a domain.Airport) error {
	const op = "postgres.InventoryRepo.CreateAirport"

	_, err := r.db.Exec(ctx,
		`INSERT INTO airports(code, name, city) VALUES ($1, $2, $3)`,
		a.Code, a.Name, a.City,
	)
	return wrapDBErr(op, err)
}

func (r *InventoryRepo) CreateAircraft(ctx context.Context, serialNumber, model string) (int64, error) {
	const op = "postgres.InventoryRepo.CreateAircraft"

	var id int64
	if err := r.db.QueryRow(ctx,
		`INSERT INTO aircraft(serial_number, model)
		 VALUES ($1, $2)
		 RETURNING id`,
		serialNumber, model,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *InventoryRepo) BatchCreateSeats(ctx context.Context, aircraftID int64, seats []domain.Seat) error {
	const op = "postgres.InventoryRepo.BatchCreateSeats"

	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seats(aircraft_id, number, class)
			 VALUES ($1, $2, $3)`,
			aircraftID, s.Number, s.Class,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *InventoryRepo) ScheduleFlight(ctx context.Context, f domain.Flight) (int64, error) {
	const op = "postgres.InventoryRepo.ScheduleFlight"

	var id int64
	if err := r.db.QueryRow(ctx,
		`INSERT INTO flights(aircraft_id, from_airport, to_airport, departure, arrival, base_price_cents)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		f.AircraftID, f.FromAirport, f.ToAirport, f.Departure, f.Arrival, f.BasePriceCents,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}
