// Package memory is a Store over plain maps, used by tests and local
// development. Atomic scopes run one at a time under a mutex against a
// snapshot that replaces the live data only on success, which gives the
// same guarantee the Postgres store gets from serializable transactions:
// no partial effects, no interleaved read-then-write on shared state.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aerotix/aerotix/internal/domain"
	"github.com/aerotix/aerotix/internal/repository"
)

type data struct {
	airports map[string]domain.Airport
	aircraft map[int64]domain.Aircraft
	seats    map[int64]domain.Seat
	flights  map[int64]domain.Flight
	sales    map[uuid.UUID]domain.Sale
	tickets  map[uuid.UUID]domain.Ticket
	nextID   int64
}

func newData() *data {
	return &data{
		airports: make(map[string]domain.Airport),
		aircraft: make(map[int64]domain.Aircraft),
		seats:    make(map[int64]domain.Seat),
		flights:  make(map[int64]domain.Flight),
		sales:    make(map[uuid.UUID]domain.Sale),
		tickets:  make(map[uuid.UUID]domain.Ticket),
	}
}

func (d *data) clone() *data {
	cp := newData()
	cp.nextID = d.nextID
	for k, v := range d.airports {
		cp.airports[k] = v
	}
	for k, v := range d.aircraft {
		cp.aircraft[k] = v
	}
	for k, v := range d.seats {
		cp.seats[k] = v
	}
	for k, v := range d.flights {
		cp.flights[k] = v
	}
	for k, v := range d.sales {
		cp.sales[k] = v
	}
	for k, v := range d.tickets {
		t := v
		if v.SeatID != nil {
			seatID := *v.SeatID
			t.SeatID = &seatID
		}
		cp.tickets[k] = t
	}
	return cp
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

// Hooks inject failures mid-scope so tests can prove that an aborted
// purchase leaves no sale and no tickets behind.
type Hooks struct {
	BeforeCreateTickets func() error
}

type Store struct {
	mu    sync.Mutex
	d     *data
	hooks Hooks
}

func NewStore() *Store {
	return &Store{d: newData()}
}

// SetHooks replaces the failure-injection hooks. Test-only.
func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Store) Inventory() repository.Inventory { return &inventoryRepo{l: s} }
func (s *Store) Sales() repository.Sales         { return &saleRepo{l: s} }
func (s *Store) Tickets() repository.Tickets     { return &ticketRepo{l: s} }
func (s *Store) Query() repository.Query         { return &queryRepo{l: s} }

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.d.clone()
	tx := &txStore{d: work, hooks: s.hooks}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.d = work
	return nil
}

func (s *Store) with(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func (s *Store) txHooks() Hooks { return s.hooks }

// txStore is a Store view bound to one in-flight snapshot.
type txStore struct {
	d     *data
	hooks Hooks
}

func (t *txStore) Inventory() repository.Inventory { return &inventoryRepo{l: t} }
func (t *txStore) Sales() repository.Sales         { return &saleRepo{l: t} }
func (t *txStore) Tickets() repository.Tickets     { return &ticketRepo{l: t} }
func (t *txStore) Query() repository.Query         { return &queryRepo{l: t} }

func (t *txStore) Atomic(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	return fn(ctx, t)
}

func (t *txStore) with(fn func(d *data) error) error { return fn(t.d) }

func (t *txStore) txHooks() Hooks { return t.hooks }

type locker interface {
	with(fn func(d *data) error) error
	txHooks() Hooks
}

var (
	_ repository.Store = (*Store)(nil)
	_ repository.Store = (*txStore)(nil)
)

type inventoryRepo struct{ l locker }

func (r *inventoryRepo) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	var out *domain.Flight
	err := r.l.with(func(d *data) error {
		f, ok := d.flights[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &f
		return nil
	})
	return out, err
}

func (r *inventoryRepo) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	var out *domain.Aircraft
	err := r.l.with(func(d *data) error {
		a, ok := d.aircraft[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *inventoryRepo) ListSeats(ctx context.Context, aircraftID int64) ([]domain.Seat, error) {
	var out []domain.Seat
	err := r.l.with(func(d *data) error {
		for _, s := range d.seats {
			if s.AircraftID == aircraftID {
				out = append(out, s)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *inventoryRepo) SeatCounts(ctx context.Context, aircraftID int64) (map[domain.SeatClass]int, error) {
	counts := make(map[domain.SeatClass]int)
	err := r.l.with(func(d *data) error {
		for _, s := range d.seats {
			if s.AircraftID == aircraftID {
				counts[s.Class]++
			}
		}
		return nil
	})
	return counts, err
}

func (r *inventoryRepo) CreateAirport(ctx context.Context, a domain.Airport) error {
	return r.l.with(func(d *data) error {
		if _, ok := d.airports[a.Code]; ok {
			return repository.ErrConflict
		}
		d.airports[a.Code] = a
		return nil
	})
}

func (r *inventoryRepo) CreateAircraft(ctx context.Context, serialNumber, model string) (int64, error) {
	var id int64
	err := r.l.with(func(d *data) error {
		for _, a := range d.aircraft {
			if a.SerialNumber == serialNumber {
				return repository.ErrConflict
			}
		}
		id = d.id()
		d.aircraft[id] = domain.Aircraft{ID: id, SerialNumber: serialNumber, Model: model}
		return nil
	})
	return id, err
}

func (r *inventoryRepo) BatchCreateSeats(ctx context.Context, aircraftID int64, seats []domain.Seat) error {
	return r.l.with(func(d *data) error {
		if _, ok := d.aircraft[aircraftID]; !ok {
			return repository.ErrNotFound
		}
		for _, s := range seats {
			id := d.id()
			d.seats[id] = domain.Seat{ID: id, AircraftID: aircraftID, Number: s.Number, Class: s.Class}
		}
		return nil
	})
}

func (r *inventoryRepo) ScheduleFlight(ctx context.Context, f domain.Flight) (int64, error) {
	var id int64
	err := r.l.with(func(d *data) error {
		if _, ok := d.aircraft[f.AircraftID]; !ok {
			return repository.ErrNotFound
		}
		id = d.id()
		f.ID = id
		d.flights[id] = f
		return nil
	})
	return id, err
}

type saleRepo struct{ l locker }

func (r *saleRepo) CreateSale(ctx context.Context, sale *domain.Sale) error {
	return r.l.with(func(d *data) error {
		if _, ok := d.sales[sale.ID]; ok {
			return repository.ErrConflict
		}
		d.sales[sale.ID] = *sale
		return nil
	})
}

func (r *saleRepo) CreateTickets(ctx context.Context, tickets []domain.Ticket) error {
	if h := r.l.txHooks().BeforeCreateTickets; h != nil {
		if err := h(); err != nil {
			return err
		}
	}
	return r.l.with(func(d *data) error {
		for _, t := range tickets {
			if _, ok := d.tickets[t.ID]; ok {
				return repository.ErrConflict
			}
			d.tickets[t.ID] = t
		}
		return nil
	})
}

func (r *saleRepo) SoldCounts(ctx context.Context, flightID int64) (map[domain.SeatClass]int, error) {
	counts := make(map[domain.SeatClass]int)
	err := r.l.with(func(d *data) error {
		for _, t := range d.tickets {
			if t.FlightID == flightID {
				counts[t.Class]++
			}
		}
		return nil
	})
	return counts, err
}

type ticketRepo struct{ l locker }

func (r *ticketRepo) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	var out *domain.Ticket
	err := r.l.with(func(d *data) error {
		t, ok := d.tickets[id]
		if !ok {
			return repository.ErrNotFound
		}
		if t.SeatID != nil {
			seatID := *t.SeatID
			t.SeatID = &seatID
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *ticketRepo) OccupiedSeatIDs(ctx context.Context, flightID int64, class domain.SeatClass) (map[int64]bool, error) {
	occupied := make(map[int64]bool)
	err := r.l.with(func(d *data) error {
		for _, t := range d.tickets {
			if t.FlightID == flightID && t.Class == class && t.SeatID != nil {
				occupied[*t.SeatID] = true
			}
		}
		return nil
	})
	return occupied, err
}

func (r *ticketRepo) AssignSeat(ctx context.Context, ticketID uuid.UUID, seatID int64) error {
	return r.l.with(func(d *data) error {
		t, ok := d.tickets[ticketID]
		if !ok || t.SeatID != nil {
			return repository.ErrConflict
		}
		for _, other := range d.tickets {
			if other.FlightID == t.FlightID && other.SeatID != nil && *other.SeatID == seatID {
				return repository.ErrConflict
			}
		}
		t.SeatID = &seatID
		d.tickets[ticketID] = t
		return nil
	})
}

type queryRepo struct{ l locker }

func (r *queryRepo) GetSaleWithTickets(ctx context.Context, saleID uuid.UUID) (*domain.SaleWithTickets, error) {
	var out *domain.SaleWithTickets
	err := r.l.with(func(d *data) error {
		sale, ok := d.sales[saleID]
		if !ok {
			return repository.ErrNotFound
		}
		swt := &domain.SaleWithTickets{Sale: sale}
		for _, t := range d.tickets {
			if t.SaleID == saleID {
				swt.Tickets = append(swt.Tickets, t)
			}
		}
		sort.Slice(swt.Tickets, func(i, j int) bool {
			return swt.Tickets[i].ID.String() < swt.Tickets[j].ID.String()
		})
		out = swt
		return nil
	})
	return out, err
}

func (r *queryRepo) FlightCounts(ctx context.Context, flightID int64) (*domain.FlightCounts, error) {
	fc := &domain.FlightCounts{
		FlightID: flightID,
		Classes:  make(map[domain.SeatClass]domain.ClassCounts),
	}
	err := r.l.with(func(d *data) error {
		f, ok := d.flights[flightID]
		if !ok {
			return repository.ErrNotFound
		}
		for _, s := range d.seats {
			if s.AircraftID != f.AircraftID {
				continue
			}
			cc := fc.Classes[s.Class]
			cc.Capacity++
			fc.Classes[s.Class] = cc
		}
		for _, t := range d.tickets {
			if t.FlightID != flightID {
				continue
			}
			cc := fc.Classes[t.Class]
			cc.Sold++
			if t.SeatID != nil {
				cc.CheckedIn++
			}
			fc.Classes[t.Class] = cc
		}
		for class, cc := range fc.Classes {
			cc.Available = cc.Capacity - cc.Sold
			if cc.Available < 0 {
				cc.Available = 0
			}
			fc.Classes[class] = cc
		}
		return nil
	})
	return fc, err
}

func (r *queryRepo) ListFlightSeats(ctx context.Context, flightID int64) ([]domain.SeatWithStatus, error) {
	var out []domain.SeatWithStatus
	err := r.l.with(func(d *data) error {
		f, ok := d.flights[flightID]
		if !ok {
			return repository.ErrNotFound
		}
		assigned := make(map[int64]uuid.UUID)
		for _, t := range d.tickets {
			if t.FlightID == flightID && t.SeatID != nil {
				assigned[*t.SeatID] = t.ID
			}
		}
		for _, s := range d.seats {
			if s.AircraftID != f.AircraftID {
				continue
			}
			sws := domain.SeatWithStatus{Seat: s}
			if tid, ok := assigned[s.ID]; ok {
				id := tid
				sws.Occupied = true
				sws.TicketID = &id
			}
			out = append(out, sws)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}
