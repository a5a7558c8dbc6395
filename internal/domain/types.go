package domain

import (
	"time"

	"github.com/google/uuid"
)

// SeatClass is the fare category of a seat or ticket. It is fixed per seat
// when the aircraft cabin is provisioned and per ticket at sale time.
type SeatClass string

const (
	ClassFirst  SeatClass = "first"
	ClassSecond SeatClass = "second"
)

func (c SeatClass) Valid() bool {
	return c == ClassFirst || c == ClassSecond
}

// Classes lists every valid seat class in cabin order.
func Classes() []SeatClass {
	return []SeatClass{ClassFirst, ClassSecond}
}

type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

type Aircraft struct {
	ID           int64  `json:"id"`
	SerialNumber string `json:"serial_number"`
	Model        string `json:"model"`
}

// Seat belongs to exactly one aircraft. Occupancy is never stored on the
// seat itself: the same physical seat is reused across every flight the
// aircraft operates, so occupancy lives on the ticket as a (flight, seat)
// assignment.
type Seat struct {
	ID         int64     `json:"id"`
	AircraftID int64     `json:"aircraft_id"`
	Number     string    `json:"number"`
	Class      SeatClass `json:"class"`
}

type Flight struct {
	ID             int64     `json:"id"`
	AircraftID     int64     `json:"aircraft_id"`
	FromAirport    string    `json:"from_airport"`
	ToAirport      string    `json:"to_airport"`
	Departure      time.Time `json:"departure"`
	Arrival        time.Time `json:"arrival"`
	BasePriceCents int64     `json:"base_price_cents"`
}

// Sale is created atomically with its tickets. CreatedAt must precede the
// departure of every flight referenced by the sale's tickets.
type Sale struct {
	ID         uuid.UUID `json:"id"`
	BuyerTaxID string    `json:"buyer_tax_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ticket transitions from unchecked-in (SeatID nil) to checked-in (SeatID
// fixed) exactly once. Once assigned, the seat's class matches the ticket's
// class and the seat belongs to the flight's aircraft.
type Ticket struct {
	ID            uuid.UUID `json:"id"`
	SaleID        uuid.UUID `json:"sale_id"`
	FlightID      int64     `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	Class         SeatClass `json:"class"`
	PriceCents    int64     `json:"price_cents"`
	SeatID        *int64    `json:"seat_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *Ticket) CheckedIn() bool {
	return t.SeatID != nil
}

type SaleWithTickets struct {
	Sale    Sale     `json:"sale"`
	Tickets []Ticket `json:"tickets"`
}

// ClassCounts are the derived per-(flight, class) counters. Available is
// Capacity minus Sold and is never negative while RI-2 holds.
type ClassCounts struct {
	Capacity  int `json:"capacity"`
	Sold      int `json:"sold"`
	CheckedIn int `json:"checked_in"`
	Available int `json:"available"`
}

type FlightCounts struct {
	FlightID int64                     `json:"flight_id"`
	Classes  map[SeatClass]ClassCounts `json:"classes"`
}

type SeatWithStatus struct {
	Seat
	Occupied bool       `json:"occupied"`
	TicketID *uuid.UUID `json:"ticket_id,omitempty"`
}
