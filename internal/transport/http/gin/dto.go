package httpgin

import "time"

type PassengerInput struct {
	Name  string `json:"name" binding:"required"`
	Class string `json:"class" binding:"required,oneof=first second"`
}

type PurchaseRequest struct {
	BuyerTaxID string           `json:"buyer_tax_id" binding:"required"`
	Passengers []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
}

type TicketResponse struct {
	TicketID      string `json:"ticket_id"`
	PassengerName string `json:"passenger_name"`
	Class         string `json:"class"`
	PriceCents    int64  `json:"price_cents"`
	SeatID        *int64 `json:"seat_id,omitempty"`
}

type PurchaseResponse struct {
	SaleID  string           `json:"sale_id"`
	Tickets []TicketResponse `json:"tickets"`
}

type CheckinResponse struct {
	TicketID   string `json:"ticket_id"`
	SeatID     int64  `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Class      string `json:"class"`
}

type CreateAirportRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	City string `json:"city"`
}

type SeatInput struct {
	Number string `json:"number" binding:"required"`
	Class  string `json:"class" binding:"required,oneof=first second"`
}

type CreateAircraftRequest struct {
	SerialNumber string      `json:"serial_number" binding:"required"`
	Model        string      `json:"model" binding:"required"`
	Seats        []SeatInput `json:"seats" binding:"required,min=1,dive"`
}

type CreateAircraftResponse struct {
	AircraftID int64 `json:"aircraft_id"`
}

type ScheduleFlightRequest struct {
	AircraftID     int64  `json:"aircraft_id" binding:"required"`
	FromAirport    string `json:"from_airport" binding:"required"`
	ToAirport      string `json:"to_airport" binding:"required"`
	Departure      string `json:"departure" binding:"required"`
	Arrival        string `json:"arrival" binding:"required"`
	BasePriceCents int64  `json:"base_price_cents" binding:"required,gt=0"`
}

type ScheduleFlightResponse struct {
	FlightID int64 `json:"flight_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
