package booking

import "github.com/aerotix/aerotix/internal/domain"

// Pricer fixes a ticket's price at sale time. The policy is external to the
// transaction engine; whatever it returns is stored on the ticket and never
// recomputed.
type Pricer interface {
	Price(flight *domain.Flight, class domain.SeatClass) int64
}

// BasePricer charges the flight's base price for second class and a
// configurable multiple of it for first class.
type BasePricer struct {
	FirstClassMultiplier float64
}

func (p BasePricer) Price(flight *domain.Flight, class domain.SeatClass) int64 {
	if class == domain.ClassFirst {
		return int64(float64(flight.BasePriceCents) * p.FirstClassMultiplier)
	}
	return flight.BasePriceCents
}
