package redis

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "aerotix:v1"

func KeyFlightSummary(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:summary", ns, flightID)
}

func KeyFlightAvailability(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:availability", ns, flightID)
}

func KeyFlightSeatMap(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:seatmap", ns, flightID)
}

func KeySale(saleID uuid.UUID) string {
	return fmt.Sprintf("%s:sale:%s", ns, saleID)
}

func KeyIdemPurchase(flightID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:purchase:%d:%s", ns, flightID, idemKey)
}

func ChannelFlightsChanged() string {
	return ns + ":flights:changed"
}
