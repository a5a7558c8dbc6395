// Package email delivers passenger notifications for committed ticket
// events. The sender only logs the message; a real SMTP/SES integration
// slots in behind the same method.
package email

import (
	"context"
	"log/slog"

	"github.com/aerotix/aerotix/internal/kafka"
)

type Sender struct {
	logger *slog.Logger
}

func NewSender(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	s.logger.Info("notify passenger",
		"type", event.Type,
		"passenger", event.PassengerName,
		"flight_id", event.FlightID,
		"ticket_id", event.TicketID,
	)
	return nil
}
