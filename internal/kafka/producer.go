package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types carried in TicketEvent.Type.
const (
	EventSaleCompleted   = "sale_completed"
	EventTicketCheckedIn = "ticket_checked_in"
)

// TicketEvent is published after a purchase or check-in commits. One event
// per ticket, keyed by sale so all tickets of a sale land on one partition.
type TicketEvent struct {
	Type          string    `json:"type"`
	SaleID        string    `json:"sale_id"`
	TicketID      string    `json:"ticket_id"`
	FlightID      int64     `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	Class         string    `json:"class"`
	PriceCents    int64     `json:"price_cents"`
	SeatID        *int64    `json:"seat_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
