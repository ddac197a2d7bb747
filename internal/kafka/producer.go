package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// FlightEvent is published for every simulated side effect: cancellation
// notifications, refunds, payment capture on confirmation and sold-out
// notices. The worker consumes these to "deliver" notifications.
type FlightEvent struct {
	Type      string    `json:"type"`
	FlightID  string    `json:"flight_id"`
	State     string    `json:"state,omitempty"`
	Bookings  int       `json:"bookings,omitempty"`
	BookingID string    `json:"booking_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventFlightCancelled = "flight_cancelled"
	EventFlightConfirmed = "flight_confirmed"
	EventFlightSoldOut   = "flight_sold_out"
	EventBookingCreated  = "booking_created"
)

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

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
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
