package notify

import (
	"context"
	"fmt"

	"github.com/mzotov/astrobooking/internal/kafka"
)

// Sender "delivers" passenger notifications for flight events. Delivery is
// simulated: events are printed, nothing leaves the process.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.FlightEvent) error {
	switch event.Type {
	case kafka.EventFlightCancelled:
		fmt.Printf("notify passengers: flight %s cancelled, refunding %d bookings\n", event.FlightID, event.Bookings)
	case kafka.EventFlightConfirmed:
		fmt.Printf("notify passengers: flight %s confirmed, capturing payments\n", event.FlightID)
	case kafka.EventFlightSoldOut:
		fmt.Printf("notify passengers: flight %s sold out\n", event.FlightID)
	case kafka.EventBookingCreated:
		fmt.Printf("notify passenger: booking %s created for flight %s\n", event.BookingID, event.FlightID)
	default:
		fmt.Printf("notify: unhandled event %s for flight %s\n", event.Type, event.FlightID)
	}
	return nil
}
