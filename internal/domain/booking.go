package domain

import "time"

// Booking is immutable once created: it is never updated or deleted.
type Booking struct {
	ID                string
	FlightID          string
	PassengerName     string
	PassengerDocument string
	DiscountPercent   int
	FinalPrice        float64
	CreatedAt         time.Time
}
