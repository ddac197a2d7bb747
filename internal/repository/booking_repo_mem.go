package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mzotov/astrobooking/internal/domain"
)

type MemBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewMemBookingRepository() *MemBookingRepository {
	return &MemBookingRepository{bookings: make(map[string]domain.Booking)}
}

func (r *MemBookingRepository) Save(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemBookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &booking, nil
}

func (r *MemBookingRepository) ListByFlight(_ context.Context, flightID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Booking
	for _, booking := range r.bookings {
		if booking.FlightID == flightID {
			out = append(out, booking)
		}
	}
	return out, nil
}

func (r *MemBookingRepository) CountByFlight(_ context.Context, flightID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, booking := range r.bookings {
		if booking.FlightID == flightID {
			count++
		}
	}
	return count, nil
}

var _ BookingRepository = (*MemBookingRepository)(nil)
