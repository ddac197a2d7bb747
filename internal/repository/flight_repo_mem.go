package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mzotov/astrobooking/internal/domain"
)

type MemFlightRepository struct {
	mu      sync.RWMutex
	flights map[string]domain.Flight
}

func NewMemFlightRepository() *MemFlightRepository {
	return &MemFlightRepository{flights: make(map[string]domain.Flight)}
}

func (r *MemFlightRepository) Save(_ context.Context, flight *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	r.flights[flight.ID] = *flight
	return nil
}

func (r *MemFlightRepository) GetByID(_ context.Context, id string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flight, ok := r.flights[id]
	if !ok {
		return nil, nil
	}
	return &flight, nil
}

func (r *MemFlightRepository) List(_ context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Flight, 0, len(r.flights))
	for _, flight := range r.flights {
		out = append(out, flight)
	}
	return out, nil
}

var _ FlightRepository = (*MemFlightRepository)(nil)
