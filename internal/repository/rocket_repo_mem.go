package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mzotov/astrobooking/internal/domain"
)

// MemRocketRepository keeps rockets in a mutex-guarded map. Values are
// stored and returned by copy so callers never alias repository state.
type MemRocketRepository struct {
	mu      sync.RWMutex
	rockets map[string]domain.Rocket
}

func NewMemRocketRepository() *MemRocketRepository {
	return &MemRocketRepository{rockets: make(map[string]domain.Rocket)}
}

func (r *MemRocketRepository) Save(_ context.Context, rocket *domain.Rocket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rocket.ID == "" {
		rocket.ID = uuid.NewString()
	}
	r.rockets[rocket.ID] = *rocket
	return nil
}

func (r *MemRocketRepository) GetByID(_ context.Context, id string) (*domain.Rocket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rocket, ok := r.rockets[id]
	if !ok {
		return nil, nil
	}
	return &rocket, nil
}

func (r *MemRocketRepository) List(_ context.Context) ([]domain.Rocket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Rocket, 0, len(r.rockets))
	for _, rocket := range r.rockets {
		out = append(out, rocket)
	}
	return out, nil
}

var _ RocketRepository = (*MemRocketRepository)(nil)
