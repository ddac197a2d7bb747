package rockets

import (
	"context"
	"log"
	"strings"

	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/repository"
)

type RocketUseCase interface {
	Create(ctx context.Context, input CreateRocketInput) (*domain.Rocket, error)
	Update(ctx context.Context, id string, input UpdateRocketInput) (*domain.Rocket, error)
	List(ctx context.Context, nameFilter string) ([]domain.Rocket, error)
	GetByID(ctx context.Context, id string) (*domain.Rocket, error)
}

type CreateRocketInput struct {
	Name     string
	Capacity int
	Range    string
	Speed    float64
}

// UpdateRocketInput carries a partial update; nil fields are left untouched.
// Range is immutable after creation.
type UpdateRocketInput struct {
	Name     *string
	Capacity *int
	Speed    *float64
}

type RocketService struct {
	rockets repository.RocketRepository
}

func NewRocketService(rockets repository.RocketRepository) *RocketService {
	return &RocketService{rockets: rockets}
}

func (s *RocketService) Create(ctx context.Context, input CreateRocketInput) (*domain.Rocket, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "Rocket name must be provided")
	}
	if input.Capacity <= 0 || input.Capacity > 10 {
		return nil, domain.NewValidationError("capacity", "Rocket capacity must be between 1 and 10")
	}
	rng, ok := domain.ParseRange(strings.TrimSpace(input.Range))
	if !ok {
		return nil, domain.NewValidationError("range", "Unsupported range value")
	}

	rocket := &domain.Rocket{
		Name:     name,
		Capacity: input.Capacity,
		Range:    rng,
		Speed:    input.Speed,
	}
	if err := s.rockets.Save(ctx, rocket); err != nil {
		return nil, err
	}
	log.Printf("rocket created: %s", rocket.ID)
	return rocket, nil
}

func (s *RocketService) Update(ctx context.Context, id string, input UpdateRocketInput) (*domain.Rocket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "id must be provided")
	}

	rocket, err := s.rockets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rocket == nil {
		return nil, nil
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "Rocket name must be provided")
		}
		rocket.Name = name
	}
	if input.Capacity != nil {
		if *input.Capacity <= 0 || *input.Capacity > 10 {
			return nil, domain.NewValidationError("capacity", "Rocket capacity must be between 1 and 10")
		}
		rocket.Capacity = *input.Capacity
	}
	if input.Speed != nil {
		rocket.Speed = *input.Speed
	}

	if err := s.rockets.Save(ctx, rocket); err != nil {
		return nil, err
	}
	log.Printf("rocket updated: %s", rocket.ID)
	return rocket, nil
}

func (s *RocketService) List(ctx context.Context, nameFilter string) ([]domain.Rocket, error) {
	all, err := s.rockets.List(ctx)
	if err != nil {
		return nil, err
	}

	nameFilter = strings.TrimSpace(nameFilter)
	if nameFilter == "" {
		return all, nil
	}

	needle := strings.ToLower(nameFilter)
	out := make([]domain.Rocket, 0, len(all))
	for _, rocket := range all {
		if strings.Contains(strings.ToLower(rocket.Name), needle) {
			out = append(out, rocket)
		}
	}
	return out, nil
}

func (s *RocketService) GetByID(ctx context.Context, id string) (*domain.Rocket, error) {
	return s.rockets.GetByID(ctx, id)
}

var _ RocketUseCase = (*RocketService)(nil)
