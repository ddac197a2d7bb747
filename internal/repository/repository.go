package repository

import (
	"context"

	"github.com/mzotov/astrobooking/internal/domain"
)

// Repositories return (nil, nil) for lookups that find nothing; absence is
// not an error. Save upserts and assigns a generated id when the entity has
// none.

type RocketRepository interface {
	Save(ctx context.Context, rocket *domain.Rocket) error
	GetByID(ctx context.Context, id string) (*domain.Rocket, error)
	List(ctx context.Context) ([]domain.Rocket, error)
}

type FlightRepository interface {
	Save(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
}

type BookingRepository interface {
	Save(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	CountByFlight(ctx context.Context, flightID string) (int, error)
}
