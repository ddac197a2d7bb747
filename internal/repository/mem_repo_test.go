package repository

import (
	"context"
	"testing"

	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemRocketRepository_SaveAssignsID(t *testing.T) {
	repo := NewMemRocketRepository()

	rocket := &domain.Rocket{Name: "Falcon", Capacity: 5}
	require.NoError(t, repo.Save(context.Background(), rocket))
	assert.NotEmpty(t, rocket.ID)

	got, err := repo.GetByID(context.Background(), rocket.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Falcon", got.Name)

	missing, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemRocketRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemRocketRepository()
	rocket := &domain.Rocket{Name: "Falcon", Capacity: 5}
	require.NoError(t, repo.Save(context.Background(), rocket))

	got, err := repo.GetByID(context.Background(), rocket.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(context.Background(), rocket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Falcon", again.Name)
}

func TestMemFlightRepository_SaveUpserts(t *testing.T) {
	repo := NewMemFlightRepository()

	flight := &domain.Flight{RocketID: "r1", State: domain.FlightStateScheduled}
	require.NoError(t, repo.Save(context.Background(), flight))
	assert.NotEmpty(t, flight.ID)

	flight.State = domain.FlightStateCancelled
	require.NoError(t, repo.Save(context.Background(), flight))

	got, err := repo.GetByID(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStateCancelled, got.State)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemBookingRepository_CountAndListByFlight(t *testing.T) {
	repo := NewMemBookingRepository()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(context.Background(), &domain.Booking{FlightID: "f1"}))
	}
	require.NoError(t, repo.Save(context.Background(), &domain.Booking{FlightID: "f2"}))

	count, err := repo.CountByFlight(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	list, err := repo.ListByFlight(context.Background(), "f2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	none, err := repo.ListByFlight(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemBookingRepository_SetsCreatedAt(t *testing.T) {
	repo := NewMemBookingRepository()

	booking := &domain.Booking{FlightID: "f1"}
	require.NoError(t, repo.Save(context.Background(), booking))
	assert.False(t, booking.CreatedAt.IsZero())
}
