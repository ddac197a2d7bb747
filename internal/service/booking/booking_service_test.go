package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/kafka"
	"github.com/mzotov/astrobooking/internal/repository"
	"github.com/mzotov/astrobooking/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type testEnv struct {
	rockets  *repository.MemRocketRepository
	flights  *repository.MemFlightRepository
	bookings *repository.MemBookingRepository
	producer *MockProducer
	service  *BookingService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		rockets:  repository.NewMemRocketRepository(),
		flights:  repository.NewMemFlightRepository(),
		bookings: repository.NewMemBookingRepository(),
		producer: &MockProducer{},
	}
	flightService := flights.NewFlightService(env.flights, env.rockets, env.bookings)
	env.service = NewBookingService(env.bookings, env.flights, env.rockets, flightService,
		WithProducer(env.producer, "notifications"))
	return env
}

func (env *testEnv) addRocketAndFlight(t *testing.T, capacity, minimum int, basePrice float64) *domain.Flight {
	t.Helper()
	rocket := &domain.Rocket{Name: "Falcon", Capacity: capacity}
	require.NoError(t, env.rockets.Save(context.Background(), rocket))

	flight := &domain.Flight{
		RocketID:          rocket.ID,
		LaunchDateTime:    time.Now().Add(30 * 24 * time.Hour),
		BasePrice:         basePrice,
		MinimumPassengers: minimum,
		State:             domain.FlightStateScheduled,
	}
	require.NoError(t, env.flights.Save(context.Background(), flight))
	return flight
}

func (env *testEnv) book(t *testing.T, flightID string) (*domain.Booking, error) {
	t.Helper()
	return env.service.Create(context.Background(), CreateBookingInput{
		FlightID:          flightID,
		PassengerName:     "Ada Lovelace",
		PassengerDocument: "X1234567",
	})
}

func TestComputeDiscountPercent(t *testing.T) {
	testCases := []struct {
		name          string
		bookingNumber int
		capacity      int
		minimum       int
		want          int
	}{
		{"last seat pays full price", 5, 5, 2, 0},
		{"last seat wins over minimum", 2, 2, 2, 0},
		{"minimum-reaching seat gets 30", 2, 5, 2, 30},
		{"early bird before minimum", 1, 5, 2, 10},
		{"middle seat after minimum", 3, 5, 2, 10},
		{"single-seat rocket", 1, 1, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, computeDiscountPercent(tc.bookingNumber, tc.capacity, tc.minimum))
		})
	}
}

func TestBookingService_Create_Validations(t *testing.T) {
	env := newTestEnv()

	testCases := []struct {
		name        string
		input       CreateBookingInput
		wantField   string
		wantMessage string
	}{
		{
			name:        "blank flightId",
			input:       CreateBookingInput{FlightID: " ", PassengerName: "Ada", PassengerDocument: "X1"},
			wantField:   "flightId",
			wantMessage: "flightId must be provided",
		},
		{
			name:        "blank passengerName",
			input:       CreateBookingInput{FlightID: "f1", PassengerName: "  ", PassengerDocument: "X1"},
			wantField:   "passengerName",
			wantMessage: "passengerName must be provided",
		},
		{
			name:        "blank passengerDocument",
			input:       CreateBookingInput{FlightID: "f1", PassengerName: "Ada"},
			wantField:   "passengerDocument",
			wantMessage: "passengerDocument must be provided",
		},
		{
			name:        "unknown flight",
			input:       CreateBookingInput{FlightID: "ghost", PassengerName: "Ada", PassengerDocument: "X1"},
			wantField:   "flightId",
			wantMessage: "flightId does not exist",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := env.service.Create(context.Background(), tc.input)
			assert.Nil(t, created)

			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.wantField, validation.Field)
			assert.Equal(t, tc.wantMessage, validation.Message)
		})
	}
}

func TestBookingService_Create_TrimsPassengerFields(t *testing.T) {
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 5, 2, 1000)
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)

	created, err := env.service.Create(context.Background(), CreateBookingInput{
		FlightID:          " " + flight.ID + " ",
		PassengerName:     "  Ada Lovelace  ",
		PassengerDocument: " X1234567 ",
	})
	require.NoError(t, err)
	assert.Equal(t, flight.ID, created.FlightID)
	assert.Equal(t, "Ada Lovelace", created.PassengerName)
	assert.Equal(t, "X1234567", created.PassengerDocument)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestBookingService_Create_FullRocketScenario(t *testing.T) {
	// capacity=2, minimum=2: the second booking hits capacity first, so it
	// pays full price and the flight goes SOLD_OUT rather than CONFIRMED.
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 2, 2, 1000)
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)

	first, err := env.book(t, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, first.DiscountPercent)
	assert.Equal(t, 900.0, first.FinalPrice)

	stored, err := env.flights.GetByID(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStateScheduled, stored.State)

	second, err := env.book(t, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.DiscountPercent)
	assert.Equal(t, 1000.0, second.FinalPrice)

	stored, err = env.flights.GetByID(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStateSoldOut, stored.State)

	// Third attempt conflicts on the persisted SOLD_OUT state.
	third, err := env.book(t, flight.ID)
	assert.Nil(t, third)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "flight is not eligible for booking", conflict.Message)
}

func TestBookingService_Create_ConfirmationScenario(t *testing.T) {
	// capacity=5, minimum=2: the second booking reaches the minimum, gets
	// the 30% discount and confirms the flight.
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 5, 2, 1000)
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)

	first, err := env.book(t, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, first.DiscountPercent)
	assert.Equal(t, 900.0, first.FinalPrice)

	second, err := env.book(t, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, second.DiscountPercent)
	assert.Equal(t, 700.0, second.FinalPrice)

	stored, err := env.flights.GetByID(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStateConfirmed, stored.State)
}

func TestBookingService_Create_SoldOutByCount(t *testing.T) {
	// The stored state can lag behind the booking count; the count check
	// still blocks overbooking.
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 2, 1, 1000)
	for i := 0; i < 2; i++ {
		require.NoError(t, env.bookings.Save(context.Background(), &domain.Booking{
			FlightID:          flight.ID,
			PassengerName:     "Passenger",
			PassengerDocument: "DOC",
		}))
	}

	created, err := env.book(t, flight.ID)
	assert.Nil(t, created)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "flight is sold out", conflict.Message)
}

func TestBookingService_Create_IneligibleStates(t *testing.T) {
	for _, state := range []domain.FlightState{domain.FlightStateCancelled, domain.FlightStateSoldOut} {
		t.Run(string(state), func(t *testing.T) {
			env := newTestEnv()
			flight := env.addRocketAndFlight(t, 5, 2, 1000)
			flight.State = state
			require.NoError(t, env.flights.Save(context.Background(), flight))

			created, err := env.book(t, flight.ID)
			assert.Nil(t, created)
			var conflict *domain.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, "flight is not eligible for booking", conflict.Message)
		})
	}
}

func TestBookingService_Create_ChecksStoredStateWithoutRefresh(t *testing.T) {
	// The eligibility check reads the persisted state as-is: a flight whose
	// launch has lapsed but is still stored as SCHEDULED accepts the
	// booking, and only the post-create refresh marks it DONE.
	env := newTestEnv()
	rocket := &domain.Rocket{Name: "Falcon", Capacity: 5}
	require.NoError(t, env.rockets.Save(context.Background(), rocket))
	flight := &domain.Flight{
		RocketID:          rocket.ID,
		LaunchDateTime:    time.Now().Add(-time.Hour),
		BasePrice:         1000,
		MinimumPassengers: 2,
		State:             domain.FlightStateScheduled,
	}
	require.NoError(t, env.flights.Save(context.Background(), flight))
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)

	created, err := env.book(t, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, created.DiscountPercent)

	stored, err := env.flights.GetByID(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStateDone, stored.State)
}

func TestBookingService_Create_InvalidBasePrice(t *testing.T) {
	env := newTestEnv()
	rocket := &domain.Rocket{Name: "Falcon", Capacity: 5}
	require.NoError(t, env.rockets.Save(context.Background(), rocket))
	flight := &domain.Flight{
		RocketID:          rocket.ID,
		LaunchDateTime:    time.Now().Add(30 * 24 * time.Hour),
		MinimumPassengers: 2,
		State:             domain.FlightStateScheduled,
	}
	require.NoError(t, env.flights.Save(context.Background(), flight))

	created, err := env.book(t, flight.ID)
	assert.Nil(t, created)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "flight basePrice is invalid", validation.Message)
}

type failingRefresher struct{}

func (failingRefresher) RefreshState(context.Context, *domain.Flight) (bool, error) {
	return false, errors.New("store unavailable")
}

func TestBookingService_Create_RefreshFailureKeepsBooking(t *testing.T) {
	// The refresh runs after the booking is persisted; if it fails the
	// booking must still be returned, not reported as an error.
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 5, 2, 1000)
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)
	env.service.refresher = failingRefresher{}

	created, err := env.book(t, flight.ID)
	require.NoError(t, err)
	require.NotNil(t, created)

	stored, err := env.bookings.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, flight.ID, stored.FlightID)
}

func TestBookingService_Create_PublishesBookingCreatedOnce(t *testing.T) {
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 5, 3, 1000)

	env.producer.On("Publish", mock.Anything, "notifications", flight.ID,
		mock.MatchedBy(func(v interface{}) bool {
			event, ok := v.(kafka.FlightEvent)
			return ok && event.Type == kafka.EventBookingCreated
		})).Return(nil).Once()

	_, err := env.book(t, flight.ID)
	require.NoError(t, err)
	env.producer.AssertExpectations(t)
}

func TestBookingService_GetByID(t *testing.T) {
	env := newTestEnv()

	got, err := env.service.GetByID(context.Background(), "  ")
	assert.Nil(t, got)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "id must be provided", validation.Message)

	got, err = env.service.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)

	booking := &domain.Booking{FlightID: "f1", PassengerName: "Ada", PassengerDocument: "X1"}
	require.NoError(t, env.bookings.Save(context.Background(), booking))
	got, err = env.service.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, booking.ID, got.ID)
}

func TestBookingService_ListByFlight(t *testing.T) {
	env := newTestEnv()
	flight := env.addRocketAndFlight(t, 5, 2, 1000)
	env.producer.On("Publish", mock.Anything, "notifications", flight.ID, mock.Anything).Return(nil)

	_, err := env.service.ListByFlight(context.Background(), " ")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "flightId must be provided", validation.Message)

	_, err = env.service.ListByFlight(context.Background(), "ghost")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "flightId does not exist", validation.Message)

	_, err = env.book(t, flight.ID)
	require.NoError(t, err)
	_, err = env.book(t, flight.ID)
	require.NoError(t, err)

	list, err := env.service.ListByFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
