package booking

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/kafka"
	"github.com/mzotov/astrobooking/internal/repository"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
}

// StateRefresher recomputes a flight's derived state in place, reporting
// whether it changed. Implemented by the flight service.
type StateRefresher interface {
	RefreshState(ctx context.Context, flight *domain.Flight) (bool, error)
}

type Cache interface {
	InvalidateFutureFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID          string
	PassengerName     string
	PassengerDocument string
}

type BookingService struct {
	bookings  repository.BookingRepository
	flights   repository.FlightRepository
	rockets   repository.RocketRepository
	refresher StateRefresher

	cache              Cache
	producer           Producer
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	rockets repository.RocketRepository,
	refresher StateRefresher,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:  bookings,
		flights:   flights,
		rockets:   rockets,
		refresher: refresher,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create validates the request, prices the seat and persists the booking.
// Eligibility is checked against the flight state as stored, without a
// prior refresh; the state is refreshed and persisted only after the
// booking is saved, so count-driven transitions (CONFIRMED, SOLD_OUT) fire
// as part of booking creation.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	flightID := strings.TrimSpace(input.FlightID)
	if flightID == "" {
		return nil, domain.NewValidationError("flightId", "flightId must be provided")
	}
	passengerName := strings.TrimSpace(input.PassengerName)
	if passengerName == "" {
		return nil, domain.NewValidationError("passengerName", "passengerName must be provided")
	}
	passengerDocument := strings.TrimSpace(input.PassengerDocument)
	if passengerDocument == "" {
		return nil, domain.NewValidationError("passengerDocument", "passengerDocument must be provided")
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, domain.NewValidationError("flightId", "flightId does not exist")
	}

	if flight.State == domain.FlightStateCancelled || flight.State == domain.FlightStateSoldOut {
		return nil, domain.NewConflictError("flight is not eligible for booking")
	}

	rocket, err := s.rockets.GetByID(ctx, strings.TrimSpace(flight.RocketID))
	if err != nil {
		return nil, err
	}
	if rocket == nil || rocket.Capacity < 1 {
		return nil, domain.NewValidationError("capacity", "rocket capacity is invalid")
	}

	currentBookings, err := s.bookings.CountByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if currentBookings >= rocket.Capacity {
		return nil, domain.NewConflictError("flight is sold out")
	}

	bookingNumber := currentBookings + 1
	discountPercent := computeDiscountPercent(bookingNumber, rocket.Capacity, flight.MinimumPassengers)

	if flight.BasePrice <= 0 {
		return nil, domain.NewValidationError("basePrice", "flight basePrice is invalid")
	}

	booking := &domain.Booking{
		FlightID:          flightID,
		PassengerName:     passengerName,
		PassengerDocument: passengerDocument,
		DiscountPercent:   discountPercent,
		FinalPrice:        flight.BasePrice * (100 - float64(discountPercent)) / 100,
		CreatedAt:         time.Now(),
	}
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	log.Printf("booking created: %s", booking.ID)
	s.publishBookingCreated(ctx, booking)

	// Refresh-then-persist so the new count is reflected immediately, not
	// on the next unrelated read. The booking is already persisted, so a
	// failed refresh must not turn the call into an error; the next read
	// recomputes the state anyway.
	changed, err := s.refresher.RefreshState(ctx, flight)
	if err != nil {
		log.Printf("WARNING: failed to refresh state for flight %s after booking %s: %v", flight.ID, booking.ID, err)
	} else if changed {
		if err := s.flights.Save(ctx, flight); err != nil {
			log.Printf("WARNING: failed to persist refreshed state for flight %s: %v", flight.ID, err)
		}
	}
	s.invalidateCache(ctx)
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "id must be provided")
	}
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	flightID = strings.TrimSpace(flightID)
	if flightID == "" {
		return nil, domain.NewValidationError("flightId", "flightId must be provided")
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, domain.NewValidationError("flightId", "flightId does not exist")
	}

	return s.bookings.ListByFlight(ctx, flightID)
}

// computeDiscountPercent prices a seat by its position: the last seat pays
// full price, the seat that reaches the passenger minimum gets the steepest
// discount, everyone else gets the early-bird rate.
func computeDiscountPercent(bookingNumber, capacity, minimumPassengers int) int {
	if bookingNumber == capacity {
		return 0
	}
	if minimumPassengers > 0 && bookingNumber == minimumPassengers {
		return 30
	}
	return 10
}

func (s *BookingService) publishBookingCreated(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.FlightEvent{
		Type:      kafka.EventBookingCreated,
		FlightID:  booking.FlightID,
		BookingID: booking.ID,
		Timestamp: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.FlightID, event); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.ID, err)
	}
}

func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFutureFlights(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate flights cache: %v", err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
