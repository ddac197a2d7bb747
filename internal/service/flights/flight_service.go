package flights

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/kafka"
	"github.com/mzotov/astrobooking/internal/repository"
)

// cancellationWindow is how close to launch a flight below its passenger
// minimum gets auto-cancelled.
const cancellationWindow = 7 * 24 * time.Hour

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	ListFuture(ctx context.Context, stateFilter *domain.FlightState) ([]domain.Flight, error)
	CancelByID(ctx context.Context, id string) (*domain.Flight, error)
	RefreshState(ctx context.Context, flight *domain.Flight) (bool, error)
	SweepStates(ctx context.Context) (int, error)
}

type Cache interface {
	GetFutureFlights(ctx context.Context) ([]domain.Flight, error)
	SetFutureFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFutureFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateFlightInput struct {
	RocketID          string
	LaunchDateTime    time.Time
	BasePrice         float64
	MinimumPassengers int
}

type FlightService struct {
	flights  repository.FlightRepository
	rockets  repository.RocketRepository
	bookings repository.BookingRepository

	cache              Cache
	producer           Producer
	notificationsTopic string
}

type FlightServiceOption func(*FlightService)

func WithCache(cache Cache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	rockets repository.RocketRepository,
	bookings repository.BookingRepository,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		flights:  flights,
		rockets:  rockets,
		bookings: bookings,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	rocketID := strings.TrimSpace(input.RocketID)
	if rocketID == "" {
		return nil, domain.NewValidationError("rocketId", "rocketId must be provided")
	}

	rocket, err := s.rockets.GetByID(ctx, rocketID)
	if err != nil {
		return nil, err
	}
	if rocket == nil {
		return nil, domain.NewValidationError("rocketId", "rocketId does not exist")
	}

	if input.LaunchDateTime.IsZero() {
		return nil, domain.NewValidationError("launchDateTime", "launchDateTime must be provided")
	}
	if !input.LaunchDateTime.After(time.Now()) {
		return nil, domain.NewValidationError("launchDateTime", "launchDateTime must be in the future")
	}

	if input.BasePrice <= 0 {
		return nil, domain.NewValidationError("basePrice", "basePrice must be greater than 0")
	}

	if rocket.Capacity < 1 {
		return nil, domain.NewValidationError("capacity", "rocket capacity is invalid")
	}

	if input.MinimumPassengers < 1 || input.MinimumPassengers > rocket.Capacity {
		return nil, domain.NewValidationError("minimumPassengers", "minimumPassengers must be between 1 and rocket capacity")
	}

	flight := &domain.Flight{
		RocketID:          rocketID,
		LaunchDateTime:    input.LaunchDateTime,
		BasePrice:         input.BasePrice,
		MinimumPassengers: input.MinimumPassengers,
		State:             domain.FlightStateScheduled,
	}
	if err := s.flights.Save(ctx, flight); err != nil {
		return nil, err
	}
	log.Printf("flight created: %s", flight.ID)
	s.invalidateCache(ctx)
	return flight, nil
}

// GetByID returns the flight with its derived state refreshed, persisting
// the refreshed state before returning. A nil flight means not found.
func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, nil
	}

	changed, err := s.RefreshState(ctx, flight)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.flights.Save(ctx, flight); err != nil {
			return nil, err
		}
	}
	return flight, nil
}

// ListFuture refreshes every stored flight and returns those whose launch
// is still strictly ahead, optionally filtered by state. Unfiltered results
// may be served from the cache when one is configured; a cache hit skips
// the per-flight refresh, so the listing can lag time-driven transitions by
// at most the cache TTL. Every flight or booking mutation invalidates the
// cache, so count-driven states are never stale.
func (s *FlightService) ListFuture(ctx context.Context, stateFilter *domain.FlightState) ([]domain.Flight, error) {
	if stateFilter == nil && s.cache != nil {
		if cached, err := s.cache.GetFutureFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	all, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]domain.Flight, 0, len(all))
	for i := range all {
		flight := &all[i]
		changed, err := s.RefreshState(ctx, flight)
		if err != nil {
			return nil, err
		}
		if changed {
			if err := s.flights.Save(ctx, flight); err != nil {
				return nil, err
			}
		}

		if !flight.LaunchDateTime.After(now) {
			continue
		}
		if stateFilter != nil && flight.State != *stateFilter {
			continue
		}
		out = append(out, *flight)
	}

	if stateFilter == nil && s.cache != nil {
		_ = s.cache.SetFutureFlights(ctx, out)
	}
	return out, nil
}

// CancelByID cancels a flight. Cancelling an already cancelled flight is a
// no-op; cancelling a DONE flight is a conflict. A nil flight means not
// found.
func (s *FlightService) CancelByID(ctx context.Context, id string) (*domain.Flight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "id must be provided")
	}

	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, nil
	}

	changed, err := s.RefreshState(ctx, flight)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.flights.Save(ctx, flight); err != nil {
			return nil, err
		}
	}

	if flight.State == domain.FlightStateDone {
		return nil, domain.NewConflictError("flight is DONE and cannot be cancelled")
	}
	if flight.State == domain.FlightStateCancelled {
		return flight, nil
	}

	flight.State = domain.FlightStateCancelled
	if err := s.flights.Save(ctx, flight); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.CountByFlight(ctx, flight.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("flight cancelled: %s", flight.ID)
	s.notifyCancellation(ctx, flight, bookings)
	s.invalidateCache(ctx)
	return flight, nil
}

// RefreshState recomputes the derived state of the flight in place and
// reports whether it changed. It never persists; callers save the flight
// when changed. Priority order: a lapsed launch always wins (DONE, even
// over CANCELLED), pre-launch cancellation is sticky, a missing or invalid
// rocket degrades to SCHEDULED, the 7-day below-minimum rule cancels and
// short-circuits, and only then is the count-based state computed with
// SOLD_OUT checked before CONFIRMED.
func (s *FlightService) RefreshState(ctx context.Context, flight *domain.Flight) (bool, error) {
	if flight == nil {
		return false, nil
	}

	now := time.Now()
	current := flight.State

	if !flight.LaunchDateTime.After(now) {
		if current == domain.FlightStateDone {
			return false, nil
		}
		flight.State = domain.FlightStateDone
		log.Printf("flight %s state changed to DONE", flight.ID)
		return true, nil
	}

	if current == domain.FlightStateCancelled {
		return false, nil
	}

	rocketID := strings.TrimSpace(flight.RocketID)
	if rocketID == "" {
		return s.forceScheduled(flight), nil
	}
	rocket, err := s.rockets.GetByID(ctx, rocketID)
	if err != nil {
		return false, err
	}
	if rocket == nil || rocket.Capacity < 1 {
		return s.forceScheduled(flight), nil
	}

	bookings, err := s.bookings.CountByFlight(ctx, flight.ID)
	if err != nil {
		return false, err
	}

	if now.After(flight.LaunchDateTime.Add(-cancellationWindow)) &&
		flight.MinimumPassengers > 0 && bookings < flight.MinimumPassengers {
		flight.State = domain.FlightStateCancelled
		log.Printf("flight %s state changed to CANCELLED (below minimum inside cancellation window)", flight.ID)
		s.notifyCancellation(ctx, flight, bookings)
		return true, nil
	}

	var desired domain.FlightState
	switch {
	case bookings >= rocket.Capacity:
		desired = domain.FlightStateSoldOut
	case flight.MinimumPassengers > 0 && bookings >= flight.MinimumPassengers:
		desired = domain.FlightStateConfirmed
	default:
		desired = domain.FlightStateScheduled
	}

	if desired == current {
		return false, nil
	}
	flight.State = desired
	log.Printf("flight %s state changed to %s", flight.ID, desired)
	switch desired {
	case domain.FlightStateConfirmed:
		log.Printf("simulating payment capture and confirmation notification for flight %s", flight.ID)
		s.publish(ctx, kafka.EventFlightConfirmed, flight, bookings)
	case domain.FlightStateSoldOut:
		log.Printf("simulating SOLD_OUT notification for flight %s", flight.ID)
		s.publish(ctx, kafka.EventFlightSoldOut, flight, bookings)
	}
	return true, nil
}

// SweepStates refreshes every stored flight and returns how many changed
// state. The worker runs this periodically so time-driven transitions fire
// on a read-idle system.
func (s *FlightService) SweepStates(ctx context.Context) (int, error) {
	all, err := s.flights.List(ctx)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range all {
		flight := &all[i]
		changed, err := s.RefreshState(ctx, flight)
		if err != nil {
			return swept, err
		}
		if !changed {
			continue
		}
		if err := s.flights.Save(ctx, flight); err != nil {
			return swept, err
		}
		swept++
	}
	if swept > 0 {
		s.invalidateCache(ctx)
	}
	return swept, nil
}

func (s *FlightService) forceScheduled(flight *domain.Flight) bool {
	if flight.State == domain.FlightStateScheduled {
		return false
	}
	flight.State = domain.FlightStateScheduled
	return true
}

func (s *FlightService) notifyCancellation(ctx context.Context, flight *domain.Flight, bookings int) {
	log.Printf("simulating cancellation notification for flight %s", flight.ID)
	log.Printf("simulating refunds for %d bookings on flight %s", bookings, flight.ID)
	s.publish(ctx, kafka.EventFlightCancelled, flight, bookings)
}

func (s *FlightService) publish(ctx context.Context, eventType string, flight *domain.Flight, bookings int) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.FlightEvent{
		Type:      eventType,
		FlightID:  flight.ID,
		State:     string(flight.State),
		Bookings:  bookings,
		Timestamp: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, flight.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for flight %s: %v", eventType, flight.ID, err)
	}
}

func (s *FlightService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFutureFlights(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate flights cache: %v", err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
