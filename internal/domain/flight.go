package domain

import "time"

type FlightState string

const (
	FlightStateScheduled FlightState = "SCHEDULED"
	FlightStateConfirmed FlightState = "CONFIRMED"
	FlightStateSoldOut   FlightState = "SOLD_OUT"
	FlightStateCancelled FlightState = "CANCELLED"
	FlightStateDone      FlightState = "DONE"
)

// ParseFlightState maps a raw string onto a known state.
func ParseFlightState(raw string) (FlightState, bool) {
	switch FlightState(raw) {
	case FlightStateScheduled, FlightStateConfirmed, FlightStateSoldOut,
		FlightStateCancelled, FlightStateDone:
		return FlightState(raw), true
	default:
		return "", false
	}
}

// Flight references its rocket by id only; the rocket is looked up on
// demand, never embedded. State is derived rather than authoritative: it is
// recomputed from time and booking count on every read.
type Flight struct {
	ID                string
	RocketID          string
	LaunchDateTime    time.Time
	BasePrice         float64
	MinimumPassengers int
	State             FlightState
}
