package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzotov/astrobooking/internal/domain"
)

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewPGFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Save(ctx context.Context, flight *domain.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO flights (id, rocket_id, launch_datetime, base_price, minimum_passengers, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET rocket_id=$2, launch_datetime=$3, base_price=$4, minimum_passengers=$5, state=$6`,
		flight.ID, flight.RocketID, flight.LaunchDateTime, flight.BasePrice, flight.MinimumPassengers, string(flight.State))
	return err
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT id, rocket_id, launch_datetime, base_price, minimum_passengers, state FROM flights WHERE id=$1`, id)
	flight, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return flight, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT id, rocket_id, launch_datetime, base_price, minimum_passengers, state FROM flights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *flight)
	}
	return flights, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var flight domain.Flight
	var state string
	if err := row.Scan(&flight.ID, &flight.RocketID, &flight.LaunchDateTime, &flight.BasePrice, &flight.MinimumPassengers, &state); err != nil {
		return nil, err
	}
	flight.State = domain.FlightState(state)
	return &flight, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
