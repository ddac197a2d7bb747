package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzotov/astrobooking/internal/domain"
)

type PGRocketRepository struct {
	db *pgxpool.Pool
}

func NewPGRocketRepository(db *pgxpool.Pool) *PGRocketRepository {
	return &PGRocketRepository{db: db}
}

func (r *PGRocketRepository) Save(ctx context.Context, rocket *domain.Rocket) error {
	if rocket.ID == "" {
		rocket.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO rockets (id, name, capacity, "range", speed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name=$2, capacity=$3, "range"=$4, speed=$5`,
		rocket.ID, rocket.Name, rocket.Capacity, string(rocket.Range), rocket.Speed)
	return err
}

func (r *PGRocketRepository) GetByID(ctx context.Context, id string) (*domain.Rocket, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, capacity, "range", speed FROM rockets WHERE id=$1`, id)
	var rocket domain.Rocket
	var rng string
	if err := row.Scan(&rocket.ID, &rocket.Name, &rocket.Capacity, &rng, &rocket.Speed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rocket.Range = domain.Range(rng)
	return &rocket, nil
}

func (r *PGRocketRepository) List(ctx context.Context) ([]domain.Rocket, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, capacity, "range", speed FROM rockets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rockets := make([]domain.Rocket, 0)
	for rows.Next() {
		var rocket domain.Rocket
		var rng string
		if err := rows.Scan(&rocket.ID, &rocket.Name, &rocket.Capacity, &rng, &rocket.Speed); err != nil {
			return nil, err
		}
		rocket.Range = domain.Range(rng)
		rockets = append(rockets, rocket)
	}
	return rockets, rows.Err()
}

var _ RocketRepository = (*PGRocketRepository)(nil)
