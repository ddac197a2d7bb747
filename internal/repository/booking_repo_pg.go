package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzotov/astrobooking/internal/domain"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewPGBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	// Bookings are immutable, so a plain insert is enough.
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (id, flight_id, passenger_name, passenger_document, discount_percent, final_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.FlightID, booking.PassengerName, booking.PassengerDocument, booking.DiscountPercent, booking.FinalPrice, booking.CreatedAt)
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, passenger_name, passenger_document, discount_percent, final_price, created_at FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.PassengerName, &b.PassengerDocument, &b.DiscountPercent, &b.FinalPrice, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_id, passenger_name, passenger_document, discount_percent, final_price, created_at FROM bookings WHERE flight_id=$1`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.FlightID, &b.PassengerName, &b.PassengerDocument, &b.DiscountPercent, &b.FinalPrice, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CountByFlight(ctx context.Context, flightID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1`, flightID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
