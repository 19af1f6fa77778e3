package repository

import (
	"context"
	"fmt"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	// Create persists the reservation and its seat rows atomically.
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Reservation, error)
	ListByUser(ctx context.Context, email string) ([]*entity.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reservations (id, showtime_id, user_email, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.Exec(ctx, query,
		reservation.ID,
		reservation.ShowtimeID,
		reservation.UserEmail,
		reservation.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("showtime_id", reservation.ShowtimeID.String()),
			zap.String("user_email", reservation.UserEmail),
		)
		return fmt.Errorf("create reservation: %w", err)
	}

	seatQuery := `
		INSERT INTO reservation_seats (reservation_id, seat_number)
		VALUES ($1, $2)
	`
	for _, number := range reservation.SeatNumbers {
		if _, err := tx.Exec(ctx, seatQuery, reservation.ID, number); err != nil {
			r.log.Error("Failed to create reservation seat",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
				zap.Int("seat_number", number),
			)
			return fmt.Errorf("create reservation seat %d: %w", number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, showtime_id, user_email, created_at
		FROM reservations
		WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.ShowtimeID,
		&reservation.UserEmail,
		&reservation.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	if err := r.loadSeats(ctx, &reservation); err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) loadSeats(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		SELECT seat_number
		FROM reservation_seats
		WHERE reservation_id = $1
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, reservation.ID)
	if err != nil {
		return fmt.Errorf("load reservation seats %s: %w", reservation.ID.String(), err)
	}
	defer rows.Close()

	reservation.SeatNumbers = nil
	for rows.Next() {
		var number int
		if err := rows.Scan(&number); err != nil {
			return fmt.Errorf("scan reservation seat row: %w", err)
		}
		reservation.SeatNumbers = append(reservation.SeatNumbers, number)
	}

	return nil
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.ShowtimeID,
			&reservation.UserEmail,
			&reservation.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, &reservation)
	}
	rows.Close()

	for _, reservation := range reservations {
		if err := r.loadSeats(ctx, reservation); err != nil {
			return nil, err
		}
	}

	return reservations, nil
}

func (r *reservationRepository) ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT id, showtime_id, user_email, created_at
		FROM reservations
		WHERE showtime_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, showtimeID)
}

func (r *reservationRepository) ListByUser(ctx context.Context, email string) ([]*entity.Reservation, error) {
	query := `
		SELECT id, showtime_id, user_email, created_at
		FROM reservations
		WHERE user_email = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, email)
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// reservation_seats rows go away via ON DELETE CASCADE.
	query := `DELETE FROM reservations WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("delete reservation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id.String())
	}

	return nil
}

func (r *reservationRepository) DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error) {
	query := `DELETE FROM reservations WHERE showtime_id = $1`

	result, err := r.db.Exec(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to delete reservations by showtime",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return 0, fmt.Errorf("delete reservations for showtime %s: %w", showtimeID.String(), err)
	}

	return result.RowsAffected(), nil
}
