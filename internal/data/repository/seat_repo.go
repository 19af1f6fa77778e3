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

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByTheaterAndNumber(ctx context.Context, theaterID uuid.UUID, number int) (*entity.Seat, error)
	ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create seats: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO seats (id, theater_id, number, tier, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, seat := range seats {
		_, err := tx.Exec(ctx, query,
			seat.ID,
			seat.TheaterID,
			seat.Number,
			seat.Tier,
			seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create seat",
				zap.Error(err),
				zap.String("theater_id", seat.TheaterID.String()),
				zap.Int("number", seat.Number),
			)
			return fmt.Errorf("create seat %d: %w", seat.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create seats: %w", err)
	}

	return nil
}

func (r *seatRepository) FindByTheaterAndNumber(ctx context.Context, theaterID uuid.UUID, number int) (*entity.Seat, error) {
	query := `
		SELECT id, theater_id, number, tier, created_at
		FROM seats
		WHERE theater_id = $1 AND number = $2
	`

	var seat entity.Seat
	err := r.db.QueryRow(ctx, query, theaterID, number).Scan(
		&seat.ID,
		&seat.TheaterID,
		&seat.Number,
		&seat.Tier,
		&seat.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
			zap.Int("number", number),
		)
		return nil, fmt.Errorf("find seat %d in theater %s: %w", number, theaterID.String(), err)
	}

	return &seat, nil
}

func (r *seatRepository) ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, theater_id, number, tier, created_at
		FROM seats
		WHERE theater_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, theaterID)
	if err != nil {
		r.log.Error("Failed to list seats by theater",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
		)
		return nil, fmt.Errorf("list seats by theater %s: %w", theaterID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.TheaterID,
			&seat.Number,
			&seat.Tier,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
