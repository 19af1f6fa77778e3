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

type TheaterRepository interface {
	Create(ctx context.Context, theater *entity.Theater) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	FindByCinemaAndNumber(ctx context.Context, cinemaID uuid.UUID, number int) (*entity.Theater, error)
	ListByCinema(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Theater, error)
}

type theaterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheaterRepository(db database.PgxIface, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	query := `
		INSERT INTO theaters (id, cinema_id, number, economy_seats, vip_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		theater.ID,
		theater.CinemaID,
		theater.Number,
		theater.EconomySeats,
		theater.VIPSeats,
		theater.CreatedAt,
		theater.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create theater",
			zap.Error(err),
			zap.String("cinema_id", theater.CinemaID.String()),
			zap.Int("number", theater.Number),
		)
		return fmt.Errorf("create theater %d: %w", theater.Number, err)
	}

	return nil
}

func (r *theaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	query := `
		SELECT id, cinema_id, number, economy_seats, vip_seats, created_at, updated_at
		FROM theaters
		WHERE id = $1
	`

	var theater entity.Theater
	err := r.db.QueryRow(ctx, query, id).Scan(
		&theater.ID,
		&theater.CinemaID,
		&theater.Number,
		&theater.EconomySeats,
		&theater.VIPSeats,
		&theater.CreatedAt,
		&theater.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by ID",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return nil, fmt.Errorf("find theater by ID %s: %w", id.String(), err)
	}

	return &theater, nil
}

func (r *theaterRepository) FindByCinemaAndNumber(ctx context.Context, cinemaID uuid.UUID, number int) (*entity.Theater, error) {
	query := `
		SELECT id, cinema_id, number, economy_seats, vip_seats, created_at, updated_at
		FROM theaters
		WHERE cinema_id = $1 AND number = $2
	`

	var theater entity.Theater
	err := r.db.QueryRow(ctx, query, cinemaID, number).Scan(
		&theater.ID,
		&theater.CinemaID,
		&theater.Number,
		&theater.EconomySeats,
		&theater.VIPSeats,
		&theater.CreatedAt,
		&theater.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by cinema and number",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
			zap.Int("number", number),
		)
		return nil, fmt.Errorf("find theater %d in cinema %s: %w", number, cinemaID.String(), err)
	}

	return &theater, nil
}

func (r *theaterRepository) ListByCinema(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Theater, error) {
	query := `
		SELECT id, cinema_id, number, economy_seats, vip_seats, created_at, updated_at
		FROM theaters
		WHERE cinema_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, cinemaID)
	if err != nil {
		r.log.Error("Failed to list theaters by cinema",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
		)
		return nil, fmt.Errorf("list theaters by cinema %s: %w", cinemaID.String(), err)
	}
	defer rows.Close()

	var theaters []*entity.Theater
	for rows.Next() {
		var theater entity.Theater
		err := rows.Scan(
			&theater.ID,
			&theater.CinemaID,
			&theater.Number,
			&theater.EconomySeats,
			&theater.VIPSeats,
			&theater.CreatedAt,
			&theater.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan theater row", zap.Error(err))
			return nil, fmt.Errorf("scan theater row: %w", err)
		}
		theaters = append(theaters, &theater)
	}

	return theaters, nil
}
