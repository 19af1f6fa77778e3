package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindByTheaterAndStart(ctx context.Context, theaterID uuid.UUID, startsAt time.Time) (*entity.Showtime, error)
	UpdateState(ctx context.Context, id uuid.UUID, state entity.ShowtimeState, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	ListByMovie(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]*entity.Showtime, error)
	CountByMovie(ctx context.Context, movieID uuid.UUID) (int64, error)
	ListByCinema(ctx context.Context, cinemaID uuid.UUID, limit, offset int) ([]*entity.Showtime, error)
	CountByCinema(ctx context.Context, cinemaID uuid.UUID) (int64, error)
	ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*entity.Showtime, error)
	CountByDate(ctx context.Context, day time.Time) (int64, error)

	// ListPending returns every showtime whose lifecycle is not terminal,
	// used by the scheduler to rebuild its timeline after a restart.
	ListPending(ctx context.Context) ([]*entity.Showtime, error)
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `id, movie_id, theater_id, economy_price, vip_price, starts_at, state, created_at, updated_at`

func (r *showtimeRepository) scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var showtime entity.Showtime
	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheaterID,
		&showtime.EconomyPrice,
		&showtime.VIPPrice,
		&showtime.StartsAt,
		&showtime.State,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (id, movie_id, theater_id, economy_price, vip_price, starts_at, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.EconomyPrice,
		showtime.VIPPrice,
		showtime.StartsAt,
		showtime.State,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", showtime.MovieID.String()),
			zap.Time("starts_at", showtime.StartsAt),
		)
		return fmt.Errorf("create showtime: %w", err)
	}

	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	showtime, err := r.scanShowtime(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return showtime, nil
}

func (r *showtimeRepository) FindByTheaterAndStart(ctx context.Context, theaterID uuid.UUID, startsAt time.Time) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE theater_id = $1 AND starts_at = $2`

	showtime, err := r.scanShowtime(r.db.QueryRow(ctx, query, theaterID, startsAt))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by theater and start",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
			zap.Time("starts_at", startsAt),
		)
		return nil, fmt.Errorf("find showtime in theater %s: %w", theaterID.String(), err)
	}

	return showtime, nil
}

func (r *showtimeRepository) UpdateState(ctx context.Context, id uuid.UUID, state entity.ShowtimeState, at time.Time) error {
	query := `
		UPDATE showtimes
		SET state = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, state, at)
	if err != nil {
		r.log.Error("Failed to update showtime state",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
			zap.String("state", string(state)),
		)
		return fmt.Errorf("update showtime %s state: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", id.String())
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Tickets and reservation rows reference the showtime with ON DELETE CASCADE.
	query := `DELETE FROM showtimes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("delete showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", id.String())
	}

	return nil
}

func (r *showtimeRepository) listQuery(ctx context.Context, query string, args ...any) ([]*entity.Showtime, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list showtimes", zap.Error(err))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		var showtime entity.Showtime
		err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.TheaterID,
			&showtime.EconomyPrice,
			&showtime.VIPPrice,
			&showtime.StartsAt,
			&showtime.State,
			&showtime.CreatedAt,
			&showtime.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, &showtime)
	}

	return showtimes, nil
}

func (r *showtimeRepository) ListByMovie(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE movie_id = $1
		ORDER BY starts_at
		LIMIT $2 OFFSET $3
	`
	return r.listQuery(ctx, query, movieID, limit, offset)
}

func (r *showtimeRepository) CountByMovie(ctx context.Context, movieID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM showtimes WHERE movie_id = $1`, movieID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count showtimes by movie %s: %w", movieID.String(), err)
	}
	return count, nil
}

func (r *showtimeRepository) ListByCinema(ctx context.Context, cinemaID uuid.UUID, limit, offset int) ([]*entity.Showtime, error) {
	query := `
		SELECT s.id, s.movie_id, s.theater_id, s.economy_price, s.vip_price, s.starts_at, s.state, s.created_at, s.updated_at
		FROM showtimes s
		JOIN theaters t ON t.id = s.theater_id
		WHERE t.cinema_id = $1
		ORDER BY s.starts_at
		LIMIT $2 OFFSET $3
	`
	return r.listQuery(ctx, query, cinemaID, limit, offset)
}

func (r *showtimeRepository) CountByCinema(ctx context.Context, cinemaID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM showtimes s
		JOIN theaters t ON t.id = s.theater_id
		WHERE t.cinema_id = $1
	`
	var count int64
	err := r.db.QueryRow(ctx, query, cinemaID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count showtimes by cinema %s: %w", cinemaID.String(), err)
	}
	return count, nil
}

func (r *showtimeRepository) ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*entity.Showtime, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at
		LIMIT $3 OFFSET $4
	`
	return r.listQuery(ctx, query, from, to, limit, offset)
}

func (r *showtimeRepository) CountByDate(ctx context.Context, day time.Time) (int64, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM showtimes WHERE starts_at >= $1 AND starts_at < $2`, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count showtimes by date: %w", err)
	}
	return count, nil
}

func (r *showtimeRepository) ListPending(ctx context.Context) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE state IN ($1, $2)
		ORDER BY starts_at
	`
	return r.listQuery(ctx, query, entity.ShowtimeStateScheduled, entity.ShowtimeStateInProgress)
}
