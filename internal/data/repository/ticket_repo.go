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

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForFinishedShowtimes removes every ticket whose showtime has
	// reached FINISHED; used by the daily sweep.
	DeleteForFinishedShowtimes(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, showtime_id, seat_number, price, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ShowtimeID,
		ticket.SeatNumber,
		ticket.Price,
		ticket.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("showtime_id", ticket.ShowtimeID.String()),
			zap.Int("seat_number", ticket.SeatNumber),
		)
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, showtime_id, seat_number, price, created_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ShowtimeID,
		&ticket.SeatNumber,
		&ticket.Price,
		&ticket.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id.String(), err)
	}

	return &ticket, nil
}

func (r *ticketRepository) ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT id, showtime_id, seat_number, price, created_at
		FROM tickets
		WHERE showtime_id = $1
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to list tickets by showtime",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("list tickets by showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.ShowtimeID,
			&ticket.SeatNumber,
			&ticket.Price,
			&ticket.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tickets WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s not found", id.String())
	}

	return nil
}

func (r *ticketRepository) DeleteForFinishedShowtimes(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM tickets
		WHERE showtime_id IN (
			SELECT id FROM showtimes WHERE state = $1
		)
	`

	result, err := r.db.Exec(ctx, query, entity.ShowtimeStateFinished)
	if err != nil {
		r.log.Error("Failed to delete tickets for finished showtimes", zap.Error(err))
		return 0, fmt.Errorf("delete tickets for finished showtimes: %w", err)
	}

	return result.RowsAffected(), nil
}
