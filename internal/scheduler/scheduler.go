// Package scheduler drives showtime lifecycle transitions. Each confirmed
// showtime gets three one-shot jobs whose firing times are fixed at
// confirmation: reservation expiry, start, and finish. A daily job sweeps
// tickets of finished showtimes. Deadlines are derived from persisted
// showtime data, so on restart the pending showtimes are reloaded and their
// jobs re-registered; deadlines already in the past fire immediately.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/pkg/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transitioner is the slice of the showtime service the scheduler drives.
type Transitioner interface {
	ExpireReservations(ctx context.Context, showtimeID uuid.UUID) error
	StartShowtime(ctx context.Context, showtimeID uuid.UUID) error
	FinishShowtime(ctx context.Context, showtimeID uuid.UUID) error
	SweepFinishedTickets(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron         gocron.Scheduler
	repo         *repository.Repository
	transitions  Transitioner
	expiryMargin time.Duration
	sweepHour    int
	sweepMinute  int
	log          *zap.Logger
}

func New(repo *repository.Repository, transitions Transitioner, config *utils.Config, log *zap.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		cron:         cron,
		repo:         repo,
		transitions:  transitions,
		expiryMargin: time.Duration(config.Scheduler.ExpiryMarginSecs) * time.Second,
		sweepHour:    config.Scheduler.TicketSweepHour,
		sweepMinute:  config.Scheduler.TicketSweepMinute,
		log:          log.With(zap.String("component", "scheduler")),
	}, nil
}

// Start registers the daily ticket sweep, reloads every non-terminal showtime
// from the store and re-registers its deadlines, then starts firing.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(uint(s.sweepHour), uint(s.sweepMinute), 0),
			),
		),
		gocron.NewTask(s.runSweep),
	)
	if err != nil {
		return fmt.Errorf("register ticket sweep: %w", err)
	}

	pending, err := s.repo.Showtime.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("load pending showtimes: %w", err)
	}

	for _, showtime := range pending {
		movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
		if err != nil {
			return fmt.Errorf("load movie for showtime %s: %w", showtime.ID.String(), err)
		}
		if movie == nil {
			s.log.Warn("Pending showtime references missing movie",
				zap.String("showtime_id", showtime.ID.String()),
				zap.String("movie_id", showtime.MovieID.String()),
			)
			continue
		}
		if err := s.ScheduleShowtime(showtime.ID, showtime.StartsAt, movie.Duration); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		zap.Int("reloaded_showtimes", len(pending)),
		zap.Int("sweep_hour", s.sweepHour),
		zap.Int("sweep_minute", s.sweepMinute),
	)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// ScheduleShowtime registers the three lifecycle deadlines. Firing times are
// fixed here and never touched again; a deadline that already passed (after a
// restart, or a showtime confirmed inside its reservation window) runs
// immediately.
func (s *Scheduler) ScheduleShowtime(id uuid.UUID, startsAt time.Time, durationMinutes int) error {
	expiryAt := startsAt.Add(-entity.ReservationCutoff).Add(-s.expiryMargin)
	endsAt := startsAt.Add(time.Duration(durationMinutes) * time.Minute)

	if err := s.at(expiryAt, func() { s.runTransition("expire", id, s.transitions.ExpireReservations) }); err != nil {
		return fmt.Errorf("schedule expiry for showtime %s: %w", id.String(), err)
	}
	if err := s.at(startsAt, func() { s.runTransition("start", id, s.transitions.StartShowtime) }); err != nil {
		return fmt.Errorf("schedule start for showtime %s: %w", id.String(), err)
	}
	if err := s.at(endsAt, func() { s.runTransition("finish", id, s.transitions.FinishShowtime) }); err != nil {
		return fmt.Errorf("schedule finish for showtime %s: %w", id.String(), err)
	}

	s.log.Info("Showtime deadlines registered",
		zap.String("showtime_id", id.String()),
		zap.Time("expiry_at", expiryAt),
		zap.Time("starts_at", startsAt),
		zap.Time("ends_at", endsAt),
	)
	return nil
}

func (s *Scheduler) at(when time.Time, task func()) error {
	if !when.After(time.Now()) {
		go task()
		return nil
	}

	_, err := s.cron.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(when)),
		gocron.NewTask(task),
	)
	return err
}

func (s *Scheduler) runTransition(name string, id uuid.UUID, fn func(context.Context, uuid.UUID) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := fn(ctx, id); err != nil {
		s.log.Error("Showtime transition failed",
			zap.Error(err),
			zap.String("transition", name),
			zap.String("showtime_id", id.String()),
		)
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.transitions.SweepFinishedTickets(ctx); err != nil {
		s.log.Error("Ticket sweep failed", zap.Error(err))
	}
}
