package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/data/repository/memory"
	"cinema-showtime/internal/dto/request"
	"cinema-showtime/internal/notifier"
	"cinema-showtime/pkg/apperr"
	"cinema-showtime/pkg/lock"
	"cinema-showtime/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type showtimeFixture struct {
	repo    *repository.Repository
	locks   *lock.Keyed
	svc     ShowtimeService
	notes   *recordingNotifier
	movie   *entity.Movie
	theater *entity.Theater
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (n *recordingNotifier) Send(_ context.Context, notification notifier.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) all() []notifier.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.Notification(nil), n.sent...)
}

func newShowtimeFixture(t *testing.T) *showtimeFixture {
	t.Helper()

	repo := memory.NewRepository()
	locks := lock.NewKeyed()
	notes := &recordingNotifier{}
	config := &utils.Config{
		Scheduler: utils.SchedulerConfig{
			LockWaitSeconds:  1,
			ExpiryMarginSecs: 10,
		},
	}
	svc := NewShowtimeService(repo, config, locks, notes, zap.NewNop())

	now := time.Now()
	movie := &entity.Movie{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:    "Heat",
		Duration: 170,
		Rating:   "R",
	}
	require.NoError(t, repo.Movie.Create(context.Background(), movie))

	cinema := &entity.Cinema{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         "Central",
		Address:      "1 Main St",
		City:         "Springfield",
	}
	require.NoError(t, repo.Cinema.Create(context.Background(), cinema))

	theater := &entity.Theater{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CinemaID:     cinema.ID,
		Number:       1,
		EconomySeats: 8,
		VIPSeats:     2,
	}
	require.NoError(t, repo.Theater.Create(context.Background(), theater))

	seats := make([]*entity.Seat, 0, 10)
	for n := 1; n <= 8; n++ {
		seats = append(seats, &entity.Seat{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TheaterID:  theater.ID, Number: n, Tier: entity.SeatTierEconomy,
		})
	}
	for n := 9; n <= 10; n++ {
		seats = append(seats, &entity.Seat{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TheaterID:  theater.ID, Number: n, Tier: entity.SeatTierVIP,
		})
	}
	require.NoError(t, repo.Seat.CreateBatch(context.Background(), seats))

	return &showtimeFixture{
		repo:    repo,
		locks:   locks,
		svc:     svc,
		notes:   notes,
		movie:   movie,
		theater: theater,
	}
}

// seedShowtime plants a showtime directly in the store, bypassing the 2-day
// creation rule so tests can pin start times near the present.
func (f *showtimeFixture) seedShowtime(t *testing.T, startsAt time.Time, state entity.ShowtimeState) *entity.Showtime {
	t.Helper()

	now := time.Now()
	showtime := &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:      f.movie.ID,
		TheaterID:    f.theater.ID,
		EconomyPrice: 10,
		VIPPrice:     18,
		StartsAt:     startsAt,
		State:        state,
	}
	require.NoError(t, f.repo.Showtime.Create(context.Background(), showtime))
	return showtime
}

func TestCreateShowtime(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	req := &request.CreateShowtimeRequest{
		MovieID:      f.movie.ID.String(),
		TheaterID:    f.theater.ID.String(),
		EconomyPrice: 10,
		VIPPrice:     18,
		StartsAt:     time.Now().Add(72 * time.Hour),
	}

	created, err := f.svc.CreateShowtime(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShowtimeStateCreation), created.State)
	assert.Equal(t, f.movie.ID.String(), created.MovieID)

	t.Run("same theater slot conflicts", func(t *testing.T) {
		_, err := f.svc.CreateShowtime(ctx, req)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("too close to start", func(t *testing.T) {
		soon := *req
		soon.StartsAt = time.Now().Add(24 * time.Hour)
		_, err := f.svc.CreateShowtime(ctx, &soon)
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("unknown movie", func(t *testing.T) {
		missing := *req
		missing.MovieID = uuid.NewString()
		_, err := f.svc.CreateShowtime(ctx, &missing)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("deleted movie", func(t *testing.T) {
		require.NoError(t, f.repo.Movie.SoftDelete(ctx, f.movie.ID, time.Now()))

		gone := *req
		gone.StartsAt = time.Now().Add(96 * time.Hour)
		_, err := f.svc.CreateShowtime(ctx, &gone)
		assert.True(t, apperr.IsInvalidState(err))
	})
}

func TestAcknowledgeShowtime(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateCreation)

	confirmed, err := f.svc.AcknowledgeShowtime(ctx, showtime.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShowtimeStateScheduled), confirmed.State)

	// Confirming twice must fail so deadlines register exactly once.
	_, err = f.svc.AcknowledgeShowtime(ctx, showtime.ID.String())
	assert.True(t, apperr.IsInvalidState(err))

	_, err = f.svc.AcknowledgeShowtime(ctx, uuid.NewString())
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateReservation(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)
	req := &request.CreateReservationRequest{
		ShowtimeID:  showtime.ID.String(),
		SeatNumbers: []int{1, 2},
	}

	reservation, err := f.svc.CreateReservation(ctx, "ana@example.com", req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, reservation.SeatNumbers)

	notes := f.notes.all()
	require.Len(t, notes, 1)
	assert.Equal(t, notifier.TypeReservationCreated, notes[0].Type)
	assert.Equal(t, "ana@example.com", notes[0].Email)
	assert.Equal(t, "Heat", notes[0].Movie)

	t.Run("one reservation per requester", func(t *testing.T) {
		_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{3},
		})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("seat already reserved", func(t *testing.T) {
		_, err := f.svc.CreateReservation(ctx, "ben@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{2, 3},
		})
		assert.True(t, apperr.IsConflict(err))

		// All-or-nothing: seat 3 must still be free after the failure.
		_, err = f.svc.CreateReservation(ctx, "ben@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{3},
		})
		require.NoError(t, err)
	})

	t.Run("empty seat set", func(t *testing.T) {
		_, err := f.svc.CreateReservation(ctx, "cat@example.com", &request.CreateReservationRequest{
			ShowtimeID: showtime.ID.String(),
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("unknown seat", func(t *testing.T) {
		_, err := f.svc.CreateReservation(ctx, "cat@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{99},
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("seat already sold", func(t *testing.T) {
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 5,
		})
		require.NoError(t, err)

		_, err = f.svc.CreateReservation(ctx, "cat@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{5},
		})
		assert.True(t, apperr.IsConflict(err))
	})
}

func TestCreateReservationStateGates(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	t.Run("draft showtime", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateCreation)
		_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{1},
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("inside reservation cutoff", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(4*time.Hour), entity.ShowtimeStateScheduled)
		_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{1},
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("finished showtime", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(-4*time.Hour), entity.ShowtimeStateFinished)
		_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{1},
		})
		assert.True(t, apperr.IsInvalidState(err))
	})
}

func TestConcurrentSeatAllocation(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	// A reservation and a sale race for the same seat. Exactly one wins.
	var wg sync.WaitGroup
	var reserveErr, sellErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, reserveErr = f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{4},
		})
	}()
	go func() {
		defer wg.Done()
		_, sellErr = f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 4,
		})
	}()
	wg.Wait()

	if reserveErr == nil {
		require.Error(t, sellErr)
		assert.True(t, apperr.IsConflict(sellErr))
	} else {
		require.NoError(t, sellErr)
		assert.True(t, apperr.IsConflict(reserveErr))
	}
}

func TestReservationLockTimeout(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	// Hold the showtime lock past the service's wait budget.
	release, err := f.locks.Acquire(ctx, showtime.ID.String(), time.Second)
	require.NoError(t, err)
	defer release()

	_, err = f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
		ShowtimeID:  showtime.ID.String(),
		SeatNumbers: []int{1},
	})
	assert.True(t, apperr.IsTimeout(err))
}

func TestCancelReservation(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	reservation, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
		ShowtimeID:  showtime.ID.String(),
		SeatNumbers: []int{1, 2},
	})
	require.NoError(t, err)

	t.Run("only the holder may cancel", func(t *testing.T) {
		err := f.svc.CancelReservation(ctx, "ben@example.com", reservation.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	require.NoError(t, f.svc.CancelReservation(ctx, "ana@example.com", reservation.ID))

	notes := f.notes.all()
	require.Len(t, notes, 2)
	assert.Equal(t, notifier.TypeReservationCanceled, notes[1].Type)

	t.Run("cancel twice", func(t *testing.T) {
		err := f.svc.CancelReservation(ctx, "ana@example.com", reservation.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("seats are free again", func(t *testing.T) {
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 1,
		})
		require.NoError(t, err)
	})
}

func TestCancelReservationsForUser(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	first := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)
	second := f.seedShowtime(t, time.Now().Add(96*time.Hour), entity.ShowtimeStateScheduled)

	for _, showtime := range []*entity.Showtime{first, second} {
		_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
			ShowtimeID:  showtime.ID.String(),
			SeatNumbers: []int{1},
		})
		require.NoError(t, err)
	}
	sentBefore := len(f.notes.all())

	canceled, err := f.svc.CancelReservationsForUser(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, canceled)

	remaining, err := f.svc.GetUserReservations(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Bulk cancellation sends no notifications.
	assert.Len(t, f.notes.all(), sentBefore)
}

func TestCreateTicket(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	t.Run("economy price", func(t *testing.T) {
		ticket, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, ticket.Price)
	})

	t.Run("vip price", func(t *testing.T) {
		ticket, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 9,
		})
		require.NoError(t, err)
		assert.Equal(t, 18.0, ticket.Price)
	})

	t.Run("same seat twice", func(t *testing.T) {
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 1,
		})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("draft showtime", func(t *testing.T) {
		draft := f.seedShowtime(t, time.Now().Add(96*time.Hour), entity.ShowtimeStateCreation)
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: draft.ID.String(),
			SeatNumber: 1,
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("finished showtime", func(t *testing.T) {
		finished := f.seedShowtime(t, time.Now().Add(-4*time.Hour), entity.ShowtimeStateFinished)
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: finished.ID.String(),
			SeatNumber: 1,
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("sales stay open in progress", func(t *testing.T) {
		inProgress := f.seedShowtime(t, time.Now().Add(-30*time.Minute), entity.ShowtimeStateInProgress)
		_, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: inProgress.ID.String(),
			SeatNumber: 1,
		})
		require.NoError(t, err)
	})
}

func TestDeleteTicketFreesSeat(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	ticket, err := f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
		ShowtimeID: showtime.ID.String(),
		SeatNumber: 1,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTicket(ctx, ticket.ID))

	_, err = f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
		ShowtimeID:  showtime.ID.String(),
		SeatNumbers: []int{1},
	})
	require.NoError(t, err)

	err = f.svc.DeleteTicket(ctx, ticket.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRemoveShowtime(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	t.Run("draft is removable", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateCreation)
		require.NoError(t, f.svc.RemoveShowtime(ctx, showtime.ID.String()))

		_, err := f.svc.GetShowtimeByID(ctx, showtime.ID.String())
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("scheduled is not", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)
		err := f.svc.RemoveShowtime(ctx, showtime.ID.String())
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("finished is removable", func(t *testing.T) {
		showtime := f.seedShowtime(t, time.Now().Add(-4*time.Hour), entity.ShowtimeStateFinished)
		require.NoError(t, f.svc.RemoveShowtime(ctx, showtime.ID.String()))
	})
}

func TestLifecycleTransitions(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	showtime := f.seedShowtime(t, time.Now().Add(6*time.Hour), entity.ShowtimeStateScheduled)

	_, err := f.svc.CreateReservation(ctx, "ana@example.com", &request.CreateReservationRequest{
		ShowtimeID:  showtime.ID.String(),
		SeatNumbers: []int{1, 2},
	})
	require.NoError(t, err)

	t.Run("expiry clears reservations", func(t *testing.T) {
		require.NoError(t, f.svc.ExpireReservations(ctx, showtime.ID))

		reservations, err := f.repo.Reservation.ListByShowtime(ctx, showtime.ID)
		require.NoError(t, err)
		assert.Empty(t, reservations)

		// Seats released by expiry go to point-of-sale.
		_, err = f.svc.CreateTicket(ctx, &request.CreateTicketRequest{
			ShowtimeID: showtime.ID.String(),
			SeatNumber: 1,
		})
		require.NoError(t, err)
	})

	t.Run("start and finish", func(t *testing.T) {
		require.NoError(t, f.svc.StartShowtime(ctx, showtime.ID))
		current, err := f.repo.Showtime.FindByID(ctx, showtime.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ShowtimeStateInProgress, current.State)

		// Replaying the start deadline is a no-op.
		require.NoError(t, f.svc.StartShowtime(ctx, showtime.ID))

		require.NoError(t, f.svc.FinishShowtime(ctx, showtime.ID))
		current, err = f.repo.Showtime.FindByID(ctx, showtime.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ShowtimeStateFinished, current.State)
	})

	t.Run("transitions on a deleted showtime are no-ops", func(t *testing.T) {
		gone := uuid.New()
		require.NoError(t, f.svc.ExpireReservations(ctx, gone))
		require.NoError(t, f.svc.StartShowtime(ctx, gone))
		require.NoError(t, f.svc.FinishShowtime(ctx, gone))
	})
}

func TestSweepFinishedTickets(t *testing.T) {
	f := newShowtimeFixture(t)
	ctx := context.Background()

	finished := f.seedShowtime(t, time.Now().Add(-6*time.Hour), entity.ShowtimeStateFinished)
	open := f.seedShowtime(t, time.Now().Add(72*time.Hour), entity.ShowtimeStateScheduled)

	now := time.Now()
	for _, showtime := range []*entity.Showtime{finished, open} {
		ticket := &entity.Ticket{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ShowtimeID: showtime.ID,
			SeatNumber: 1,
			Price:      10,
		}
		require.NoError(t, f.repo.Ticket.Create(ctx, ticket))
	}

	removed, err := f.svc.SweepFinishedTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	kept, err := f.repo.Ticket.ListByShowtime(ctx, open.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
