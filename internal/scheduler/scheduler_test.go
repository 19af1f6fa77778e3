package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository/memory"
	"cinema-showtime/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransitioner struct {
	mu       sync.Mutex
	expired  []uuid.UUID
	started  []uuid.UUID
	finished []uuid.UUID
	fired    chan string
}

func newFakeTransitioner() *fakeTransitioner {
	return &fakeTransitioner{fired: make(chan string, 16)}
}

func (f *fakeTransitioner) ExpireReservations(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.expired = append(f.expired, id)
	f.mu.Unlock()
	f.fired <- "expire"
	return nil
}

func (f *fakeTransitioner) StartShowtime(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.started = append(f.started, id)
	f.mu.Unlock()
	f.fired <- "start"
	return nil
}

func (f *fakeTransitioner) FinishShowtime(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.finished = append(f.finished, id)
	f.mu.Unlock()
	f.fired <- "finish"
	return nil
}

func (f *fakeTransitioner) SweepFinishedTickets(context.Context) (int64, error) {
	f.fired <- "sweep"
	return 0, nil
}

func awaitFired(t *testing.T, fired chan string, want map[string]int) {
	t.Helper()

	got := make(map[string]int)
	deadline := time.After(3 * time.Second)
	total := 0
	for _, n := range want {
		total += n
	}

	for i := 0; i < total; i++ {
		select {
		case name := <-fired:
			got[name]++
		case <-deadline:
			t.Fatalf("timed out waiting for transitions, got %v want %v", got, want)
		}
	}
	assert.Equal(t, want, got)
}

func testConfig() *utils.Config {
	return &utils.Config{
		Scheduler: utils.SchedulerConfig{
			LockWaitSeconds:  1,
			ExpiryMarginSecs: 10,
		},
	}
}

func TestOverdueDeadlinesFireImmediately(t *testing.T) {
	repo := memory.NewRepository()
	transitions := newFakeTransitioner()

	s, err := New(repo, transitions, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	// A showtime whose projection already ended: all three deadlines are in
	// the past and must replay right away.
	id := uuid.New()
	require.NoError(t, s.ScheduleShowtime(id, time.Now().Add(-3*time.Hour), 120))

	awaitFired(t, transitions.fired, map[string]int{"expire": 1, "start": 1, "finish": 1})

	assert.Equal(t, []uuid.UUID{id}, transitions.expired)
	assert.Equal(t, []uuid.UUID{id}, transitions.started)
	assert.Equal(t, []uuid.UUID{id}, transitions.finished)
}

func TestFutureDeadlinesDoNotFireEarly(t *testing.T) {
	repo := memory.NewRepository()
	transitions := newFakeTransitioner()

	s, err := New(repo, transitions, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	require.NoError(t, s.ScheduleShowtime(uuid.New(), time.Now().Add(72*time.Hour), 120))

	select {
	case name := <-transitions.fired:
		t.Fatalf("transition %q fired ahead of its deadline", name)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStartReloadsPendingShowtimes(t *testing.T) {
	repo := memory.NewRepository()
	transitions := newFakeTransitioner()
	ctx := context.Background()

	now := time.Now()
	movie := &entity.Movie{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:    "Heat",
		Duration: 170,
	}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	// One showtime mid-flight from a previous run, one already terminal.
	pending := &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:      movie.ID,
		TheaterID:    uuid.New(),
		StartsAt:     now.Add(-4 * time.Hour),
		State:        entity.ShowtimeStateInProgress,
	}
	require.NoError(t, repo.Showtime.Create(ctx, pending))

	finished := &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:      movie.ID,
		TheaterID:    uuid.New(),
		StartsAt:     now.Add(-6 * time.Hour),
		State:        entity.ShowtimeStateFinished,
	}
	require.NoError(t, repo.Showtime.Create(ctx, finished))

	s, err := New(repo, transitions, testConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	// All three deadlines of the in-progress showtime are overdue and must
	// replay. The finished showtime is terminal and gets nothing.
	awaitFired(t, transitions.fired, map[string]int{"expire": 1, "start": 1, "finish": 1})

	assert.Equal(t, []uuid.UUID{pending.ID}, transitions.started)
	assert.NotContains(t, transitions.started, finished.ID)
}
