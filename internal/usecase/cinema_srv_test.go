package usecase

import (
	"context"
	"testing"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository/memory"
	"cinema-showtime/internal/dto/request"
	"cinema-showtime/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateTheaterSeatBlock(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewCinemaService(repo, zap.NewNop())
	ctx := context.Background()

	cinema, err := svc.CreateCinema(ctx, &request.AddCinemaRequest{
		Name:    "Central",
		Address: "1 Main St",
		City:    "Springfield",
	})
	require.NoError(t, err)

	theater, err := svc.CreateTheater(ctx, &request.AddTheaterRequest{
		CinemaID:     cinema.ID,
		Number:       1,
		EconomySeats: 3,
		VIPSeats:     2,
	})
	require.NoError(t, err)

	seats, err := svc.GetSeats(ctx, theater.ID)
	require.NoError(t, err)
	require.Len(t, seats, 5)

	// Economy block first, then VIP, numbered without gaps.
	for i, seat := range seats {
		assert.Equal(t, i+1, seat.Number)
		if i < 3 {
			assert.Equal(t, string(entity.SeatTierEconomy), seat.Tier)
		} else {
			assert.Equal(t, string(entity.SeatTierVIP), seat.Tier)
		}
	}

	t.Run("duplicate theater number", func(t *testing.T) {
		_, err := svc.CreateTheater(ctx, &request.AddTheaterRequest{
			CinemaID:     cinema.ID,
			Number:       1,
			EconomySeats: 4,
		})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("no seats at all", func(t *testing.T) {
		_, err := svc.CreateTheater(ctx, &request.AddTheaterRequest{
			CinemaID: cinema.ID,
			Number:   2,
		})
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("unknown cinema", func(t *testing.T) {
		_, err := svc.CreateTheater(ctx, &request.AddTheaterRequest{
			CinemaID:     "3f6f3a52-9f44-4f5e-9a39-0ec1a4bb7c4e",
			Number:       1,
			EconomySeats: 1,
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestMovieLifecycle(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewMovieService(repo, zap.NewNop())
	ctx := context.Background()

	movie, err := svc.CreateMovie(ctx, &request.AddMovieRequest{
		Title:    "Heat",
		Duration: 170,
		Rating:   "R",
	})
	require.NoError(t, err)

	fetched, err := svc.GetMovieByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", fetched.Title)

	updated, err := svc.UpdateMovie(ctx, &request.UpdateMovieRequest{
		MovieID:  movie.ID,
		Title:    "Heat",
		Duration: 171,
		Rating:   "R",
	})
	require.NoError(t, err)
	assert.Equal(t, 171, updated.Duration)

	require.NoError(t, svc.DeleteMovie(ctx, movie.ID))

	// Soft-deleted movies vanish from the catalog.
	_, err = svc.GetMovieByID(ctx, movie.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = svc.DeleteMovie(ctx, movie.ID)
	assert.True(t, apperr.IsNotFound(err))
}
