package usecase

import (
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/notifier"
	"cinema-showtime/pkg/lock"
	"cinema-showtime/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Movie    MovieService
	Cinema   CinemaService
	Showtime ShowtimeService
}

func NewService(repo *repository.Repository, config *utils.Config, locks *lock.Keyed, notify notifier.Notifier, log *zap.Logger) *Service {
	return &Service{
		Movie:    NewMovieService(repo, log),
		Cinema:   NewCinemaService(repo, log),
		Showtime: NewShowtimeService(repo, config, locks, notify, log),
	}
}
