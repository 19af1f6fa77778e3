package wire

import (
	"net/http"

	"cinema-showtime/internal/adaptor"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/notifier"
	"cinema-showtime/internal/scheduler"
	"cinema-showtime/internal/usecase"
	"cinema-showtime/pkg/lock"
	"cinema-showtime/pkg/middleware"
	"cinema-showtime/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router    *chi.Mux
	Service   *usecase.Service
	Scheduler *scheduler.Scheduler
}

// Wiring initializes all dependencies and plugs the scheduler into the
// showtime service.
func Wiring(repo *repository.Repository, config *utils.Config, notify notifier.Notifier, logger *zap.Logger) (*App, error) {
	locks := lock.NewKeyed()
	service := usecase.NewService(repo, config, locks, notify, logger)

	sched, err := scheduler.New(repo, service.Showtime, config, logger)
	if err != nil {
		return nil, err
	}
	service.Showtime.AttachScheduler(sched)

	handler := adaptor.NewHandler(service, logger)
	router := setupRouter(handler, logger)

	return &App{
		Router:    router,
		Service:   service,
		Scheduler: sched,
	}, nil
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireMovie(r, handler.Movie, handler.Showtime)
	wireCinema(r, handler.Cinema, handler.Showtime)
	wireShowtime(r, handler.Showtime, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
