package adaptor

import (
	"net/http"

	"cinema-showtime/internal/usecase"
	"cinema-showtime/pkg/apperr"
	"cinema-showtime/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Movie    *MovieHandler
	Cinema   *CinemaHandler
	Showtime *ShowtimeHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Movie:    NewMovieHandler(service.Movie, log),
		Cinema:   NewCinemaHandler(service.Cinema, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
	}
}

// writeServiceError maps the error taxonomy onto HTTP statuses: NotFound 404,
// Conflict 409, InvalidState 422, Timeout 504, everything else 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case apperr.KindConflict:
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case apperr.KindInvalidState:
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseUnprocessable(w, errMsg)

	case apperr.KindTimeout:
		log.Warn(operation+" failed - timeout", zap.Error(err))
		utils.ResponseTimeout(w, errMsg)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
