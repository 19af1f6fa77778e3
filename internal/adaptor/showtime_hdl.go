package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"cinema-showtime/internal/dto/request"
	"cinema-showtime/internal/usecase"
	"cinema-showtime/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// CreateShowtime handles POST /api/showtimes
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "Showtime created successfully", showtime)
}

// GetShowtimeByID handles GET /api/showtimes/{id}
func (h *ShowtimeHandler) GetShowtimeByID(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "Showtime ID is required", nil)
		return
	}

	showtime, err := h.service.GetShowtimeByID(r.Context(), showtimeID)
	if err != nil {
		writeServiceError(w, h.log, err, "get showtime by ID")
		return
	}

	utils.ResponseSuccess(w, "Showtime retrieved successfully", showtime)
}

// AcknowledgeShowtime handles POST /api/showtimes/{id}/acknowledge
func (h *ShowtimeHandler) AcknowledgeShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "Showtime ID is required", nil)
		return
	}

	showtime, err := h.service.AcknowledgeShowtime(r.Context(), showtimeID)
	if err != nil {
		writeServiceError(w, h.log, err, "acknowledge showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime confirmed successfully", showtime)
}

// RemoveShowtime handles DELETE /api/showtimes/{id}
func (h *ShowtimeHandler) RemoveShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "Showtime ID is required", nil)
		return
	}

	if err := h.service.RemoveShowtime(r.Context(), showtimeID); err != nil {
		writeServiceError(w, h.log, err, "remove showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime removed successfully", nil)
}

// GetShowtimesByMovie handles GET /api/movies/{id}/showtimes
func (h *ShowtimeHandler) GetShowtimesByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	if movieID == "" {
		utils.ResponseBadRequest(w, "Movie ID is required", nil)
		return
	}

	showtimes, err := h.service.GetShowtimesByMovie(r.Context(), movieID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get showtimes by movie")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// GetShowtimesByCinema handles GET /api/cinemas/{id}/showtimes
func (h *ShowtimeHandler) GetShowtimesByCinema(w http.ResponseWriter, r *http.Request) {
	cinemaID := chi.URLParam(r, "id")
	if cinemaID == "" {
		utils.ResponseBadRequest(w, "Cinema ID is required", nil)
		return
	}

	showtimes, err := h.service.GetShowtimesByCinema(r.Context(), cinemaID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get showtimes by cinema")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// GetShowtimesByDate handles GET /api/showtimes?date=2026-01-02
func (h *ShowtimeHandler) GetShowtimesByDate(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	day, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		utils.ResponseBadRequest(w, "date must be formatted as YYYY-MM-DD", nil)
		return
	}

	showtimes, err := h.service.GetShowtimesByDate(r.Context(), day, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get showtimes by date")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// CreateReservation handles POST /api/reservations. The requester comes from
// the identity middleware, never from the request body.
func (h *ShowtimeHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Requester identity is required")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), requester, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created successfully", reservation)
}

// CancelReservation handles DELETE /api/reservations/{id}
func (h *ShowtimeHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Requester identity is required")
		return
	}

	reservationID := chi.URLParam(r, "id")
	if reservationID == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	if err := h.service.CancelReservation(r.Context(), requester, reservationID); err != nil {
		writeServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation canceled successfully", nil)
}

// GetUserReservations handles GET /api/reservations
func (h *ShowtimeHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Requester identity is required")
		return
	}

	reservations, err := h.service.GetUserReservations(r.Context(), requester)
	if err != nil {
		writeServiceError(w, h.log, err, "get reservations")
		return
	}

	utils.ResponseSuccess(w, "Reservations retrieved successfully", reservations)
}

// CancelUserReservations handles DELETE /api/reservations
func (h *ShowtimeHandler) CancelUserReservations(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Requester identity is required")
		return
	}

	canceled, err := h.service.CancelReservationsForUser(r.Context(), requester)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel reservations")
		return
	}

	utils.ResponseSuccess(w, "Reservations canceled successfully", map[string]int{"canceled": canceled})
}

// CreateTicket handles POST /api/tickets
func (h *ShowtimeHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.service.CreateTicket(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create ticket")
		return
	}

	utils.ResponseCreated(w, "Ticket created successfully", ticket)
}

// DeleteTicket handles DELETE /api/tickets/{id}
func (h *ShowtimeHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		utils.ResponseBadRequest(w, "Ticket ID is required", nil)
		return
	}

	if err := h.service.DeleteTicket(r.Context(), ticketID); err != nil {
		writeServiceError(w, h.log, err, "delete ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket deleted successfully", nil)
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
