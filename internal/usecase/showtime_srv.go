package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/dto/request"
	"cinema-showtime/internal/dto/response"
	"cinema-showtime/internal/notifier"
	"cinema-showtime/pkg/apperr"
	"cinema-showtime/pkg/lock"
	"cinema-showtime/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShowtimeScheduler registers the three lifecycle deadlines of a confirmed
// showtime: reservation expiry, start, and finish. Implemented by the
// scheduler package; attached after construction to break the cycle between
// the scheduler and this service.
type ShowtimeScheduler interface {
	ScheduleShowtime(id uuid.UUID, startsAt time.Time, durationMinutes int) error
}

type ShowtimeService interface {
	CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	AcknowledgeShowtime(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	RemoveShowtime(ctx context.Context, showtimeID string) error

	GetShowtimesByMovie(ctx context.Context, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)
	GetShowtimesByCinema(ctx context.Context, cinemaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)
	GetShowtimesByDate(ctx context.Context, day time.Time, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)

	CreateReservation(ctx context.Context, requester string, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, requester string, reservationID string) error
	CancelReservationsForUser(ctx context.Context, requester string) (int, error)
	GetUserReservations(ctx context.Context, requester string) ([]response.ReservationResponse, error)

	CreateTicket(ctx context.Context, req *request.CreateTicketRequest) (*response.TicketResponse, error)
	DeleteTicket(ctx context.Context, ticketID string) error

	// Lifecycle transitions, driven by the scheduler. Each is idempotent:
	// replaying a deadline against a showtime that already moved on is a
	// no-op.
	ExpireReservations(ctx context.Context, showtimeID uuid.UUID) error
	StartShowtime(ctx context.Context, showtimeID uuid.UUID) error
	FinishShowtime(ctx context.Context, showtimeID uuid.UUID) error
	SweepFinishedTickets(ctx context.Context) (int64, error)

	AttachScheduler(sched ShowtimeScheduler)
}

type showtimeService struct {
	repo         *repository.Repository
	locks        *lock.Keyed
	notify       notifier.Notifier
	sched        ShowtimeScheduler
	lockWait     time.Duration
	expiryMargin time.Duration
	log          *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, config *utils.Config, locks *lock.Keyed, notify notifier.Notifier, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo:         repo,
		locks:        locks,
		notify:       notify,
		lockWait:     time.Duration(config.Scheduler.LockWaitSeconds) * time.Second,
		expiryMargin: time.Duration(config.Scheduler.ExpiryMarginSecs) * time.Second,
		log:          log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) AttachScheduler(sched ShowtimeScheduler) {
	s.sched = sched
}

// acquire takes the per-showtime lock with the configured wait budget. Every
// mutation of a showtime's reservations, tickets, or state goes through here,
// so concurrent requests on the same showtime serialize and requests on
// different showtimes never contend.
func (s *showtimeService) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	release, err := s.locks.Acquire(ctx, id.String(), s.lockWait)
	if err != nil {
		if errors.Is(err, lock.ErrAcquireTimeout) {
			s.log.Warn("Showtime lock wait exceeded", zap.String("showtime_id", id.String()))
			return nil, apperr.Timeout("showtime %s is busy, try again later", id.String())
		}
		return nil, fmt.Errorf("acquire showtime lock: %w", err)
	}
	return release, nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showtime validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidState("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, apperr.NotFound("movie", req.MovieID)
	}
	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, apperr.NotFound("theater", req.TheaterID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperr.NotFound("movie", req.MovieID)
	}
	if movie.IsDeleted() {
		return nil, apperr.InvalidState("movie %s is no longer in the catalog", req.MovieID)
	}

	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, apperr.NotFound("theater", req.TheaterID)
	}

	if req.StartsAt.Before(time.Now().Add(entity.MinScheduleAhead)) {
		return nil, apperr.InvalidState("showtime must start at least 2 days from now")
	}

	existing, err := s.repo.Showtime.FindByTheaterAndStart(ctx, theaterID, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("check theater slot: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("theater %d already has a showtime at %s", theater.Number, req.StartsAt.Format(time.RFC3339))
	}

	now := time.Now()
	showtime := &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:      movieID,
		TheaterID:    theaterID,
		EconomyPrice: req.EconomyPrice,
		VIPPrice:     req.VIPPrice,
		StartsAt:     req.StartsAt,
		State:        entity.ShowtimeStateCreation,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		s.log.Error("Failed to create showtime", zap.Error(err))
		return nil, fmt.Errorf("create showtime: %w", err)
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.Time("starts_at", req.StartsAt),
	)

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, apperr.NotFound("showtime", showtimeID)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, apperr.NotFound("showtime", showtimeID)
	}

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

// AcknowledgeShowtime confirms a draft showtime. The transition to SCHEDULED
// opens it for reservations and fixes its three deadlines with the scheduler;
// acknowledging twice fails, so the deadlines are registered exactly once.
func (s *showtimeService) AcknowledgeShowtime(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, apperr.NotFound("showtime", showtimeID)
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, apperr.NotFound("showtime", showtimeID)
	}
	if showtime.State != entity.ShowtimeStateCreation {
		return nil, apperr.InvalidState("showtime %s is already confirmed", showtimeID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperr.NotFound("movie", showtime.MovieID.String())
	}

	if err := s.repo.Showtime.UpdateState(ctx, id, entity.ShowtimeStateScheduled, time.Now()); err != nil {
		s.log.Error("Failed to confirm showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, fmt.Errorf("confirm showtime: %w", err)
	}
	showtime.State = entity.ShowtimeStateScheduled

	if s.sched != nil {
		if err := s.sched.ScheduleShowtime(id, showtime.StartsAt, movie.Duration); err != nil {
			s.log.Error("Failed to register showtime deadlines",
				zap.Error(err),
				zap.String("showtime_id", showtimeID),
			)
			return nil, fmt.Errorf("register showtime deadlines: %w", err)
		}
	}

	s.log.Info("Showtime confirmed",
		zap.String("showtime_id", showtimeID),
		zap.Time("starts_at", showtime.StartsAt),
		zap.Time("expires_at", showtime.ExpiryAt(s.expiryMargin)),
	)

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

// RemoveShowtime deletes a showtime that is not open for sale: drafts that
// were never confirmed, or projections that already finished.
func (s *showtimeService) RemoveShowtime(ctx context.Context, showtimeID string) error {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return apperr.NotFound("showtime", showtimeID)
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return apperr.NotFound("showtime", showtimeID)
	}
	if !showtime.Removable() {
		return apperr.InvalidState("showtime %s cannot be removed while open for sale", showtimeID)
	}

	if err := s.repo.Showtime.Delete(ctx, id); err != nil {
		s.log.Error("Failed to remove showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return fmt.Errorf("remove showtime: %w", err)
	}

	s.log.Info("Showtime removed", zap.String("showtime_id", showtimeID))
	return nil
}

func (s *showtimeService) GetShowtimesByMovie(ctx context.Context, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, apperr.NotFound("movie", movieID)
	}

	showtimes, err := s.repo.Showtime.ListByMovie(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list showtimes by movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}
	total, err := s.repo.Showtime.CountByMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count showtimes: %w", err)
	}

	return paginateShowtimes(showtimes, req, total), nil
}

func (s *showtimeService) GetShowtimesByCinema(ctx context.Context, cinemaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	id, err := uuid.Parse(cinemaID)
	if err != nil {
		return nil, apperr.NotFound("cinema", cinemaID)
	}

	showtimes, err := s.repo.Showtime.ListByCinema(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list showtimes by cinema", zap.Error(err), zap.String("cinema_id", cinemaID))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}
	total, err := s.repo.Showtime.CountByCinema(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count showtimes: %w", err)
	}

	return paginateShowtimes(showtimes, req, total), nil
}

func (s *showtimeService) GetShowtimesByDate(ctx context.Context, day time.Time, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	showtimes, err := s.repo.Showtime.ListByDate(ctx, day, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list showtimes by date", zap.Error(err), zap.Time("day", day))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}
	total, err := s.repo.Showtime.CountByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("count showtimes: %w", err)
	}

	return paginateShowtimes(showtimes, req, total), nil
}

func paginateShowtimes(showtimes []*entity.Showtime, req *request.PaginatedRequest, total int64) *response.PaginatedResponse[response.ShowtimeResponse] {
	items := make([]response.ShowtimeResponse, len(showtimes))
	for i, showtime := range showtimes {
		items[i] = response.ShowtimeToResponse(showtime)
	}
	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total)
}

// CreateReservation holds a set of seats for the requester. The whole set is
// checked under the showtime lock and persisted in one shot: either every
// requested seat is free and all of them are held, or nothing is.
func (s *showtimeService) CreateReservation(ctx context.Context, requester string, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidState("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, apperr.NotFound("showtime", req.ShowtimeID)
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, apperr.NotFound("showtime", req.ShowtimeID)
	}

	switch showtime.State {
	case entity.ShowtimeStateScheduled:
	case entity.ShowtimeStateCreation:
		return nil, apperr.InvalidState("showtime %s is not yet scheduled", req.ShowtimeID)
	default:
		return nil, apperr.InvalidState("showtime %s is no longer open for reservations", req.ShowtimeID)
	}

	if time.Until(showtime.StartsAt) <= entity.ReservationCutoff {
		return nil, apperr.InvalidState("reservations for showtime %s are closed", req.ShowtimeID)
	}

	if len(req.SeatNumbers) == 0 {
		return nil, apperr.InvalidState("no seat numbers were specified")
	}

	reservations, err := s.repo.Reservation.ListByShowtime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for _, r := range reservations {
		if r.UserEmail == requester {
			return nil, apperr.Conflict("requester %s already holds a reservation for showtime %s", requester, req.ShowtimeID)
		}
	}

	tickets, err := s.repo.Ticket.ListByShowtime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	seen := make(map[int]bool, len(req.SeatNumbers))
	for _, n := range req.SeatNumbers {
		if seen[n] {
			return nil, apperr.InvalidState("seat %d was requested more than once", n)
		}
		seen[n] = true

		seat, err := s.repo.Seat.FindByTheaterAndNumber(ctx, showtime.TheaterID, n)
		if err != nil {
			return nil, fmt.Errorf("get seat: %w", err)
		}
		if seat == nil {
			return nil, apperr.NotFound("seat", seatLabel(n))
		}

		for _, r := range reservations {
			if r.HoldsSeat(n) {
				return nil, apperr.Conflict("seat %d is already reserved", n)
			}
		}
		for _, t := range tickets {
			if t.SeatNumber == n {
				return nil, apperr.Conflict("seat %d is already sold", n)
			}
		}
	}

	reservation := &entity.Reservation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ShowtimeID:  id,
		UserEmail:   requester,
		SeatNumbers: req.SeatNumbers,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		s.log.Error("Failed to create reservation", zap.Error(err), zap.String("showtime_id", req.ShowtimeID))
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("showtime_id", req.ShowtimeID),
		zap.String("requester", requester),
		zap.Ints("seats", req.SeatNumbers),
	)

	s.sendNotification(ctx, notifier.TypeReservationCreated, requester, showtime)

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// CancelReservation releases a hold. Only the holder may cancel; anyone
// else's reservation id looks like it does not exist.
func (s *showtimeService) CancelReservation(ctx context.Context, requester string, reservationID string) error {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return apperr.NotFound("reservation", reservationID)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil || reservation.UserEmail != requester {
		return apperr.NotFound("reservation", reservationID)
	}

	release, err := s.acquire(ctx, reservation.ShowtimeID)
	if err != nil {
		return err
	}
	defer release()

	// Re-read under the lock: the expiry sweep may have cleared it while we
	// were waiting.
	reservation, err = s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil || reservation.UserEmail != requester {
		return apperr.NotFound("reservation", reservationID)
	}

	if err := s.repo.Reservation.Delete(ctx, id); err != nil {
		s.log.Error("Failed to cancel reservation", zap.Error(err), zap.String("reservation_id", reservationID))
		return fmt.Errorf("cancel reservation: %w", err)
	}

	s.log.Info("Reservation canceled",
		zap.String("reservation_id", reservationID),
		zap.String("requester", requester),
	)

	showtime, err := s.repo.Showtime.FindByID(ctx, reservation.ShowtimeID)
	if err == nil && showtime != nil {
		s.sendNotification(ctx, notifier.TypeReservationCanceled, requester, showtime)
	}

	return nil
}

// CancelReservationsForUser drops every hold the requester has, across all
// showtimes. Used when an account is closed; no notifications are sent.
func (s *showtimeService) CancelReservationsForUser(ctx context.Context, requester string) (int, error) {
	reservations, err := s.repo.Reservation.ListByUser(ctx, requester)
	if err != nil {
		return 0, fmt.Errorf("list reservations: %w", err)
	}

	canceled := 0
	for _, reservation := range reservations {
		release, err := s.acquire(ctx, reservation.ShowtimeID)
		if err != nil {
			return canceled, err
		}

		err = s.repo.Reservation.Delete(ctx, reservation.ID)
		release()
		if err != nil {
			s.log.Error("Failed to cancel reservation",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
			return canceled, fmt.Errorf("cancel reservation: %w", err)
		}
		canceled++
	}

	if canceled > 0 {
		s.log.Info("Reservations canceled for user",
			zap.String("requester", requester),
			zap.Int("count", canceled),
		)
	}
	return canceled, nil
}

func (s *showtimeService) GetUserReservations(ctx context.Context, requester string) ([]response.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.ListByUser(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		items[i] = response.ReservationToResponse(reservation)
	}
	return items, nil
}

// CreateTicket sells one seat at the point of sale. Sales stay open from
// confirmation until the projection finishes; a seat held by a live
// reservation cannot be sold.
func (s *showtimeService) CreateTicket(ctx context.Context, req *request.CreateTicketRequest) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create ticket validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidState("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, apperr.NotFound("showtime", req.ShowtimeID)
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, apperr.NotFound("showtime", req.ShowtimeID)
	}

	switch showtime.State {
	case entity.ShowtimeStateScheduled, entity.ShowtimeStateInProgress:
	case entity.ShowtimeStateCreation:
		return nil, apperr.InvalidState("showtime %s is not yet scheduled", req.ShowtimeID)
	default:
		return nil, apperr.InvalidState("showtime %s is finished", req.ShowtimeID)
	}

	seat, err := s.repo.Seat.FindByTheaterAndNumber(ctx, showtime.TheaterID, req.SeatNumber)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat == nil {
		return nil, apperr.NotFound("seat", seatLabel(req.SeatNumber))
	}

	reservations, err := s.repo.Reservation.ListByShowtime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for _, r := range reservations {
		if r.HoldsSeat(req.SeatNumber) {
			return nil, apperr.Conflict("seat %d is already reserved", req.SeatNumber)
		}
	}

	tickets, err := s.repo.Ticket.ListByShowtime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	for _, t := range tickets {
		if t.SeatNumber == req.SeatNumber {
			return nil, apperr.Conflict("seat %d is already sold", req.SeatNumber)
		}
	}

	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ShowtimeID: id,
		SeatNumber: req.SeatNumber,
		Price:      showtime.PriceFor(seat.Tier),
	}

	if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
		s.log.Error("Failed to create ticket", zap.Error(err), zap.String("showtime_id", req.ShowtimeID))
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.log.Info("Ticket sold",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("showtime_id", req.ShowtimeID),
		zap.Int("seat", req.SeatNumber),
		zap.Float64("price", ticket.Price),
	)

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

// DeleteTicket refunds a sale, freeing the seat for sale or reservation again.
func (s *showtimeService) DeleteTicket(ctx context.Context, ticketID string) error {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return apperr.NotFound("ticket", ticketID)
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return apperr.NotFound("ticket", ticketID)
	}

	release, err := s.acquire(ctx, ticket.ShowtimeID)
	if err != nil {
		return err
	}
	defer release()

	ticket, err = s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return apperr.NotFound("ticket", ticketID)
	}

	if err := s.repo.Ticket.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete ticket", zap.Error(err), zap.String("ticket_id", ticketID))
		return fmt.Errorf("delete ticket: %w", err)
	}

	s.log.Info("Ticket deleted", zap.String("ticket_id", ticketID))
	return nil
}

// ExpireReservations clears every outstanding hold on the showtime when the
// reservation window closes. From that moment the remaining seats are
// sale-only.
func (s *showtimeService) ExpireReservations(ctx context.Context, showtimeID uuid.UUID) error {
	release, err := s.acquire(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil || showtime.State != entity.ShowtimeStateScheduled {
		return nil
	}

	cleared, err := s.repo.Reservation.DeleteByShowtime(ctx, showtimeID)
	if err != nil {
		s.log.Error("Failed to expire reservations",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("expire reservations: %w", err)
	}

	s.log.Info("Reservations expired",
		zap.String("showtime_id", showtimeID.String()),
		zap.Int64("cleared", cleared),
	)
	return nil
}

func (s *showtimeService) StartShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	release, err := s.acquire(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil || showtime.State != entity.ShowtimeStateScheduled {
		return nil
	}

	if err := s.repo.Showtime.UpdateState(ctx, showtimeID, entity.ShowtimeStateInProgress, time.Now()); err != nil {
		return fmt.Errorf("start showtime: %w", err)
	}

	s.log.Info("Showtime started", zap.String("showtime_id", showtimeID.String()))
	return nil
}

func (s *showtimeService) FinishShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	release, err := s.acquire(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer release()

	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil || showtime.State == entity.ShowtimeStateFinished || showtime.State == entity.ShowtimeStateCreation {
		return nil
	}

	if err := s.repo.Showtime.UpdateState(ctx, showtimeID, entity.ShowtimeStateFinished, time.Now()); err != nil {
		return fmt.Errorf("finish showtime: %w", err)
	}

	s.log.Info("Showtime finished", zap.String("showtime_id", showtimeID.String()))
	return nil
}

// SweepFinishedTickets removes every ticket belonging to a finished showtime.
// Runs daily; the tickets of a projection stay queryable until the first
// sweep after it finishes.
func (s *showtimeService) SweepFinishedTickets(ctx context.Context) (int64, error) {
	removed, err := s.repo.Ticket.DeleteForFinishedShowtimes(ctx)
	if err != nil {
		s.log.Error("Ticket sweep failed", zap.Error(err))
		return 0, fmt.Errorf("sweep tickets: %w", err)
	}

	if removed > 0 {
		s.log.Info("Ticket sweep completed", zap.Int64("removed", removed))
	}
	return removed, nil
}

// sendNotification is fire-and-forget: reservation outcomes never depend on
// the broker being up.
func (s *showtimeService) sendNotification(ctx context.Context, typ notifier.Type, email string, showtime *entity.Showtime) {
	movieTitle := ""
	if movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID); err == nil && movie != nil {
		movieTitle = movie.Title
	}

	notification := notifier.Notification{
		Type:  typ,
		Email: email,
		Movie: movieTitle,
		Start: showtime.StartsAt.Format(time.RFC3339),
	}
	if err := s.notify.Send(ctx, notification); err != nil {
		s.log.Warn("Notification delivery failed",
			zap.Error(err),
			zap.String("type", string(typ)),
			zap.String("email", email),
		)
	}
}

func seatLabel(number int) string {
	return fmt.Sprintf("%d", number)
}
