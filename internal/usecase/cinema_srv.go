package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/dto/request"
	"cinema-showtime/internal/dto/response"
	"cinema-showtime/pkg/apperr"
	"cinema-showtime/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CinemaService interface {
	GetCinemas(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CinemaResponse], error)
	GetCinemaByID(ctx context.Context, cinemaID string) (*response.CinemaResponse, error)
	CreateCinema(ctx context.Context, req *request.AddCinemaRequest) (*response.CinemaResponse, error)

	CreateTheater(ctx context.Context, req *request.AddTheaterRequest) (*response.TheaterResponse, error)
	GetTheaters(ctx context.Context, cinemaID string) ([]response.TheaterResponse, error)
	GetSeats(ctx context.Context, theaterID string) ([]response.SeatResponse, error)
}

type cinemaService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCinemaService(repo *repository.Repository, log *zap.Logger) CinemaService {
	return &cinemaService{
		repo: repo,
		log:  log.With(zap.String("service", "cinema")),
	}
}

func (s *cinemaService) GetCinemas(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CinemaResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	cinemas, err := s.repo.Cinema.List(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get cinemas", zap.Error(err))
		return nil, fmt.Errorf("get cinemas: %w", err)
	}

	total, err := s.repo.Cinema.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count cinemas", zap.Error(err))
		return nil, fmt.Errorf("count cinemas: %w", err)
	}

	items := make([]response.CinemaResponse, len(cinemas))
	for i, cinema := range cinemas {
		items[i] = response.CinemaToResponse(cinema)
	}

	return response.NewPaginatedResponse(items, req.Page, limit, total), nil
}

func (s *cinemaService) GetCinemaByID(ctx context.Context, cinemaID string) (*response.CinemaResponse, error) {
	id, err := uuid.Parse(cinemaID)
	if err != nil {
		return nil, apperr.NotFound("cinema", cinemaID)
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cinema: %w", err)
	}
	if cinema == nil {
		return nil, apperr.NotFound("cinema", cinemaID)
	}

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) CreateCinema(ctx context.Context, req *request.AddCinemaRequest) (*response.CinemaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create cinema validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidState("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	cinema := &entity.Cinema{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}

	if err := s.repo.Cinema.Create(ctx, cinema); err != nil {
		s.log.Error("Failed to create cinema", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create cinema: %w", err)
	}

	s.log.Info("Cinema created",
		zap.String("cinema_id", cinema.ID.String()),
		zap.String("name", cinema.Name),
	)

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

// CreateTheater sets up an auditorium and its full seat block in one shot:
// economy seats numbered 1..E, then VIP seats E+1..E+V. Seats are immutable
// afterwards.
func (s *cinemaService) CreateTheater(ctx context.Context, req *request.AddTheaterRequest) (*response.TheaterResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create theater validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidState("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.EconomySeats+req.VIPSeats == 0 {
		return nil, apperr.InvalidState("theater must have at least one seat")
	}

	cinemaID, err := uuid.Parse(req.CinemaID)
	if err != nil {
		return nil, apperr.NotFound("cinema", req.CinemaID)
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("get cinema: %w", err)
	}
	if cinema == nil {
		return nil, apperr.NotFound("cinema", req.CinemaID)
	}

	existing, err := s.repo.Theater.FindByCinemaAndNumber(ctx, cinemaID, req.Number)
	if err != nil {
		return nil, fmt.Errorf("check theater number: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("theater %d already exists in cinema %s", req.Number, req.CinemaID)
	}

	now := time.Now()
	theater := &entity.Theater{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CinemaID:     cinemaID,
		Number:       req.Number,
		EconomySeats: req.EconomySeats,
		VIPSeats:     req.VIPSeats,
	}

	if err := s.repo.Theater.Create(ctx, theater); err != nil {
		s.log.Error("Failed to create theater", zap.Error(err), zap.Int("number", req.Number))
		return nil, fmt.Errorf("create theater: %w", err)
	}

	seats := make([]*entity.Seat, 0, req.EconomySeats+req.VIPSeats)
	for n := 1; n <= req.EconomySeats; n++ {
		seats = append(seats, newSeat(theater.ID, n, entity.SeatTierEconomy, now))
	}
	for n := req.EconomySeats + 1; n <= req.EconomySeats+req.VIPSeats; n++ {
		seats = append(seats, newSeat(theater.ID, n, entity.SeatTierVIP, now))
	}

	if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
		s.log.Error("Failed to create seat block",
			zap.Error(err),
			zap.String("theater_id", theater.ID.String()),
		)
		return nil, fmt.Errorf("create seat block: %w", err)
	}

	s.log.Info("Theater created",
		zap.String("theater_id", theater.ID.String()),
		zap.Int("number", theater.Number),
		zap.Int("seats", len(seats)),
	)

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func newSeat(theaterID uuid.UUID, number int, tier entity.SeatTier, at time.Time) *entity.Seat {
	return &entity.Seat{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: at,
		},
		TheaterID: theaterID,
		Number:    number,
		Tier:      tier,
	}
}

func (s *cinemaService) GetTheaters(ctx context.Context, cinemaID string) ([]response.TheaterResponse, error) {
	id, err := uuid.Parse(cinemaID)
	if err != nil {
		return nil, apperr.NotFound("cinema", cinemaID)
	}

	theaters, err := s.repo.Theater.ListByCinema(ctx, id)
	if err != nil {
		s.log.Error("Failed to list theaters", zap.Error(err), zap.String("cinema_id", cinemaID))
		return nil, fmt.Errorf("list theaters: %w", err)
	}

	items := make([]response.TheaterResponse, len(theaters))
	for i, theater := range theaters {
		items[i] = response.TheaterToResponse(theater)
	}
	return items, nil
}

func (s *cinemaService) GetSeats(ctx context.Context, theaterID string) ([]response.SeatResponse, error) {
	id, err := uuid.Parse(theaterID)
	if err != nil {
		return nil, apperr.NotFound("theater", theaterID)
	}

	theater, err := s.repo.Theater.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, apperr.NotFound("theater", theaterID)
	}

	seats, err := s.repo.Seat.ListByTheater(ctx, id)
	if err != nil {
		s.log.Error("Failed to list seats", zap.Error(err), zap.String("theater_id", theaterID))
		return nil, fmt.Errorf("list seats: %w", err)
	}

	items := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		items[i] = response.SeatToResponse(seat)
	}
	return items, nil
}
