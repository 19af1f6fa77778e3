package response

import (
	"cinema-showtime/internal/data/entity"
)

type CinemaResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type TheaterResponse struct {
	ID           string `json:"id"`
	CinemaID     string `json:"cinema_id"`
	Number       int    `json:"number"`
	EconomySeats int    `json:"economy_seats"`
	VIPSeats     int    `json:"vip_seats"`
}

type SeatResponse struct {
	TheaterID string `json:"theater_id"`
	Number    int    `json:"number"`
	Tier      string `json:"tier"`
}

func CinemaToResponse(cinema *entity.Cinema) CinemaResponse {
	return CinemaResponse{
		ID:      cinema.ID.String(),
		Name:    cinema.Name,
		Address: cinema.Address,
		City:    cinema.City,
	}
}

func TheaterToResponse(theater *entity.Theater) TheaterResponse {
	return TheaterResponse{
		ID:           theater.ID.String(),
		CinemaID:     theater.CinemaID.String(),
		Number:       theater.Number,
		EconomySeats: theater.EconomySeats,
		VIPSeats:     theater.VIPSeats,
	}
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		TheaterID: seat.TheaterID.String(),
		Number:    seat.Number,
		Tier:      string(seat.Tier),
	}
}
