package response

import (
	"time"

	"cinema-showtime/internal/data/entity"
)

type MovieResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Rating    string    `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:        movie.ID.String(),
		Title:     movie.Title,
		Duration:  movie.Duration,
		Rating:    movie.Rating,
		CreatedAt: movie.CreatedAt,
	}
}
