package request

type AddMovieRequest struct {
	Title    string `json:"title" validate:"required"`
	Duration int    `json:"duration" validate:"required,min=1"` // minutes
	Rating   string `json:"rating" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
}

type UpdateMovieRequest struct {
	MovieID  string `json:"movie_id" validate:"required,uuid4"`
	Title    string `json:"title" validate:"required"`
	Duration int    `json:"duration" validate:"required,min=1"`
	Rating   string `json:"rating" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
}
