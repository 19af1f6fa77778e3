package request

type AddCinemaRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
}

type AddTheaterRequest struct {
	CinemaID     string `json:"cinema_id" validate:"required,uuid4"`
	Number       int    `json:"number" validate:"required,min=1"`
	EconomySeats int    `json:"economy_seats" validate:"min=0"`
	VIPSeats     int    `json:"vip_seats" validate:"min=0"`
}
