package entity

type Cinema struct {
	BaseNoDelete
	Name    string `db:"name"`
	Address string `db:"address"`
	City    string `db:"city"`
}
