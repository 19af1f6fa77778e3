package entity

type Movie struct {
	Base
	Title    string `db:"title"`
	Duration int    `db:"duration"` // minutes
	Rating   string `db:"rating"`
}

// IsDeleted reports whether the movie was soft-deleted. Deleted movies keep
// their existing showtimes but cannot receive new ones.
func (m *Movie) IsDeleted() bool {
	return m.DeletedAt != nil
}
