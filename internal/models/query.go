package models

// Query is the unit of work: one (city, venue) pair taken from an input row.
type Query struct {
	City  string // City is the city name as it appears in the input row.
	Venue string // Venue is the venue name as it appears in the input row.
}

// FullName returns the literal search string sent to both providers.
func (q Query) FullName() string {
	return q.City + " " + q.Venue
}
