package models

// Coordinates represents a geographical point defined by its latitude and longitude.
// The reference frame (WGS-84 vs GCJ-02) is determined by the producer of the value:
// the primary provider and all artifacts use WGS-84, the secondary provider returns
// GCJ-02 which must be converted before leaving the resolver.
type Coordinates struct {
	Lat float64 // Latitude of the geographical point.
	Lng float64 // Longitude of the geographical point.
}
