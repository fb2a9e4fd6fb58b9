package domain

import "fmt"

// Immutable geographic coordinate (latitude, longitude).
// Anchors and stop locations share this one shape.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Return the "lat,lng" form used by the directions and static map APIs.
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}
