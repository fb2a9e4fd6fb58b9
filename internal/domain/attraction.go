package domain

import "fmt"

// A visitable city attraction. VisitMinutes is the typical visit
// duration; nil means unset and the scheduler applies its default.
type Attraction struct {
	AttractionID int64
	Name         string
	Category     string
	MinAge       *int
	VisitMinutes *int
	Location     *Location
}

// Postal location of an attraction. Latitude and longitude are either
// both present or both absent.
type Location struct {
	Street       string
	HouseNumber  string
	PostalCode   string
	City         string
	Lat          *float64
	Lng          *float64
}

// Report whether the location carries a usable coordinate pair.
func (l *Location) Geolocatable() bool {
	return l != nil && l.Lat != nil && l.Lng != nil
}

// Return the coordinate of a geolocatable location.
// Callers must check Geolocatable first.
func (l *Location) Coordinate() Coordinate {
	return Coordinate{Lat: *l.Lat, Lng: *l.Lng}
}

// Full postal address, used as geocoding input.
func (l *Location) Address() string {
	return fmt.Sprintf("%s %s, %s %s", l.Street, l.HouseNumber, l.PostalCode, l.City)
}

// Coordinate of the attraction's location, or nil when the attraction
// has no location or the location was never geocoded.
func (a *Attraction) Coordinate() *Coordinate {
	if !a.Location.Geolocatable() {
		return nil
	}
	c := a.Location.Coordinate()
	return &c
}
