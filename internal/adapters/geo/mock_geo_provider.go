package geo

import (
	"context"
	"fmt"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/ports"
)

// MockGeoProvider is a scripted GeoProvider for tests. Addresses map to
// coordinates, route calls replay a fixed leg table, and call counters
// let tests assert that no provider call was made.
type MockGeoProvider struct {
	Coords    map[string]domain.Coordinate
	Legs      []int
	Order     []int
	Polyline  string
	RouteErr  error
	MapImage  []byte
	MapErr    error

	GeocodeCalls int
	RouteCalls   int
	MapCalls     int

	// LastPoints records the point sequence of the most recent Route call.
	LastPoints []domain.Coordinate
}

func (m *MockGeoProvider) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	m.GeocodeCalls++

	c, ok := m.Coords[address]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: no results: %w", address, domain.ErrProviderUnavailable)
	}
	return c, nil
}

func (m *MockGeoProvider) Route(ctx context.Context, points []domain.Coordinate, optimize bool) (ports.RouteResult, error) {
	m.RouteCalls++
	m.LastPoints = points

	if m.RouteErr != nil {
		return ports.RouteResult{}, m.RouteErr
	}

	if len(m.Legs) != len(points)-1 {
		return ports.RouteResult{}, fmt.Errorf("mock route: %d legs scripted for %d points", len(m.Legs), len(points))
	}

	order := m.Order
	if order == nil {
		order = make([]int, len(points))
		for i := range order {
			order[i] = i
		}
	}

	return ports.RouteResult{Order: order, LegSeconds: m.Legs, Polyline: m.Polyline}, nil
}

func (m *MockGeoProvider) StaticMap(ctx context.Context, markers []domain.Coordinate, polyline string) ([]byte, error) {
	m.MapCalls++

	if m.MapErr != nil {
		return nil, m.MapErr
	}
	return m.MapImage, nil
}
