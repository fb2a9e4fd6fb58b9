package ports

import (
	"context"

	"tripguide-service/internal/domain"
)

// Routed sequence of legs for an ordered set of points.
// Order is a permutation of the input point indices; it is the identity
// unless the provider was asked to optimize and reordered waypoints.
// LegSeconds has length len(points)-1 and follows the returned order.
type RouteResult struct {
	Order      []int
	LegSeconds []int
	Polyline   string
}

// Contract for the external geocoding/directions provider.
//
// All three calls are single-shot: a failed call is reported as
// domain.ErrProviderUnavailable and is never retried here. Callers own
// the fallback policy.
type GeoProvider interface {
	// Resolve a free-text address to a coordinate.
	Geocode(ctx context.Context, address string) (domain.Coordinate, error)

	// Route an ordered point sequence. Requires len(points) >= 2;
	// callers must special-case shorter inputs before calling.
	Route(ctx context.Context, points []domain.Coordinate, optimize bool) (RouteResult, error)

	// Fetch a static map image for the given markers, with an optional
	// encoded route polyline overlay.
	StaticMap(ctx context.Context, markers []domain.Coordinate, polyline string) ([]byte, error)
}
