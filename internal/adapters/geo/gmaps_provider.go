package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"tripguide-service/internal/adapters/cache"
	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

// GoogleMapsProvider implements GeoProvider using the Google Maps
// Geocoding, Directions and Static Maps web services.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent route caching
//   - Single-shot external API calls (no retries)
//
// Every failure surfaces as domain.ErrProviderUnavailable so callers
// have one shape to branch on. The provider is safe for concurrent use.
type GoogleMapsProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	mode         string
	geocodeCache *cache.SQLGeocodeCache
	routeCache   *cache.SQLRouteCache
}

func NewGoogleMapsProvider(
	apiKey string,
	geocodeCache *cache.SQLGeocodeCache,
	routeCache *cache.SQLRouteCache,
) (*GoogleMapsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	provider := &GoogleMapsProvider{
		session:      &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      "https://maps.googleapis.com/maps/api",
		mode:         "driving",
		geocodeCache: geocodeCache,
		routeCache:   routeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *GoogleMapsProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text address to a coordinate.
func (g *GoogleMapsProvider) Geocode(
	ctx context.Context,
	address string,
) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "gmaps.Geocode")(&err)

	norm := g.normalize(address)
	if norm == "" {
		return domain.Coordinate{}, fmt.Errorf("geocode: empty address: %w", domain.ErrProviderUnavailable)
	}

	if g.geocodeCache != nil {
		coord, ok, cacheErr := g.geocodeCache.Get(ctx, norm)
		if cacheErr != nil {
			obs.Ctx(ctx).Warn().Err(cacheErr).Msg("geocode cache read failed")
		} else if ok {
			return coord, nil
		}
	}

	req, err := g.newRequest(ctx, g.baseURL+"/geocode/json", map[string]string{
		"address": norm,
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}

	resp, err := g.do(req)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Str("class", "network").Str("address", norm).
			Msg("geocoding failed")
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		obs.Ctx(ctx).Warn().Err(err).Str("class", "network").Str("address", norm).
			Msg("geocoding response unreadable")
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, domain.ErrProviderUnavailable)
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		obs.Ctx(ctx).Warn().Str("class", "no-match").Str("status", decoded.Status).
			Str("address", norm).Msg("geocoding returned no results")
		return domain.Coordinate{}, fmt.Errorf("geocode %q: no results: %w", norm, domain.ErrProviderUnavailable)
	}

	loc := decoded.Results[0].Geometry.Location
	coord := domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}

	if g.geocodeCache != nil {
		if err := g.geocodeCache.Put(ctx, norm, coord); err != nil {
			obs.Ctx(ctx).Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return coord, nil
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
		WaypointOrder    []int `json:"waypoint_order"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// Route requests directions through the ordered point sequence.
// Requires at least two points; the scheduler special-cases shorter
// inputs before calling.
func (g *GoogleMapsProvider) Route(
	ctx context.Context,
	points []domain.Coordinate,
	optimize bool,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "gmaps.Route")(&err)

	if len(points) < 2 {
		return ports.RouteResult{}, fmt.Errorf("route: need at least 2 points, got %d", len(points))
	}

	key := pointsKey(points)
	if g.routeCache != nil {
		result, ok, cacheErr := g.routeCache.Get(ctx, key, optimize)
		if cacheErr != nil {
			obs.Ctx(ctx).Warn().Err(cacheErr).Msg("route cache read failed")
		} else if ok {
			return result, nil
		}
	}

	query := map[string]string{
		"origin":      points[0].String(),
		"destination": points[len(points)-1].String(),
		"mode":        g.mode,
	}
	if len(points) > 2 {
		mids := make([]string, 0, len(points)-2)
		for _, p := range points[1 : len(points)-1] {
			mids = append(mids, p.String())
		}
		waypoints := strings.Join(mids, "|")
		if optimize {
			waypoints = "optimize:true|" + waypoints
		}
		query["waypoints"] = waypoints
	}

	req, err := g.newRequest(ctx, g.baseURL+"/directions/json", query)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("directions request: %w", err)
	}

	resp, err := g.do(req)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Int("points", len(points)).Msg("directions call failed")
		return ports.RouteResult{}, fmt.Errorf("route %d points: %w", len(points), domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		obs.Ctx(ctx).Warn().Err(err).Msg("directions response unreadable")
		return ports.RouteResult{}, fmt.Errorf("route %d points: %w", len(points), domain.ErrProviderUnavailable)
	}

	if decoded.Status != "OK" || len(decoded.Routes) == 0 {
		obs.Ctx(ctx).Warn().Str("status", decoded.Status).Int("points", len(points)).
			Msg("directions returned no route")
		return ports.RouteResult{}, fmt.Errorf("route %d points: no route: %w", len(points), domain.ErrProviderUnavailable)
	}

	route := decoded.Routes[0]
	if len(route.Legs) != len(points)-1 {
		obs.Ctx(ctx).Warn().Int("legs", len(route.Legs)).Int("points", len(points)).
			Msg("directions leg count mismatch")
		return ports.RouteResult{}, fmt.Errorf("route %d points: leg mismatch: %w", len(points), domain.ErrProviderUnavailable)
	}

	legs := make([]int, 0, len(route.Legs))
	for _, l := range route.Legs {
		legs = append(legs, l.Duration.Value)
	}

	result := ports.RouteResult{
		Order:      buildPointOrder(len(points), optimize, route.WaypointOrder),
		LegSeconds: legs,
		Polyline:   route.OverviewPolyline.Points,
	}

	if g.routeCache != nil {
		if err := g.routeCache.Put(ctx, key, optimize, result); err != nil {
			obs.Ctx(ctx).Warn().Err(err).Msg("route cache write failed")
		}
	}

	return result, nil
}

// StaticMap fetches one route image with the given markers and an
// optional encoded polyline overlay.
func (g *GoogleMapsProvider) StaticMap(
	ctx context.Context,
	markers []domain.Coordinate,
	polyline string,
) (_ []byte, err error) {
	defer obs.Time(ctx, "gmaps.StaticMap")(&err)

	if len(markers) == 0 {
		return nil, fmt.Errorf("static map: no markers: %w", domain.ErrProviderUnavailable)
	}

	req, err := g.newRequest(ctx, g.baseURL+"/staticmap", map[string]string{
		"size": "800x300",
	})
	if err != nil {
		return nil, fmt.Errorf("static map request: %w", err)
	}

	// markers and path repeat, which url.Values.Set cannot express.
	q := req.URL.RawQuery
	for _, m := range markers {
		q += "&markers=" + m.String()
	}
	if polyline != "" {
		q += "&path=enc:" + polyline
	}
	req.URL.RawQuery = q

	resp, err := g.do(req)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Int("markers", len(markers)).Msg("static map fetch failed")
		return nil, fmt.Errorf("static map: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Msg("static map body unreadable")
		return nil, fmt.Errorf("static map: %w", domain.ErrProviderUnavailable)
	}

	return img, nil
}

func pointsKey(points []domain.Coordinate) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ";")
}

// buildPointOrder expands the waypoint_order of the directions API
// (which covers intermediate waypoints only) into a permutation over
// all points. Origin and destination are never reordered.
func buildPointOrder(n int, optimize bool, waypointOrder []int) []int {
	order := make([]int, 0, n)
	order = append(order, 0)

	if optimize && len(waypointOrder) == n-2 {
		for _, w := range waypointOrder {
			order = append(order, w+1)
		}
	} else {
		for i := 1; i < n-1; i++ {
			order = append(order, i)
		}
	}

	if n > 1 {
		order = append(order, n-1)
	}
	return order
}
