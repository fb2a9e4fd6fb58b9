package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

// SQLRouteCache is a SQL-backed cache for routed point sequences.
// The key is the full ordered "lat,lng;lat,lng;..." point string plus
// the optimize flag, since reordering changes the result.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route for one point-sequence key. The second return
// value reports whether the key was present.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	pointsKey string,
	optimize bool,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	if pointsKey == "" {
		return ports.RouteResult{}, false, errors.New("get route cache: points key must not be empty")
	}

	q := `
	SELECT stop_order, leg_seconds, polyline
	FROM route_cache
	WHERE points_key = $1
		AND optimize = $2;
	`

	var orderCSV, legsCSV, polyline string
	err = s.DB.QueryRowContext(ctx, q, pointsKey, optimize).Scan(&orderCSV, &legsCSV, &polyline)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	order, err := parseIntCSV(orderCSV)
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: parse stop_order: %w", err)
	}
	legs, err := parseIntCSV(legsCSV)
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: parse leg_seconds: %w", err)
	}

	return ports.RouteResult{Order: order, LegSeconds: legs, Polyline: polyline}, true, nil
}

// Store one routed result under its point-sequence key.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	pointsKey string,
	optimize bool,
	result ports.RouteResult,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if pointsKey == "" {
		return errors.New("insert route cache: points key must not be empty")
	}

	q := `
	INSERT INTO route_cache (points_key, optimize, stop_order, leg_seconds, polyline)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (points_key, optimize) DO UPDATE
	SET stop_order = EXCLUDED.stop_order,
		leg_seconds = EXCLUDED.leg_seconds,
		polyline = EXCLUDED.polyline;
	`

	_, err := s.DB.ExecContext(ctx, q,
		pointsKey, optimize,
		formatIntCSV(result.Order), formatIntCSV(result.LegSeconds), result.Polyline,
	)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", pointsKey, err)
	}

	return nil
}

func formatIntCSV(vals []int) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func parseIntCSV(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse csv int %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
