package services

import (
	"context"
	"math"
	"time"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

const (
	// Visit duration applied when an attraction has none configured.
	DefaultVisitMinutes = 30

	// Per-hop travel estimate applied when the routing provider is
	// unavailable.
	FallbackTravelMinutes = 15
)

// Scheduled timing for one day: the stops in final order with travel
// times and visit starts assigned, plus aggregate figures for display.
type DaySchedule struct {
	Stops    []*ScheduledStop
	Totals   domain.StageTotals
	Polyline string

	// Routed reports whether provider legs were applied; false for
	// the too-few-points case and for the fallback policy.
	Routed bool

	// Warning carries the non-fatal diagnostic when routing data was
	// unavailable and the fallback policy was applied.
	Warning string
}

// RouteScheduler computes per-stop arrival and travel times for one
// day, accumulating a running clock over the ordered stops.
type RouteScheduler struct {
	geo ports.GeoProvider
}

func NewRouteScheduler(geo ports.GeoProvider) *RouteScheduler {
	return &RouteScheduler{geo: geo}
}

// Schedule assigns travel time and visit start to every stop of a day.
//
// With fewer than two routable points no provider call is made: every
// stop gets travel time 0 and visit times accumulate from dayStart
// over visit durations alone. Otherwise one route request covers the
// whole day; if it fails the fixed fallback travel time is applied per
// hop and the failure is reported as a warning, never an error.
//
// optimize lets the provider reorder waypoints. It is only ever set on
// the preview/export recompute path so a freshly built plan matches
// what the user arranged.
func (s *RouteScheduler) Schedule(
	ctx context.Context,
	anchor *domain.Coordinate,
	stops []*ScheduledStop,
	dayStart time.Time,
	optimize bool,
) DaySchedule {
	routable := routableStops(stops)

	points := make([]domain.Coordinate, 0, len(routable)+1)
	if anchor != nil {
		points = append(points, *anchor)
	}
	for _, st := range routable {
		points = append(points, *st.Coord)
	}

	if len(points) < 2 {
		return s.applyTiming(stops, nil, dayStart, DaySchedule{})
	}

	result, err := s.geo.Route(ctx, points, optimize)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Int("points", len(points)).
			Msg("routing unavailable, applying fallback travel times")

		travel := fallbackLegs(len(routable), anchor != nil)
		return s.applyTiming(stops, travel, dayStart, DaySchedule{
			Warning: "route data unavailable",
		})
	}

	if optimize {
		stops = reorderStops(stops, routable, result.Order, anchor != nil)
		routable = routableStops(stops)
	}

	travel := make([]int, len(routable))
	for j := range routable {
		legIdx := j
		if anchor == nil {
			if j == 0 {
				travel[j] = 0
				continue
			}
			legIdx = j - 1
		}
		travel[j] = int(math.Round(float64(result.LegSeconds[legIdx]) / 60))
	}

	return s.applyTiming(stops, travel, dayStart, DaySchedule{
		Polyline: result.Polyline,
		Routed:   true,
	})
}

// applyTiming walks the ordered stops once, assigning travel minutes
// and accumulating the running clock:
//
//	visitStart[i] = visitStart[i-1] + visitMinutes[i-1] + travel[i]
//
// travel holds per-routable-stop minutes (nil means all zero);
// non-routable stops always get 0.
func (s *RouteScheduler) applyTiming(
	stops []*ScheduledStop,
	travel []int,
	dayStart time.Time,
	out DaySchedule,
) DaySchedule {
	clock := dayStart
	routableIdx := 0

	for i, st := range stops {
		minutes := 0
		if st.Coord != nil {
			if travel != nil {
				minutes = travel[routableIdx]
			}
			routableIdx++
		}

		if i > 0 {
			clock = clock.Add(time.Duration(stops[i-1].Stop.VisitMinutes) * time.Minute)
		}
		clock = clock.Add(time.Duration(minutes) * time.Minute)

		t := minutes
		st.Stop.TravelMinutes = &t
		st.Stop.VisitStart = clock
		st.Stop.Sequence = i + 1

		out.Totals.VisitMinutes += st.Stop.VisitMinutes
		out.Totals.TravelMinutes += minutes
	}

	out.Stops = stops
	return out
}

func routableStops(stops []*ScheduledStop) []*ScheduledStop {
	out := make([]*ScheduledStop, 0, len(stops))
	for _, st := range stops {
		if st.Coord != nil {
			out = append(out, st)
		}
	}
	return out
}

// fallbackLegs builds the fixed fallback travel minutes for the
// routable stops: the first hop is free only when there is no anchor
// to travel from.
func fallbackLegs(n int, anchored bool) []int {
	out := make([]int, n)
	for i := range out {
		if i == 0 && !anchored {
			continue
		}
		out[i] = FallbackTravelMinutes
	}
	return out
}

// reorderStops applies the provider's point permutation to the
// routable stops. Only the slots routable stops already occupy are
// permuted; non-routable stops keep their positions, so sequence
// numbers stay a gap-free run.
func reorderStops(
	stops []*ScheduledStop,
	routable []*ScheduledStop,
	order []int,
	anchored bool,
) []*ScheduledStop {
	reordered := make([]*ScheduledStop, 0, len(routable))
	for _, pointIdx := range order {
		stopIdx := pointIdx
		if anchored {
			if pointIdx == 0 {
				continue
			}
			stopIdx = pointIdx - 1
		}
		if stopIdx >= 0 && stopIdx < len(routable) {
			reordered = append(reordered, routable[stopIdx])
		}
	}
	if len(reordered) != len(routable) {
		// Malformed permutation; keep the user's order.
		return stops
	}

	out := make([]*ScheduledStop, len(stops))
	next := 0
	for i, st := range stops {
		if st.Coord != nil {
			out[i] = reordered[next]
			next++
		} else {
			out[i] = st
		}
	}
	return out
}
