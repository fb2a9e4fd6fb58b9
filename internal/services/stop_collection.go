package services

import (
	"context"
	"strings"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

// A stop paired with its coordinate. Coord is nil for stops whose
// attraction has no geolocatable location; such stops stay in the stage
// but are excluded from routing input.
type ScheduledStop struct {
	Stop  *domain.Stop
	Coord *domain.Coordinate
}

// Collected routing input for one stage: the optional anchor point and
// the stops in caller-assigned sequence order.
type CollectedStage struct {
	Anchor *domain.Coordinate
	Stops  []*ScheduledStop
}

// StopCollection derives the geolocatable point set of a stage.
type StopCollection struct {
	geo ports.GeoProvider
}

func NewStopCollection(geo ports.GeoProvider) *StopCollection {
	return &StopCollection{geo: geo}
}

// Collect resolves the stage anchor and pairs every stop with its
// coordinate. Stop order always follows the stored sequence numbers;
// reordering is the scheduler's decision alone.
//
// Anchor resolution: the stage's own start address if set and
// geocodable, else (first stage only) the plan's fallback start
// address, else none. A failed geocode only omits the anchor.
func (c *StopCollection) Collect(ctx context.Context, plan *domain.Plan, stage *domain.Stage) CollectedStage {
	out := CollectedStage{
		Stops: make([]*ScheduledStop, 0, len(stage.Stops)),
	}

	out.Anchor = c.resolveAnchor(ctx, plan, stage)

	for _, stop := range stage.Stops {
		out.Stops = append(out.Stops, &ScheduledStop{
			Stop:  stop,
			Coord: stop.Attraction.Coordinate(),
		})
	}

	return out
}

func (c *StopCollection) resolveAnchor(ctx context.Context, plan *domain.Plan, stage *domain.Stage) *domain.Coordinate {
	address := strings.TrimSpace(stage.StartAddress)
	if address == "" && stage.Sequence == 1 {
		address = strings.TrimSpace(plan.StartAddress)
	}
	if address == "" {
		return nil
	}

	coord, err := c.geo.Geocode(ctx, address)
	if err != nil {
		obs.Ctx(ctx).Warn().Err(err).Int64("plan_id", plan.PlanID).
			Int("stage", stage.Sequence).Msg("stage anchor not geocodable, routing without it")
		return nil
	}

	return &coord
}
