package services

import (
	"context"
	"fmt"
	"time"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

// ScheduleRenderer turns a persisted plan into its two presentation
// artifacts: the interactive preview view model and the PDF document.
//
// Both paths re-derive stop geometry and timing through StopCollection
// and RouteScheduler instead of trusting possibly-stale persisted
// travel times; recomputed travel minutes are written back since that
// is the one mutable stop field.
type ScheduleRenderer struct {
	plans     ports.PlanRepository
	collect   *StopCollection
	scheduler *RouteScheduler
	geo       ports.GeoProvider
	pdf       ports.DocumentRenderer
}

func NewScheduleRenderer(
	plans ports.PlanRepository,
	collect *StopCollection,
	scheduler *RouteScheduler,
	geo ports.GeoProvider,
	pdf ports.DocumentRenderer,
) *ScheduleRenderer {
	return &ScheduleRenderer{
		plans:     plans,
		collect:   collect,
		scheduler: scheduler,
		geo:       geo,
		pdf:       pdf,
	}
}

// RenderPreview builds the day-by-day view model with fresh timing.
// optimize lets the provider reorder each day's waypoints.
func (r *ScheduleRenderer) RenderPreview(ctx context.Context, planID int64, optimize bool) (_ *ports.PlanView, err error) {
	defer obs.Time(ctx, "renderer.RenderPreview")(&err)

	return r.buildView(ctx, planID, optimize, false)
}

// RenderDocument renders the plan as a PDF, embedding one static map
// image per stage. A failed image fetch leaves the stage mapless and
// never fails the document.
func (r *ScheduleRenderer) RenderDocument(ctx context.Context, planID int64, optimize bool) (_ []byte, err error) {
	defer obs.Time(ctx, "renderer.RenderDocument")(&err)

	view, err := r.buildView(ctx, planID, optimize, true)
	if err != nil {
		return nil, err
	}

	doc, err := r.pdf.RenderPDF(view)
	if err != nil {
		return nil, fmt.Errorf("render document: plan %d: %w", planID, err)
	}
	return doc, nil
}

func (r *ScheduleRenderer) buildView(ctx context.Context, planID int64, optimize, withMaps bool) (*ports.PlanView, error) {
	plan, err := r.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("render plan %d: %w", planID, err)
	}

	view := &ports.PlanView{
		PlanID:      plan.PlanID,
		Name:        plan.Name,
		Description: plan.Description,
		Status:      plan.Status,
	}

	for _, stage := range plan.Stages {
		collected := r.collect.Collect(ctx, plan, stage)
		sched := r.scheduler.Schedule(ctx, collected.Anchor, collected.Stops, stageDayStart(stage), optimize)

		if sched.Warning != "" {
			view.Warnings = append(view.Warnings,
				fmt.Sprintf("day %d: %s", stage.Sequence, sched.Warning))
		}

		r.persistTravelTimes(ctx, sched.Stops)

		sv := ports.StageView{
			Sequence:     stage.Sequence,
			Name:         stage.Name,
			StartAddress: stage.StartAddress,
			Polyline:     sched.Polyline,
			Totals:       sched.Totals,
			RouteMissing: sched.Warning != "",
		}

		if collected.Anchor != nil {
			sv.Points = append(sv.Points, *collected.Anchor)
		}
		for _, st := range sched.Stops {
			if st.Coord != nil {
				sv.Points = append(sv.Points, *st.Coord)
			}

			address := ""
			if st.Stop.Attraction.Location != nil {
				address = st.Stop.Attraction.Location.Address()
			}

			travel := 0
			if st.Stop.TravelMinutes != nil {
				travel = *st.Stop.TravelMinutes
			}

			sv.Stops = append(sv.Stops, ports.StopView{
				Sequence:      st.Stop.Sequence,
				Name:          st.Stop.Attraction.Name,
				Address:       address,
				VisitStart:    st.Stop.VisitStart,
				VisitMinutes:  st.Stop.VisitMinutes,
				TravelMinutes: travel,
			})
		}

		if withMaps && len(sv.Points) > 0 {
			img, err := r.geo.StaticMap(ctx, sv.Points, sv.Polyline)
			if err != nil {
				obs.Ctx(ctx).Warn().Err(err).Int64("plan_id", plan.PlanID).
					Int("stage", stage.Sequence).Msg("stage map image unavailable")
			} else {
				sv.MapImage = img
			}
		}

		view.Stages = append(view.Stages, sv)
	}

	return view, nil
}

// persistTravelTimes writes recomputed travel minutes back to storage.
// Write failures only degrade freshness, so they are logged and
// swallowed.
func (r *ScheduleRenderer) persistTravelTimes(ctx context.Context, stops []*ScheduledStop) {
	for _, st := range stops {
		if st.Stop.StopID == 0 || st.Stop.TravelMinutes == nil {
			continue
		}
		if err := r.plans.UpdateStopTravelTime(ctx, st.Stop.StopID, *st.Stop.TravelMinutes); err != nil {
			obs.Ctx(ctx).Warn().Err(err).Int64("stop_id", st.Stop.StopID).
				Msg("travel time writeback failed")
		}
	}
}

// stageDayStart recovers the day's start time from the persisted
// schedule: the first stop's visit start minus its stored travel time.
func stageDayStart(stage *domain.Stage) time.Time {
	if len(stage.Stops) == 0 {
		return time.Now()
	}

	first := stage.Stops[0]
	start := first.VisitStart
	if first.TravelMinutes != nil {
		start = start.Add(-time.Duration(*first.TravelMinutes) * time.Minute)
	}
	return start
}
