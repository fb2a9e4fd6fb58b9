package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
)

// Checkout input: the user's selected attraction ids with their per-day
// assignment and optional per-day start addresses (keyed by the same
// day numbers as Days).
type BuildRequest struct {
	UserID       string
	Name         string
	Description  string
	StartAddress string
	Status       domain.PlanStatus
	StartAt      time.Time
	Selected     []int64
	Days         map[int][]int64
	DayStarts    map[int]string
}

// A built plan plus any non-fatal routing diagnostics collected along
// the way.
type BuildResult struct {
	Plan     *domain.Plan
	Warnings []string
}

// PlanAssembler orchestrates stop collection and scheduling across all
// days of a checkout request. It is the only component that creates
// plan state, and it owns the sequence-numbering invariants.
type PlanAssembler struct {
	attractions ports.AttractionRepository
	plans       ports.PlanRepository
	collect     *StopCollection
	scheduler   *RouteScheduler
}

func NewPlanAssembler(
	attractions ports.AttractionRepository,
	plans ports.PlanRepository,
	collect *StopCollection,
	scheduler *RouteScheduler,
) *PlanAssembler {
	return &PlanAssembler{
		attractions: attractions,
		plans:       plans,
		collect:     collect,
		scheduler:   scheduler,
	}
}

// Build creates and persists a plan from a checkout request.
//
// The whole aggregate is committed as one unit: a validation failure or
// a vanished attraction aborts the build with nothing persisted. A
// routing-provider failure does not abort; the affected day falls back
// to fixed travel times and the result carries a warning for it.
func (a *PlanAssembler) Build(ctx context.Context, req BuildRequest) (_ *BuildResult, err error) {
	defer obs.Time(ctx, "assembler.Build")(&err)

	days, err := validateAssignment(req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Selected))
	seen := make(map[int64]struct{}, len(req.Selected))
	for _, day := range days {
		for _, id := range req.Days[day] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	attractions, err := a.attractions.GetAttractions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("build plan: load attractions: %w", err)
	}
	for _, id := range ids {
		if _, ok := attractions[id]; !ok {
			return nil, fmt.Errorf("build plan: attraction %d: %w", id, domain.ErrNotFound)
		}
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Plan %s", req.UserID)
	}

	startAt := req.StartAt
	if startAt.IsZero() {
		startAt = time.Now()
	}

	plan := &domain.Plan{
		Name:         name,
		Description:  req.Description,
		Status:       status,
		StartAddress: req.StartAddress,
	}

	result := &BuildResult{Plan: plan}

	// Stages are renumbered to a gap-free 1..n run in ascending day
	// order; the original day number only picks the start override.
	for i, day := range days {
		stage := &domain.Stage{
			Name:         fmt.Sprintf("Day %d", i+1),
			Sequence:     i + 1,
			StartAddress: req.DayStarts[day],
		}

		stops := make([]*domain.Stop, 0, len(req.Days[day]))
		for j, id := range req.Days[day] {
			attraction := attractions[id]

			visit := DefaultVisitMinutes
			if attraction.VisitMinutes != nil {
				visit = *attraction.VisitMinutes
			}

			stops = append(stops, &domain.Stop{
				Attraction:   attraction,
				Sequence:     j + 1,
				VisitMinutes: visit,
			})
		}
		stage.Stops = stops
		plan.Stages = append(plan.Stages, stage)

		collected := a.collect.Collect(ctx, plan, stage)
		dayStart := startAt.AddDate(0, 0, i)

		sched := a.scheduler.Schedule(ctx, collected.Anchor, collected.Stops, dayStart, false)
		if sched.Warning != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("day %d: %s", i+1, sched.Warning))
		}

		stage.Stops = stage.Stops[:0]
		for _, st := range sched.Stops {
			stage.Stops = append(stage.Stops, st.Stop)
		}
	}

	owner := domain.PlanOwnership{UserID: req.UserID, Owner: true}
	if err := a.plans.CreatePlan(ctx, plan, owner); err != nil {
		return nil, fmt.Errorf("build plan: persist: %w", err)
	}

	obs.Ctx(ctx).Info().Int64("plan_id", plan.PlanID).Str("user", req.UserID).
		Int("stages", len(plan.Stages)).Msg("plan built")

	return result, nil
}

// validateAssignment rejects empty or inconsistent checkout input and
// returns the assigned day numbers in ascending order.
func validateAssignment(req BuildRequest) ([]int, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("build plan: missing user: %w", domain.ErrValidation)
	}
	if len(req.Selected) == 0 {
		return nil, fmt.Errorf("build plan: empty selection: %w", domain.ErrValidation)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("build plan: unknown status %q: %w", req.Status, domain.ErrValidation)
	}

	selected := make(map[int64]struct{}, len(req.Selected))
	for _, id := range req.Selected {
		selected[id] = struct{}{}
	}

	days := make([]int, 0, len(req.Days))
	assigned := 0
	for day, ids := range req.Days {
		if day < 1 {
			return nil, fmt.Errorf("build plan: day %d out of range: %w", day, domain.ErrValidation)
		}
		for _, id := range ids {
			if _, ok := selected[id]; !ok {
				return nil, fmt.Errorf("build plan: attraction %d not in selection: %w", id, domain.ErrValidation)
			}
			assigned++
		}
		days = append(days, day)
	}
	if assigned == 0 {
		return nil, fmt.Errorf("build plan: no attractions assigned to days: %w", domain.ErrValidation)
	}

	sort.Ints(days)
	return days, nil
}
