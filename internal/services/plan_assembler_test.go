package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripguide-service/internal/adapters/geo"
	"tripguide-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func testAttractions() map[int64]*domain.Attraction {
	return map[int64]*domain.Attraction{
		11: {
			AttractionID: 11,
			Name:         "Wawel Castle",
			VisitMinutes: intPtr(90),
			Location:     &domain.Location{Lat: floatPtr(50.054), Lng: floatPtr(19.935)},
		},
		12: {
			AttractionID: 12,
			Name:         "Main Square",
			VisitMinutes: intPtr(45),
			Location:     &domain.Location{Lat: floatPtr(50.0617), Lng: floatPtr(19.9373)},
		},
		13: {
			// No configured visit duration and no coordinates.
			AttractionID: 13,
			Name:         "City Walking Tour",
		},
	}
}

func newAssembler(provider *geo.MockGeoProvider, plans *memPlanRepo) *PlanAssembler {
	collect := NewStopCollection(provider)
	scheduler := NewRouteScheduler(provider)
	return NewPlanAssembler(&memAttractionRepo{attractions: testAttractions()}, plans, collect, scheduler)
}

func TestBuildRejectsInvalidRequests(t *testing.T) {
	cases := []struct {
		name string
		req  BuildRequest
	}{
		{"missing user", BuildRequest{
			Selected: []int64{11},
			Days:     map[int][]int64{1: {11}},
		}},
		{"empty selection", BuildRequest{
			UserID: "u1",
			Days:   map[int][]int64{},
		}},
		{"unknown status", BuildRequest{
			UserID:   "u1",
			Status:   "paused",
			Selected: []int64{11},
			Days:     map[int][]int64{1: {11}},
		}},
		{"day below one", BuildRequest{
			UserID:   "u1",
			Selected: []int64{11},
			Days:     map[int][]int64{0: {11}},
		}},
		{"assignment outside selection", BuildRequest{
			UserID:   "u1",
			Selected: []int64{11},
			Days:     map[int][]int64{1: {12}},
		}},
		{"nothing assigned", BuildRequest{
			UserID:   "u1",
			Selected: []int64{11},
			Days:     map[int][]int64{},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plans := newMemPlanRepo()
			assembler := newAssembler(&geo.MockGeoProvider{}, plans)

			_, err := assembler.Build(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if plans.createCalls != 0 {
				t.Errorf("create calls = %d, want 0", plans.createCalls)
			}
		})
	}
}

func TestBuildUnknownAttractionAborts(t *testing.T) {
	plans := newMemPlanRepo()
	assembler := newAssembler(&geo.MockGeoProvider{}, plans)

	_, err := assembler.Build(context.Background(), BuildRequest{
		UserID:   "u1",
		Selected: []int64{11, 999},
		Days:     map[int][]int64{1: {11, 999}},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if plans.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", plans.createCalls)
	}
}

func TestBuildAssemblesStagesInDayOrder(t *testing.T) {
	provider := &geo.MockGeoProvider{RouteErr: domain.ErrProviderUnavailable}
	plans := newMemPlanRepo()
	assembler := newAssembler(provider, plans)

	startAt := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	// Sparse day numbers: the stages still come out as a 1..n run.
	result, err := assembler.Build(context.Background(), BuildRequest{
		UserID:   "u1",
		Name:     "Krakow weekend",
		StartAt:  startAt,
		Selected: []int64{11, 12, 13},
		Days: map[int][]int64{
			5: {13},
			2: {11, 12},
		},
		DayStarts: map[int]string{5: "Hotel, Krakow"},
	})
	if err != nil {
		t.Fatal(err)
	}

	plan := result.Plan
	if plan.PlanID == 0 {
		t.Fatal("plan id not assigned on create")
	}
	if len(plan.Stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(plan.Stages))
	}

	for i, stage := range plan.Stages {
		if stage.Sequence != i+1 {
			t.Errorf("stage %d sequence = %d, want %d", i, stage.Sequence, i+1)
		}
	}
	if plan.Stages[0].Name != "Day 1" || plan.Stages[1].Name != "Day 2" {
		t.Errorf("stage names = %q, %q", plan.Stages[0].Name, plan.Stages[1].Name)
	}

	// Day 2 (assigned day 5) keeps its start address override.
	if plan.Stages[0].StartAddress != "" {
		t.Errorf("stage 1 start address = %q, want none", plan.Stages[0].StartAddress)
	}
	if plan.Stages[1].StartAddress != "Hotel, Krakow" {
		t.Errorf("stage 2 start address = %q", plan.Stages[1].StartAddress)
	}

	// Day ordering maps days 2 and 5 onto consecutive calendar days
	// from the requested start.
	if got := plan.Stages[0].Stops[0].VisitStart; !got.Equal(startAt) {
		t.Errorf("day 1 first visit = %v, want %v", got, startAt)
	}
	day2 := startAt.AddDate(0, 0, 1)
	if got := plan.Stages[1].Stops[0].VisitStart; !got.Equal(day2) {
		t.Errorf("day 2 first visit = %v, want %v", got, day2)
	}

	// The tour has no configured duration, so the default applies.
	if got := plan.Stages[1].Stops[0].VisitMinutes; got != DefaultVisitMinutes {
		t.Errorf("default visit = %d, want %d", got, DefaultVisitMinutes)
	}
	if got := plan.Stages[0].Stops[0].VisitMinutes; got != 90 {
		t.Errorf("visit = %d, want 90", got)
	}
}

func TestBuildProviderFailureWarnsButPersists(t *testing.T) {
	provider := &geo.MockGeoProvider{RouteErr: domain.ErrProviderUnavailable}
	plans := newMemPlanRepo()
	assembler := newAssembler(provider, plans)

	result, err := assembler.Build(context.Background(), BuildRequest{
		UserID:   "u1",
		Selected: []int64{11, 12},
		Days:     map[int][]int64{1: {11, 12}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if plans.createCalls != 1 {
		t.Fatalf("create calls = %d, want 1", plans.createCalls)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", result.Warnings)
	}
	if result.Warnings[0] != "day 1: route data unavailable" {
		t.Errorf("warning = %q", result.Warnings[0])
	}

	// Fallback travel applied: second stop travels the fixed estimate.
	stops := result.Plan.Stages[0].Stops
	if stops[1].TravelMinutes == nil || *stops[1].TravelMinutes != FallbackTravelMinutes {
		t.Errorf("fallback travel not applied: %+v", stops[1].TravelMinutes)
	}
}

func TestBuildDefaultsNameAndStatus(t *testing.T) {
	plans := newMemPlanRepo()
	assembler := newAssembler(&geo.MockGeoProvider{Legs: []int{600}}, plans)

	result, err := assembler.Build(context.Background(), BuildRequest{
		UserID:   "u7",
		Selected: []int64{11, 12},
		Days:     map[int][]int64{1: {11, 12}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Plan.Name != "Plan u7" {
		t.Errorf("name = %q, want %q", result.Plan.Name, "Plan u7")
	}
	if result.Plan.Status != domain.StatusActive {
		t.Errorf("status = %q, want %q", result.Plan.Status, domain.StatusActive)
	}
}
