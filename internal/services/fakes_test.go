package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tripguide-service/internal/domain"
)

// In-memory repository fakes for service tests.

type memAttractionRepo struct {
	attractions map[int64]*domain.Attraction
}

func (m *memAttractionRepo) ListAttractions(ctx context.Context) ([]*domain.Attraction, error) {
	out := make([]*domain.Attraction, 0, len(m.attractions))
	for _, a := range m.attractions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttractionID < out[j].AttractionID })
	return out, nil
}

func (m *memAttractionRepo) GetAttractions(ctx context.Context, ids []int64) (map[int64]*domain.Attraction, error) {
	out := make(map[int64]*domain.Attraction, len(ids))
	for _, id := range ids {
		if a, ok := m.attractions[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

type memPlanRepo struct {
	nextID int64
	plans  map[int64]*domain.Plan
	owners map[int64]domain.PlanOwnership

	createCalls  int
	travelWrites map[int64]int
	updateErr    error
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{
		plans:        make(map[int64]*domain.Plan),
		owners:       make(map[int64]domain.PlanOwnership),
		travelWrites: make(map[int64]int),
	}
}

func (m *memPlanRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memPlanRepo) CreatePlan(ctx context.Context, plan *domain.Plan, owner domain.PlanOwnership) error {
	m.createCalls++

	plan.PlanID = m.id()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	for _, stage := range plan.Stages {
		stage.StageID = m.id()
		stage.PlanID = plan.PlanID
		for _, stop := range stage.Stops {
			stop.StopID = m.id()
			stop.StageID = stage.StageID
		}
	}

	owner.PlanID = plan.PlanID
	m.plans[plan.PlanID] = plan
	m.owners[plan.PlanID] = owner
	return nil
}

func (m *memPlanRepo) GetPlan(ctx context.Context, planID int64) (*domain.Plan, error) {
	plan, ok := m.plans[planID]
	if !ok {
		return nil, fmt.Errorf("plan %d: %w", planID, domain.ErrNotFound)
	}
	return plan, nil
}

func (m *memPlanRepo) DeletePlan(ctx context.Context, planID int64, userID string) error {
	if _, ok := m.plans[planID]; !ok {
		return fmt.Errorf("plan %d: %w", planID, domain.ErrNotFound)
	}
	owner := m.owners[planID]
	if owner.UserID != userID || !owner.Owner {
		return fmt.Errorf("plan %d: %w", planID, domain.ErrPermissionDenied)
	}
	delete(m.plans, planID)
	delete(m.owners, planID)
	return nil
}

func (m *memPlanRepo) UpdateStopTravelTime(ctx context.Context, stopID int64, travelMinutes int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.travelWrites[stopID] = travelMinutes
	return nil
}
