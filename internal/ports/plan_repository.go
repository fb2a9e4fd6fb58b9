package ports

import (
	"context"

	"tripguide-service/internal/domain"
)

// Port: persistence for plan aggregates.
//
// Writes are limited to whole-aggregate creation, owner-checked
// deletion, and per-stop travel time updates. Nothing else mutates a
// persisted plan.
type PlanRepository interface {
	// Persist a plan with its ownership, stages and stops as a single
	// committed unit. Fills in generated ids on the passed aggregate.
	CreatePlan(ctx context.Context, plan *domain.Plan, owner domain.PlanOwnership) error

	// Load a plan with stages and stops ordered by sequence.
	// Returns domain.ErrNotFound for an unknown id.
	GetPlan(ctx context.Context, planID int64) (*domain.Plan, error)

	// Delete a plan and everything under it. Returns
	// domain.ErrPermissionDenied unless userID holds the owning
	// ownership record, domain.ErrNotFound for an unknown plan.
	DeletePlan(ctx context.Context, planID int64, userID string) error

	// Overwrite the travel time of a single stop. Used only by the
	// recompute path; TravelMinutes is the sole mutable stop field.
	UpdateStopTravelTime(ctx context.Context, stopID int64, travelMinutes int) error
}
