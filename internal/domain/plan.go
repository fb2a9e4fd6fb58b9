package domain

import "time"

// Lifecycle status of a sightseeing plan.
type PlanStatus string

const (
	StatusDraft     PlanStatus = "draft"
	StatusActive    PlanStatus = "active"
	StatusCompleted PlanStatus = "completed"
	StatusArchived  PlanStatus = "archived"
)

// Report whether s is one of the known lifecycle statuses.
func (s PlanStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// A multi-day sightseeing plan. Stages are ordered by Sequence and the
// sequence numbers form a gap-free run starting at 1. StartAddress is
// the optional fallback starting point for the first day.
type Plan struct {
	PlanID       int64
	Name         string
	Description  string
	Status       PlanStatus
	Public       bool
	StartAddress string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Stages       []*Stage
}

// Associates a plan with one identity-provider user. Owner marks the
// owning relationship; only the owner may delete the plan.
type PlanOwnership struct {
	UserID string
	PlanID int64
	Owner  bool
}

// One day of a plan. StartAddress overrides the plan's fallback start
// for this day. Stops are ordered by Sequence, gap-free from 1.
type Stage struct {
	StageID      int64
	PlanID       int64
	Name         string
	Sequence     int
	StartAddress string
	Stops        []*Stop
}

// One scheduled attraction visit within a stage. TravelMinutes is the
// travel time from the previous stop (or the stage anchor); nil means
// not yet computed.
type Stop struct {
	StopID       int64
	StageID      int64
	Attraction   *Attraction
	Sequence     int
	VisitStart   time.Time
	VisitMinutes int
	TravelMinutes *int
}

// Aggregate timing figures for one stage, computed fresh at render time.
type StageTotals struct {
	VisitMinutes  int
	TravelMinutes int
}

// Combined visit plus travel time.
func (t StageTotals) TotalMinutes() int { return t.VisitMinutes + t.TravelMinutes }
