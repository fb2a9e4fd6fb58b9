package ports

import (
	"time"

	"tripguide-service/internal/domain"
)

// One scheduled stop as handed to presentation.
type StopView struct {
	Sequence      int
	Name          string
	Address       string
	VisitStart    time.Time
	VisitMinutes  int
	TravelMinutes int
}

// One rendered day: ordered stops with timing, fresh aggregate totals,
// the routable points of the day, and an optional map image.
type StageView struct {
	Sequence     int
	Name         string
	StartAddress string
	Stops        []StopView
	Totals       domain.StageTotals
	Points       []domain.Coordinate
	Polyline     string
	MapImage     []byte
	RouteMissing bool
}

// Day-by-day view model of a scheduled plan.
type PlanView struct {
	PlanID      int64
	Name        string
	Description string
	Status      domain.PlanStatus
	Stages      []StageView
	Warnings    []string
}

// Port: turns a finished schedule view into a document byte stream.
type DocumentRenderer interface {
	RenderPDF(view *PlanView) ([]byte, error)
}
