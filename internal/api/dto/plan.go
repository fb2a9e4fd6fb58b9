package dto

import "time"

type CheckoutRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	StartAddress string           `json:"start_address"`
	Status       string           `json:"status"`
	StartAt      *time.Time       `json:"start_at"`
	Days         map[int][]int64  `json:"days"`
	DayStarts    map[int]string   `json:"day_starts"`
}

type StopResponse struct {
	Sequence      int       `json:"sequence"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	VisitStart    time.Time `json:"visit_start"`
	VisitMinutes  int       `json:"visit_minutes"`
	TravelMinutes int       `json:"travel_minutes"`
}

type StageResponse struct {
	Sequence      int            `json:"sequence"`
	Name          string         `json:"name"`
	StartAddress  string         `json:"start_address,omitempty"`
	Stops         []StopResponse `json:"stops"`
	VisitMinutes  int            `json:"visit_minutes"`
	TravelMinutes int            `json:"travel_minutes"`
	TotalMinutes  int            `json:"total_minutes"`
	Polyline      string         `json:"polyline,omitempty"`
	RouteMissing  bool           `json:"route_missing,omitempty"`
}

type PlanResponse struct {
	PlanID      int64           `json:"plan_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Stages      []StageResponse `json:"stages"`
	Warnings    []string        `json:"warnings,omitempty"`
}
