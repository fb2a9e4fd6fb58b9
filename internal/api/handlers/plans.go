package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"tripguide-service/internal/api/dto"
	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/ports"
	"tripguide-service/internal/services"
)

// PlanHandler: checkout, preview, PDF export and deletion of plans.
type PlanHandler struct {
	Assembler *services.PlanAssembler
	Renderer  *services.ScheduleRenderer
	Plans     ports.PlanRepository
	Cart      ports.CartRepository
}

// Checkout turns the user's cart plus day assignment into a persisted,
// scheduled plan. Routing failures degrade to estimated travel times
// and come back as warnings, not errors.
func (h *PlanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	uid := requireUser(w, r)
	if uid == "" {
		return
	}

	var req dto.CheckoutRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	selected, err := h.Cart.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	build := services.BuildRequest{
		UserID:       uid,
		Name:         req.Name,
		Description:  req.Description,
		StartAddress: req.StartAddress,
		Status:       domain.PlanStatus(req.Status),
		Selected:     selected,
		Days:         req.Days,
		DayStarts:    req.DayStarts,
	}
	if req.StartAt != nil {
		build.StartAt = *req.StartAt
	}

	result, err := h.Assembler.Build(r.Context(), build)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// The cart fed this plan; failing to empty it is not worth
	// failing a committed checkout.
	if err := h.Cart.Clear(r.Context(), uid); err != nil {
		obs.Ctx(r.Context()).Warn().Err(err).Str("user", uid).Msg("cart clear failed after checkout")
	}

	writeJSON(w, r, http.StatusCreated, planResponse(result.Plan, result.Warnings))
}

// Preview returns the day-by-day schedule with freshly derived
// timing. ?optimize=true lets the provider reorder each day's stops.
func (h *PlanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}

	view, err := h.Renderer.RenderPreview(r.Context(), id, optimizeParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, viewResponse(view))
}

// ExportPDF streams the rendered plan document.
func (h *PlanHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}

	doc, err := h.Renderer.RenderDocument(r.Context(), id, optimizeParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("plan_%d.pdf", id)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		obs.Ctx(r.Context()).Error().Err(err).Int64("plan_id", id).Msg("pdf write failed")
	}
}

// Delete removes a plan. Only the owner may; everyone else gets 403.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := requireUser(w, r)
	if uid == "" {
		return
	}

	id, ok := planID(w, r)
	if !ok {
		return
	}

	if err := h.Plans.DeletePlan(r.Context(), id, uid); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func planID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "planID"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid plan id")
		return 0, false
	}
	return id, true
}

func optimizeParam(r *http.Request) bool {
	return r.URL.Query().Get("optimize") == "true"
}

// planResponse maps the freshly built aggregate; used by checkout
// where the timing was just computed.
func planResponse(plan *domain.Plan, warnings []string) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:      plan.PlanID,
		Name:        plan.Name,
		Description: plan.Description,
		Status:      string(plan.Status),
		Stages:      make([]dto.StageResponse, 0, len(plan.Stages)),
		Warnings:    warnings,
	}

	for _, stage := range plan.Stages {
		sr := dto.StageResponse{
			Sequence:     stage.Sequence,
			Name:         stage.Name,
			StartAddress: stage.StartAddress,
			Stops:        make([]dto.StopResponse, 0, len(stage.Stops)),
		}

		for _, stop := range stage.Stops {
			travel := 0
			if stop.TravelMinutes != nil {
				travel = *stop.TravelMinutes
			}

			address := ""
			if stop.Attraction.Location != nil {
				address = stop.Attraction.Location.Address()
			}

			sr.Stops = append(sr.Stops, dto.StopResponse{
				Sequence:      stop.Sequence,
				Name:          stop.Attraction.Name,
				Address:       address,
				VisitStart:    stop.VisitStart,
				VisitMinutes:  stop.VisitMinutes,
				TravelMinutes: travel,
			})
			sr.VisitMinutes += stop.VisitMinutes
			sr.TravelMinutes += travel
		}
		sr.TotalMinutes = sr.VisitMinutes + sr.TravelMinutes

		res.Stages = append(res.Stages, sr)
	}

	return res
}

// viewResponse maps the renderer's view model; used by preview.
func viewResponse(view *ports.PlanView) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:      view.PlanID,
		Name:        view.Name,
		Description: view.Description,
		Status:      string(view.Status),
		Stages:      make([]dto.StageResponse, 0, len(view.Stages)),
		Warnings:    view.Warnings,
	}

	for _, stage := range view.Stages {
		sr := dto.StageResponse{
			Sequence:      stage.Sequence,
			Name:          stage.Name,
			StartAddress:  stage.StartAddress,
			Stops:         make([]dto.StopResponse, 0, len(stage.Stops)),
			VisitMinutes:  stage.Totals.VisitMinutes,
			TravelMinutes: stage.Totals.TravelMinutes,
			TotalMinutes:  stage.Totals.TotalMinutes(),
			Polyline:      stage.Polyline,
			RouteMissing:  stage.RouteMissing,
		}

		for _, stop := range stage.Stops {
			sr.Stops = append(sr.Stops, dto.StopResponse{
				Sequence:      stop.Sequence,
				Name:          stop.Name,
				Address:       stop.Address,
				VisitStart:    stop.VisitStart,
				VisitMinutes:  stop.VisitMinutes,
				TravelMinutes: stop.TravelMinutes,
			})
		}

		res.Stages = append(res.Stages, sr)
	}

	return res
}
