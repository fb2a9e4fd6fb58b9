package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tripguide-service/internal/api/dto"
	"tripguide-service/internal/ports"
)

// CartHandler manages the per-user attraction cart.
type CartHandler struct {
	Cart ports.CartRepository
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := requireUser(w, r)
	if uid == "" {
		return
	}

	ids, err := h.Cart.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CartResponse{AttractionIDs: ids})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid := requireUser(w, r)
	if uid == "" {
		return
	}

	id, ok := attractionID(w, r)
	if !ok {
		return
	}

	if err := h.Cart.Add(r.Context(), uid, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid := requireUser(w, r)
	if uid == "" {
		return
	}

	id, ok := attractionID(w, r)
	if !ok {
		return
	}

	if err := h.Cart.Remove(r.Context(), uid, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func attractionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "attractionID"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid attraction id")
		return 0, false
	}
	return id, true
}
