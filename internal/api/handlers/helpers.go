package handlers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps the shared failure classes to HTTP statuses.
// Anything unclassified is an internal error and gets logged.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrPermissionDenied):
		writeError(w, r, http.StatusForbidden, "forbidden")
	default:
		obs.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// userID extracts the opaque owner identity the identity provider put
// on the request. Empty means unauthenticated.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// requireUser writes a 401 and returns "" when no identity is present.
func requireUser(w http.ResponseWriter, r *http.Request) string {
	uid := userID(r)
	if uid == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID")
	}
	return uid
}
