package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tripguide-service/internal/api/handlers"
	"tripguide-service/internal/ports"
	"tripguide-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters).
func NewRouter(
	attractions ports.AttractionRepository,
	plans ports.PlanRepository,
	cart ports.CartRepository,
	assembler *services.PlanAssembler,
	renderer *services.ScheduleRenderer,
) http.Handler {
	attractionHandler := &handlers.AttractionHandler{Repo: attractions}
	cartHandler := &handlers.CartHandler{Cart: cart}
	planHandler := &handlers.PlanHandler{
		Assembler: assembler,
		Renderer:  renderer,
		Plans:     plans,
		Cart:      cart,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Get("/attractions", attractionHandler.List)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.Get)
		r.Post("/items/{attractionID}", cartHandler.Add)
		r.Delete("/items/{attractionID}", cartHandler.Remove)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Post("/", planHandler.Checkout)
		r.Get("/{planID}", planHandler.Preview)
		r.Get("/{planID}/pdf", planHandler.ExportPDF)
		r.Delete("/{planID}", planHandler.Delete)
	})

	return r
}
