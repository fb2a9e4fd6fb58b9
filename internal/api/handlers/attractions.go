package handlers

import (
	"net/http"

	"tripguide-service/internal/api/dto"
	"tripguide-service/internal/ports"
)

// AttractionHandler exposes read-only attraction retrieval endpoints.
// Attraction editing stays outside this service.
type AttractionHandler struct {
	Repo ports.AttractionRepository
}

func (h *AttractionHandler) List(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.Repo.ListAttractions(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListAttractionsResponse{
		Attractions: make([]dto.AttractionResponse, 0, len(attractions)),
	}
	for _, a := range attractions {
		item := dto.AttractionResponse{
			AttractionID: a.AttractionID,
			Name:         a.Name,
			Category:     a.Category,
			MinAge:       a.MinAge,
			VisitMinutes: a.VisitMinutes,
		}
		if a.Location != nil {
			item.Location = &dto.LocationResponse{
				Street:      a.Location.Street,
				HouseNumber: a.Location.HouseNumber,
				PostalCode:  a.Location.PostalCode,
				City:        a.Location.City,
				Lat:         a.Location.Lat,
				Lng:         a.Location.Lng,
			}
		}
		res.Attractions = append(res.Attractions, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
