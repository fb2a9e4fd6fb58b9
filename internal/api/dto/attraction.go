package dto

type LocationResponse struct {
	Street      string   `json:"street"`
	HouseNumber string   `json:"house_number"`
	PostalCode  string   `json:"postal_code"`
	City        string   `json:"city"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

type AttractionResponse struct {
	AttractionID int64             `json:"attraction_id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	MinAge       *int              `json:"min_age,omitempty"`
	VisitMinutes *int              `json:"visit_minutes,omitempty"`
	Location     *LocationResponse `json:"location,omitempty"`
}

type ListAttractionsResponse struct {
	Attractions []AttractionResponse `json:"attractions"`
}
