package dto

type CartResponse struct {
	AttractionIDs []int64 `json:"attraction_ids"`
}
