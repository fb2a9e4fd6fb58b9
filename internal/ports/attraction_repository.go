package ports

import (
	"context"

	"tripguide-service/internal/domain"
)

// Port: read access to attraction records and their locations.
type AttractionRepository interface {
	// Retrieve all attractions, ordered by id.
	ListAttractions(ctx context.Context) ([]*domain.Attraction, error)

	// Retrieve the attractions for an id set, keyed by id. Ids with no
	// matching attraction are simply absent from the result.
	GetAttractions(ctx context.Context, ids []int64) (map[int64]*domain.Attraction, error)
}
