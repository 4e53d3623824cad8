package ports

import (
	"context"

	"itinerary-service/internal/domain"
)

// Port: a boundary for retrieving candidate places from a data source.
type PlaceRepository interface {
	// Retrieve every known place with its opening windows.
	ListPlaces(ctx context.Context) ([]*domain.Place, error)
}
