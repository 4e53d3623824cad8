package repositories

import (
	"context"
	"slices"
	"strings"

	"itinerary-service/internal/domain"
)

// In-memory implementation of the PlaceRepository port, used when no
// database is configured.
type MemoryPlaceRepository struct {
	places []*domain.Place
}

func NewMemoryPlaceRepository(places []*domain.Place) *MemoryPlaceRepository {
	sorted := slices.Clone(places)
	slices.SortFunc(sorted, func(a, b *domain.Place) int { return strings.Compare(a.Name, b.Name) })
	return &MemoryPlaceRepository{places: sorted}
}

// Return all places ordered by name.
func (m *MemoryPlaceRepository) ListPlaces(ctx context.Context) ([]*domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.places), nil
}
