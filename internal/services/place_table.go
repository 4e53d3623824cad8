package services

import (
	"slices"

	"itinerary-service/internal/domain"
)

// PlaceTable is a read-only name lookup over the places of one request.
// Names missing from the table are unknown places.
type PlaceTable map[string]*domain.Place

func NewPlaceTable(places []*domain.Place) PlaceTable {
	t := make(PlaceTable, len(places))
	for _, p := range places {
		if p == nil || p.Name == "" {
			continue
		}
		t[p.Name] = p
	}
	return t
}

func (t PlaceTable) Lookup(name string) (*domain.Place, bool) {
	p, ok := t[name]
	return p, ok
}

// Names returns every place name in sorted order.
func (t PlaceTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
