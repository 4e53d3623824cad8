package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"itinerary-service/internal/adapters/distance"
	"itinerary-service/internal/domain"
)

func scenarioPlaces() []*domain.Place {
	return []*domain.Place{
		{Name: "Museum", Category: "Culture", VisitMinutes: 100, Windows: []domain.TimeWindow{{Open: 540, Close: 1020}}},
		{Name: "Park", Category: "Nature", VisitMinutes: 100, Windows: []domain.TimeWindow{{Open: 600, Close: 1200}}},
	}
}

func scenarioPairs() []distance.MockPair {
	var pairs []distance.MockPair
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Hotel", "Museum", 20))...)
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Hotel", "Park", 30))...)
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Museum", "Park", 15))...)
	return pairs
}

func scenario() (PlaceTable, *distance.MockDistanceProvider) {
	return NewPlaceTable(scenarioPlaces()), distance.NewMockDistanceProvider(scenarioPairs())
}

// scenarioSchedule is Hotel -> Museum -> Park -> Hotel from 9:00 with a 15:00 deadline.
func scenarioSchedule(t *testing.T) domain.Schedule {
	t.Helper()

	table, provider := scenario()
	m := Materialize(context.Background(), []string{"Hotel", "Museum", "Park", "Hotel"}, 540, 900, table, NewTravelTimeCache(provider))
	require.Empty(t, m.Dropped)
	return m.Schedule
}

// requireTimed checks the schedule invariants against travel times from cache.
// Stops at the indices in skip have caller-chosen arrivals.
func requireTimed(t *testing.T, s domain.Schedule, cache *TravelTimeCache, skip ...int) {
	t.Helper()

	require.NoError(t, s.Validate())

	skipped := make(map[int]bool, len(skip))
	for _, i := range skip {
		skipped[i] = true
	}

	for i := 1; i < s.Len(); i++ {
		st, prev := s.Stops[i], s.Stops[i-1]
		if i < s.Len()-1 {
			require.LessOrEqual(t, st.Arrival, st.VisitStart(), "stop %d", i)
			require.LessOrEqual(t, st.VisitStart(), st.Departure, "stop %d", i)
		}
		if skipped[i] {
			continue
		}
		travel := cache.Minutes(context.Background(), prev.Place, st.Place)
		require.Equal(t, prev.Departure+travel, st.Arrival, "stop %d (%s)", i, st.Place)
	}
}
