package services

import (
	"context"
	"fmt"
	"slices"

	"itinerary-service/internal/domain"
)

// Trimmed is the result of Trim.
type Trimmed struct {
	Materialized
	Removed []string
	// Fallbacks counts travel lookups of the rebuild that used the default.
	Fallbacks int
}

type removalCandidate struct {
	index     int
	place     string
	timeSaved int
	value     float64
}

// Trim drops the stops that free the most time per unit of priority until the
// projected return to base is no later than end, then re-materializes the
// reduced route from start with a fresh travel cache.
//
// Earlier stops have higher priority. The base, pinned stops and names in
// protected are never removed. On the rebuild a kept stop whose windows can no
// longer be met is visited on arrival for its recorded time spent. When every
// candidate is removed and the deadline still cannot be met, or a kept stop
// would be dropped, ErrInfeasible is returned.
func Trim(
	ctx context.Context,
	s domain.Schedule,
	start, end int,
	protected []string,
	table PlaceTable,
	cache *TravelTimeCache,
) (Trimmed, error) {
	if err := s.Validate(); err != nil {
		return Trimmed{}, fmt.Errorf("trim: %v: %w", err, ErrInvalidInput)
	}
	if end <= start {
		return Trimmed{}, fmt.Errorf("trim: end %d not after start %d: %w", end, start, ErrInvalidInput)
	}

	base := s.Base()
	keep := make(map[string]bool, len(protected))
	for _, p := range protected {
		keep[p] = true
	}

	n := s.Len()
	var candidates []removalCandidate
	for i := 1; i < n-1; i++ {
		st := s.Stops[i]
		if st.Place == base || st.Pinned || keep[st.Place] {
			continue
		}

		prev, next := s.Stops[i-1], s.Stops[i+1]
		saved := (st.Departure - st.Arrival) +
			(st.Arrival - prev.Departure) +
			(next.Arrival - st.Departure) -
			cache.Minutes(ctx, prev.Place, next.Place)

		priority := n - i
		candidates = append(candidates, removalCandidate{
			index:     i,
			place:     st.Place,
			timeSaved: saved,
			value:     float64(saved) / float64(priority),
		})
	}

	slices.SortStableFunc(candidates, func(a, b removalCandidate) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		}
		return 0
	})

	projected := s.FinalArrival()
	removed := make(map[int]bool)
	for _, c := range candidates {
		if projected <= end {
			break
		}
		removed[c.index] = true
		projected -= c.timeSaved
	}
	if projected > end {
		return Trimmed{}, fmt.Errorf("trim: projected return %d after deadline %d with every candidate removed: %w",
			projected, end, ErrInfeasible)
	}

	route := make([]string, 0, n-len(removed))
	var removedNames []string
	opts := materializeOptions{visitOverride: map[string]int{}, pinned: map[string]bool{}, keep: map[string]bool{}}
	for i, st := range s.Stops {
		if removed[i] {
			removedNames = append(removedNames, st.Place)
			continue
		}
		route = append(route, st.Place)

		if i == 0 || i == n-1 {
			continue
		}
		if st.Pinned {
			opts.pinned[st.Place] = true
		}
		if st.Pinned || keep[st.Place] {
			opts.keep[st.Place] = true
			opts.visitOverride[st.Place] = st.TimeSpent()
		}
	}

	fresh := cache.Fresh()
	m := materialize(ctx, route, start, end, table, fresh, opts)

	for _, name := range m.Dropped {
		if opts.keep[name] {
			return Trimmed{}, fmt.Errorf("trim: kept stop %q cannot return to %s by %d: %w", name, base, end, ErrInfeasible)
		}
	}

	return Trimmed{Materialized: m, Removed: removedNames, Fallbacks: fresh.Fallbacks()}, nil
}
