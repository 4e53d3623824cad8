package services

import (
	"context"
	"fmt"
	"strings"

	"itinerary-service/internal/domain"
)

// Insertion is the result of InsertStop.
type Insertion struct {
	Schedule domain.Schedule
	// Warning is set when the insertion was abandoned; Schedule is then the
	// caller's original value.
	Warning bool
	Err     error
}

// InsertStop splices stop into s at index after and re-times every later stop.
// before must be the index of the stop the new one follows (after-1 or less),
// so an insertion between the base and the first visit is before=0, after=1.
//
// The new stop keeps its caller-supplied arrival and departure and is pinned.
// Each later stop arrives at the previous departure plus travel time; known
// places wait for their window and leave at the earlier of the visit end and
// the window close, unknown places get the default visit and no wait. The
// final base stop departs when it arrives.
//
// On any failure the original schedule is returned unchanged with Warning set.
func InsertStop(
	ctx context.Context,
	s domain.Schedule,
	stop domain.Stop,
	after, before int,
	table PlaceTable,
	cache *TravelTimeCache,
) (out Insertion) {
	defer func() {
		if r := recover(); r != nil {
			out = Insertion{Schedule: s, Warning: true, Err: fmt.Errorf("insert stop: recovered: %v", r)}
		}
	}()

	if err := validateInsertion(s, stop, after, before); err != nil {
		return Insertion{Schedule: s, Warning: true, Err: err}
	}

	stops := make([]domain.Stop, 0, s.Len()+1)
	stops = append(stops, s.Stops[:after]...)
	stops = append(stops, domain.Stop{
		Place:     stop.Place,
		Arrival:   stop.Arrival,
		Departure: stop.Departure,
		Pinned:    true,
	})
	stops = append(stops, s.Stops[after:]...)

	last := len(stops) - 1
	for i := after + 1; i <= last; i++ {
		prev := stops[i-1]
		st := stops[i]

		st.Arrival = prev.Departure + cache.Minutes(ctx, prev.Place, st.Place)

		switch p, ok := table.Lookup(st.Place); {
		case i == last:
			st.Wait = 0
			st.Departure = st.Arrival
		case ok:
			res := ResolveWindow(st.Arrival, p.OpenWindows())
			st.Wait = res.Wait
			st.Departure = min(st.Arrival+res.Wait+p.Visit(), res.Window.Close)
		default:
			st.Wait = 0
			st.Departure = st.Arrival + domain.DefaultVisitMinutes
		}

		stops[i] = st
	}

	return Insertion{Schedule: domain.Schedule{Stops: stops}}
}

func validateInsertion(s domain.Schedule, stop domain.Stop, after, before int) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("insert stop: %v: %w", err, ErrInvalidInput)
	}
	if strings.TrimSpace(stop.Place) == "" {
		return fmt.Errorf("insert stop: place must be non-empty: %w", ErrInvalidInput)
	}
	if stop.Place == s.Base() {
		return fmt.Errorf("insert stop: cannot insert the base %q: %w", stop.Place, ErrInvalidInput)
	}
	if stop.Departure < stop.Arrival {
		return fmt.Errorf("insert stop: departure %d before arrival %d: %w", stop.Departure, stop.Arrival, ErrInvalidInput)
	}
	if after < 1 || after > s.Len()-1 {
		return fmt.Errorf("insert stop: after index %d outside [1, %d]: %w", after, s.Len()-1, ErrInvalidInput)
	}
	if before < 0 || before >= after {
		return fmt.Errorf("insert stop: before index %d must be in [0, %d): %w", before, after, ErrInvalidInput)
	}
	return nil
}
