package domain

import (
	"errors"
	"fmt"
)

// Stop is one entry of a Schedule: the place visited and its timing.
//
// For the first stop (leaving the base) Arrival equals Departure and marks the
// trip start. For the last stop (back at the base) Departure equals Arrival.
// Pinned stops were placed explicitly by the caller and are never chosen for
// removal when a schedule is trimmed.
type Stop struct {
	Place     string
	Arrival   int
	Wait      int
	Departure int
	Pinned    bool
}

// VisitStart is the time the visit begins after any wait for opening.
func (s Stop) VisitStart() int { return s.Arrival + s.Wait }

// TimeSpent is the time between the visit start and departure.
func (s Stop) TimeSpent() int { return s.Departure - s.VisitStart() }

// Schedule is a timed route that starts and ends at the same base.
// It is an immutable value for callers; operations return new schedules.
type Schedule struct {
	Stops []Stop
}

func (s Schedule) Len() int { return len(s.Stops) }

// Base returns the start/end place, or "" for an empty schedule.
func (s Schedule) Base() string {
	if len(s.Stops) == 0 {
		return ""
	}
	return s.Stops[0].Place
}

// Start is the departure time from the base.
func (s Schedule) Start() int {
	if len(s.Stops) == 0 {
		return 0
	}
	return s.Stops[0].Departure
}

// FinalArrival is the recorded return time at the base.
func (s Schedule) FinalArrival() int {
	if len(s.Stops) == 0 {
		return 0
	}
	return s.Stops[len(s.Stops)-1].Arrival
}

func (s Schedule) Route() []string {
	out := make([]string, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Place
	}
	return out
}

func (s Schedule) Arrivals() []int {
	out := make([]int, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Arrival
	}
	return out
}

func (s Schedule) Departures() []int {
	out := make([]int, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Departure
	}
	return out
}

func (s Schedule) Waits() []int {
	out := make([]int, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Wait
	}
	return out
}

// TotalWait sums the wait minutes of every stop.
func (s Schedule) TotalWait() int {
	total := 0
	for _, st := range s.Stops {
		total += st.Wait
	}
	return total
}

// Interior returns the stops between the base departure and the base return.
func (s Schedule) Interior() []Stop {
	if len(s.Stops) <= 2 {
		return nil
	}
	return s.Stops[1 : len(s.Stops)-1]
}

func (s Schedule) Clone() Schedule {
	out := make([]Stop, len(s.Stops))
	copy(out, s.Stops)
	return Schedule{Stops: out}
}

// Validate checks the structural invariants of a schedule: it starts and ends
// at the same base, every interior stop satisfies
// Arrival <= Arrival+Wait <= Departure, and time never runs backwards.
func (s Schedule) Validate() error {
	if len(s.Stops) < 2 {
		return errors.New("validate schedule: route must contain at least the base twice")
	}

	first, last := s.Stops[0], s.Stops[len(s.Stops)-1]
	if first.Place == "" {
		return errors.New("validate schedule: base must be non-empty")
	}
	if first.Place != last.Place {
		return fmt.Errorf("validate schedule: route starts at %q but ends at %q", first.Place, last.Place)
	}

	for i := 1; i < len(s.Stops); i++ {
		st := s.Stops[i]
		if st.Place == "" {
			return fmt.Errorf("validate schedule: stop %d has empty place", i)
		}
		if st.Wait < 0 {
			return fmt.Errorf("validate schedule: stop %d (%q) has negative wait %d", i, st.Place, st.Wait)
		}
		if i < len(s.Stops)-1 && st.VisitStart() > st.Departure {
			return fmt.Errorf(
				"validate schedule: stop %d (%q) departs at %d before visit start %d",
				i, st.Place, st.Departure, st.VisitStart(),
			)
		}
		if st.Arrival < s.Stops[i-1].Departure {
			return fmt.Errorf(
				"validate schedule: stop %d (%q) arrives at %d before previous departure %d",
				i, st.Place, st.Arrival, s.Stops[i-1].Departure,
			)
		}
	}

	return nil
}
