package domain

import (
	"slices"
	"strings"
)

const (
	MinutesPerDay = 24 * 60

	// DefaultVisitMinutes is the time spent at a place that has no configured duration.
	DefaultVisitMinutes = 100

	CategoryFood = "Food"
)

// TimeWindow is an opening interval in minutes from midnight.
// Close may be >= 1440 when the window crosses midnight.
type TimeWindow struct {
	Open  int
	Close int
}

// NewTimeWindow normalizes a window whose close time is earlier than its
// open time into one that crosses midnight.
func NewTimeWindow(open, close int) TimeWindow {
	if close < open {
		close += MinutesPerDay
	}
	return TimeWindow{Open: open, Close: close}
}

// Contains reports whether t falls inside the window (both ends inclusive).
func (w TimeWindow) Contains(t int) bool {
	return t >= w.Open && t <= w.Close
}

// Shift moves the window by d minutes.
func (w TimeWindow) Shift(d int) TimeWindow {
	return TimeWindow{Open: w.Open + d, Close: w.Close + d}
}

// Place is a candidate stop of an itinerary. Places are identified by Name
// and are read-only for the duration of a planning run.
type Place struct {
	Name         string
	Category     string
	VisitMinutes int
	Windows      []TimeWindow

	// Descriptive attributes used for recommendations only.
	City        string
	Rating      float64
	RatingCount int
	AvgCost     float64
}

// Visit returns the configured visit duration, or DefaultVisitMinutes.
func (p *Place) Visit() int {
	if p == nil || p.VisitMinutes <= 0 {
		return DefaultVisitMinutes
	}
	return p.VisitMinutes
}

// OpenWindows returns the place's windows sorted by open time.
// A place without configured hours is treated as open all day.
func (p *Place) OpenWindows() []TimeWindow {
	if p == nil || len(p.Windows) == 0 {
		return []TimeWindow{{Open: 0, Close: MinutesPerDay}}
	}

	out := slices.Clone(p.Windows)
	slices.SortStableFunc(out, func(a, b TimeWindow) int {
		if a.Open != b.Open {
			return a.Open - b.Open
		}
		return a.Close - b.Close
	})
	return out
}

func (p *Place) IsFood() bool {
	return p != nil && strings.EqualFold(p.Category, CategoryFood)
}
