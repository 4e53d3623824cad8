package services

import (
	"context"

	"itinerary-service/internal/domain"
)

// Materialized is a timed route together with its display text.
type Materialized struct {
	Schedule  domain.Schedule
	TotalWait int
	Itinerary []string
	// EarlySlack is the number of minutes the trip ends before the deadline.
	EarlySlack int
	// ReturnArrival is the true arrival back at base. It differs from the
	// recorded final arrival only when Late is set.
	ReturnArrival int
	Late          bool
	// Dropped lists route stops that could not be scheduled.
	Dropped []string
}

type materializeOptions struct {
	// visitOverride fixes the visit length of places missing from the table
	// and of kept stops that no longer fit a window.
	visitOverride map[string]int
	pinned        map[string]bool
	// keep marks stops that are visited on arrival, without a window check,
	// when their windows can no longer be met.
	keep map[string]bool
}

// Materialize walks route in order from start and times every stop against
// its opening windows. Stops needing a wait over MaxWaitMinutes or overrunning
// their window are dropped without advancing the clock. The first stop that
// would make the return to base later than end is dropped and ends the walk.
//
// Places missing from table are visited for the default duration with no wait.
// If the final return still misses end, the recorded arrival is clamped to end,
// Late is set and an advisory line is added to the itinerary.
func Materialize(ctx context.Context, route []string, start, end int, table PlaceTable, cache *TravelTimeCache) Materialized {
	return materialize(ctx, route, start, end, table, cache, materializeOptions{})
}

func materialize(
	ctx context.Context,
	route []string,
	start, end int,
	table PlaceTable,
	cache *TravelTimeCache,
	opts materializeOptions,
) Materialized {
	if len(route) == 0 {
		return Materialized{}
	}

	base := route[0]
	stops := []domain.Stop{{Place: base, Arrival: start, Departure: start}}
	windows := []stopWindow{{}}
	var dropped []string

	last, now := base, start

	interior := route[1:]
	if len(interior) > 0 && interior[len(interior)-1] == base {
		interior = interior[:len(interior)-1]
	}

	for i, name := range interior {
		var st domain.Stop
		var sw stopWindow

		if p, ok := table.Lookup(name); ok {
			sp, feasible := planVisit(ctx, last, name, now, table, cache)
			switch {
			case feasible:
				st = domain.Stop{Place: name, Arrival: sp.arrival, Wait: sp.res.Wait, Departure: sp.departure}
				sw = stopWindow{index: sp.res.Index, total: len(p.OpenWindows()), window: sp.res.Window}
			case opts.keep[name]:
				visit := p.Visit()
				if v, ok := opts.visitOverride[name]; ok {
					visit = v
				}
				st = domain.Stop{Place: name, Arrival: sp.arrival, Departure: sp.arrival + visit}
			default:
				dropped = append(dropped, name)
				continue
			}
		} else {
			visit := domain.DefaultVisitMinutes
			if v, ok := opts.visitOverride[name]; ok {
				visit = v
			}
			arrival := now + cache.Minutes(ctx, last, name)
			st = domain.Stop{Place: name, Arrival: arrival, Departure: arrival + visit}
		}

		if st.Departure+cache.Minutes(ctx, name, base) > end {
			dropped = append(dropped, interior[i:]...)
			break
		}

		st.Pinned = opts.pinned[name]
		stops = append(stops, st)
		windows = append(windows, sw)
		last, now = name, st.Departure
	}

	back := cache.Minutes(ctx, last, base)
	returnArrival := now + back

	m := Materialized{ReturnArrival: returnArrival, Dropped: dropped}
	final := domain.Stop{Place: base, Arrival: returnArrival, Departure: returnArrival}
	var advisory string

	if returnArrival <= end {
		m.EarlySlack = end - returnArrival
	} else {
		m.Late = true
		final.Arrival, final.Departure = end, end
		advisory = lateAdvisory(base, end, back)
	}

	stops = append(stops, final)
	windows = append(windows, stopWindow{})

	m.Schedule = domain.Schedule{Stops: stops}
	m.TotalWait = m.Schedule.TotalWait()
	m.Itinerary = renderItinerary(m.Schedule, windows, advisory)
	return m
}
