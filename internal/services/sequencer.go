package services

import "context"

const (
	// MaxWaitMinutes is the longest wait for a window that a stop may require.
	MaxWaitMinutes = 180

	urgencyHorizon = 120
	urgencyWeight  = 100.0
	openNowBonus   = -50.0
	waitWeight     = 1.5
)

// stopPlan is the timing of one prospective visit.
type stopPlan struct {
	place     string
	travel    int
	arrival   int
	res       Resolution
	departure int
}

// planVisit times a visit to name when leaving from current at time now.
// ok is false when the wait is too long or the visit overruns the window.
func planVisit(ctx context.Context, current, name string, now int, table PlaceTable, cache *TravelTimeCache) (stopPlan, bool) {
	travel := cache.Minutes(ctx, current, name)
	arrival := now + travel

	p, _ := table.Lookup(name)
	res := ResolveWindow(arrival, p.OpenWindows())
	sp := stopPlan{
		place:     name,
		travel:    travel,
		arrival:   arrival,
		res:       res,
		departure: res.Start + p.Visit(),
	}

	if res.Wait > MaxWaitMinutes || sp.departure > res.Window.Close {
		return sp, false
	}
	return sp, true
}

// score ranks a feasible visit; lower is better. It favours short hops, short
// waits, windows that close soon and places that are already open.
func (sp stopPlan) score() float64 {
	s := float64(sp.travel) + float64(sp.res.Wait)*waitWeight

	untilClose := sp.res.Window.Close - sp.res.Start
	if untilClose < urgencyHorizon {
		s -= urgencyWeight * (1 - float64(untilClose)/urgencyHorizon)
	}
	if sp.res.Wait == 0 {
		s += openNowBonus
	}
	return s
}

// Sequence greedily builds a route from base through candidates and back,
// honouring opening windows and returning to base by end.
//
// At each step every remaining candidate is timed from the current position;
// the feasible candidate with the lowest score is committed. Ties keep the
// candidate that comes first in the given order. The walk stops as soon as no
// candidate is feasible.
func Sequence(ctx context.Context, base string, candidates []string, start, end int, table PlaceTable, cache *TravelTimeCache) []string {
	remaining := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != base {
			remaining = append(remaining, c)
		}
	}

	route := []string{base}
	current, now := base, start

	for len(remaining) > 0 {
		bestIdx := -1
		var best stopPlan
		var bestScore float64

		for i, name := range remaining {
			sp, ok := planVisit(ctx, current, name, now, table, cache)
			if !ok {
				continue
			}
			if sp.departure+cache.Minutes(ctx, name, base) > end {
				continue
			}

			if s := sp.score(); bestIdx == -1 || s < bestScore {
				bestIdx, best, bestScore = i, sp, s
			}
		}

		if bestIdx == -1 {
			break
		}

		route = append(route, best.place)
		current, now = best.place, best.departure
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return append(route, base)
}
