package services

import "itinerary-service/internal/domain"

// Resolution is the outcome of fitting an arrival time into a place's windows.
type Resolution struct {
	// Wait is the number of minutes until the visit can start.
	Wait int
	// Start is the effective visit start (arrival + wait).
	Start int
	// Index of the chosen window, -1 when there are no windows.
	Index int
	// Window is the chosen window. On a next-day wrap it is shifted by one day
	// so it can be compared against Start directly.
	Window  domain.TimeWindow
	Wrapped bool
}

// ResolveWindow finds the earliest window that can still be entered at now.
// Windows must be sorted by open time; the first of equally good windows wins.
//
// When every window has closed, the first window of the next day is used.
// Only a single day wrap is modelled.
func ResolveWindow(now int, windows []domain.TimeWindow) Resolution {
	if len(windows) == 0 {
		return Resolution{Start: now, Index: -1}
	}

	best := Resolution{Index: -1}
	for i, w := range windows {
		var wait int
		switch {
		case now < w.Open:
			wait = w.Open - now
		case now <= w.Close:
			wait = 0
		default:
			continue
		}

		if best.Index == -1 || wait < best.Wait {
			best = Resolution{Wait: wait, Start: now + wait, Index: i, Window: w}
		}
	}

	if best.Index != -1 {
		return best
	}

	first := windows[0]
	return Resolution{
		Wait:    domain.MinutesPerDay - now + first.Open,
		Start:   first.Open + domain.MinutesPerDay,
		Index:   0,
		Window:  first.Shift(domain.MinutesPerDay),
		Wrapped: true,
	}
}
