package services

import (
	"fmt"

	"itinerary-service/internal/domain"
)

// stopWindow records which window a stop was scheduled in, for display.
type stopWindow struct {
	index  int
	total  int
	window domain.TimeWindow
}

func (w stopWindow) label() string {
	if w.total < 2 {
		return ""
	}
	return fmt.Sprintf(" (Window %d/%d: %s-%s)",
		w.index+1, w.total, domain.FormatClock(w.window.Open), domain.FormatClock(w.window.Close))
}

func lateAdvisory(base string, end, back int) string {
	return fmt.Sprintf("To reach %s by %s, leave by %s",
		base, domain.FormatClock(end), domain.FormatClock(end-back))
}

// renderItinerary builds display lines for a schedule. windows is index
// aligned with the stops and may be nil.
func renderItinerary(s domain.Schedule, windows []stopWindow, advisory string) []string {
	if s.Len() == 0 {
		return nil
	}

	lines := []string{fmt.Sprintf("Depart %s at %s", s.Base(), domain.FormatClock(s.Start()))}

	for i, st := range s.Interior() {
		var sw stopWindow
		if i+1 < len(windows) {
			sw = windows[i+1]
		}

		lines = append(lines,
			st.Place+sw.label(),
			"  - Arrive at "+domain.FormatClock(st.Arrival),
		)
		if st.Wait > 0 {
			lines = append(lines, fmt.Sprintf("  - Wait Time: %d min (until %s)", st.Wait, domain.FormatClock(st.VisitStart())))
		}
		lines = append(lines,
			fmt.Sprintf("  - Time Spent: %d min", st.TimeSpent()),
			"  - Depart at "+domain.FormatClock(st.Departure),
		)
	}

	if advisory != "" {
		lines = append(lines, advisory)
	}
	lines = append(lines, fmt.Sprintf("Return to %s - Arrive at %s", s.Base(), domain.FormatClock(s.FinalArrival())))

	lines = append(lines,
		"",
		"Summary:",
		"  - Start Time: "+domain.FormatClock(s.Start()),
		"  - End Time: "+domain.FormatClock(s.FinalArrival()),
		fmt.Sprintf("  - Places Visited: %d", len(s.Interior())),
	)
	if w := s.TotalWait(); w > 0 {
		lines = append(lines, fmt.Sprintf("  - Total Wait Time: %d min", w))
	}

	return lines
}

// RenderItinerary builds display lines for a schedule produced by insertion or
// supplied by a caller, annotating windows from table.
func RenderItinerary(s domain.Schedule, table PlaceTable) []string {
	windows := make([]stopWindow, s.Len())
	for i, st := range s.Stops {
		p, ok := table.Lookup(st.Place)
		if !ok || i == 0 || i == s.Len()-1 {
			continue
		}

		ws := p.OpenWindows()
		for wi, w := range ws {
			start := st.VisitStart()
			if w.Contains(start) || w.Shift(domain.MinutesPerDay).Contains(start) {
				windows[i] = stopWindow{index: wi, total: len(ws), window: w}
				break
			}
		}
	}
	return renderItinerary(s, windows, "")
}
