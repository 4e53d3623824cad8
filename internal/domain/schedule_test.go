package domain

import "testing"

func sampleSchedule() Schedule {
	return Schedule{Stops: []Stop{
		{Place: "Hotel", Arrival: 540, Departure: 540},
		{Place: "Museum", Arrival: 560, Wait: 40, Departure: 720},
		{Place: "Park", Arrival: 735, Departure: 795},
		{Place: "Hotel", Arrival: 810, Departure: 810},
	}}
}

func TestScheduleProjections(t *testing.T) {
	s := sampleSchedule()

	if s.Base() != "Hotel" {
		t.Fatalf("base = %q, want Hotel", s.Base())
	}
	if s.Start() != 540 || s.FinalArrival() != 810 {
		t.Fatalf("start/final = %d/%d, want 540/810", s.Start(), s.FinalArrival())
	}
	if s.TotalWait() != 40 {
		t.Fatalf("total wait = %d, want 40", s.TotalWait())
	}
	if got := len(s.Interior()); got != 2 {
		t.Fatalf("interior = %d stops, want 2", got)
	}

	route := s.Route()
	if route[1] != "Museum" || route[2] != "Park" {
		t.Fatalf("unexpected route %v", route)
	}

	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScheduleValidateRejectsBrokenSchedules(t *testing.T) {
	mismatched := sampleSchedule().Clone()
	mismatched.Stops[3].Place = "Airport"
	if err := mismatched.Validate(); err == nil {
		t.Errorf("expected error for mismatched base")
	}

	backwards := sampleSchedule().Clone()
	backwards.Stops[2].Arrival = 700
	if err := backwards.Validate(); err == nil {
		t.Errorf("expected error for arrival before previous departure")
	}

	if err := (Schedule{}).Validate(); err == nil {
		t.Errorf("expected error for empty schedule")
	}
}

func TestPlaceDefaults(t *testing.T) {
	var p *Place
	if p.Visit() != DefaultVisitMinutes {
		t.Fatalf("nil place visit = %d, want %d", p.Visit(), DefaultVisitMinutes)
	}

	p = &Place{Name: "Cafe", Category: "food", Windows: []TimeWindow{{Open: 1020, Close: 1320}, {Open: 480, Close: 660}}}
	if !p.IsFood() {
		t.Fatalf("expected Cafe to be food")
	}
	ws := p.OpenWindows()
	if ws[0].Open != 480 || p.Windows[0].Open != 1020 {
		t.Fatalf("OpenWindows must sort a copy, got %v (orig %v)", ws, p.Windows)
	}
}
