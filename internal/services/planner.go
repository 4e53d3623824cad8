package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// DefaultMinGapMinutes is the shortest trip, end minus start, a build accepts.
const DefaultMinGapMinutes = 75

// Outcome classifies the result of a planner operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeDegraded means the operation succeeded but at least one travel
	// lookup used the default duration.
	OutcomeDegraded
	OutcomeInfeasible
	OutcomeInvalidInput
	// OutcomeFailed means an internal error; any input schedule is returned unchanged.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Succeeded reports whether the result carries a usable new schedule.
func (o Outcome) Succeeded() bool {
	return o == OutcomeOK || o == OutcomeDegraded
}

func outcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrInfeasible), errors.Is(err, ErrIncompleteMatrix):
		return OutcomeInfeasible
	}
	return OutcomeFailed
}

// Planner exposes the caller-facing itinerary operations. It holds no
// per-request state and is safe for concurrent use.
type Planner struct {
	repo     ports.PlaceRepository
	provider ports.DistanceProvider
	minGap   int
}

type PlannerOption func(*Planner)

// WithMinGap sets the minimum end minus start accepted by BuildItinerary.
func WithMinGap(minutes int) PlannerOption {
	return func(p *Planner) { p.minGap = minutes }
}

func NewPlanner(repo ports.PlaceRepository, provider ports.DistanceProvider, opts ...PlannerOption) *Planner {
	p := &Planner{repo: repo, provider: provider, minGap: DefaultMinGapMinutes}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Planner) MinGap() int { return p.minGap }

// Places returns the current place table.
func (p *Planner) Places(ctx context.Context) (PlaceTable, error) {
	places, err := p.repo.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}
	return NewPlaceTable(places), nil
}

type BuildRequest struct {
	Base       string
	Candidates []string
	Start      int
	End        int
	// ExactSeed orders candidates by the shortest closed tour before the
	// greedy pass, which then breaks ties in that order.
	ExactSeed bool
}

// TripSummary describes how many candidates made it into the schedule.
type TripSummary struct {
	Candidates  int
	Visited     int
	Skipped     int
	TotalWait   int
	EarlyFinish int
}

type BuildResult struct {
	Outcome Outcome
	Err     error
	Materialized
	Summary TripSummary
	// Seed is the exact tour used to order candidates, when one was computed.
	Seed []string
}

// BuildItinerary sequences and times a new itinerary.
func (p *Planner) BuildItinerary(ctx context.Context, req BuildRequest) (res BuildResult) {
	var err error
	defer obs.Time(ctx, "build_itinerary")(&err)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build itinerary: recovered: %v", r)
			res = BuildResult{Outcome: OutcomeFailed, Err: err}
		}
		obs.ItineraryOperations.WithLabelValues("build", res.Outcome.String()).Inc()
	}()

	res, err = p.buildItinerary(ctx, req)
	return res
}

func (p *Planner) buildItinerary(ctx context.Context, req BuildRequest) (BuildResult, error) {
	fail := func(err error) (BuildResult, error) {
		return BuildResult{Outcome: outcomeFor(err), Err: err}, err
	}

	table, err := p.Places(ctx)
	if err != nil {
		return fail(fmt.Errorf("build itinerary: %w", err))
	}

	candidates, err := p.validateBuild(req, table)
	if err != nil {
		return fail(err)
	}

	cache := NewTravelTimeCache(p.provider)

	var seed []string
	if req.ExactSeed {
		seed, err = p.exactSeed(ctx, req.Base, candidates)
		switch {
		case errors.Is(err, ErrTooManyPlaces), errors.Is(err, ErrIncompleteMatrix):
			obs.L().Info("skipping exact seed",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.Int("candidates", len(candidates)),
				zap.Error(err),
			)
			seed = nil
		case err != nil:
			return fail(fmt.Errorf("build itinerary: %w", err))
		default:
			candidates = seed[1 : len(seed)-1]
		}
	}

	route := Sequence(ctx, req.Base, candidates, req.Start, req.End, table, cache)
	if len(route) <= 2 {
		return fail(fmt.Errorf("build itinerary: no candidate fits before %s: %w", domain.FormatClock(req.End), ErrInfeasible))
	}

	m := Materialize(ctx, route, req.Start, req.End, table, cache)
	if m.Schedule.Len() <= 2 {
		return fail(fmt.Errorf("build itinerary: every stop was dropped: %w", ErrInfeasible))
	}

	visited := m.Schedule.Len() - 2
	res := BuildResult{
		Outcome:      OutcomeOK,
		Materialized: m,
		Seed:         seed,
		Summary: TripSummary{
			Candidates:  len(candidates),
			Visited:     visited,
			Skipped:     len(candidates) - visited,
			TotalWait:   m.TotalWait,
			EarlyFinish: m.EarlySlack,
		},
	}
	if cache.Fallbacks() > 0 {
		res.Outcome = OutcomeDegraded
	}
	return res, nil
}

func (p *Planner) validateBuild(req BuildRequest, table PlaceTable) ([]string, error) {
	if strings.TrimSpace(req.Base) == "" {
		return nil, fmt.Errorf("build itinerary: base must be non-empty: %w", ErrInvalidInput)
	}
	if req.End-req.Start <= p.minGap {
		return nil, fmt.Errorf("build itinerary: end %s must be more than %d minutes after start %s: %w",
			domain.FormatClock(req.End), p.minGap, domain.FormatClock(req.Start), ErrInvalidInput)
	}

	seen := make(map[string]bool, len(req.Candidates))
	out := make([]string, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("build itinerary: empty candidate name: %w", ErrInvalidInput)
		}
		if c == req.Base || seen[c] {
			continue
		}
		if _, ok := table.Lookup(c); !ok {
			return nil, fmt.Errorf("build itinerary: unknown place %q: %w", c, ErrInvalidInput)
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("build itinerary: no candidates: %w", ErrInvalidInput)
	}

	slices.Sort(out)
	return out, nil
}

func (p *Planner) exactSeed(ctx context.Context, base string, candidates []string) ([]string, error) {
	names := append([]string{base}, candidates...)
	if len(names) > MaxExactPlaces {
		return nil, fmt.Errorf("exact seed: %w", ErrTooManyPlaces)
	}

	matrix, err := BuildDistanceMatrix(ctx, p.provider, names)
	if err != nil {
		return nil, fmt.Errorf("exact seed: %w", err)
	}

	sol, err := SolveOrder(names, matrix)
	if err != nil {
		return nil, fmt.Errorf("exact seed: %w", err)
	}
	return sol.Route, nil
}

type InsertRequest struct {
	Schedule domain.Schedule
	Stop     domain.Stop
	After    int
	Before   int
}

type InsertResult struct {
	Outcome   Outcome
	Err       error
	Schedule  domain.Schedule
	Warning   bool
	Itinerary []string
}

// InsertStop adds an ad-hoc stop to an existing schedule. On any failure the
// request schedule is returned unchanged.
func (p *Planner) InsertStop(ctx context.Context, req InsertRequest) (res InsertResult) {
	var err error
	defer obs.Time(ctx, "insert_stop")(&err)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("insert stop: recovered: %v", r)
			res = InsertResult{Outcome: OutcomeFailed, Err: err, Schedule: req.Schedule, Warning: true}
		}
		obs.ItineraryOperations.WithLabelValues("insert", res.Outcome.String()).Inc()
	}()

	table, err := p.Places(ctx)
	if err != nil {
		err = fmt.Errorf("insert stop: %w", err)
		return InsertResult{Outcome: OutcomeFailed, Err: err, Schedule: req.Schedule, Warning: true}
	}

	cache := NewTravelTimeCache(p.provider)
	ins := InsertStop(ctx, req.Schedule, req.Stop, req.After, req.Before, table, cache)
	if ins.Warning {
		err = ins.Err
		return InsertResult{Outcome: outcomeFor(err), Err: err, Schedule: req.Schedule, Warning: true}
	}

	res = InsertResult{
		Outcome:   OutcomeOK,
		Schedule:  ins.Schedule,
		Itinerary: RenderItinerary(ins.Schedule, table),
	}
	if cache.Fallbacks() > 0 {
		res.Outcome = OutcomeDegraded
	}
	return res
}

type TrimRequest struct {
	Schedule  domain.Schedule
	Start     int
	End       int
	Protected []string
}

type TrimResult struct {
	Outcome Outcome
	Err     error
	Trimmed
}

// TrimToDeadline removes stops until the schedule returns to base by End.
func (p *Planner) TrimToDeadline(ctx context.Context, req TrimRequest) (res TrimResult) {
	var err error
	defer obs.Time(ctx, "trim_to_deadline")(&err)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("trim to deadline: recovered: %v", r)
			res = TrimResult{Outcome: OutcomeFailed, Err: err, Trimmed: Trimmed{Materialized: Materialized{Schedule: req.Schedule}}}
		}
		obs.ItineraryOperations.WithLabelValues("trim", res.Outcome.String()).Inc()
	}()

	table, err := p.Places(ctx)
	if err != nil {
		err = fmt.Errorf("trim to deadline: %w", err)
		return TrimResult{Outcome: OutcomeFailed, Err: err, Trimmed: Trimmed{Materialized: Materialized{Schedule: req.Schedule}}}
	}

	cache := NewTravelTimeCache(p.provider)
	t, err := Trim(ctx, req.Schedule, req.Start, req.End, req.Protected, table, cache)
	if err != nil {
		return TrimResult{Outcome: outcomeFor(err), Err: err}
	}

	res = TrimResult{Outcome: OutcomeOK, Trimmed: t}
	if cache.Fallbacks()+t.Fallbacks > 0 {
		res.Outcome = OutcomeDegraded
	}
	return res
}
