package distance

import (
	"context"
	"fmt"
	"sync"

	"itinerary-service/internal/ports"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// Minutes builds a pair from a travel time in minutes, one km per minute.
func Minutes(from, to string, minutes int) MockPair {
	return MockPair{From: from, To: to, Meters: minutes * 1000, Seconds: minutes * 60}
}

// Symmetric returns the pair in both directions.
func Symmetric(p MockPair) []MockPair {
	return []MockPair{p, {From: p.To, To: p.From, Meters: p.Meters, Seconds: p.Seconds}}
}

// MockDistanceProvider answers from a fixed table keyed by origin and
// destination. Unknown pairs fail. Safe for concurrent use.
type MockDistanceProvider struct {
	m map[string]ports.DistanceResult

	mu    sync.Mutex
	calls map[string]int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m, calls: make(map[string]int)}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	key := origin + "|" + destination

	p.mu.Lock()
	p.calls[key]++
	p.mu.Unlock()

	r, ok := p.m[key]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

// GetDistances returns every known pair from origin; unknown destinations are omitted.
func (p *MockDistanceProvider) GetDistances(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if r, err := p.GetDistance(ctx, origin, d); err == nil {
			out[d] = r
		}
	}
	return out, nil
}

// Calls reports how many times a pair was requested.
func (p *MockDistanceProvider) Calls(origin, destination string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[origin+"|"+destination]
}
