package ports

import "context"

// Distance and travel duration between two places.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Minutes is the travel duration rounded down to whole minutes.
func (r DistanceResult) Minutes() int { return r.DurationSeconds / 60 }

// Kilometers is the travel distance in km.
func (r DistanceResult) Kilometers() float64 { return float64(r.DistanceMeters) / 1000 }

// Contract for retrieving travel distance and duration between places.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two places.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}
