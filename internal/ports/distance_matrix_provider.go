package ports

import "context"

// DistanceMatrixProvider is implemented by providers that can fetch one row
// of the travel matrix in a single call.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Results are keyed by the given destination names; destinations without
	// a route are omitted.
	GetDistances(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
}
