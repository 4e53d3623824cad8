package ports

import "context"

// Persistent travel lookup cache shared across requests.
type DistanceCache interface {
	// Return cached results for the given destinations; misses are simply absent.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	// Store results for one origin.
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
