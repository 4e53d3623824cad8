package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

const matrixFanOut = 5

// BuildDistanceMatrix returns the pairwise distance in km between names.
// Rows are fetched concurrently. Pairs the provider cannot answer are
// math.Inf(1); only context cancellation is reported as an error.
func BuildDistanceMatrix(ctx context.Context, provider ports.DistanceProvider, names []string) (_ [][]float64, err error) {
	defer obs.Time(ctx, "build_distance_matrix")(&err)

	n := len(names)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = math.Inf(1)
			}
		}
	}
	if n < 2 || provider == nil {
		return matrix, nil
	}

	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(matrixFanOut)

	for i, origin := range names {
		i, origin := i, origin
		targets := make([]string, 0, n-1)
		for j, t := range names {
			if j != i {
				targets = append(targets, t)
			}
		}

		// Each goroutine owns exactly one row of the matrix.
		g.Go(func() error {
			var row map[string]ports.DistanceResult
			if hasMatrix {
				res, err := mp.GetDistances(gctx, origin, targets)
				if err != nil {
					obs.L().Warn("distance row lookup failed",
						zap.String("req_id", obs.RequestID(ctx)),
						zap.String("origin", origin),
						zap.Error(err),
					)
				}
				row = res
			} else {
				row = make(map[string]ports.DistanceResult, len(targets))
				for _, t := range targets {
					r, err := provider.GetDistance(gctx, origin, t)
					if err != nil {
						obs.L().Warn("distance lookup failed",
							zap.String("req_id", obs.RequestID(ctx)),
							zap.String("origin", origin),
							zap.String("destination", t),
							zap.Error(err),
						)
						continue
					}
					row[t] = r
				}
			}

			for j, t := range names {
				if r, ok := row[t]; ok && j != i {
					matrix[i][j] = r.Kilometers()
				}
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}

	return matrix, nil
}
