package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// GoogleDistanceProvider implements DistanceMatrixProvider using the Google
// Distance Matrix API. Places are addressed by name.
//
// It coordinates:
//   - Name normalization
//   - Persistent travel result caching
//   - Request throttling through a token bucket
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type GoogleDistanceProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	mode        string
	cache       ports.DistanceCache
	limiter     *rate.Limiter
	maxAttempts int
	backoff     time.Duration
}

type GoogleOption func(*GoogleDistanceProvider)

// WithBaseURL points the provider at another host, e.g. a test server.
func WithBaseURL(u string) GoogleOption {
	return func(g *GoogleDistanceProvider) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit limits outgoing requests to perSec with the given burst.
func WithRateLimit(perSec float64, burst int) GoogleOption {
	return func(g *GoogleDistanceProvider) { g.limiter = rate.NewLimiter(rate.Limit(perSec), burst) }
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(g *GoogleDistanceProvider) { g.session = c }
}

// WithRetry sets the number of attempts per request and the first backoff.
func WithRetry(attempts int, backoff time.Duration) GoogleOption {
	return func(g *GoogleDistanceProvider) {
		g.maxAttempts = max(attempts, 1)
		g.backoff = backoff
	}
}

func NewGoogleDistanceProvider(
	apiKey string,
	cache ports.DistanceCache,
	opts ...GoogleOption,
) (*GoogleDistanceProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google api key is empty")
	}

	provider := &GoogleDistanceProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     "https://maps.googleapis.com",
		mode:        "driving",
		cache:       cache,
		limiter:     rate.NewLimiter(rate.Limit(10), 5),
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, o := range opts {
		o(provider)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *GoogleDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to batched path to reuse caching and matrix logic.
func (g *GoogleDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := g.normalize(origin)
	normDestination := g.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get google distance: origin and destination must be non-empty")
	}

	results, err := g.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no route for %q -> %q", origin, destination)
	}

	return result, nil
}

// Compute travel from a single origin to many destinations. Destinations
// without a route are absent from the result.
func (g *GoogleDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.GetDistances")(&err)

	normOrigin := g.normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	// Lookups use normalized names; results are keyed by the caller's names.
	callerKeys := make(map[string][]string, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := g.normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		keys, seen := callerKeys[nd]
		if !seen {
			destList = append(destList, nd)
		}
		if !slices.Contains(keys, d) {
			callerKeys[nd] = append(keys, d)
		}
	}

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	hits := make(map[string]ports.DistanceResult)
	// Check persistent cache before issuing external API calls.
	if g.cache != nil {
		cached, err := g.cache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			obs.L().Warn("travel cache read failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
		} else {
			for k, v := range cached {
				hits[k] = v
			}
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := hits[d]; !ok {
			misses = append(misses, d)
		}
	}

	if len(misses) == 0 {
		return byCallerKey(hits, callerKeys), nil
	}

	fetched, err := g.fetchMatrixRow(ctx, normOrigin, misses)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	if g.cache != nil && len(fetched) > 0 {
		if err := g.cache.PutMany(ctx, normOrigin, fetched); err != nil {
			obs.L().Warn("travel cache write failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
		}
	}

	for k, v := range fetched {
		hits[k] = v
	}

	return byCallerKey(hits, callerKeys), nil
}

func byCallerKey(results map[string]ports.DistanceResult, callerKeys map[string][]string) map[string]ports.DistanceResult {
	out := make(map[string]ports.DistanceResult, len(results))
	for nd, r := range results {
		for _, k := range callerKeys[nd] {
			out[k] = r
		}
	}
	return out
}
