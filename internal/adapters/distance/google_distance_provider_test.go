package distance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-service/internal/ports"
)

type memoryCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{m: make(map[string]ports.DistanceResult)}
}

func (c *memoryCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]ports.DistanceResult)
	for _, d := range destinations {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

// matrixServer answers every destination with 1 km and 60 s per character of
// its name, except "Atlantis" which has no route.
func matrixServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= failures {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}

		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var elements []string
		for _, d := range strings.Split(r.URL.Query().Get("destinations"), "|") {
			if d == "Atlantis" {
				elements = append(elements, `{"status":"ZERO_RESULTS"}`)
				continue
			}
			elements = append(elements, fmt.Sprintf(
				`{"status":"OK","distance":{"value":%d},"duration":{"value":%d}}`, len(d)*1000, len(d)*60))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"OK","rows":[{"elements":[%s]}]}`, strings.Join(elements, ","))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func newTestProvider(t *testing.T, srv *httptest.Server, cache ports.DistanceCache) *GoogleDistanceProvider {
	t.Helper()

	p, err := NewGoogleDistanceProvider("test-key", cache,
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000, 10),
		WithRetry(3, time.Millisecond),
	)
	require.NoError(t, err)
	return p
}

func TestGoogleGetDistancesUsesCache(t *testing.T) {
	srv, calls := matrixServer(t, 0)
	cache := newMemoryCache()
	p := newTestProvider(t, srv, cache)
	ctx := context.Background()

	got, err := p.GetDistances(ctx, "Hotel", []string{"Park", "  Museum ", "Park", "Hotel", "Atlantis"})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.DistanceResult{
		"Park":      {DistanceMeters: 4000, DurationSeconds: 240},
		"  Museum ": {DistanceMeters: 6000, DurationSeconds: 360},
	}, got)
	require.EqualValues(t, 1, calls.Load())

	got, err = p.GetDistances(ctx, "Hotel", []string{"Park", "Museum"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.EqualValues(t, 1, calls.Load())
}

func TestGoogleGetDistancesKeysResultsByCallerNames(t *testing.T) {
	srv, calls := matrixServer(t, 0)
	p := newTestProvider(t, srv, newMemoryCache())

	got, err := p.GetDistances(context.Background(), " Hotel", []string{"Old  Town", "Old Town ", "Park"})
	require.NoError(t, err)

	want := ports.DistanceResult{DistanceMeters: 8000, DurationSeconds: 480}
	require.Equal(t, want, got["Old  Town"])
	require.Equal(t, want, got["Old Town "])
	require.Contains(t, got, "Park")
	require.NotContains(t, got, "Old Town")
	require.EqualValues(t, 1, calls.Load())
}

func TestGoogleGetDistanceNoRoute(t *testing.T) {
	srv, _ := matrixServer(t, 0)
	p := newTestProvider(t, srv, nil)

	r, err := p.GetDistance(context.Background(), "Hotel", "Park")
	require.NoError(t, err)
	require.Equal(t, 4, r.Minutes())

	_, err = p.GetDistance(context.Background(), "Hotel", "Atlantis")
	require.Error(t, err)

	_, err = p.GetDistance(context.Background(), "Hotel", " ")
	require.Error(t, err)
}

func TestGoogleRetriesTransientFailures(t *testing.T) {
	srv, calls := matrixServer(t, 2)
	p := newTestProvider(t, srv, nil)

	r, err := p.GetDistance(context.Background(), "Hotel", "Park")
	require.NoError(t, err)
	require.Equal(t, 4000, r.DistanceMeters)
	require.EqualValues(t, 3, calls.Load())
}

func TestGoogleGivesUpAfterMaxAttempts(t *testing.T) {
	srv, calls := matrixServer(t, 10)
	p := newTestProvider(t, srv, nil)

	_, err := p.GetDistance(context.Background(), "Hotel", "Park")
	require.Error(t, err)
	require.EqualValues(t, 3, calls.Load())
}

func TestGoogleRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","error_message":"bad key","rows":[]}`)
	}))
	t.Cleanup(srv.Close)
	p := newTestProvider(t, srv, nil)

	_, err := p.GetDistances(context.Background(), "Hotel", []string{"Park"})
	require.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestNewGoogleDistanceProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleDistanceProvider(" ", nil)
	require.Error(t, err)
}
