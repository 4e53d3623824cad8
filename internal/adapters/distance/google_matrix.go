package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"itinerary-service/internal/ports"
)

// Google accepts at most 25 destinations per request.
const maxDestinationsPerRequest = 25

type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status   string      `json:"status"`
	Distance matrixValue `json:"distance"`
	Duration matrixValue `json:"duration"`
}

type matrixValue struct {
	Value int `json:"value"`
}

// fetchMatrixRow retrieves distance and duration from one origin to many
// destinations. Destinations without a route are left out of the result.
func (g *GoogleDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))

	for start := 0; start < len(destinations); start += maxDestinationsPerRequest {
		end := min(start+maxDestinationsPerRequest, len(destinations))
		if err := g.fetchChunk(ctx, origin, destinations[start:end], out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (g *GoogleDistanceProvider) fetchChunk(
	ctx context.Context,
	origin string,
	destinations []string,
	out map[string]ports.DistanceResult,
) error {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", strings.Join(destinations, "|"))
	q.Set("mode", g.mode)
	q.Set("units", "metric")
	q.Set("key", g.apiKey)
	endpoint := g.baseURL + "/maps/api/distancematrix/json?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		return fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return fmt.Errorf("decode matrix response: %w", err)
	}

	if mr.Status != "OK" {
		return fmt.Errorf("matrix response status %s: %s", mr.Status, mr.ErrorMessage)
	}

	if len(mr.Rows) != 1 {
		return fmt.Errorf("expected 1 origin row; got %d", len(mr.Rows))
	}

	elements := mr.Rows[0].Elements
	if len(elements) != len(destinations) {
		return errors.New("matrix row length does not match destinations")
	}

	for i, dest := range destinations {
		el := elements[i]
		if el.Status != "OK" {
			continue
		}
		out[dest] = ports.DistanceResult{
			DistanceMeters:  el.Distance.Value,
			DurationSeconds: el.Duration.Value,
		}
	}

	return nil
}
