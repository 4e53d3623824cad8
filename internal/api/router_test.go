package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"itinerary-service/internal/adapters/distance"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
)

func testRouter() http.Handler {
	places := []*domain.Place{
		{Name: "Museum", Category: "Culture", City: "Lisbon", VisitMinutes: 100, Rating: 4.5, RatingCount: 2000, AvgCost: 15,
			Windows: []domain.TimeWindow{{Open: 540, Close: 1020}}},
		{Name: "Park", Category: "Nature", City: "Lisbon", VisitMinutes: 100, Rating: 4.2, RatingCount: 800,
			Windows: []domain.TimeWindow{{Open: 600, Close: 1200}}},
		{Name: "Tower", Category: "Culture", City: "Porto", VisitMinutes: 60},
	}

	var pairs []distance.MockPair
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Hotel", "Museum", 20))...)
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Hotel", "Park", 30))...)
	pairs = append(pairs, distance.Symmetric(distance.Minutes("Museum", "Park", 15))...)

	repo := repositories.NewMemoryPlaceRepository(places)
	planner := services.NewPlanner(repo, distance.NewMockDistanceProvider(pairs))
	return NewRouter(repo, planner, "Hotel")
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func buildScenario(t *testing.T, h http.Handler) dto.ItineraryResponse {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/itineraries", dto.BuildItineraryRequest{
		Places:    []string{"Park", "Museum"},
		StartTime: "09:00",
		EndTime:   "15:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.ItineraryResponse](t, rec)
}

func TestHealth(t *testing.T) {
	h := testRouter()

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestListPlacesFiltersByCity(t *testing.T) {
	h := testRouter()

	rec := do(t, h, http.MethodGet, "/places?city=lisbon", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListPlacesResponse](t, rec)
	require.Len(t, res.Places, 2)
	require.Equal(t, "Museum", res.Places[0].Name)
	require.Equal(t, []string{"09:00-17:00"}, res.Places[0].Hours)

	rec = do(t, h, http.MethodGet, "/places", nil)
	res = decode[dto.ListPlacesResponse](t, rec)
	require.Len(t, res.Places, 3)
	require.Equal(t, []string{"00:00-24:00"}, res.Places[2].Hours)
}

func TestRecommendations(t *testing.T) {
	h := testRouter()

	rec := do(t, h, http.MethodGet, "/recommendations?trip_type=Culture", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/recommendations?city=Lisbon&budget=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/recommendations?city=Lisbon&trip_type=Culture&budget=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListRecommendationsResponse](t, rec)
	require.Len(t, res.Recommendations, 1)
	require.Equal(t, "Museum", res.Recommendations[0].Place.Name)
}

func TestBuildItinerary(t *testing.T) {
	h := testRouter()

	res := buildScenario(t, h)

	require.Equal(t, "ok", res.Outcome)
	require.Equal(t, []string{"Hotel", "Museum", "Park", "Hotel"}, res.Route)
	require.Equal(t, 560, res.Stops[1].Arrival)
	require.Equal(t, "9:20 AM", res.Stops[1].ArriveAt)
	require.Equal(t, 805, res.ReturnArrival)
	require.Equal(t, 95, res.EarlySlack)
	require.NotNil(t, res.Summary)
	require.Equal(t, 2, res.Summary.Visited)
	require.NotEmpty(t, res.Itinerary)
}

func TestBuildItineraryFromRecommendations(t *testing.T) {
	h := testRouter()

	rec := do(t, h, http.MethodPost, "/itineraries", dto.BuildItineraryRequest{
		StartTime: "09:00",
		EndTime:   "15:00",
		Recommend: &dto.RecommendRequest{City: "Lisbon"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ItineraryResponse](t, rec)
	require.Equal(t, []string{"Hotel", "Museum", "Park", "Hotel"}, res.Route)
}

func TestBuildItineraryRejectsBadRequests(t *testing.T) {
	h := testRouter()

	cases := map[string]struct {
		body   any
		status int
	}{
		"unknown field":  {`{"places":["Museum"],"start_time":"09:00","end_time":"15:00","extra":1}`, http.StatusBadRequest},
		"two objects":    {`{"places":["Museum"],"start_time":"09:00","end_time":"15:00"}{}`, http.StatusBadRequest},
		"bad start":      {dto.BuildItineraryRequest{Places: []string{"Museum"}, StartTime: "9am", EndTime: "15:00"}, http.StatusBadRequest},
		"unknown place":  {dto.BuildItineraryRequest{Places: []string{"Atlantis"}, StartTime: "09:00", EndTime: "15:00"}, http.StatusBadRequest},
		"short trip":     {dto.BuildItineraryRequest{Places: []string{"Museum"}, StartTime: "09:00", EndTime: "09:30"}, http.StatusBadRequest},
		"too late":       {dto.BuildItineraryRequest{Places: []string{"Museum", "Park"}, StartTime: "09:00", EndTime: "10:40"}, http.StatusUnprocessableEntity},
		"recommend city": {dto.BuildItineraryRequest{StartTime: "09:00", EndTime: "15:00", Recommend: &dto.RecommendRequest{}}, http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/itineraries", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, h, http.MethodGet, "/itineraries", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInsertStop(t *testing.T) {
	h := testRouter()
	built := buildScenario(t, h)

	rec := do(t, h, http.MethodPost, "/itineraries/stops", dto.InsertStopRequest{
		Stops:     built.Stops,
		Place:     "Cafe",
		Arrival:   700,
		Departure: 730,
		After:     1,
		Before:    0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ItineraryResponse](t, rec)
	// Cafe has no travel data, so the result is degraded.
	require.Equal(t, "degraded", res.Outcome)
	require.False(t, res.Warning)
	require.Equal(t, []string{"Hotel", "Cafe", "Museum", "Park", "Hotel"}, res.Route)
	require.True(t, res.Stops[1].Pinned)
	require.Equal(t, 990, res.ReturnArrival)
}

func TestInsertStopInvalidKeepsSchedule(t *testing.T) {
	h := testRouter()
	built := buildScenario(t, h)

	rec := do(t, h, http.MethodPost, "/itineraries/stops", dto.InsertStopRequest{
		Stops:     built.Stops,
		Place:     "Cafe",
		Arrival:   700,
		Departure: 730,
		After:     9,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	res := decode[dto.ItineraryResponse](t, rec)
	require.True(t, res.Warning)
	require.Equal(t, built.Route, res.Route)
	require.True(t, strings.Contains(res.Error, "after index"))
}

func TestTrimToDeadline(t *testing.T) {
	h := testRouter()
	built := buildScenario(t, h)

	rec := do(t, h, http.MethodPost, "/itineraries/trim", dto.TrimRequest{
		Stops:   built.Stops,
		EndTime: "12:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ItineraryResponse](t, rec)
	require.Equal(t, []string{"Park"}, res.Removed)
	require.Equal(t, []string{"Hotel", "Museum", "Hotel"}, res.Route)
	require.Equal(t, 680, res.ReturnArrival)
}

func TestMetricsEndpoint(t *testing.T) {
	h := testRouter()

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
