package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

type PlaceHandler struct {
	Repo ports.PlaceRepository
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	places, err := h.Repo.ListPlaces(r.Context())
	if err != nil {
		obs.L().Error("list places", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list places")
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	res := dto.ListPlacesResponse{Places: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		if city != "" && !strings.EqualFold(p.City, city) {
			continue
		}
		res.Places = append(res.Places, toPlaceResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Recommend ranks the places of a city for a trip type and budget.
// Query parameters: city, trip_type, budget.
func (h *PlaceHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseRecommendQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	places, err := h.Repo.ListPlaces(r.Context())
	if err != nil {
		obs.L().Error("recommend places", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list places")
		return
	}

	scored := services.RecommendPlaces(places, q)
	res := dto.ListRecommendationsResponse{
		City:            q.City,
		TripType:        q.TripType,
		Budget:          q.Budget,
		Recommendations: make([]dto.RecommendationResponse, 0, len(scored)),
	}
	for _, s := range scored {
		res.Recommendations = append(res.Recommendations, dto.RecommendationResponse{
			Place: toPlaceResponse(s.Place),
			Score: s.Score,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseRecommendQuery(r *http.Request) (services.RecommendQuery, error) {
	v := r.URL.Query()
	q := services.RecommendQuery{
		City:     strings.TrimSpace(v.Get("city")),
		TripType: strings.TrimSpace(v.Get("trip_type")),
	}
	if q.City == "" {
		return q, fmt.Errorf("city is required")
	}
	if raw := strings.TrimSpace(v.Get("budget")); raw != "" {
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil || b < 0 {
			return q, fmt.Errorf("budget must be a non-negative number")
		}
		q.Budget = b
	}
	return q, nil
}

func toPlaceResponse(p *domain.Place) dto.PlaceResponse {
	res := dto.PlaceResponse{
		Name:         p.Name,
		Category:     p.Category,
		City:         p.City,
		VisitMinutes: p.Visit(),
		Rating:       p.Rating,
		RatingCount:  p.RatingCount,
		AvgCost:      p.AvgCost,
	}
	for _, w := range p.OpenWindows() {
		res.Hours = append(res.Hours, formatWindow(w))
	}
	return res
}

func formatWindow(w domain.TimeWindow) string {
	hm := func(m int) string {
		if m != domain.MinutesPerDay {
			m %= domain.MinutesPerDay
		}
		return fmt.Sprintf("%02d:%02d", m/60, m%60)
	}
	return hm(w.Open) + "-" + hm(w.Close)
}
