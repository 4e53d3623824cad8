package dto

type PlaceResponse struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	City         string   `json:"city,omitempty"`
	VisitMinutes int      `json:"visit_minutes"`
	Rating       float64  `json:"rating,omitempty"`
	RatingCount  int      `json:"rating_count,omitempty"`
	AvgCost      float64  `json:"avg_cost_per_person,omitempty"`
	Hours        []string `json:"hours"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

type RecommendationResponse struct {
	Place PlaceResponse `json:"place"`
	Score float64       `json:"score"`
}

type ListRecommendationsResponse struct {
	City            string                   `json:"city"`
	TripType        string                   `json:"trip_type"`
	Budget          float64                  `json:"budget"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}
