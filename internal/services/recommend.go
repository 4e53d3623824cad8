package services

import (
	"slices"
	"strings"

	"itinerary-service/internal/domain"
)

const (
	recommendPool  = 25
	recommendLimit = 8
)

type RecommendQuery struct {
	City     string
	TripType string
	Budget   float64
}

type ScoredPlace struct {
	Place *domain.Place
	Score float64
}

// ScorePlace is a weighted linear score: rating, affordability, popularity,
// a fixed bonus for food and a larger one for matching the trip type.
func ScorePlace(p *domain.Place, q RecommendQuery) float64 {
	score := p.Rating * 3

	if q.Budget > 0 && p.AvgCost <= q.Budget {
		score += (q.Budget - p.AvgCost) / q.Budget * 10
	}

	score += float64(p.RatingCount) / 1000 * 3

	if p.IsFood() {
		score += 100
	}
	if q.TripType != "" && strings.EqualFold(p.Category, q.TripType) {
		score += 200
	}
	return score
}

// RecommendPlaces ranks the places of a city for a trip.
//
// The best 25 places by score form the pool; up to 8 of them matching the
// trip type are returned. When none match, the 8 best of the pool are
// returned instead. Equal scores are ordered by name.
func RecommendPlaces(places []*domain.Place, q RecommendQuery) []ScoredPlace {
	pool := make([]ScoredPlace, 0, len(places))
	for _, p := range places {
		if p == nil {
			continue
		}
		if q.City != "" && !strings.EqualFold(strings.TrimSpace(p.City), strings.TrimSpace(q.City)) {
			continue
		}
		pool = append(pool, ScoredPlace{Place: p, Score: ScorePlace(p, q)})
	}

	slices.SortFunc(pool, func(a, b ScoredPlace) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Place.Name, b.Place.Name)
	})

	if len(pool) > recommendPool {
		pool = pool[:recommendPool]
	}

	matched := make([]ScoredPlace, 0, recommendLimit)
	for _, sp := range pool {
		if len(matched) == recommendLimit {
			break
		}
		if strings.EqualFold(sp.Place.Category, q.TripType) {
			matched = append(matched, sp)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	if len(pool) > recommendLimit {
		pool = pool[:recommendLimit]
	}
	return pool
}
