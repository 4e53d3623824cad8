package services

import (
	"context"

	"go.uber.org/zap"

	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// DefaultTravelMinutes is used for any pair the provider cannot answer.
const DefaultTravelMinutes = 15

type travelKey struct {
	from string
	to   string
}

// TravelTimeCache memoizes travel minutes for one top-level operation.
// Each ordered pair is fetched at most once; failed lookups store the default.
// Not safe for concurrent use.
type TravelTimeCache struct {
	provider  ports.DistanceProvider
	minutes   map[travelKey]int
	fallbacks int
}

func NewTravelTimeCache(provider ports.DistanceProvider) *TravelTimeCache {
	return &TravelTimeCache{
		provider: provider,
		minutes:  make(map[travelKey]int),
	}
}

// Fresh returns an empty cache backed by the same provider.
func (c *TravelTimeCache) Fresh() *TravelTimeCache {
	return NewTravelTimeCache(c.provider)
}

// Minutes returns the travel time from one place to another in whole minutes.
func (c *TravelTimeCache) Minutes(ctx context.Context, from, to string) int {
	if from == to {
		return 0
	}

	key := travelKey{from: from, to: to}
	if m, ok := c.minutes[key]; ok {
		obs.TravelLookups.WithLabelValues("hit").Inc()
		return m
	}

	m, err := c.fetch(ctx, from, to)
	if err != nil {
		c.fallbacks++
		obs.TravelLookups.WithLabelValues("fallback").Inc()
		obs.L().Warn("travel time lookup failed, using default",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("from", from),
			zap.String("to", to),
			zap.Int("default_min", DefaultTravelMinutes),
			zap.Error(err),
		)
		m = DefaultTravelMinutes
	} else {
		obs.TravelLookups.WithLabelValues("fetched").Inc()
	}

	c.minutes[key] = m
	return m
}

func (c *TravelTimeCache) fetch(ctx context.Context, from, to string) (int, error) {
	if c.provider == nil {
		return 0, ErrNoProvider
	}

	r, err := c.provider.GetDistance(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return r.Minutes(), nil
}

// Fallbacks is the number of lookups that used DefaultTravelMinutes.
func (c *TravelTimeCache) Fallbacks() int { return c.fallbacks }

// Len is the number of cached pairs.
func (c *TravelTimeCache) Len() int { return len(c.minutes) }
