package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"itinerary-service/internal/adapters/distance"
)

func TestTravelTimeCacheFetchesEachPairOnce(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "Hotel", To: "Museum", Meters: 8000, Seconds: 20*60 + 59},
	})
	cache := NewTravelTimeCache(provider)
	ctx := context.Background()

	require.Equal(t, 20, cache.Minutes(ctx, "Hotel", "Museum"))
	require.Equal(t, 20, cache.Minutes(ctx, "Hotel", "Museum"))
	require.Equal(t, 1, provider.Calls("Hotel", "Museum"))
	require.Equal(t, 0, cache.Fallbacks())
}

func TestTravelTimeCacheSamePlace(t *testing.T) {
	provider := distance.NewMockDistanceProvider(nil)
	cache := NewTravelTimeCache(provider)

	require.Equal(t, 0, cache.Minutes(context.Background(), "Hotel", "Hotel"))
	require.Equal(t, 0, provider.Calls("Hotel", "Hotel"))
	require.Equal(t, 0, cache.Len())
}

func TestTravelTimeCacheFallsBackAndRemembers(t *testing.T) {
	provider := distance.NewMockDistanceProvider(nil)
	cache := NewTravelTimeCache(provider)
	ctx := context.Background()

	require.Equal(t, DefaultTravelMinutes, cache.Minutes(ctx, "Hotel", "Cafe"))
	require.Equal(t, DefaultTravelMinutes, cache.Minutes(ctx, "Hotel", "Cafe"))
	require.Equal(t, 1, provider.Calls("Hotel", "Cafe"))
	require.Equal(t, 1, cache.Fallbacks())

	fresh := cache.Fresh()
	require.Equal(t, 0, fresh.Len())
	require.Equal(t, 0, fresh.Fallbacks())
}

func TestTravelTimeCacheWithoutProvider(t *testing.T) {
	cache := NewTravelTimeCache(nil)
	require.Equal(t, DefaultTravelMinutes, cache.Minutes(context.Background(), "A", "B"))
	require.Equal(t, 1, cache.Fallbacks())
}
