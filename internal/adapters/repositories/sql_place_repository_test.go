//go:build postgres_integration

package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/ports"
)

func TestSQLPlaceRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, conn))

	places := []*domain.Place{
		{Name: "it-Museum", Category: "Culture", VisitMinutes: 100, Windows: []domain.TimeWindow{{Open: 540, Close: 1020}}},
		{Name: "it-Market", Category: "Food", Windows: []domain.TimeWindow{{Open: 1200, Close: 1560}, {Open: 480, Close: 660}}},
	}
	require.NoError(t, SeedPlaces(ctx, conn, places))
	// Seeding twice replaces windows instead of duplicating them.
	require.NoError(t, SeedPlaces(ctx, conn, places))

	got, err := NewSQLPlaceRepository(conn).ListPlaces(ctx)
	require.NoError(t, err)

	byName := map[string]*domain.Place{}
	for _, p := range got {
		byName[p.Name] = p
	}
	require.Equal(t, []domain.TimeWindow{{Open: 480, Close: 660}, {Open: 1200, Close: 1560}}, byName["it-Market"].Windows)
	require.Equal(t, 100, byName["it-Museum"].VisitMinutes)

	c := cache.NewSQLDistanceCache(conn)
	require.NoError(t, c.PutMany(ctx, "it-Hotel", map[string]ports.DistanceResult{"it-Museum": {DistanceMeters: 8000, DurationSeconds: 1200}}))
	hits, err := c.GetMany(ctx, "it-Hotel", []string{"it-Museum", "it-Nowhere"})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.DistanceResult{"it-Museum": {DistanceMeters: 8000, DurationSeconds: 1200}}, hits)
}
