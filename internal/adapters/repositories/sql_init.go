package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itinerary-service/internal/domain"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		name TEXT PRIMARY KEY,
		category TEXT NOT NULL DEFAULT '',
		visit_minutes INTEGER NOT NULL DEFAULT 0,
		city TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		rating_count INTEGER NOT NULL DEFAULT 0,
		avg_cost DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createWindowsQuery := `
	CREATE TABLE IF NOT EXISTS place_windows (
		place_name TEXT NOT NULL REFERENCES places(name) ON DELETE CASCADE,
		open_minute INTEGER NOT NULL,
		close_minute INTEGER NOT NULL,
		PRIMARY KEY (place_name, open_minute, close_minute)
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_places_city
	ON places(lower(city));
	`

	statements := []string{
		createPlacesQuery,
		createWindowsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with places from a YAML or JSON seed file.
func SeedFromFile(ctx context.Context, db *sql.DB, path string) error {
	places, err := LoadSeedFile(path)
	if err != nil {
		return fmt.Errorf("seed places: %w", err)
	}
	return SeedPlaces(ctx, db, places)
}

// Upsert places and replace their opening windows.
func SeedPlaces(ctx context.Context, db *sql.DB, places []*domain.Place) error {
	if db == nil {
		return errors.New("seed places: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertPlace, err := tx.PrepareContext(ctx, `
	INSERT INTO places (name, category, visit_minutes, city, rating, rating_count, avg_cost)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (name) DO UPDATE
	SET category = EXCLUDED.category,
		visit_minutes = EXCLUDED.visit_minutes,
		city = EXCLUDED.city,
		rating = EXCLUDED.rating,
		rating_count = EXCLUDED.rating_count,
		avg_cost = EXCLUDED.avg_cost;
	`)
	if err != nil {
		return fmt.Errorf("seed places: prepare place upsert: %w", err)
	}
	defer upsertPlace.Close()

	insertWindow, err := tx.PrepareContext(ctx, `
	INSERT INTO place_windows (place_name, open_minute, close_minute)
	VALUES ($1, $2, $3)
	ON CONFLICT DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed places: prepare window insert: %w", err)
	}
	defer insertWindow.Close()

	for _, p := range places {
		if _, err := upsertPlace.ExecContext(ctx,
			p.Name, p.Category, p.VisitMinutes, p.City, p.Rating, p.RatingCount, p.AvgCost,
		); err != nil {
			return fmt.Errorf("seed places: upsert %q: %w", p.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM place_windows WHERE place_name = $1;`, p.Name); err != nil {
			return fmt.Errorf("seed places: clear windows of %q: %w", p.Name, err)
		}

		for _, w := range p.Windows {
			if _, err := insertWindow.ExecContext(ctx, p.Name, w.Open, w.Close); err != nil {
				return fmt.Errorf("seed places: insert window of %q: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}
