package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
)

// Postgres-backed implementation of the PlaceRepository port.
type SQLPlaceRepository struct{ DB *sql.DB }

func NewSQLPlaceRepository(db *sql.DB) *SQLPlaceRepository {
	return &SQLPlaceRepository{DB: db}
}

// Return all places with their opening windows, ordered by name.
func (s *SQLPlaceRepository) ListPlaces(ctx context.Context) (_ []*domain.Place, err error) {
	defer obs.Time(ctx, "places.ListPlaces")(&err)

	if s.DB == nil {
		return nil, errors.New("sql place repository: DB is nil")
	}

	query := `
	SELECT
		p.name,
		p.category,
		p.visit_minutes,
		p.city,
		p.rating,
		p.rating_count,
		p.avg_cost,
		w.open_minute,
		w.close_minute
	FROM places p
	LEFT JOIN place_windows w ON w.place_name = p.name
	ORDER BY p.name, w.open_minute;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]*domain.Place, 0, 64)
	var current *domain.Place
	for rows.Next() {
		var p domain.Place
		var openMin, closeMin sql.NullInt64
		if err := rows.Scan(
			&p.Name, &p.Category, &p.VisitMinutes, &p.City,
			&p.Rating, &p.RatingCount, &p.AvgCost,
			&openMin, &closeMin,
		); err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}

		if current == nil || current.Name != p.Name {
			current = &p
			places = append(places, current)
		}
		if openMin.Valid && closeMin.Valid {
			current.Windows = append(current.Windows, domain.TimeWindow{Open: int(openMin.Int64), Close: int(closeMin.Int64)})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}
