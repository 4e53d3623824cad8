package repositories

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"itinerary-service/internal/domain"
)

// PlaceSeed is one entry of a place seed file. JSON files are accepted too,
// since JSON is a subset of YAML.
type PlaceSeed struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	VisitMinutes int      `yaml:"visit_minutes"`
	City         string   `yaml:"city"`
	Rating       float64  `yaml:"rating"`
	RatingCount  int      `yaml:"rating_count"`
	AvgCost      float64  `yaml:"avg_cost_per_person"`
	Hours        []string `yaml:"hours"`
}

// LoadSeedFile reads and validates a place seed file.
func LoadSeedFile(path string) ([]*domain.Place, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	places, err := ParseSeed(b)
	if err != nil {
		return nil, fmt.Errorf("load seed %q: %w", path, err)
	}
	return places, nil
}

// ParseSeed decodes seed entries into places. Hours are "HH:MM-HH:MM" ranges;
// a range that closes before it opens crosses midnight.
func ParseSeed(data []byte) ([]*domain.Place, error) {
	var seeds []PlaceSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(seeds))
	places := make([]*domain.Place, 0, len(seeds))
	for i, s := range seeds {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("parse seed: entry %d: name cannot be empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("parse seed: entry %d: duplicate place %q", i+1, name)
		}
		seen[name] = struct{}{}

		if s.VisitMinutes < 0 {
			return nil, fmt.Errorf("parse seed: %q: visit_minutes must be >= 0", name)
		}

		windows := make([]domain.TimeWindow, 0, len(s.Hours))
		for _, h := range s.Hours {
			w, err := parseHours(h)
			if err != nil {
				return nil, fmt.Errorf("parse seed: %q: %w", name, err)
			}
			windows = append(windows, w)
		}

		places = append(places, &domain.Place{
			Name:         name,
			Category:     strings.TrimSpace(s.Category),
			VisitMinutes: s.VisitMinutes,
			Windows:      windows,
			City:         strings.TrimSpace(s.City),
			Rating:       s.Rating,
			RatingCount:  s.RatingCount,
			AvgCost:      s.AvgCost,
		})
	}

	return places, nil
}

func parseHours(s string) (domain.TimeWindow, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return domain.TimeWindow{}, fmt.Errorf("hours %q: expected HH:MM-HH:MM", s)
	}

	o, err := domain.ParseClock(from)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("hours %q: %w", s, err)
	}
	c, err := domain.ParseClock(to)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("hours %q: %w", s, err)
	}

	return domain.NewTimeWindow(o, c), nil
}
