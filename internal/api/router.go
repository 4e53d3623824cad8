package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"itinerary-service/internal/api/handlers"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(repo ports.PlaceRepository, planner *services.Planner, defaultBase string) http.Handler {
	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{Repo: repo}
	itineraryHandler := &handlers.ItineraryHandler{
		Planner:     planner,
		DefaultBase: defaultBase,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/places", placeHandler.List)
	mux.HandleFunc("/recommendations", placeHandler.Recommend)
	mux.HandleFunc("/itineraries", itineraryHandler.Build)
	mux.HandleFunc("/itineraries/stops", itineraryHandler.Insert)
	mux.HandleFunc("/itineraries/trim", itineraryHandler.Trim)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
