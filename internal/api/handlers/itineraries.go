package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/services"
)

// ItineraryHandler exposes the planner operations. Schedules travel back and
// forth as stop lists so clients can insert or trim a previously built plan.
type ItineraryHandler struct {
	Planner     *services.Planner
	DefaultBase string
}

func (h *ItineraryHandler) Build(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.BuildItineraryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	base := strings.TrimSpace(req.Base)
	if base == "" {
		base = h.DefaultBase
	}
	start, err := domain.ParseClock(req.StartTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("start_time: %v", err))
		return
	}
	end, err := domain.ParseClock(req.EndTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("end_time: %v", err))
		return
	}

	candidates, err := h.candidates(r, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		obs.L().Error("build itinerary candidates", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load places")
		return
	}

	res := h.Planner.BuildItinerary(r.Context(), services.BuildRequest{
		Base:       base,
		Candidates: candidates,
		Start:      start,
		End:        end,
		ExactSeed:  req.ExactSeed,
	})

	out := fromMaterialized(res.Outcome, res.Err, res.Materialized)
	out.Seed = res.Seed
	if res.Outcome.Succeeded() {
		out.Summary = &dto.TripSummary{
			Candidates:  res.Summary.Candidates,
			Visited:     res.Summary.Visited,
			Skipped:     res.Summary.Skipped,
			TotalWait:   res.Summary.TotalWait,
			EarlyFinish: res.Summary.EarlyFinish,
		}
	}
	writeJSON(w, r, statusFor(res.Outcome), out)
}

// candidates returns the requested places, or the recommendations for the
// requested city when no places were named.
func (h *ItineraryHandler) candidates(r *http.Request, req dto.BuildItineraryRequest) ([]string, error) {
	if len(req.Places) > 0 || req.Recommend == nil {
		return req.Places, nil
	}
	if strings.TrimSpace(req.Recommend.City) == "" {
		return nil, fmt.Errorf("%w: recommend.city is required", services.ErrInvalidInput)
	}

	table, err := h.Planner.Places(r.Context())
	if err != nil {
		return nil, err
	}
	places := make([]*domain.Place, 0, len(table))
	for _, name := range table.Names() {
		p, _ := table.Lookup(name)
		places = append(places, p)
	}

	scored := services.RecommendPlaces(places, services.RecommendQuery{
		City:     req.Recommend.City,
		TripType: req.Recommend.TripType,
		Budget:   req.Recommend.Budget,
	})
	names := make([]string, 0, len(scored))
	for _, s := range scored {
		names = append(names, s.Place.Name)
	}
	return names, nil
}

func (h *ItineraryHandler) Insert(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.InsertStopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := h.Planner.InsertStop(r.Context(), services.InsertRequest{
		Schedule: toSchedule(req.Stops),
		Stop: domain.Stop{
			Place:     strings.TrimSpace(req.Place),
			Arrival:   req.Arrival,
			Departure: req.Departure,
		},
		After:  req.After,
		Before: req.Before,
	})

	out := dto.ItineraryResponse{
		Outcome:       res.Outcome.String(),
		Warning:       res.Warning,
		Route:         res.Schedule.Route(),
		Stops:         fromSchedule(res.Schedule),
		TotalWait:     res.Schedule.TotalWait(),
		ReturnArrival: res.Schedule.FinalArrival(),
		Itinerary:     res.Itinerary,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	if out.Itinerary == nil {
		out.Itinerary = []string{}
	}
	writeJSON(w, r, statusFor(res.Outcome), out)
}

func (h *ItineraryHandler) Trim(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.TrimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s := toSchedule(req.Stops)
	start := s.Start()
	if strings.TrimSpace(req.StartTime) != "" {
		v, err := domain.ParseClock(req.StartTime)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("start_time: %v", err))
			return
		}
		start = v
	}
	end, err := domain.ParseClock(req.EndTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("end_time: %v", err))
		return
	}

	res := h.Planner.TrimToDeadline(r.Context(), services.TrimRequest{
		Schedule:  s,
		Start:     start,
		End:       end,
		Protected: req.Protected,
	})

	out := fromMaterialized(res.Outcome, res.Err, res.Materialized)
	out.Removed = res.Removed
	writeJSON(w, r, statusFor(res.Outcome), out)
}

func statusFor(o services.Outcome) int {
	switch o {
	case services.OutcomeOK, services.OutcomeDegraded:
		return http.StatusOK
	case services.OutcomeInvalidInput:
		return http.StatusBadRequest
	case services.OutcomeInfeasible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fromMaterialized(o services.Outcome, err error, m services.Materialized) dto.ItineraryResponse {
	out := dto.ItineraryResponse{
		Outcome:       o.String(),
		Route:         m.Schedule.Route(),
		Stops:         fromSchedule(m.Schedule),
		TotalWait:     m.TotalWait,
		EarlySlack:    m.EarlySlack,
		ReturnArrival: m.ReturnArrival,
		Late:          m.Late,
		Dropped:       m.Dropped,
		Itinerary:     m.Itinerary,
	}
	if err != nil {
		out.Error = err.Error()
	}
	if out.Route == nil {
		out.Route = []string{}
	}
	if out.Itinerary == nil {
		out.Itinerary = []string{}
	}
	return out
}

func toSchedule(stops []dto.Stop) domain.Schedule {
	s := domain.Schedule{Stops: make([]domain.Stop, 0, len(stops))}
	for _, st := range stops {
		s.Stops = append(s.Stops, domain.Stop{
			Place:     strings.TrimSpace(st.Place),
			Arrival:   st.Arrival,
			Wait:      st.Wait,
			Departure: st.Departure,
			Pinned:    st.Pinned,
		})
	}
	return s
}

func fromSchedule(s domain.Schedule) []dto.Stop {
	out := make([]dto.Stop, 0, s.Len())
	for _, st := range s.Stops {
		out = append(out, dto.Stop{
			Place:     st.Place,
			Arrival:   st.Arrival,
			Wait:      st.Wait,
			Departure: st.Departure,
			Pinned:    st.Pinned,
			ArriveAt:  domain.FormatClock(st.Arrival),
			DepartAt:  domain.FormatClock(st.Departure),
		})
	}
	return out
}
