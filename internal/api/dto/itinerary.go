package dto

// Stop times are minutes from midnight and may exceed 1440 on the next day.
type Stop struct {
	Place     string `json:"place"`
	Arrival   int    `json:"arrival"`
	Wait      int    `json:"wait"`
	Departure int    `json:"departure"`
	Pinned    bool   `json:"pinned,omitempty"`
	ArriveAt  string `json:"arrive_at,omitempty"`
	DepartAt  string `json:"depart_at,omitempty"`
}

type RecommendRequest struct {
	City     string  `json:"city"`
	TripType string  `json:"trip_type"`
	Budget   float64 `json:"budget"`
}

// BuildItineraryRequest plans a new itinerary. When Places is empty the
// candidates come from Recommend.
type BuildItineraryRequest struct {
	Base      string            `json:"base"`
	Places    []string          `json:"places"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	ExactSeed bool              `json:"exact_seed"`
	Recommend *RecommendRequest `json:"recommend"`
}

type InsertStopRequest struct {
	Stops     []Stop `json:"stops"`
	Place     string `json:"place"`
	Arrival   int    `json:"arrival"`
	Departure int    `json:"departure"`
	After     int    `json:"after"`
	Before    int    `json:"before"`
}

// TrimRequest shrinks a schedule to its deadline. StartTime defaults to the
// departure of the first stop.
type TrimRequest struct {
	Stops     []Stop   `json:"stops"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Protected []string `json:"protected"`
}

type TripSummary struct {
	Candidates  int `json:"candidates"`
	Visited     int `json:"visited"`
	Skipped     int `json:"skipped"`
	TotalWait   int `json:"total_wait"`
	EarlyFinish int `json:"early_finish"`
}

type ItineraryResponse struct {
	Outcome       string       `json:"outcome"`
	Error         string       `json:"error,omitempty"`
	Warning       bool         `json:"warning,omitempty"`
	Route         []string     `json:"route"`
	Stops         []Stop       `json:"stops"`
	TotalWait     int          `json:"total_wait"`
	EarlySlack    int          `json:"early_slack"`
	ReturnArrival int          `json:"return_arrival,omitempty"`
	Late          bool         `json:"late,omitempty"`
	Dropped       []string     `json:"dropped,omitempty"`
	Removed       []string     `json:"removed,omitempty"`
	Seed          []string     `json:"seed,omitempty"`
	Summary       *TripSummary `json:"summary,omitempty"`
	Itinerary     []string     `json:"itinerary"`
}
