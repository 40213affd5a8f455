package election

// StartRequest optionally overrides the configured election duration.
type StartRequest struct {
	DurationMinutes *int64 `json:"duration_minutes,omitempty"`
}

// StatusResponse is the wire form of the election state. Timestamps are epoch
// milliseconds; the remaining window is floor-divided into hours and minutes.
type StatusResponse struct {
	Status         string `json:"status"`
	IsActive       bool   `json:"is_active"`
	StartTime      *int64 `json:"start_time,omitempty"`
	EndTime        *int64 `json:"end_time,omitempty"`
	DurationMs     int64  `json:"duration_ms"`
	HoursRemaining int64  `json:"hours_remaining"`
	MinsRemaining  int64  `json:"minutes_remaining"`
}
