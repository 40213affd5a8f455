package election

import "time"

// Status is the election-status singleton (always row 1). It is created with
// defaults at first initialization and mutated only by start/stop transitions
// and lazy auto-close; it is never deleted.
type Status struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	IsActive   bool       `gorm:"default:false" json:"is_active"`
	StartTime  *time.Time `json:"-"`
	EndTime    *time.Time `json:"-"`
	DurationMs int64      `gorm:"not null" json:"duration_ms"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// Singleton primary key.
const SingletonID = 1

// Duration returns the configured duration.
func (s *Status) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// Deadline returns the instant the active window closes, or false when the
// election has not started.
func (s *Status) Deadline() (time.Time, bool) {
	if s.StartTime == nil {
		return time.Time{}, false
	}
	return s.StartTime.Add(s.Duration()), true
}

// Label returns the display state: "not_started", "active" or "ended".
func (s *Status) Label() string {
	switch {
	case s.IsActive:
		return "active"
	case s.EndTime != nil:
		return "ended"
	default:
		return "not_started"
	}
}
