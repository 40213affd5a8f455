package types

import "time"

// LogEntry is the in-flight form of a request audit record, pushed through
// the async logger channel before being persisted.
type LogEntry struct {
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	CreatedAt    time.Time
}
