package types

import "time"

// LogEntry represents a request log entry to be stored in the database
type LogEntry struct {
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	UserID       *uint
	DurationMs   int64
	CreatedAt    time.Time
}
