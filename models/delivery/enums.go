package delivery

// Status is the outcome recorded for one assignment on one date.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusMissed    Status = "missed"
	StatusPaused    Status = "paused"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusMissed, StatusPaused:
		return true
	default:
		return false
	}
}

// IsMarkable reports whether a driver may submit this status.
func (s Status) IsMarkable() bool {
	return s == StatusDelivered || s == StatusMissed
}

// GetAllStatuses returns all valid delivery statuses
func GetAllStatuses() []Status {
	return []Status{StatusPending, StatusDelivered, StatusMissed, StatusPaused}
}
