package delivery

import "time"

// Delivery is the recorded outcome of an assignment on a date. Re-marking the
// same date updates the row in place.
//
// CustomerID and DriverID are copied from the assignment so that history
// survives removal of the assignment and can still be cascaded when the
// customer or driver is deleted.
type Delivery struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_deliveries_assignment_date,priority:1" json:"assignment_id"`
	DeliveryDate time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_deliveries_assignment_date,priority:2" json:"delivery_date"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	DriverID     uint      `gorm:"not null;index" json:"driver_id"`

	Status    Status    `gorm:"size:20;not null;default:pending;index" json:"status"`
	MarkedBy  *uint     `gorm:"index" json:"marked_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// KPIs counts deliveries by outcome. Pending covers every status other than
// delivered and missed.
type KPIs struct {
	Delivered int64 `json:"delivered"`
	Missed    int64 `json:"missed"`
	Pending   int64 `json:"pending"`
	Total     int64 `json:"total"`
}

// DriverMissed is the number of missed deliveries of one driver over a range.
type DriverMissed struct {
	DriverID    uint   `json:"driver_id"`
	DriverName  string `json:"driver_name"`
	MissedCount int64  `json:"missed_count"`
}
