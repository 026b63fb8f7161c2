package delivery

import "time"

// DeliveryStatusEvent records every status submission together with its
// effect on the customer's owed counter.
type DeliveryStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	DriverID     uint      `gorm:"not null;index" json:"driver_id"`
	DeliveryDate time.Time `gorm:"type:date;not null" json:"delivery_date"`

	OldStatus *Status `gorm:"size:20" json:"old_status,omitempty"`
	NewStatus Status  `gorm:"size:20;not null" json:"new_status"`
	OwedDelta int     `gorm:"not null;default:0" json:"owed_delta"`
	OwedAfter int     `gorm:"not null;default:0" json:"owed_after"`

	MarkedBy  *uint     `json:"marked_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the DeliveryStatusEvent model
func (DeliveryStatusEvent) TableName() string {
	return "delivery_status_events"
}
