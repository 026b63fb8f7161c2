package assignment

import (
	"time"

	"smart-delivery/models/customer"
	"smart-delivery/models/driver"
)

// Assignment declares that a driver delivers to a customer on a date. At most
// one assignment exists per customer and date.
type Assignment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CustomerID uint              `gorm:"not null;uniqueIndex:idx_assignments_customer_date,priority:1" json:"customer_id"`
	Customer   customer.Customer `gorm:"foreignKey:CustomerID" json:"-"`

	DriverID uint          `gorm:"not null;index" json:"driver_id"`
	Driver   driver.Driver `gorm:"foreignKey:DriverID" json:"-"`

	AssignDate time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_assignments_customer_date,priority:2" json:"assign_date"`
	CreatedBy  *uint     `gorm:"index" json:"created_by,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// View is an assignment joined with the names of its customer and driver.
type View struct {
	AssignmentID uint      `json:"assignment_id"`
	AssignDate   time.Time `json:"assign_date"`
	CustomerID   uint      `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Location     string    `json:"location"`
	DriverID     uint      `json:"driver_id"`
	DriverName   string    `json:"driver_name"`
}
