package assignment

import (
	"time"

	"smart-delivery/types"
	"smart-delivery/utils"
)

// AssignmentRequest assigns one driver to one customer on a date.
type AssignmentRequest struct {
	Date       string `json:"date" validate:"required"`
	CustomerID uint   `json:"customer_id" validate:"required"`
	DriverID   uint   `json:"driver_id" validate:"required"`
}

// Validate checks the ids and returns the parsed date.
func (r *AssignmentRequest) Validate() (time.Time, error) {
	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, types.Validation("%s", err.Error())
	}
	if r.CustomerID == 0 {
		return time.Time{}, types.Validation("customer_id is required")
	}
	if r.DriverID == 0 {
		return time.Time{}, types.Validation("driver_id is required")
	}
	return date, nil
}

// BulkAssignmentRequest assigns one driver to several customers on a date.
type BulkAssignmentRequest struct {
	Date        string `json:"date" validate:"required"`
	CustomerIDs []uint `json:"customer_ids" validate:"required"`
	DriverID    uint   `json:"driver_id" validate:"required"`
}

// Validate checks the ids and returns the parsed date.
func (r *BulkAssignmentRequest) Validate() (time.Time, error) {
	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, types.Validation("%s", err.Error())
	}
	if len(r.CustomerIDs) == 0 {
		return time.Time{}, types.Validation("customer_ids must not be empty")
	}
	if r.DriverID == 0 {
		return time.Time{}, types.Validation("driver_id is required")
	}
	return date, nil
}
