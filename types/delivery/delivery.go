package delivery

import (
	"strings"
	"time"

	deliveryModel "smart-delivery/models/delivery"
	"smart-delivery/types"
	"smart-delivery/utils"
)

// MarkRequest records the outcome of an assignment on a date.
type MarkRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required"`
	Date         string `json:"date"`
	Status       string `json:"status" validate:"required"`
}

// Validate returns the parsed date, defaulting to today, and status.
func (r *MarkRequest) Validate(today time.Time) (time.Time, deliveryModel.Status, error) {
	if r.AssignmentID == 0 {
		return time.Time{}, "", types.Validation("assignment_id is required")
	}
	date, err := utils.ParseDateOr(r.Date, today)
	if err != nil {
		return time.Time{}, "", types.Validation("%s", err.Error())
	}
	status := deliveryModel.Status(strings.ToLower(strings.TrimSpace(r.Status)))
	if !status.IsMarkable() {
		return time.Time{}, "", types.Validation("status must be delivered or missed")
	}
	return date, status, nil
}

// PauseRequest pauses a customer's delivery on a date.
type PauseRequest struct {
	Date string `json:"date"`
}

// CopyMissedRequest clones missed deliveries from one date to another. The
// new date defaults to the day after the previous one.
type CopyMissedRequest struct {
	PrevDate string `json:"prev_date" validate:"required"`
	NewDate  string `json:"new_date"`
}

// Validate returns the two parsed dates.
func (r *CopyMissedRequest) Validate() (time.Time, time.Time, error) {
	prev, err := utils.ParseDate(r.PrevDate)
	if err != nil {
		return time.Time{}, time.Time{}, types.Validation("prev_date: %s", err.Error())
	}
	next, err := utils.ParseDateOr(r.NewDate, utils.AddDays(prev, 1))
	if err != nil {
		return time.Time{}, time.Time{}, types.Validation("new_date: %s", err.Error())
	}
	return prev, next, nil
}
