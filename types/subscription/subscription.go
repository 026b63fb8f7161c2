package subscription

import "smart-delivery/types"

// RenewRequest starts a fresh cycle of Days days.
type RenewRequest struct {
	Days int `json:"days" validate:"required"`
}

func (r *RenewRequest) Validate() error {
	if r.Days < 1 {
		return types.Validation("days must be at least 1")
	}
	return nil
}

// BulkRenewRequest renews several customers with the same cycle length.
type BulkRenewRequest struct {
	CustomerIDs []uint `json:"customer_ids" validate:"required"`
	Days        int    `json:"days" validate:"required"`
}

func (r *BulkRenewRequest) Validate() error {
	if len(r.CustomerIDs) == 0 {
		return types.Validation("customer_ids must not be empty")
	}
	if r.Days < 1 {
		return types.Validation("days must be at least 1")
	}
	return nil
}
