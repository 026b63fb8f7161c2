package driver

import (
	"strings"

	"smart-delivery/types"
	"smart-delivery/utils"
)

// DriverRequest is the payload for creating a driver.
type DriverRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// Validate trims the fields and normalises the phone number.
func (r *DriverRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return types.Validation("full_name is required")
	}
	r.Phone = utils.SanitizePhone(r.Phone)
	if !utils.IsValidPhone(r.Phone) {
		return types.Validation("phone must be exactly 10 digits")
	}
	return nil
}
