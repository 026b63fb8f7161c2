package customer

import (
	"strings"
	"time"

	customerModel "smart-delivery/models/customer"
	"smart-delivery/types"
	"smart-delivery/utils"
)

// CustomerRequest is the payload for creating or updating a customer.
type CustomerRequest struct {
	FullName          string `json:"full_name" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	Address           string `json:"address"`
	Location          string `json:"location"`
	Plan              string `json:"plan" validate:"required"`
	SubscriptionStart string `json:"subscription_start"`
	SubscriptionDays  int    `json:"subscription_days"`
}

// Fields is a validated CustomerRequest.
type Fields struct {
	FullName          string
	Phone             string
	Address           string
	Location          string
	Plan              customerModel.Plan
	SubscriptionStart time.Time
	SubscriptionDays  int
}

// Validate checks the request and converts it into Fields. A missing start
// defaults to today and a missing length to the plan's default cycle.
func (r *CustomerRequest) Validate(today time.Time) (Fields, error) {
	name := strings.TrimSpace(r.FullName)
	if name == "" {
		return Fields{}, types.Validation("full_name is required")
	}

	phone := utils.SanitizePhone(r.Phone)
	if !utils.IsValidPhone(phone) {
		return Fields{}, types.Validation("phone must be exactly 10 digits")
	}

	plan, err := customerModel.ParsePlan(r.Plan)
	if err != nil {
		return Fields{}, types.Validation("%s", err.Error())
	}

	start, err := utils.ParseDateOr(r.SubscriptionStart, today)
	if err != nil {
		return Fields{}, types.Validation("subscription_start: %s", err.Error())
	}

	days := r.SubscriptionDays
	switch {
	case days < 0:
		return Fields{}, types.Validation("subscription_days must be positive")
	case days == 0:
		days = plan.DefaultCycleDays()
	}

	return Fields{
		FullName:          name,
		Phone:             phone,
		Address:           strings.TrimSpace(r.Address),
		Location:          strings.TrimSpace(r.Location),
		Plan:              plan,
		SubscriptionStart: start,
		SubscriptionDays:  days,
	}, nil
}
