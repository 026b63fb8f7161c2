// Package subscription classifies subscription windows and renews them.
//
// The window of a customer is [subscription_start, subscription_end] where
// subscription_end = start + days + owed, so every missed delivery still owed
// pushes the paid-for end out by one day.
package subscription

import (
	"time"

	"smart-delivery/models/customer"
	"smart-delivery/types"
	"smart-delivery/utils"
)

// Status labels used by the overview listing.
const (
	StatusActive  = "Active"
	StatusExpired = "Expired"
)

// SubscriptionEnd is the last active day of a window.
func SubscriptionEnd(start time.Time, days, owed int) time.Time {
	return customer.EndDate(start, days, owed)
}

// IsActive reports whether asOf falls inside the window. The end day itself
// is still active.
func IsActive(c *customer.Customer, asOf time.Time) bool {
	end := SubscriptionEnd(c.SubscriptionStart, c.SubscriptionDays, c.Owed)
	return !utils.Day(asOf).After(end)
}

// Status returns StatusActive or StatusExpired.
func Status(c *customer.Customer, asOf time.Time) string {
	if IsActive(c, asOf) {
		return StatusActive
	}
	return StatusExpired
}

// CheckRenewal explains why a customer may not be renewed, or returns nil.
// Renewal needs an expired window and no owed deliveries.
func CheckRenewal(c *customer.Customer, asOf time.Time) error {
	if IsActive(c, asOf) {
		return types.ErrSubscriptionActive
	}
	if c.Owed > 0 {
		return types.ErrOwedPending
	}
	return nil
}

// EligibleForRenewal reports whether CheckRenewal passes.
func EligibleForRenewal(c *customer.Customer, asOf time.Time) bool {
	return CheckRenewal(c, asOf) == nil
}
