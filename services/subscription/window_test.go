package subscription

import (
	"testing"

	"smart-delivery/database/testdb"
	"smart-delivery/models/customer"
	"smart-delivery/types"

	"github.com/stretchr/testify/assert"
)

func windowCustomer(owed int) *customer.Customer {
	return &customer.Customer{
		SubscriptionStart: testdb.Date(2024, 1, 1),
		SubscriptionDays:  30,
		Owed:              owed,
	}
}

func TestSubscriptionEnd(t *testing.T) {
	assert.Equal(t, testdb.Date(2024, 2, 2), SubscriptionEnd(testdb.Date(2024, 1, 1), 30, 2))
	assert.Equal(t, testdb.Date(2024, 2, 3), SubscriptionEnd(testdb.Date(2024, 1, 1), 30, 3))
}

func TestActiveBoundaryIsInclusive(t *testing.T) {
	c := windowCustomer(2)
	end := testdb.Date(2024, 2, 2)

	assert.True(t, IsActive(c, end))
	assert.False(t, IsActive(c, end.AddDate(0, 0, 1)))
	assert.True(t, IsActive(c, testdb.Date(2024, 1, 1)))

	assert.Equal(t, StatusActive, Status(c, end))
	assert.Equal(t, StatusExpired, Status(c, end.AddDate(0, 0, 1)))
}

func TestCheckRenewal(t *testing.T) {
	afterEnd := testdb.Date(2024, 3, 1)

	assert.ErrorIs(t, CheckRenewal(windowCustomer(0), testdb.Date(2024, 1, 15)), types.ErrSubscriptionActive)
	assert.ErrorIs(t, CheckRenewal(windowCustomer(2), afterEnd), types.ErrOwedPending)
	assert.NoError(t, CheckRenewal(windowCustomer(0), afterEnd))

	assert.True(t, EligibleForRenewal(windowCustomer(0), afterEnd))
	assert.False(t, EligibleForRenewal(windowCustomer(1), afterEnd))
}
