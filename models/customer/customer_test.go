package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), EndDate(start, 30, 2))
	// one more owed day moves the end by exactly one day
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), EndDate(start, 30, 3))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), EndDate(start, 30, 0))
}

func TestEndDateIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), EndDate(start, 5, 0))
}

func TestBeforeSaveDerivesEnd(t *testing.T) {
	c := &Customer{
		SubscriptionStart: time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC),
		SubscriptionDays:  30,
		Owed:              2,
	}
	require.NoError(t, c.BeforeSave(nil))

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), c.SubscriptionStart)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), c.SubscriptionEnd)

	c.Owed = -4
	require.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, 0, c.Owed)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), c.SubscriptionEnd)
}
