package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", ErrDuplicateAssignment)

	assert.ErrorIs(t, wrapped, ErrDuplicateAssignment)
	assert.NotErrorIs(t, wrapped, ErrSubscriptionActive)
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "customer"))

	err := FromDB(gorm.ErrRecordNotFound, "customer")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, "customer not found")

	err = FromDB(gorm.ErrDuplicatedKey, "driver")
	assert.Equal(t, KindConflict, KindOf(err))

	err = FromDB(errors.New("connection refused"), "deliveries")
	assert.Equal(t, KindDependency, KindOf(err))
	assert.ErrorContains(t, err, "connection refused")

	// already classified errors pass through
	assert.Same(t, ErrOwedPending, FromDB(ErrOwedPending, "customer"))
}

func TestKindOfUnknownError(t *testing.T) {
	assert.Equal(t, KindDependency, KindOf(errors.New("boom")))
}

func TestBulkResult(t *testing.T) {
	var r BulkResult
	r.Add(1, nil)
	r.Add(2, ErrSubscriptionActive)
	r.Add(3, NotFound("customer not found"))

	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 2, r.Failed)
	assert.Len(t, r.Results, 3)
	assert.Equal(t, KindInvalidState, r.Results[1].Kind)
	assert.Equal(t, "customer not found", r.Results[2].Message)
}
