package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOwedChangeSplitsDirections(t *testing.T) {
	up := testutil.ToFloat64(owedChanges.WithLabelValues("increase"))
	down := testutil.ToFloat64(owedChanges.WithLabelValues("decrease"))

	ObserveOwedChange(2)
	ObserveOwedChange(-1)
	ObserveOwedChange(0)

	assert.Equal(t, up+2, testutil.ToFloat64(owedChanges.WithLabelValues("increase")))
	assert.Equal(t, down+1, testutil.ToFloat64(owedChanges.WithLabelValues("decrease")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(assignmentConflicts)
	ObserveAssignmentConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(assignmentConflicts))

	marks := testutil.ToFloat64(statusMarks.WithLabelValues("missed"))
	ObserveStatusMark("missed")
	assert.Equal(t, marks+1, testutil.ToFloat64(statusMarks.WithLabelValues("missed")))

	renewed := testutil.ToFloat64(renewals.WithLabelValues("renewed"))
	ObserveRenewal("renewed")
	assert.Equal(t, renewed+1, testutil.ToFloat64(renewals.WithLabelValues("renewed")))
}
