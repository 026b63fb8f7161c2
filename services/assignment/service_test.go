package assignment

import (
	"context"
	"testing"

	"smart-delivery/database/testdb"
	assignmentModel "smart-delivery/models/assignment"
	"smart-delivery/models/delivery"
	"smart-delivery/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsDuplicateCustomerDate(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()

	day := testdb.Date(2024, 1, 5)
	c := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	d1 := testdb.Driver(t, db, "Ravi")
	d2 := testdb.Driver(t, db, "Mina")

	first, err := svc.Create(ctx, day, c.ID, d1.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, day, first.AssignDate)

	_, err = svc.Create(ctx, day, c.ID, d2.ID, nil)
	assert.ErrorIs(t, err, types.ErrDuplicateAssignment)
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	var stored []assignmentModel.Assignment
	require.NoError(t, db.Where("customer_id = ?", c.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, d1.ID, stored[0].DriverID)

	var deliveries int64
	require.NoError(t, db.Model(&delivery.Delivery{}).Count(&deliveries).Error)
	assert.Zero(t, deliveries)

	// another date is fine
	_, err = svc.Create(ctx, day.AddDate(0, 0, 1), c.ID, d2.ID, nil)
	assert.NoError(t, err)
}

func TestCreateRequiresCustomerAndDriver(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()
	day := testdb.Date(2024, 1, 5)

	c := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	d := testdb.Driver(t, db, "Ravi")

	_, err := svc.Create(ctx, day, 999, d.ID, nil)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	_, err = svc.Create(ctx, day, c.ID, 999, nil)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestBulkCreate(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	day := testdb.Date(2024, 1, 5)

	c1 := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	c2 := testdb.Customer(t, db, "Bala", testdb.Date(2024, 1, 1))
	d := testdb.Driver(t, db, "Ravi")
	testdb.Assignment(t, db, c2, d, day)

	result := svc.BulkCreate(context.Background(), day, []uint{c1.ID, c2.ID}, d.ID, nil)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, types.KindConflict, result.Results[1].Kind)
}

func TestListForDateIsOrderedAndRestartable(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()
	day := testdb.Date(2024, 1, 5)

	zed := testdb.Customer(t, db, "Zed", testdb.Date(2024, 1, 1))
	amy := testdb.Customer(t, db, "Amy", testdb.Date(2024, 1, 1))
	other := testdb.Customer(t, db, "Other day", testdb.Date(2024, 1, 1))
	d := testdb.Driver(t, db, "Ravi")
	testdb.Assignment(t, db, zed, d, day)
	testdb.Assignment(t, db, amy, d, day)
	testdb.Assignment(t, db, other, d, day.AddDate(0, 0, 1))

	seq := svc.ListForDate(ctx, day)

	var names []string
	for v, err := range seq {
		require.NoError(t, err)
		names = append(names, v.CustomerName)
		assert.Equal(t, "Ravi", v.DriverName)
		assert.Equal(t, day, v.AssignDate)
	}
	assert.Equal(t, []string{"Amy", "Zed"}, names)

	// a second pass re-queries and sees new rows
	late := testdb.Customer(t, db, "Mid", testdb.Date(2024, 1, 1))
	testdb.Assignment(t, db, late, d, day)

	names = nil
	for v, err := range seq {
		require.NoError(t, err)
		names = append(names, v.CustomerName)
	}
	assert.Equal(t, []string{"Amy", "Mid", "Zed"}, names)

	// stopping early releases the rows
	for range seq {
		break
	}
	views, err := svc.CollectForDate(ctx, day)
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestListForDriverOnDate(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	day := testdb.Date(2024, 1, 5)

	c1 := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	c2 := testdb.Customer(t, db, "Bala", testdb.Date(2024, 1, 1))
	c3 := testdb.Customer(t, db, "Chen", testdb.Date(2024, 1, 1))
	ravi := testdb.Driver(t, db, "Ravi")
	mina := testdb.Driver(t, db, "Mina")

	a1 := testdb.Assignment(t, db, c1, ravi, day)
	testdb.Assignment(t, db, c2, ravi, day)
	testdb.Assignment(t, db, c3, mina, day)

	require.NoError(t, db.Create(&delivery.Delivery{
		AssignmentID: a1.ID,
		DeliveryDate: day,
		CustomerID:   c1.ID,
		DriverID:     ravi.ID,
		Status:       delivery.StatusMissed,
	}).Error)

	rows, err := svc.ListForDriverOnDate(context.Background(), day, ravi.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0].CustomerName)
	assert.Equal(t, "missed", rows[0].Status)
	assert.Equal(t, NotMarked, rows[1].Status)

	rows, err = svc.ListForDriverOnDate(context.Background(), day.AddDate(0, 0, 1), ravi.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRemoveKeepsDeliveryHistory(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()
	day := testdb.Date(2024, 1, 5)

	c := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	d := testdb.Driver(t, db, "Ravi")
	a := testdb.Assignment(t, db, c, d, day)
	require.NoError(t, db.Create(&delivery.Delivery{
		AssignmentID: a.ID,
		DeliveryDate: day,
		CustomerID:   c.ID,
		DriverID:     d.ID,
		Status:       delivery.StatusDelivered,
	}).Error)

	require.NoError(t, svc.Remove(ctx, a.ID))

	_, err := svc.Get(ctx, a.ID)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	var kept int64
	require.NoError(t, db.Model(&delivery.Delivery{}).Where("assignment_id = ?", a.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)

	assert.Equal(t, types.KindNotFound, types.KindOf(svc.Remove(ctx, a.ID)))
}

func TestFindForCustomerOnDate(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAssignmentService(db)
	day := testdb.Date(2024, 1, 5)
	c := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	d := testdb.Driver(t, db, "Ravi")
	a := testdb.Assignment(t, db, c, d, day)

	found, err := svc.FindForCustomerOnDate(context.Background(), c.ID, day)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = svc.FindForCustomerOnDate(context.Background(), c.ID, day.AddDate(0, 0, 1))
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}
