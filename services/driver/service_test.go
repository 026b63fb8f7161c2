package driver

import (
	"context"
	"testing"

	"smart-delivery/database/testdb"
	"smart-delivery/models/assignment"
	"smart-delivery/models/delivery"
	"smart-delivery/models/user"
	"smart-delivery/services/auth"
	"smart-delivery/types"
	driverTypes "smart-delivery/types/driver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCreatesProvisionalLogin(t *testing.T) {
	db := testdb.Open(t)
	svc := NewDriverService(db, "")

	created, err := svc.Add(context.Background(), driverTypes.DriverRequest{FullName: " Ravi ", Phone: "98765-43210"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", created.Driver.FullName)
	assert.Equal(t, "9876543210", created.Username)
	assert.NotEmpty(t, created.ProvisionalPassword)

	var u user.User
	require.NoError(t, db.Where("username = ?", created.Username).First(&u).Error)
	assert.Equal(t, user.RoleDriver, u.Role)
	assert.True(t, u.MustChangePassword)
	require.NotNil(t, u.DriverID)
	assert.Equal(t, created.Driver.ID, *u.DriverID)

	authSvc := auth.NewAuthService(db, "0123456789abcdef0123", 0)
	_, err = authSvc.Authenticate(context.Background(), created.Username, created.ProvisionalPassword)
	assert.NoError(t, err)
}

func TestAddUsesDefaultPassword(t *testing.T) {
	db := testdb.Open(t)
	svc := NewDriverService(db, "welcome-123")

	created, err := svc.Add(context.Background(), driverTypes.DriverRequest{FullName: "Ravi", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "welcome-123", created.ProvisionalPassword)
}

func TestAddRejectsDuplicatePhone(t *testing.T) {
	db := testdb.Open(t)
	svc := NewDriverService(db, "welcome-123")
	ctx := context.Background()

	_, err := svc.Add(ctx, driverTypes.DriverRequest{FullName: "Ravi", Phone: "9876543210"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, driverTypes.DriverRequest{FullName: "Ravi Two", Phone: "9876543210"})
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	_, err = svc.Add(ctx, driverTypes.DriverRequest{FullName: "Short", Phone: "123"})
	assert.Equal(t, types.KindValidation, types.KindOf(err))

	drivers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drivers, 1)
}

func TestDeleteCascades(t *testing.T) {
	db := testdb.Open(t)
	svc := NewDriverService(db, "welcome-123")
	ctx := context.Background()

	created, err := svc.Add(ctx, driverTypes.DriverRequest{FullName: "Ravi", Phone: "9876543210"})
	require.NoError(t, err)
	d := &created.Driver

	c := testdb.Customer(t, db, "Asha", testdb.Date(2024, 1, 1))
	a := testdb.Assignment(t, db, c, d, testdb.Date(2024, 1, 5))
	require.NoError(t, db.Create(&delivery.Delivery{
		AssignmentID: a.ID, DeliveryDate: a.AssignDate, CustomerID: c.ID, DriverID: d.ID, Status: delivery.StatusDelivered,
	}).Error)

	require.NoError(t, svc.Delete(ctx, d.ID))

	var count int64
	require.NoError(t, db.Model(&assignment.Assignment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&delivery.Delivery{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&user.User{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Get(ctx, d.ID)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	assert.Equal(t, types.KindNotFound, types.KindOf(svc.Delete(ctx, d.ID)))
}
