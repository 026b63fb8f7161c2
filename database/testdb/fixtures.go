package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"smart-delivery/models/assignment"
	"smart-delivery/models/customer"
	"smart-delivery/models/driver"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var phoneSeq atomic.Int64

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func nextPhone() string {
	return fmt.Sprintf("9%09d", phoneSeq.Add(1))
}

// Customer inserts a daily-plan customer starting on start with a 30 day cycle.
func Customer(t testing.TB, db *gorm.DB, name string, start time.Time) *customer.Customer {
	t.Helper()
	c := customer.Customer{
		FullName:          name,
		Phone:             nextPhone(),
		Location:          "North",
		Plan:              customer.Daily(),
		SubscriptionStart: start,
		SubscriptionDays:  30,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return &c
}

// Driver inserts a driver.
func Driver(t testing.TB, db *gorm.DB, name string) *driver.Driver {
	t.Helper()
	d := driver.Driver{FullName: name, Phone: nextPhone()}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("create driver: %v", err)
	}
	return &d
}

// Assignment inserts an assignment of d to c on date.
func Assignment(t testing.TB, db *gorm.DB, c *customer.Customer, d *driver.Driver, date time.Time) *assignment.Assignment {
	t.Helper()
	a := assignment.Assignment{CustomerID: c.ID, DriverID: d.ID, AssignDate: date}
	if err := db.Omit(clause.Associations).Create(&a).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return &a
}

// Reload reads the current state of a customer.
func Reload(t testing.TB, db *gorm.DB, id uint) *customer.Customer {
	t.Helper()
	var c customer.Customer
	if err := db.First(&c, id).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	return &c
}
