package customer

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a subscriber receiving periodic deliveries.
type Customer struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName string `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`
	Address  string `gorm:"type:text" json:"address"`
	Location string `gorm:"type:varchar(255);index" json:"location"`
	Plan     Plan   `gorm:"type:varchar(64);not null" json:"plan"`

	SubscriptionStart time.Time `gorm:"type:date;not null" json:"subscription_start"`
	SubscriptionDays  int       `gorm:"not null;default:30" json:"subscription_days"`
	Owed              int       `gorm:"not null;default:0" json:"owed"`
	// SubscriptionEnd is written by BeforeSave and never set directly.
	SubscriptionEnd time.Time `gorm:"type:date;not null" json:"subscription_end"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EndDate computes the last active day of a subscription window.
func EndDate(start time.Time, days, owed int) time.Time {
	y, m, d := start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days+owed)
}

// ComputedEnd returns start + days + owed for this customer.
func (c *Customer) ComputedEnd() time.Time {
	return EndDate(c.SubscriptionStart, c.SubscriptionDays, c.Owed)
}

// BeforeSave keeps subscription_end a pure function of start, days and owed.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if c.Owed < 0 {
		c.Owed = 0
	}
	y, m, d := c.SubscriptionStart.Date()
	c.SubscriptionStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	c.SubscriptionEnd = c.ComputedEnd()
	return nil
}
