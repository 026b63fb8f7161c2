package driver

import "time"

// Driver delivers to the customers assigned to them on a given date.
type Driver struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string    `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Phone     string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
