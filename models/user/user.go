package user

import (
	"time"
)

// Role is the access level of a login account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleDriver
}

// User is a login account. Driver accounts are paired with a driver row and
// use the driver's phone as username.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username     string `gorm:"type:varchar(255);not null;unique" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	// DriverID links a driver account to its driver row.
	DriverID *uint `gorm:"uniqueIndex" json:"driver_id,omitempty"`

	// MustChangePassword is set for accounts created with a provisional
	// password; such accounts may only change their password.
	MustChangePassword bool       `gorm:"type:bool;default:false" json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Identity is what authentication yields to the presentation layer.
type Identity struct {
	UserID             uint   `json:"user_id"`
	Uuid               string `json:"uuid"`
	Username           string `json:"username"`
	Role               Role   `json:"role"`
	DriverID           *uint  `json:"driver_id,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
}

// Identity returns the authenticated view of the account.
func (u *User) Identity() Identity {
	return Identity{
		UserID:             u.ID,
		Uuid:               u.Uuid,
		Username:           u.Username,
		Role:               u.Role,
		DriverID:           u.DriverID,
		MustChangePassword: u.MustChangePassword,
	}
}
