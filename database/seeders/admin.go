package seeders

import (
	"log"
	"strings"

	"smart-delivery/models/user"
	"smart-delivery/services/auth"

	"gorm.io/gorm"
)

// SeedAdmin creates the admin account when no user with that name exists. An
// existing account keeps its password.
func SeedAdmin(db *gorm.DB, username, password string) error {
	log.Printf("🔍 Checking admin account...")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		log.Printf("⚠️  ADMIN_USERNAME or ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	var count int64
	if err := db.Model(&user.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("✅ Admin account %q already exists", username)
		return nil
	}

	if _, err := auth.CreateAccountTx(db, username, password, user.RoleAdmin, nil, false); err != nil {
		return err
	}
	log.Printf("✅ Admin account %q created", username)
	return nil
}
