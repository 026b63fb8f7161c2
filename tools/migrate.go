package main

import (
	"fmt"
	"os"
	"strings"

	"smart-delivery/config"
	"smart-delivery/database"
	"smart-delivery/database/seeders"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate     - Create or update tables and indexes")
		fmt.Println("  go run tools/migrate.go status      - Report tables and columns the database is missing")
		fmt.Println("  go run tools/migrate.go seed-admin  - Create the admin account from ADMIN_USERNAME/ADMIN_PASSWORD")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		if _, err := database.InitDB(); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "status":
		db, err := gorm.Open(postgres.Open(database.DSN()), database.Config())
		if err != nil {
			fmt.Printf("❌ Database unavailable: %v\n", err)
			os.Exit(1)
		}
		drifts, err := database.DetectDrift(db)
		if err != nil {
			fmt.Printf("❌ Schema check failed: %v\n", err)
			os.Exit(1)
		}
		if len(drifts) == 0 {
			fmt.Println("✅ Schema is up to date")
			return
		}
		for _, d := range drifts {
			if d.TableMissing {
				fmt.Printf("➕ table %s is missing\n", d.Table)
				continue
			}
			fmt.Printf("➕ table %s is missing columns: %s\n", d.Table, strings.Join(d.MissingColumns, ", "))
		}
		fmt.Println("Run 'migrate' to apply.")

	case "seed-admin":
		db, err := database.InitDB()
		if err != nil {
			fmt.Printf("❌ Database unavailable: %v\n", err)
			os.Exit(1)
		}
		if err := seeders.SeedAdmin(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			fmt.Printf("❌ Seeding failed: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, status, seed-admin")
	}
}
