package database

import (
	"fmt"
	"os"
	"time"

	"smart-delivery/logger"
	"smart-delivery/models/assignment"
	"smart-delivery/models/customer"
	"smart-delivery/models/delivery"
	"smart-delivery/models/driver"
	"smart-delivery/models/log"
	"smart-delivery/models/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Config returns the gorm settings shared by every dialect.
func Config() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// DSN builds the PostgreSQL DSN from environment variables.
func DSN() string {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	if sslmode == "" {
		sslmode = "disable"
	}
	if port == "" {
		port = "5432"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)
}

// InitDB connects to PostgreSQL and brings the schema up to date.
func InitDB() (*gorm.DB, error) {
	var err error
	DB, err = gorm.Open(postgres.Open(DSN()), Config())
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	return DB, nil
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	return createIndexes(db)
}

// migrationStages lists every model in dependency order.
func migrationStages() [][]interface{} {
	return [][]interface{}{
		// Stage 1: Core foundation models
		{&customer.Customer{}, &driver.Driver{}, &user.User{}},
		// Stage 2: Models with dependencies on Stage 1
		{&assignment.Assignment{}},
		// Stage 3: Delivery log and audit
		{&delivery.Delivery{}, &delivery.DeliveryStatusEvent{}, &log.Log{}},
	}
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate(db *gorm.DB) error {
	for _, stage := range migrationStages() {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}
	return nil
}

// createIndexes creates additional indexes for reporting queries
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_customers_owed", "CREATE INDEX IF NOT EXISTS idx_customers_owed ON customers(owed)"},
		{"idx_customers_subscription_end", "CREATE INDEX IF NOT EXISTS idx_customers_subscription_end ON customers(subscription_end)"},
		{"idx_deliveries_status_date", "CREATE INDEX IF NOT EXISTS idx_deliveries_status_date ON deliveries(status, delivery_date)"},
		{"idx_delivery_status_events_created_at", "CREATE INDEX IF NOT EXISTS idx_delivery_status_events_created_at ON delivery_status_events(created_at)"},
		{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// Ping reports whether the database answers.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
