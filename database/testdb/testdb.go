// Package testdb opens throwaway SQLite databases with the production schema.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"smart-delivery/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var counter atomic.Int64

// Open returns a migrated in-memory database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", counter.Add(1))
	db, err := gorm.Open(sqlite.Open(name), database.Config())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and
	// serialises writers the way a row lock would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
