package ledger

import (
	"context"
	"errors"
	"testing"

	"smart-delivery/database"
	"smart-delivery/database/testdb"
	"smart-delivery/models/delivery"
	"smart-delivery/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.Config())
	require.NoError(t, err)

	return NewEngine(db, StrategyExtend), mock
}

func TestRecordStatusTransitionLocksCustomerBeforeReadingStatus(t *testing.T) {
	engine, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "customers" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "owed"}).AddRow(1, "Asha", 0))
	mock.ExpectQuery(`SELECT \* FROM "deliveries"`).
		WillReturnError(errors.New("statement timeout"))
	mock.ExpectRollback()

	_, err := engine.RecordStatusTransition(context.Background(), 1, 7, testdb.Date(2024, 1, 5), delivery.StatusMissed)
	assert.Equal(t, types.KindDependency, types.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
