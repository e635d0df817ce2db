// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iliyamo/catalog-api/internal/database"
)

// NewDB opens a private in-memory SQLite database with foreign keys enforced
// and the schema migrated.  A single connection is kept open so the memory
// database lives as long as the test; callers must not issue queries on the
// root handle while a transaction is in flight.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// FailInsertsInto makes every gorm create against table fail with err until
// the returned function is called.
func FailInsertsInto(t *testing.T, db *gorm.DB, table string, err error) (restore func()) {
	t.Helper()

	name := "testutil:fail_" + table
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}))
	return func() { _ = db.Callback().Create().Remove(name) }
}
