package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stafflow.com/stafflow/model"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := NewDatabase(gdb)
	require.NoError(t, db.Migrate())
	return db
}

func createTestUser(t *testing.T, db *Database, code, tag string) *model.User {
	t.Helper()

	user := &model.User{
		EmployeeCode: code,
		FirstName:    "Test",
		LastName:     code,
		Email:        code + "@stafflow.local",
		PasswordHash: "x",
		Role:         model.RoleEmployee,
		Status:       model.UserActive,
		DeviceTag:    tag,
	}
	require.NoError(t, db.DB(context.Background()).Create(user).Error)
	return user
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
