// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh, migrated database with foreign keys enforced.
// It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with the given privacy and role
func CreateUser(t testing.TB, db *gorm.DB, name string, private bool, role string) *models.User {
	t.Helper()
	if role == "" {
		role = models.RoleUser
	}
	u := &models.User{
		Email:       name + "@clashart.test",
		DisplayName: name,
		IsPrivate:   private,
		Role:        role,
		Level:       1,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
