package testutil

import (
	"testing"

	"github.com/matchpoint-app/server/cache"
	"github.com/matchpoint-app/server/config"
	dbadapter "github.com/matchpoint-app/server/db"
	"github.com/matchpoint-app/server/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory SQLite database and runs AutoMigrate.
// It requires no external services.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeMemory,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{}) // empty RedisAddr → LocalCache
	require.NoError(t, err, "SetupTestCache: New")
	return c
}

// CreateUser inserts a user row and returns it. Password hash is a fixed
// placeholder; use the auth handlers when real credentials matter.
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		PasswordHash: "x",
		Status:       1,
	}
	require.NoError(t, db.Create(u).Error, "CreateUser: %s", username)
	return u
}
