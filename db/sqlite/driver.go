package sqlite

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a GORM *DB backed by a SQLite file.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, configure(db)
}

var memSeq uint64

// OpenMemory creates a fresh in-memory database. Each call gets its own named
// store so parallel callers (tests in particular) never share state; the
// single pooled connection keeps the store alive.
func OpenMemory() (*gorm.DB, error) {
	name := fmt.Sprintf("file:mem%d?mode=memory&cache=shared", atomic.AddUint64(&memSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, configure(db)
}

// configure serializes writers: SQLite allows one writer at a time, and a
// busy_timeout turns lock contention into a wait instead of SQLITE_BUSY.
func configure(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	return db.Exec("PRAGMA busy_timeout = 5000").Error
}
