package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"PrintApp/app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LocalDB manages the client's local SQLite store: printer selections and
// the print-job journal.
type LocalDB struct {
	db     *gorm.DB
	dbPath string
}

var localDB *LocalDB

// Initialize opens (or creates) the local database and runs migrations.
func Initialize(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// CGO-free driver
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to local database: %w", err)
	}

	localDB = &LocalDB{db: db, dbPath: dbPath}

	if err := localDB.runMigrations(); err != nil {
		return fmt.Errorf("failed to run local migrations: %w", err)
	}
	return nil
}

// InitializeInMemory opens a throwaway store, used by tests.
func InitializeInMemory() error {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}
	localDB = &LocalDB{db: db, dbPath: ":memory:"}
	return localDB.runMigrations()
}

// GetDB returns the gorm handle, or nil before Initialize.
func GetDB() *gorm.DB {
	if localDB == nil {
		return nil
	}
	return localDB.db
}

// Close releases the underlying connection.
func Close() error {
	if localDB == nil {
		return nil
	}
	sqlDB, err := localDB.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (l *LocalDB) runMigrations() error {
	return l.db.AutoMigrate(
		&models.PrinterSelection{},
		&models.PrintJob{},
	)
}
