package models

import (
	"os"

	"gorm.io/gorm"
)

// InitializeTestDb creates a fresh db in a temp directory, for use in tests only
func InitializeTestDb() *gorm.DB {
	dir, err := os.MkdirTemp("", "soilsense-test-")
	if err != nil {
		logg.Panic(err)
	}

	db, err := OpenDB("test-passphrase", dir)
	if err != nil {
		logg.Panic(err)
	}

	return db
}
