package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/Daskott/soilsense/server/logger"
	"github.com/Daskott/soilsense/utils"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "soilsense.db"

var logg = logger.NewLogger()

// OpenDB opens (or creates) the encrypted sqlite db in '<dbRootDir>/db' & migrates its schema
func OpenDB(passPhrase string, dbRootDir string) (*gorm.DB, error) {
	dbFilePath, err := DbFilePath(dbRootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
	}

	db, err := gorm.Open(sqliteEncrypt.Open(dbDSN(passPhrase, dbFilePath)), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	if err = db.AutoMigrate(&Contact{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	logg.Infof("Using sqlite db at %v", dbFilePath)
	return db, nil
}

// CloseDB closes the connection pool backing 'db'
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// DbFilePath returns the path of the sqlite file, creating its directory if needed
func DbFilePath(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func dbDSN(passPhrase string, dbFilePath string) string {
	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbFilePath,
		passPhrase,
	)
}
