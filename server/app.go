package server

import (
	"context"
	"errors"

	"github.com/Daskott/soilsense/server/alert"
	"github.com/Daskott/soilsense/server/gstorage"
	"github.com/Daskott/soilsense/server/models"
	"github.com/Daskott/soilsense/server/observability"
	"github.com/Daskott/soilsense/server/sensor"
	"github.com/Daskott/soilsense/server/twilio"
	"github.com/Daskott/soilsense/shared"
	"github.com/Daskott/soilsense/utils"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// App holds every collaborator the server & cli commands need
type App struct {
	Config     *shared.ServerConfig
	Contacts   *models.ContactStore
	Workflow   *alert.Workflow
	Registry   *prometheus.Registry
	db         *gorm.DB
	dbFilePath string
	storage    *gstorage.GStorage
}

// NewApp opens the db in 'configDir' (restoring it from google storage first, if enabled)
// & wires the sensor client, twilio client & alert workflow together.
func NewApp(ctx context.Context, config *shared.ServerConfig, configDir string) (*App, error) {
	app := &App{Config: config}

	var err error
	app.dbFilePath, err = models.DbFilePath(configDir)
	if err != nil {
		return nil, err
	}

	if config.Google.Storage.EnableSqliteBackupAndSync {
		app.storage, err = gstorage.NewGStorage(
			ctx,
			config.Google.ApplicationCredentials,
			config.Google.Storage.Bucket,
			config.Google.Storage.Prefix,
		)
		if err != nil {
			return nil, err
		}

		if err = app.restoreSqliteDb(ctx); err != nil {
			return nil, err
		}
	}

	app.db, err = models.OpenDB(config.Sqlite.PassPhrase, configDir)
	if err != nil {
		return nil, err
	}

	app.Contacts, err = models.NewContactStore(app.db)
	if err != nil {
		return nil, err
	}

	app.Registry = prometheus.NewRegistry()
	metrics := observability.NewMetrics(app.Registry)

	app.Workflow = alert.NewWorkflow(
		sensor.NewClient(config.Sensor.URL, config.Sensor.Field, config.Sensor.Timeout),
		app.Contacts,
		twilio.NewClient(config.Twilio),
		config.Soilsense.MoistureThreshold,
		metrics,
		logg,
	)

	return app, nil
}

// Close releases the db & storage client
func (app *App) Close() error {
	var err error
	if app.db != nil {
		err = models.CloseDB(app.db)
	}

	if app.storage != nil {
		if storageErr := app.storage.Close(); storageErr != nil && err == nil {
			err = storageErr
		}
	}

	return err
}

// restoreSqliteDb pulls the db from google storage when there's no local copy
func (app *App) restoreSqliteDb(ctx context.Context) error {
	exists, err := utils.FileExist(app.dbFilePath)
	if err != nil || exists {
		return err
	}

	err = app.storage.DownloadFile(ctx, app.dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Info("No sqlite backup found in google storage, starting with an empty db")
		return nil
	}

	return err
}

// backupSqliteDb flushes the WAL into the db file & uploads it to google storage
func (app *App) backupSqliteDb(ctx context.Context) error {
	if app.storage == nil {
		return nil
	}

	if err := app.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return err
	}

	return app.storage.UploadFile(ctx, app.dbFilePath)
}
