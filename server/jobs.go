package server

import (
	"context"

	"github.com/Daskott/soilsense/server/alert"
	"github.com/Daskott/soilsense/server/cron"
	"github.com/Daskott/soilsense/shared"
	"github.com/go-co-op/gocron"
)

const (
	MOISTURE_CHECK_JOB = "moisture-check"
	SQLITE_BACKUP_JOB  = "sqlite-backup"
)

// MoistureChecker runs a single moisture check
type MoistureChecker interface {
	RunCheck(ctx context.Context) alert.Outcome
}

// registerJobs adds the daily moisture check and, when enabled, the sqlite backup job
func registerJobs(
	cronScheduler *gocron.Scheduler,
	config *shared.ServerConfig,
	checker MoistureChecker,
	backup func(ctx context.Context) error) error {

	_, err := cron.ScheduleDaily(
		cronScheduler,
		MOISTURE_CHECK_JOB,
		config.Soilsense.Cron.DailyCheckAt,
		func() { checker.RunCheck(context.Background()) },
	)
	if err != nil {
		return err
	}

	storageConfig := config.Google.Storage
	if !storageConfig.EnableSqliteBackupAndSync {
		return nil
	}

	_, err = cron.ScheduleCron(cronScheduler, SQLITE_BACKUP_JOB, storageConfig.SqliteBackupSchedule, func() {
		if err := backup(context.Background()); err != nil {
			logg.Errorf("sqlite backup failed: %v", err)
		}
	})

	return err
}

// runStartupCheck kicks off one check in the background if the config asks for it.
// The returned channel receives the outcome, it's nil when no check was started.
func runStartupCheck(config *shared.ServerConfig, checker MoistureChecker) <-chan alert.Outcome {
	if !config.Soilsense.Cron.RunOnStartup {
		return nil
	}

	done := make(chan alert.Outcome, 1)
	go func() {
		done <- checker.RunCheck(context.Background())
	}()

	return done
}
