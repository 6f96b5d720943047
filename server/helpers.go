package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Daskott/soilsense/utils"
	"github.com/go-co-op/gocron"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	if payLoad.Errors == nil {
		payLoad.Errors = []string{}
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Info(listeningMessage(server.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

// listeningMessage reports the listen address, e.g. ":3000" reads as "port 3000"
func listeningMessage(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("Soilsense server is listening on %v", addr)
	}

	if host == "" {
		return fmt.Sprintf("Soilsense server is listening on port %v", port)
	}

	return fmt.Sprintf("Soilsense server is listening on %v port %v", host, port)
}

func cleanup(cronScheduler *gocron.Scheduler, server *http.Server, app *App) {
	// Stop all jobs i.e. moisture checks & backups
	cronScheduler.Stop()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Errorf("Soilsense server shutdown failed:%+s", err)
	}

	if err := app.backupSqliteDb(ctxShutDown); err != nil {
		logg.Errorf("Final sqlite backup failed: %v", err)
	}

	if err := app.Close(); err != nil {
		logg.Error(err)
	}

	logg.Infof("Soilsense server stopped properly")
}

// ConfigDirectory retrieves the directory to store soilsense data
// Or logs an error message and then calls os.Exit if it's unable to.
func ConfigDirectory(devMode bool) string {
	// Use 'soilsense' folder in home directory for prod
	configFolderName := "soilsense"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
