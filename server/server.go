package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daskott/soilsense/server/cron"
	"github.com/Daskott/soilsense/server/logger"
	"github.com/Daskott/soilsense/shared"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

var logg = logger.NewLogger()

// Start loads & validates the server config, then serves the http api & runs the
// moisture check schedule until the process receives SIGINT/SIGTERM.
// Invalid config is fatal.
func Start(config *viper.Viper, devMode bool) {
	serverConfig, err := shared.LoadServerConfig(config)
	fatalOnError(err)

	location, err := serverConfig.Soilsense.Cron.Location()
	fatalOnError(err)

	app, err := NewApp(context.Background(), serverConfig, ConfigDirectory(devMode))
	fatalOnError(err)

	cronScheduler := cron.NewCronScheduler(location)
	fatalOnError(registerJobs(cronScheduler, serverConfig, app.Workflow, app.backupSqliteDb))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%v", serverConfig.Soilsense.Listener.Port),
		Handler:      NewRouter(app.Contacts, app.Workflow, app.Registry),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go serve(server)

	cronScheduler.StartAsync()
	runStartupCheck(serverConfig, app.Workflow)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cleanup(cronScheduler, server, app)
}

// NewRouter returns the http api for the farmer contact & manual sms trigger
func NewRouter(contacts ContactStore, trigger ManualTrigger, gatherer prometheus.Gatherer) *mux.Router {
	h := &handlers{contacts: contacts, trigger: trigger}
	router := mux.NewRouter()

	router.HandleFunc("/", home).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/farmer-number", h.findFarmerNumber).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/farmer-number", h.upsertFarmerNumber).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/trigger-sms", h.triggerSms).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.Use(mux.CORSMethodMiddleware(apiRouter), corsMiddleware)
	router.Use(loggingMiddleware)

	return router
}
