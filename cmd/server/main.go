package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/api/rest"
	"github.com/clintrovert/scopesync/internal/config"
	"github.com/clintrovert/scopesync/internal/jira"
	"github.com/clintrovert/scopesync/internal/po"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/internal/temporal"
	"github.com/clintrovert/scopesync/pkg/types"
)

func main() {
	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	store, err := project.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open project store", zap.Error(err))
	}
	defer store.Close()

	// Asynchronous synthesis is only available with a Temporal address
	var jobs po.JobRunner
	if cfg.Temporal.Enabled() {
		temporalClient, err := temporal.NewClient(cfg.Temporal.Address, cfg.Temporal.Namespace, cfg.Temporal.TaskQueue, logger)
		if err != nil {
			logger.Fatal("failed to create temporal client", zap.Error(err))
		}
		defer temporalClient.Close()
		jobs = temporalClient
	} else {
		logger.Info("TEMPORAL_ADDRESS not set, asynchronous synthesis disabled")
	}

	synthesizer := synth.NewSynthesizer(synth.JiraFactory(cfg.JiraTimeout, logger), logger)
	readers := po.JiraReaders(func(creds types.JiraCredentials) (*jira.Client, error) {
		return jira.NewClient(creds, cfg.JiraTimeout, logger)
	})
	service := po.NewService(store, synthesizer, readers, jobs, logger)
	restHandler := rest.NewHandler(service, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Route("/api/v1", func(r chi.Router) {
		restHandler.RegisterRoutes(r)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	restAddr := fmt.Sprintf(":%s", cfg.Port)
	restServer := &http.Server{
		Addr:              restAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting REST API server", zap.String("address", restAddr))
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down REST server cleanly", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
