package main

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/activities"
	"github.com/clintrovert/scopesync/internal/config"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	workflows "github.com/clintrovert/scopesync/internal/temporal/workflows"
)

func main() {
	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer c.Close()

	// The worker resolves credentials itself so tokens stay out of workflow history
	store, err := project.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open project store", zap.Error(err))
	}
	defer store.Close()

	synthesizer := synth.NewSynthesizer(synth.JiraFactory(cfg.JiraTimeout, logger), logger)
	synthesisActivities := activities.NewSynthesisActivities(store, synthesizer, logger)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.SynthesisWorkflow)
	w.RegisterActivity(synthesisActivities)

	logger.Info("starting worker",
		zap.String("task_queue", cfg.Temporal.TaskQueue),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}

	logger.Info("worker stopped")
}
