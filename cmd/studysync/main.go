package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/studysync/internal/attention"
	"github.com/alexanderramin/studysync/internal/cli"
	"github.com/alexanderramin/studysync/internal/config"
	"github.com/alexanderramin/studysync/internal/db"
	"github.com/alexanderramin/studysync/internal/httpapi"
	"github.com/alexanderramin/studysync/internal/inference"
	"github.com/alexanderramin/studysync/internal/repository"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/alexanderramin/studysync/internal/vision"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	tuning, err := attention.LoadTuning(cfg.TuningFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and unit of work
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	sampleRepo := repository.NewSQLiteSampleRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire inference backend and frame analyzer
	var observer inference.Observer = inference.NoopObserver{}
	if cfg.Inference.LogCalls {
		observer = inference.NewLogObserver(os.Stderr)
	}
	client := inference.NewClient(cfg.Inference, observer)
	analyzer := vision.NewAnalyzer(client, client, vision.Options{Labels: tuning.Labels})

	var useCaseObservers []service.UseCaseObserver
	if cfg.LogUseCases {
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(logger))
	}
	sessionSvc := service.NewSessionService(
		sessionRepo,
		sampleRepo,
		uow,
		analyzer,
		service.SessionOptions{Tuning: tuning, AnalyzeTimeout: cfg.AnalyzeTimeout()},
		useCaseObservers...,
	)

	app := &cli.App{
		Sessions:      sessionSvc,
		Tuning:        tuning,
		DefaultUserID: cfg.DefaultUserID,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		handler := httpapi.NewHandler(httpapi.Options{
			Logger:        logger,
			Sessions:      sessionSvc,
			Labels:        analyzer,
			Health:        client,
			DefaultUserID: cfg.DefaultUserID,
			CORSOrigins:   cfg.CORSOrigins,
			MaxFrameBytes: httpapi.DefaultMaxFrameBytes,
		})
		return httpapi.Serve(ctx, cfg.HTTPAddr, handler, logger)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
