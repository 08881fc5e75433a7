package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kcuzner/rstblog/internal/build"
	"github.com/kcuzner/rstblog/internal/config"
	"github.com/kcuzner/rstblog/internal/daemon"
	"github.com/kcuzner/rstblog/internal/eventstore"
	"github.com/kcuzner/rstblog/internal/metrics"
	"github.com/kcuzner/rstblog/internal/queue"
	"github.com/kcuzner/rstblog/internal/server"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct{} `cmd:"" help:"Run the webhook server and serve the rendered site"`

	Work struct{} `cmd:"" help:"Run a build worker consuming queued tasks"`

	Build struct{} `cmd:"" help:"Run one full build synchronously, without the queue"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if ctx.Command() == "init" {
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "serve":
		err = runServe(cfg)
	case "work":
		err = runWork(cfg)
	case "build":
		err = runBuild(cfg)
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// runServe hosts the trigger endpoint and the rendered site, and enqueues
// the initial repository clone before accepting traffic.
func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	publisher, err := queue.NewPublisher(cfg.Queue.URL, cfg.Queue.SubjectPrefix)
	if err != nil {
		return err
	}
	defer publisher.Close()

	history, err := eventstore.Open(cfg.History.Database)
	if err != nil {
		return err
	}
	defer history.Close()

	// Ordered initial clone + first build, queued before traffic is accepted.
	if err := publisher.EnqueueRebuild("startup"); err != nil {
		return err
	}

	scheduler, err := daemon.NewScheduler(cfg.Schedule.Interval, publisher)
	if err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Warn("Failed to stop scheduler", "error", err)
		}
	}()

	recorder := metrics.NewRecorder(nil)
	srv := server.New(server.Options{
		Listen:  cfg.Server.Listen,
		Secret:  cfg.Server.Secret,
		SiteDir: cfg.Server.Directory,
		Metrics: recorder.Handler(),
		History: history,
	}, publisher)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping server...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return srv.Shutdown(stopCtx)
}

// runWork consumes build tasks from the queue until interrupted.
func runWork(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	history, err := eventstore.Open(cfg.History.Database)
	if err != nil {
		return err
	}
	defer history.Close()

	service := daemon.NewService(build.NewRunner(cfg), metrics.NewRecorder(nil), history)
	worker, err := queue.NewWorker(cfg.Queue.URL, cfg.Queue.SubjectPrefix, service)
	if err != nil {
		return err
	}
	defer worker.Close()

	return worker.Run(ctx)
}

// runBuild performs one full build without the queue.
func runBuild(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := build.NewRunner(cfg)
	if err := runner.Clone(ctx); err != nil {
		return err
	}
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d pages and %d posts in %s\n", report.Pages, report.Posts, report.Duration.Round(time.Millisecond))
	return nil
}
