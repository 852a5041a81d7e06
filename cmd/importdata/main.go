package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/data/db"
	"github.com/yungbote/gamenight-backend/internal/data/repos"
	"github.com/yungbote/gamenight-backend/internal/pipeline"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

func main() {
	var (
		dataRoot      = flag.String("data", "", "data root directory (defaults to the configured import data root)")
		configPath    = flag.String("config", os.Getenv("CONFIG_PATH"), "path to an optional YAML config file")
		workers       = flag.Int("workers", 0, "parser worker count (defaults to the configured value)")
		fromExtracted = flag.Bool("from-extracted", false, "aggregate from extracted-stats snapshots instead of re-parsing profiles")
		sessions      = flag.Bool("sessions", false, "also import table exports as game sessions")
		dryRun        = flag.Bool("dry-run", false, "parse and validate everything, write nothing")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importdata: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importdata: init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbService, err := db.NewService(cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importdata: %v\n", err)
		os.Exit(1)
	}
	// Dry runs migrate too: aggregation reads the games table for resolution.
	if err := dbService.AutoMigrateAll(); err != nil {
		fmt.Fprintf(os.Stderr, "importdata: %v\n", err)
		os.Exit(1)
	}
	gdb := dbService.DB()
	reg := repos.New(gdb, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, gdb, reg, nil, log)
	report, err := p.RunImport(ctx, pipeline.ImportOptions{
		DataRoot:      *dataRoot,
		Workers:       *workers,
		FromExtracted: *fromExtracted,
		Sessions:      *sessions,
		DryRun:        *dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "importdata: %v\n", err)
		if report != nil {
			fmt.Print(report.Summary().Render())
		}
		os.Exit(1)
	}

	fmt.Print(report.Summary().Render())
	if report.HasErrors() {
		os.Exit(1)
	}
}
