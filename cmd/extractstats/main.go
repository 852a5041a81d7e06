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
	"github.com/yungbote/gamenight-backend/internal/data/repos"
	"github.com/yungbote/gamenight-backend/internal/pipeline"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

func main() {
	var (
		dataRoot   = flag.String("data", "", "data root directory (defaults to the configured import data root)")
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to an optional YAML config file")
		workers    = flag.Int("workers", 0, "parser worker count (defaults to the configured value)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extractstats: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extractstats: init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshots only. No database handle, no repos.
	p := pipeline.New(cfg, nil, repos.Repos{}, nil, log)
	report, err := p.RunExtract(ctx, pipeline.ExtractOptions{
		DataRoot: *dataRoot,
		Workers:  *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "extractstats: %v\n", err)
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
