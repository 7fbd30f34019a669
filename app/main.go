package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/g4dge/antifeed/app/cfg"
	"github.com/g4dge/antifeed/app/feed"
	"github.com/g4dge/antifeed/app/opml"
	"github.com/g4dge/antifeed/app/output"
	"github.com/g4dge/antifeed/app/rules"
	"github.com/g4dge/antifeed/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting antifeed run", "version", appCfg.Version)

	ruleSet := rules.Load(appCfg.RulesPath)
	slog.Debug("Rules loaded",
		"path", appCfg.RulesPath,
		"max_items", ruleSet.MaxItems,
		"max_age_days", ruleSet.MaxAgeDays,
		"pins", len(ruleSet.Pins))

	// A broken source list is the one fatal input: an empty feed list
	// would be indistinguishable from "no sources configured"
	feeds, err := opml.Parse(appCfg.OPMLPath)
	if err != nil {
		slog.Error("Failed to load feed sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed sources loaded", "count", len(feeds), "path", appCfg.OPMLPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now().UTC()
	evaluator := feed.NewEvaluator(ruleSet, now)
	caps := feed.NewCapTracker(ruleSet.MaxPerSource)
	collector := tasks.NewCollector()
	httpClient := &http.Client{}

	taskList := make([]tasks.TaskInterface, 0, len(feeds))
	for _, source := range feeds {
		taskList = append(taskList, tasks.NewFetchFeedTask(source, httpClient, evaluator,
			caps, collector, appCfg.UserAgent, appCfg.GetFetchTimeout(), now))
	}

	slog.Info("Fetching feeds", "workers", appCfg.WorkerCount, "feeds", len(taskList))
	tasks.NewRunner(appCfg.WorkerCount).Run(ctx, taskList)

	collected := collector.Items()
	items := feed.Assemble(collected, ruleSet.Pins, ruleSet.MaxItems, now)

	if err := output.NewWriter(appCfg.OutputPath).Write(items); err != nil {
		slog.Error("Failed to write output", "error", err)
		os.Exit(1)
	}

	slog.Info("Run completed",
		"collected", len(collected),
		"written", len(items),
		"path", appCfg.OutputPath)
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
