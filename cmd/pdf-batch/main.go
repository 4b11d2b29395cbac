package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/batch"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/common"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/export"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/extract"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/ingest"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/logging"
)

func main() {
	if err := run(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := openai.NewClient(openai.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		MaxRetries:        cfg.LLM.MaxRetries,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
	}, logger)
	logger.Info("client initialized", "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)

	processor := extract.NewProcessor(client, logger, extract.Options{
		PollInterval: cfg.Batch.PollInterval,
		PollTimeout:  cfg.Batch.PollTimeout,
	})

	orch := batch.NewOrchestrator(client, processor, logger, batch.Options{
		Model:       cfg.LLM.Model,
		MaxAttempts: cfg.Batch.MaxAttempts,
		BackoffBase: cfg.Batch.BackoffBase,
	})

	// Count up front so the bar has a fixed total; the orchestrator
	// enumerates on its own when it runs.
	docs, err := ingest.ListDocuments(cfg.Input.Dir)
	if err != nil {
		return err
	}
	color.Blue("\nProcessing %d PDF(s) from %s\n", len(docs), cfg.Input.Dir)

	bar := getProgressBar(len(docs), "extracting")
	orch.OnResult = func(row export.Row) {
		if row.Succeeded() {
			bar.Describe(color.BlueString("extracted %s", row.Filename))
		} else {
			bar.Describe(color.RedString("failed %s", row.Filename))
		}
		_ = bar.Add(1)
	}

	summary, err := orch.Run(ctx, cfg.Input.Dir, cfg.Output.CSVPath)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	if cfg.Output.XLSXPath != "" {
		xlsxBytes, err := export.WriteXLSX(summary.Rows, logger)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		if err := os.WriteFile(cfg.Output.XLSXPath, xlsxBytes, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}

	color.Green("\n✓ Batch complete\n")
	fmt.Printf("- Documents processed: %d\n", summary.Total)
	fmt.Printf("- Succeeded: %d\n", summary.Succeeded)
	fmt.Printf("- Failed: %d\n", summary.Failed)
	fmt.Printf("- Output: %s\n", cfg.Output.CSVPath)
	if cfg.Output.XLSXPath != "" {
		fmt.Printf("- Workbook: %s\n", cfg.Output.XLSXPath)
	}
	return nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
