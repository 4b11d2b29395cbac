package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/batch"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/common"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/extract"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
)

// runextract pushes one PDF through the extraction flow end to end, outside
// any batch. Run it a few times against the same file to see how stable the
// model's answers are.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "runextract <file.pdf> [times]")
		os.Exit(2)
	}
	path := os.Args[1]
	times := 1
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	// os.Exit only after run's defers released the assistant.
	os.Exit(run(logger, path, times))
}

func run(logger *slog.Logger, path string, times int) int {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	ctx := context.Background()

	client := openai.NewClient(openai.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		MaxRetries:        cfg.LLM.MaxRetries,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
	}, logger)
	processor := extract.NewProcessor(client, logger, extract.Options{
		PollInterval: cfg.Batch.PollInterval,
		PollTimeout:  cfg.Batch.PollTimeout,
	})

	assistant, err := client.CreateAssistant(ctx, batch.AssistantRequest(cfg.LLM.Model))
	if err != nil {
		logger.Error("create assistant", "error", err)
		return 1
	}
	defer func() {
		if derr := client.DeleteAssistant(context.WithoutCancel(ctx), assistant.ID); derr != nil {
			logger.Error("delete assistant", "assistant_id", assistant.ID, "error", derr)
		}
	}()

	ok := 0
	for round := 1; round <= times; round++ {
		start := time.Now()
		fields, err := processor.ExtractFields(ctx, path, assistant.ID)
		dur := time.Since(start)

		if err != nil {
			logger.Error("extraction failed",
				"round", round, "file", path, "error", err, "duration_ms", dur.Milliseconds())
			continue
		}
		ok++

		b, _ := json.Marshal(fields)
		logger.Info("extraction OK",
			"round", round,
			"file", path,
			"fields", string(b),
			"duration_ms", dur.Milliseconds(),
		)
	}

	logger.Info("done", "rounds", times, "ok", ok, "failed", times-ok)
	if ok == 0 {
		return 1
	}
	return 0
}
