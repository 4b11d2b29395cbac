package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
)

// Service is the slice of the assistants API one document needs.
type Service interface {
	UploadFile(ctx context.Context, path string) (openai.File, error)
	DeleteFile(ctx context.Context, fileID string) error
	CreateThread(ctx context.Context, req openai.ThreadRequest) (openai.Thread, error)
	CreateRun(ctx context.Context, threadID string, req openai.RunRequest) (openai.Run, error)
	GetRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	ListMessages(ctx context.Context, threadID string) ([]openai.Message, error)
}

// Options bound how long one document may stay in flight.
type Options struct {
	PollInterval time.Duration // default 5s
	PollTimeout  time.Duration // default 5m
}

// Processor drives one document through upload, run, and message scan.
// It implements llm.FieldExtractor.
type Processor struct {
	svc          Service
	log          *slog.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration

	now   func() time.Time    // injectable clock
	sleep func(time.Duration) // injectable sleep
}

func NewProcessor(svc Service, logger *slog.Logger, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Minute
	}
	return &Processor{
		svc:          svc,
		log:          logger,
		pollInterval: opts.PollInterval,
		pollTimeout:  opts.PollTimeout,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// ExtractFields uploads the document, runs the assistant over it, and decodes
// the structured payload from the thread's messages. The uploaded file is
// deleted on the way out regardless of outcome.
func (p *Processor) ExtractFields(ctx context.Context, path string, assistantID string) (llm.DocumentFields, error) {
	start := p.now()
	name := filepath.Base(path)

	p.log.Info("llm.extract.start", "file", name, "assistant_id", assistantID)

	file, err := p.svc.UploadFile(ctx, path)
	if err != nil {
		return llm.DocumentFields{}, fmt.Errorf("upload %s: %w", name, err)
	}
	defer func() {
		// Cleanup must run even when ctx was cancelled mid-flight.
		if derr := p.svc.DeleteFile(context.WithoutCancel(ctx), file.ID); derr != nil {
			p.log.Warn("llm.extract.file_delete_failed", "file", name, "file_id", file.ID, "error", derr)
		}
	}()

	thread, err := p.svc.CreateThread(ctx, openai.ThreadRequest{
		Messages: []openai.ThreadMessage{{
			Role:    "user",
			Content: llm.ExtractionPrompt,
			FileIDs: []string{file.ID},
		}},
	})
	if err != nil {
		return llm.DocumentFields{}, fmt.Errorf("create thread for %s: %w", name, err)
	}

	run, err := p.svc.CreateRun(ctx, thread.ID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		return llm.DocumentFields{}, fmt.Errorf("start run for %s: %w", name, err)
	}

	run, err = p.waitForRun(ctx, thread.ID, run)
	if err != nil {
		return llm.DocumentFields{}, err
	}
	if !run.Status.Succeeded() {
		return llm.DocumentFields{}, &RunFailedError{Status: run.Status, RunErr: run.LastError}
	}

	msgs, err := p.svc.ListMessages(ctx, thread.ID)
	if err != nil {
		return llm.DocumentFields{}, fmt.Errorf("list messages for %s: %w", name, err)
	}
	fields, raw, err := decodeFields(msgs)
	if err != nil {
		return llm.DocumentFields{}, err
	}

	p.log.Info("llm.extract.ok",
		"file", name,
		"title", fields.Title,
		"author", fields.Author,
		"raw_bytes", len(raw),
		"elapsed_ms", p.now().Sub(start).Milliseconds(),
	)
	return fields, nil
}

// waitForRun polls until the run reaches a terminal status or the poll budget
// runs out. The budget is checked before each sleep so a stuck run fails in
// bounded time.
func (p *Processor) waitForRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	deadline := p.now().Add(p.pollTimeout)
	for !run.Status.Terminal() {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		if p.now().After(deadline) {
			p.log.Error("llm.extract.poll_timeout",
				"thread_id", threadID, "run_id", run.ID, "status", run.Status)
			return run, ErrRunTimeout
		}
		p.sleep(p.pollInterval)

		var err error
		run, err = p.svc.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("poll run: %w", err)
		}
	}
	return run, nil
}

// decodeFields scans messages in API order (newest first) for the first text
// item that looks like a JSON object and unmarshals it. The leading-brace
// check is the payload contract: the assistant answers with a bare JSON
// object, anything else is prose.
func decodeFields(msgs []openai.Message) (llm.DocumentFields, []byte, error) {
	for _, m := range msgs {
		for _, item := range m.Content {
			if item.Text == nil {
				continue
			}
			if !strings.HasPrefix(item.Text.Value, "{") {
				continue
			}
			raw := []byte(item.Text.Value)
			var out llm.DocumentFields
			if err := json.Unmarshal(raw, &out); err != nil {
				return llm.DocumentFields{}, nil, fmt.Errorf("decode fields payload: %w", err)
			}
			return out, raw, nil
		}
	}
	return llm.DocumentFields{}, nil, ErrNoStructuredData
}
