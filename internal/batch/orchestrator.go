package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/common"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/export"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/ingest"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/retry"
)

// AssistantAdmin owns the shared assistant's lifecycle around a batch.
type AssistantAdmin interface {
	CreateAssistant(ctx context.Context, req openai.AssistantRequest) (openai.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) error
}

// Options tune one batch run.
type Options struct {
	Model       string              // assistant model; the client's default when empty
	MaxAttempts int                 // per-document attempts, default 3
	BackoffBase time.Duration       // first retry sleep, doubles per attempt; default 1s
	Sleep       func(time.Duration) // injectable for tests
}

// Summary reports what one batch run did.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Rows      []export.Row
	Elapsed   time.Duration
}

// Orchestrator walks a directory of PDFs through the extraction assistant
// and streams one CSV row per document. Document failures become error rows;
// only setup and teardown failures abort the batch.
type Orchestrator struct {
	admin     AssistantAdmin
	extractor llm.FieldExtractor
	log       *slog.Logger
	policy    retry.Policy
	model     string

	// OnResult observes each finished row (progress bars, counters).
	OnResult func(export.Row)
}

func NewOrchestrator(admin AssistantAdmin, extractor llm.FieldExtractor, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	return &Orchestrator{
		admin:     admin,
		extractor: extractor,
		log:       logger,
		model:     opts.Model,
		policy: retry.Policy{
			MaxAttempts: opts.MaxAttempts,
			Backoff:     retry.ExponentialBackoff(opts.BackoffBase),
			Sleep:       opts.Sleep,
		},
	}
}

// Run executes one batch: create the shared assistant, write one row per
// discovered document, then tear the assistant down. The table on disk is
// complete for every processed document even if Run returns an error.
func (o *Orchestrator) Run(ctx context.Context, inputDir, csvPath string) (summary Summary, err error) {
	start := time.Now()

	assistant, err := o.admin.CreateAssistant(ctx, AssistantRequest(o.model))
	if err != nil {
		return summary, fmt.Errorf("create assistant: %w", err)
	}
	o.log.Info("batch.assistant.created", "assistant_id", assistant.ID, "model", assistant.Model)

	defer func() {
		if derr := o.admin.DeleteAssistant(context.WithoutCancel(ctx), assistant.ID); derr != nil {
			o.log.Error("batch.assistant.delete_failed", "assistant_id", assistant.ID, "error", derr)
			if err == nil {
				err = fmt.Errorf("delete assistant: %w", derr)
			}
			return
		}
		o.log.Info("batch.assistant.deleted", "assistant_id", assistant.ID)
	}()

	table, err := export.NewCSVWriter(csvPath)
	if err != nil {
		return summary, err
	}
	defer func() {
		if cerr := table.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output table: %w", cerr)
		}
	}()

	docs, err := ingest.ListDocuments(inputDir)
	if err != nil {
		return summary, err
	}
	if len(docs) == 0 {
		o.log.Warn("batch.no_documents", "dir", inputDir)
	}

	for _, doc := range docs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}

		row := o.processDocument(ctx, doc, assistant.ID)
		if werr := table.Append(row); werr != nil {
			return summary, werr
		}

		summary.Total++
		if row.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Rows = append(summary.Rows, row)
		if o.OnResult != nil {
			o.OnResult(row)
		}
	}

	summary.Elapsed = time.Since(start)
	o.log.Info("batch.complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"elapsed_ms", summary.Elapsed.Milliseconds(),
	)
	return summary, nil
}

// processDocument runs the per-document retry loop and always returns a row:
// fields from the first clean attempt, or the final attempt's error.
func (o *Orchestrator) processDocument(ctx context.Context, doc ingest.Document, assistantID string) export.Row {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)

	o.log.Info("batch.document.start", "req_id", rid, "file", doc.Name)

	var fields llm.DocumentFields
	err := o.policy.Do(ctx, func(ctx context.Context) error {
		var aerr error
		fields, aerr = o.extractor.ExtractFields(ctx, doc.Path, assistantID)
		return aerr
	})
	if err != nil {
		o.log.Error("batch.document.failed", "req_id", rid, "file", doc.Name, "error", err)
		return export.Row{Filename: doc.Name, Error: err.Error()}
	}

	o.log.Info("batch.document.ok", "req_id", rid, "file", doc.Name)
	return export.Row{Filename: doc.Name, Fields: fields}
}
