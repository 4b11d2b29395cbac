package openai

import (
	"context"
	"fmt"
	"time"
)

// CreateAssistant registers a new assistant. An empty Model falls back to the
// client's configured model.
func (c *Client) CreateAssistant(ctx context.Context, req AssistantRequest) (Assistant, error) {
	rid := requestID(ctx)
	start := time.Now()

	if req.Model == "" {
		req.Model = c.cfg.Model
	}

	var out Assistant
	if err := c.postJSON(ctx, "/assistants", req, &out); err != nil {
		return Assistant{}, fmt.Errorf("create assistant: %w", err)
	}
	c.log.Info("openai.assistant.create.ok",
		"req_id", rid,
		"assistant_id", out.ID,
		"name", out.Name,
		"model", out.Model,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// DeleteAssistant tears down an assistant once a batch is done with it.
func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	rid := requestID(ctx)
	if err := c.deleteResource(ctx, "/assistants/"+assistantID); err != nil {
		return fmt.Errorf("delete assistant %s: %w", assistantID, err)
	}
	c.log.Info("openai.assistant.delete.ok", "req_id", rid, "assistant_id", assistantID)
	return nil
}
