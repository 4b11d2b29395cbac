package openai

import (
	"context"
	"fmt"
)

// CreateRun starts the assistant over a thread.
func (c *Client) CreateRun(ctx context.Context, threadID string, req RunRequest) (Run, error) {
	rid := requestID(ctx)

	var out Run
	if err := c.postJSON(ctx, "/threads/"+threadID+"/runs", req, &out); err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}
	c.log.Debug("openai.run.create.ok",
		"req_id", rid, "thread_id", threadID, "run_id", out.ID, "status", out.Status)
	return out, nil
}

// GetRun fetches the current run state. Callers poll this until the status
// turns terminal.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	rid := requestID(ctx)

	var out Run
	if err := c.getJSON(ctx, "/threads/"+threadID+"/runs/"+runID, &out); err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	c.log.Debug("openai.run.poll", "req_id", rid, "run_id", runID, "status", out.Status)
	return out, nil
}
