package openai

import (
	"context"
	"fmt"
)

// CreateThread starts a conversation seeded with the given messages.
func (c *Client) CreateThread(ctx context.Context, req ThreadRequest) (Thread, error) {
	rid := requestID(ctx)

	var out Thread
	if err := c.postJSON(ctx, "/threads", req, &out); err != nil {
		return Thread{}, fmt.Errorf("create thread: %w", err)
	}
	c.log.Debug("openai.thread.create.ok", "req_id", rid, "thread_id", out.ID)
	return out, nil
}
