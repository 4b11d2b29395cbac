package openai

import (
	"context"
	"fmt"
)

// ListMessages returns a thread's messages, newest first (API order).
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	rid := requestID(ctx)

	var out messageList
	if err := c.getJSON(ctx, "/threads/"+threadID+"/messages", &out); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	c.log.Debug("openai.messages.list.ok",
		"req_id", rid, "thread_id", threadID, "count", len(out.Data))
	return out.Data, nil
}
