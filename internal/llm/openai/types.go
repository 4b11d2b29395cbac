package openai

import "github.com/kneeraazon404/JSON-from-PDF-to-CSV/constants"

// Tool types accepted by the assistants API.
const (
	ToolTypeRetrieval = "retrieval"
	ToolTypeFunction  = "function"
)

// Tool attaches a capability to an assistant. Function holds a raw
// function-tool definition when Type is "function".
type Tool struct {
	Type     string         `json:"type"`
	Function map[string]any `json:"function,omitempty"`
}

type AssistantRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	Tools        []Tool `json:"tools,omitempty"`
}

type Assistant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	Tools     []Tool `json:"tools,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// File is the files API resource returned by an upload.
type File struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Bytes     int64  `json:"bytes"`
	Purpose   string `json:"purpose"`
	CreatedAt int64  `json:"created_at"`
}

// ThreadMessage seeds a thread with a user message and attached file IDs.
type ThreadMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	FileIDs []string `json:"file_ids,omitempty"`
}

type ThreadRequest struct {
	Messages []ThreadMessage `json:"messages,omitempty"`
}

type Thread struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

type RunRequest struct {
	AssistantID string `json:"assistant_id"`
}

type Run struct {
	ID          string              `json:"id"`
	ThreadID    string              `json:"thread_id"`
	AssistantID string              `json:"assistant_id"`
	Status      constants.RunStatus `json:"status"`
	LastError   *RunError           `json:"last_error,omitempty"`
}

// RunError is populated by the API when a run ends in a failed status.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageText is the text payload of one message content item.
type MessageText struct {
	Value string `json:"value"`
}

// MessageContent is one content item; Text is nil for non-text items.
type MessageContent struct {
	Type string       `json:"type"`
	Text *MessageText `json:"text,omitempty"`
}

type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	Content   []MessageContent `json:"content"`
	CreatedAt int64            `json:"created_at"`
}

// messageList is the envelope around GET /threads/{id}/messages.
type messageList struct {
	Data []Message `json:"data"`
}

// deleted is the envelope around DELETE responses.
type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
