package llm

import "context"

// DocumentFields is the normalized shape we want from the LLM.
type DocumentFields struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Date      string   `json:"date,omitempty"` // YYYY-MM-DD
	Keywords  []string `json:"keywords,omitempty"`
	Summary   string   `json:"summary"`
	PageCount *int     `json:"page_count,omitempty"` // nil when the model omits it
}

// FieldExtractor is the interface the batch loop depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, path string, assistantID string) (DocumentFields, error)
}
