package llm

// ExtractionFunctionName is the function tool the assistant is steered toward.
const ExtractionFunctionName = "extract_data"

// BuildExtractionFunctionSchema returns the function-tool definition as a
// generic map. We register it on the assistant so the model emits the fields
// as structured JSON instead of prose.
func BuildExtractionFunctionSchema() map[string]any {
	props := map[string]any{
		"title":  map[string]any{"type": "string", "description": "Document title"},
		"author": map[string]any{"type": "string", "description": "Document author"},
		"date":   map[string]any{"type": "string", "description": "Publication date (YYYY-MM-DD)"},
		"keywords": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Key topics and keywords",
		},
		"summary":    map[string]any{"type": "string", "description": "Brief document summary"},
		"page_count": map[string]any{"type": "integer", "description": "Number of pages"},
	}
	required := []string{"title", "author", "summary"}

	return map[string]any{
		"name":        ExtractionFunctionName,
		"description": "Extract structured data from PDF documents",
		"parameters": map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}
