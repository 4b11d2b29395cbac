package batch

import (
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
)

// AssistantRequest declares the shared extraction assistant: document
// retrieval plus the fixed extraction function schema.
func AssistantRequest(model string) openai.AssistantRequest {
	return openai.AssistantRequest{
		Name:         llm.AssistantName,
		Instructions: llm.AssistantInstructions,
		Model:        model,
		Tools: []openai.Tool{
			{Type: openai.ToolTypeRetrieval},
			{Type: openai.ToolTypeFunction, Function: llm.BuildExtractionFunctionSchema()},
		},
	}
}
