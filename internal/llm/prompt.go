package llm

// Assistant identity registered once per batch and torn down afterwards.
const (
	AssistantName         = "PDF Data Extractor"
	AssistantInstructions = "You are an expert at extracting structured data from PDF documents."
)

// ExtractionPrompt is the fixed user message attached to every document.
const ExtractionPrompt = `
Extract the following structured data from the PDF document:
- Title
- Author(s)
- Publication date
- Key keywords/topics
- Brief summary
- Page count

Return ONLY structured data using the extract_data function.
`
