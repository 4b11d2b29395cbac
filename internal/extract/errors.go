package extract

import (
	"errors"
	"fmt"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/constants"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
)

// ErrRunTimeout means the run never reached a terminal status within the
// poll budget. Attempt-local: the batch loop retries it.
var ErrRunTimeout = errors.New("processing timed out")

// ErrNoStructuredData means the run completed but no message content item
// carried a JSON payload.
var ErrNoStructuredData = errors.New("no structured data found in response")

// RunFailedError reports a run that ended in a non-completed terminal status.
type RunFailedError struct {
	Status constants.RunStatus
	RunErr *openai.RunError
}

func (e *RunFailedError) Error() string {
	if e.RunErr != nil {
		return fmt.Sprintf("processing failed with status: %s (%s: %s)", e.Status, e.RunErr.Code, e.RunErr.Message)
	}
	return fmt.Sprintf("processing failed with status: %s", e.Status)
}
