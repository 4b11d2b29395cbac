package constants

// RunStatus is the status enumeration the remote service reports for a run.
type RunStatus string

// Stable values (the remote API returns these exact strings).
const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCompleted      RunStatus = "completed" // terminal success
	RunStatusFailed         RunStatus = "failed"    // terminal failure
	RunStatusCancelled      RunStatus = "cancelled" // terminal failure
	RunStatusExpired        RunStatus = "expired"   // terminal failure
	RunStatusIncomplete     RunStatus = "incomplete"
)

// Terminal reports whether the run has stopped progressing. Polling loops
// keep waiting on any other value.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// Succeeded reports whether the run reached the one terminal state that
// carries a usable result.
func (s RunStatus) Succeeded() bool {
	return s == RunStatusCompleted
}
