package driven

import "context"

// AuditSink is an append-only trail of actions. Implementations must never
// fail the caller: write errors are absorbed inside the sink.
type AuditSink interface {
	// Record appends a successful or informational event.
	Record(ctx context.Context, event string, attrs ...any)

	// Failure appends an event describing a rejected or failed action.
	Failure(ctx context.Context, event string, err error, attrs ...any)
}
