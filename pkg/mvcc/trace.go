package mvcc

import "github.com/google/uuid"

// newTraceID mints a per-transaction identifier attached to every log line
// emitted for that transaction's lifecycle, so operators can correlate
// begin/commit/rollback/conflict lines for one transaction across
// interleaved concurrent output.
func newTraceID() string {
	return uuid.New().String()
}
