package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent records one run (or scheduling) of a background job, such as
// the weekly schedule sync or the result sync.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	Season       int
	Week         int
	Status       DispatchStatus
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
