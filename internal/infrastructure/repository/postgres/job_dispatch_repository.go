package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    jobPath,
		Season:     event.Season,
		Week:       event.Week,
		Status:     string(event.Status),
		LastError:  optionalString(event.ErrorMessage),
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    status = EXCLUDED.status,
    sent_at = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_at
        ELSE COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at)
    END,
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    sent_trace_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_trace_id
        ELSE job_dispatches.sent_trace_id
    END,
    sent_span_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_span_id
        ELSE job_dispatches.sent_span_id
    END,
    completed_trace_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_trace_id
        ELSE job_dispatches.completed_trace_id
    END,
    completed_span_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_span_id
        ELSE job_dispatches.completed_span_id
    END,
    failed_trace_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_trace_id
        ELSE job_dispatches.failed_trace_id
    END,
    failed_span_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_span_id
        ELSE job_dispatches.failed_span_id
    END`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", dispatchID, event.Status, err)
	}

	return nil
}
