package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func (h *Handler) RunSyncScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleJob")
	defer span.End()

	h.runInternalJob(ctx, w, r, "sync-schedule", "/v1/internal/jobs/sync-schedule", h.jobOrchestratorRun(func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.RunScheduleSync(ctx, input)
	}))
}

func (h *Handler) RunSyncResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncResultsJob")
	defer span.End()

	h.runInternalJob(ctx, w, r, "sync-results", "/v1/internal/jobs/sync-results", h.jobOrchestratorRun(func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.RunResultsSync(ctx, input)
	}))
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	h.runInternalJob(ctx, w, r, "bootstrap", "/v1/internal/jobs/bootstrap", h.jobOrchestratorRun(func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.Bootstrap(ctx, input)
	}))
}

// RunSyncScheduleDirect lets an admin refresh the schedule synchronously
// without touching the job queue chain.
func (h *Handler) RunSyncScheduleDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleDirect")
	defer span.End()

	h.runInternalJob(ctx, w, r, "sync-schedule-direct", "/v1/internal/sync/schedule", h.jobOrchestratorRun(func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error) {
		return h.jobOrchestrator.RunScheduleSyncDirect(ctx, input)
	}))
}

type jobRunFunc func(ctx context.Context, input usecase.JobSyncInput) (usecase.JobSyncResult, error)

func (h *Handler) jobOrchestratorRun(run jobRunFunc) jobRunFunc {
	if h.jobOrchestrator == nil {
		return nil
	}
	return run
}

func (h *Handler) runInternalJob(ctx context.Context, w http.ResponseWriter, r *http.Request, jobName, jobPath string, run jobRunFunc) {
	if run == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := run(ctx, usecase.JobSyncInput{
		Week:  req.Week,
		Force: req.Force,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
			JobName:      jobName,
			JobPath:      jobPath,
			Week:         req.Week,
			Status:       jobscheduler.StatusFailed,
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "internal job run failed", "job_name", jobName, "week", req.Week, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
		JobName:    jobName,
		JobPath:    jobPath,
		Season:     result.Season,
		Week:       result.Week,
		Status:     jobscheduler.StatusCompleted,
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeInternalJobSyncRequest(r *http.Request) (internalJobSyncRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobSyncRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobSyncRequest{}, nil
		}
		return internalJobSyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, req internalJobSyncRequest, event jobscheduler.DispatchEvent) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(req.DispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(event.JobName, req.Week, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildManualDispatchID(jobName string, week int, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-week" + strconv.Itoa(week) + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
