package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
	"github.com/gridironpool/survivor-pool/internal/domain/season"
	"github.com/gridironpool/survivor-pool/internal/platform/logging"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	ScheduleInterval time.Duration
	ResultsInterval  time.Duration
	PreKickoffLead   time.Duration
}

type JobSyncInput struct {
	Week  int
	Force bool
}

type JobSyncResult struct {
	Mode             string   `json:"mode"`
	Season           int      `json:"season"`
	Week             int      `json:"week"`
	LiveGameCount    int      `json:"live_game_count"`
	QueuedCount      int      `json:"queued_count"`
	QueuedOperations []string `json:"queued_operations"`
}

// JobOrchestratorService keeps the schedule and result syncs running without
// an in-process cron. Each run does its work, inspects the week's kickoff
// times, and enqueues the next run at the right delay through the job queue.
type JobOrchestratorService struct {
	gameRepo     game.Repository
	resultSync   *ResultSyncService
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	calendar     season.Calendar
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	gameRepo game.Repository,
	resultSync *ResultSyncService,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	calendar season.Calendar,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = 6 * time.Hour
	}
	if cfg.ResultsInterval <= 0 {
		cfg.ResultsInterval = 5 * time.Minute
	}
	if cfg.PreKickoffLead <= 0 {
		cfg.PreKickoffLead = 15 * time.Minute
	}

	return &JobOrchestratorService{
		gameRepo:     gameRepo,
		resultSync:   resultSync,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		calendar:     calendar,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// RunScheduleSync refreshes this week's and next week's schedule, then
// enqueues the follow-up jobs.
func (s *JobOrchestratorService) RunScheduleSync(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	return s.run(ctx, "schedule", input, false, true)
}

// RunResultsSync grades the week's finished games, then enqueues the
// follow-up jobs.
func (s *JobOrchestratorService) RunResultsSync(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	return s.run(ctx, "results", input, true, true)
}

// RunScheduleSyncDirect refreshes the schedule without enqueueing anything.
// Used by operators for a one-off refresh.
func (s *JobOrchestratorService) RunScheduleSyncDirect(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	return s.run(ctx, "schedule-direct", input, false, false)
}

// Bootstrap kicks off the self-perpetuating job chain with an immediate
// schedule sync.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	now := s.now().UTC()
	week := s.resolveWeek(input.Week, now)
	result := JobSyncResult{
		Mode:             "bootstrap",
		Season:           s.calendar.Year,
		Week:             week,
		QueuedOperations: make([]string, 0, 1),
	}

	if err := s.enqueueSchedule(ctx, week, 0, now); err != nil {
		return JobSyncResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, fmt.Sprintf("sync-schedule:week-%d", week))
	return result, nil
}

func (s *JobOrchestratorService) run(ctx context.Context, mode string, input JobSyncInput, gradeResults bool, enqueueNext bool) (JobSyncResult, error) {
	now := s.now().UTC()
	week := s.resolveWeek(input.Week, now)
	result := JobSyncResult{
		Mode:             mode,
		Season:           s.calendar.Year,
		Week:             week,
		QueuedOperations: make([]string, 0, 2),
	}

	if s.resultSync != nil {
		if gradeResults {
			if _, err := s.resultSync.SyncWeekResults(ctx, s.calendar.Year, week); err != nil {
				return JobSyncResult{}, fmt.Errorf("sync results week=%d: %w", week, err)
			}
		} else {
			weeks := []int{week}
			if week < season.MaxWeeks {
				weeks = append(weeks, week+1)
			}
			if _, err := s.resultSync.SyncSchedule(ctx, s.calendar.Year, weeks); err != nil {
				return JobSyncResult{}, fmt.Errorf("sync schedule week=%d: %w", week, err)
			}
		}
	}

	if !enqueueNext {
		return result, nil
	}

	games, err := s.gameRepo.ListByWeek(ctx, s.calendar.Year, week)
	if err != nil {
		return JobSyncResult{}, fmt.Errorf("list games week=%d: %w", week, err)
	}

	liveCount, nearestKickoff := analyzeGames(games, now)
	result.LiveGameCount = liveCount

	if liveCount > 0 {
		if err := s.enqueueResults(ctx, week, s.cfg.ResultsInterval, now); err != nil {
			return JobSyncResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, fmt.Sprintf("sync-results:week-%d", week))
	} else if nearestKickoff != nil {
		delay := nearestKickoff.Sub(now)
		if input.Force {
			delay = 0
		} else if delay <= 0 {
			delay = s.cfg.ResultsInterval
		}
		if err := s.enqueueResults(ctx, week, delay, now); err != nil {
			return JobSyncResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, fmt.Sprintf("sync-results:week-%d", week))
	}

	scheduleDelay := s.nextScheduleDelay(now, liveCount > 0, nearestKickoff)
	if err := s.enqueueSchedule(ctx, week, scheduleDelay, now); err != nil {
		return JobSyncResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, fmt.Sprintf("sync-schedule:week-%d", week))

	return result, nil
}

func (s *JobOrchestratorService) resolveWeek(week int, now time.Time) int {
	if week >= 1 && week <= season.MaxWeeks {
		return week
	}
	return s.calendar.WeekFor(now)
}

func (s *JobOrchestratorService) enqueueSchedule(ctx context.Context, week int, delay time.Duration, now time.Time) error {
	dedupID := dedupKey("sync-schedule", week, now.Add(delay), s.cfg.ScheduleInterval)
	payload := map[string]any{
		"week":        week,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, "/v1/internal/jobs/sync-schedule", payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      "sync-schedule",
			JobPath:      "/v1/internal/jobs/sync-schedule",
			Season:       s.calendar.Year,
			Week:         week,
			Status:       jobscheduler.StatusFailed,
			ErrorMessage: err.Error(),
			OccurredAt:   now.UTC(),
		})
		return fmt.Errorf("enqueue sync-schedule week=%d: %w", week, err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    "sync-schedule",
		JobPath:    "/v1/internal/jobs/sync-schedule",
		Season:     s.calendar.Year,
		Week:       week,
		Status:     jobscheduler.StatusSent,
		OccurredAt: now.UTC(),
	})
	return nil
}

func (s *JobOrchestratorService) enqueueResults(ctx context.Context, week int, delay time.Duration, now time.Time) error {
	dedupID := dedupKey("sync-results", week, now.Add(delay), s.cfg.ResultsInterval)
	payload := map[string]any{
		"week":        week,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, "/v1/internal/jobs/sync-results", payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      "sync-results",
			JobPath:      "/v1/internal/jobs/sync-results",
			Season:       s.calendar.Year,
			Week:         week,
			Status:       jobscheduler.StatusFailed,
			ErrorMessage: err.Error(),
			OccurredAt:   now.UTC(),
		})
		return fmt.Errorf("enqueue sync-results week=%d: %w", week, err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    "sync-results",
		JobPath:    "/v1/internal/jobs/sync-results",
		Season:     s.calendar.Year,
		Week:       week,
		Status:     jobscheduler.StatusSent,
		OccurredAt: now.UTC(),
	})
	return nil
}

func dedupKey(prefix string, week int, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	return fmt.Sprintf("%s-week%d-%s", prefix, week, slot)
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}

// analyzeGames reports how many games are currently in progress and the
// nearest upcoming pre-kickoff instant worth waking up for.
func analyzeGames(items []game.Game, now time.Time) (int, *time.Time) {
	var nearestKickoff *time.Time
	liveCount := 0
	for _, item := range items {
		status := game.NormalizeStatus(item.Status)
		if status == game.StatusInProgress {
			liveCount++
		}

		if item.KickoffAt.IsZero() || item.KickoffAt.Before(now) {
			continue
		}
		if game.IsFinalStatus(status) || status == game.StatusCanceled {
			continue
		}
		if nearestKickoff == nil || item.KickoffAt.Before(*nearestKickoff) {
			next := item.KickoffAt
			nearestKickoff = &next
		}
	}

	return liveCount, nearestKickoff
}

func (s *JobOrchestratorService) nextScheduleDelay(now time.Time, hasLive bool, nearestKickoff *time.Time) time.Duration {
	minDelay := time.Minute
	if hasLive {
		return maxDuration(s.cfg.ResultsInterval, minDelay)
	}

	if nearestKickoff != nil {
		liveAt := nearestKickoff.Add(-s.cfg.PreKickoffLead)
		delay := liveAt.Sub(now)
		if delay <= 0 {
			return maxDuration(s.cfg.ResultsInterval, minDelay)
		}
		return maxDuration(delay, minDelay)
	}

	// No upcoming kickoff nearby, poll far less often.
	return maxDuration(s.cfg.ScheduleInterval, 6*time.Hour)
}

func maxDuration(left, right time.Duration) time.Duration {
	if left > right {
		return left
	}
	return right
}
