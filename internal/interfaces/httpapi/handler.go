package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

type Handler struct {
	poolService     *usecase.PoolService
	requestService  *usecase.RequestService
	entryService    *usecase.EntryService
	pickService     *usecase.PickService
	jobOrchestrator *usecase.JobOrchestratorService
	gameRepo        game.Repository
	jobDispatchRepo jobscheduler.Repository
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	poolService *usecase.PoolService,
	requestService *usecase.RequestService,
	entryService *usecase.EntryService,
	pickService *usecase.PickService,
	jobOrchestrator *usecase.JobOrchestratorService,
	gameRepo game.Repository,
	jobDispatchRepo jobscheduler.Repository,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		poolService:     poolService,
		requestService:  requestService,
		entryService:    entryService,
		pickService:     pickService,
		jobOrchestrator: jobOrchestrator,
		gameRepo:        gameRepo,
		jobDispatchRepo: jobDispatchRepo,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
