package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	pools, err := h.poolService.ListPools(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pools failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]poolDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPool")
	defer span.End()

	poolID := r.PathValue("poolID")
	p, err := h.poolService.GetPool(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pool failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolToDTO(ctx, p))
}

func (h *Handler) CreatePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPoolRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.poolService.CreatePool(ctx, usecase.CreatePoolInput{
		Name:            req.Name,
		Season:          req.Season,
		WeekCount:       req.WeekCount,
		MaxParticipants: req.MaxParticipants,
		MaxEntries:      req.MaxEntries,
		EntryFee:        req.EntryFee,
		CreatorID:       principal.UserID,
		Description:     req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create pool failed", "creator_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, poolToDTO(ctx, p))
}

func (h *Handler) UpdatePoolStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePoolStatus")
	defer span.End()

	poolID := r.PathValue("poolID")

	var req updatePoolStatusRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.poolService.UpdatePoolStatus(ctx, poolID, pool.Status(req.Status))
	if err != nil {
		h.logger.WarnContext(ctx, "update pool status failed", "pool_id", poolID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolToDTO(ctx, p))
}

// ListPoolWeekGames returns the slate of games a pool's participants can pick
// from for one week, scores included once games have started.
func (h *Handler) ListPoolWeekGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolWeekGames")
	defer span.End()

	poolID := r.PathValue("poolID")
	week, err := parsePathInt(r.PathValue("week"), "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.poolService.GetPool(ctx, poolID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if week < 1 || week > p.WeekCount {
		writeError(ctx, w, fmt.Errorf("%w: week must be between 1 and %d", usecase.ErrInvalidInput, p.WeekCount))
		return
	}

	games, err := h.gameRepo.ListByWeek(ctx, p.Season, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list week games failed", "pool_id", poolID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parsePathInt(raw, name string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
