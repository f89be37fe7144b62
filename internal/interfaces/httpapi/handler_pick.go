package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/gridironpool/survivor-pool/internal/usecase"
)

type pickPathParams struct {
	EntryID     string
	EntryNumber int
	Week        int
}

func pickParamsFromRequest(r *http.Request) (pickPathParams, error) {
	entryNumber, err := parsePathInt(r.PathValue("entryNumber"), "entry number")
	if err != nil {
		return pickPathParams{}, err
	}
	week, err := parsePathInt(r.PathValue("week"), "week")
	if err != nil {
		return pickPathParams{}, err
	}

	return pickPathParams{
		EntryID:     r.PathValue("entryID"),
		EntryNumber: entryNumber,
		Week:        week,
	}, nil
}

func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	params, err := pickParamsFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// Ownership check runs through the entry service so a user can never read
	// another entry's pick before kickoff.
	if _, err := h.entryService.GetEntry(ctx, params.EntryID, principal.UserID, principal.IsAdmin()); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, found, err := h.pickService.GetPickForWeek(ctx, params.EntryID, params.EntryNumber, params.Week)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no pick for week %d", usecase.ErrNotFound, params.Week))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, p))
}

func (h *Handler) PutPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	params, err := pickParamsFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req putPickRequest
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

	p, err := h.pickService.AddOrUpdatePick(ctx, usecase.AddOrUpdatePickInput{
		EntryID:     params.EntryID,
		EntryNumber: params.EntryNumber,
		UserID:      principal.UserID,
		Team:        req.Team,
		Week:        params.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "put pick failed",
			"entry_id", params.EntryID,
			"entry_number", params.EntryNumber,
			"week", params.Week,
			"team", req.Team,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, p))
}

func (h *Handler) PatchPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PatchPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	params, err := pickParamsFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req patchPickRequest
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

	p, err := h.pickService.UpdatePick(ctx, params.EntryID, params.EntryNumber, params.Week, principal.UserID, usecase.UpdatePickPatch{
		Team: req.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "patch pick failed",
			"entry_id", params.EntryID,
			"entry_number", params.EntryNumber,
			"week", params.Week,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, p))
}

func (h *Handler) DeletePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	params, err := pickParamsFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.pickService.DeletePick(ctx, params.EntryID, params.EntryNumber, params.Week, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "delete pick failed",
			"entry_id", params.EntryID,
			"entry_number", params.EntryNumber,
			"week", params.Week,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListEntryPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEntryPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	entryID := r.PathValue("entryID")
	if _, err := h.entryService.GetEntry(ctx, entryID, principal.UserID, principal.IsAdmin()); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.pickService.ListPicksForEntry(ctx, entryID)
	if err != nil {
		h.logger.WarnContext(ctx, "list entry picks failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, pickToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
