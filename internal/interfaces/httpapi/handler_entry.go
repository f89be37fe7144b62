package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gridironpool/survivor-pool/internal/usecase"
)

func (h *Handler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyEntries")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	poolID := strings.TrimSpace(r.URL.Query().Get("pool_id"))
	entries, err := h.entryService.ListUserEntries(ctx, principal.UserID, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user entries failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntry")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	entryID := r.PathValue("entryID")
	e, err := h.entryService.GetEntry(ctx, entryID, principal.UserID, principal.IsAdmin())
	if err != nil {
		h.logger.WarnContext(ctx, "get entry failed", "entry_id", entryID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(ctx, e))
}

// ListPoolEntries shows the surviving and eliminated entries of a pool, the
// standings board every participant watches after each grading run.
func (h *Handler) ListPoolEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolEntries")
	defer span.End()

	poolID := r.PathValue("poolID")
	entries, err := h.entryService.ListPoolEntries(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pool entries failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
