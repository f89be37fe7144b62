package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/gridironpool/survivor-pool/internal/usecase"
)

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	poolID := r.PathValue("poolID")

	var req createEntryRequestPayload
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

	created, err := h.requestService.CreateRequest(ctx, usecase.CreateRequestInput{
		UserID:          principal.UserID,
		PoolID:          poolID,
		NumberOfEntries: req.NumberOfEntries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create request failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, requestToDTO(ctx, created))
}

func (h *Handler) ConfirmRequestPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmRequestPayment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")

	var req confirmPaymentRequest
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

	updated, err := h.requestService.ConfirmPayment(ctx, usecase.ConfirmPaymentInput{
		RequestID:     requestID,
		UserID:        principal.UserID,
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "confirm payment failed", "request_id", requestID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(ctx, updated))
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveRequest")
	defer span.End()

	requestID := r.PathValue("requestID")
	result, err := h.requestService.ApproveRequest(ctx, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, approvalToDTO(ctx, result))
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectRequest")
	defer span.End()

	requestID := r.PathValue("requestID")
	rejected, err := h.requestService.RejectRequest(ctx, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "reject request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(ctx, rejected))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	found, err := h.requestService.GetRequest(ctx, requestID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if found.UserID != principal.UserID && !principal.IsAdmin() {
		writeError(ctx, w, fmt.Errorf("%w: request belongs to another user", usecase.ErrForbidden))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(ctx, found))
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyRequests")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	requests, err := h.requestService.ListUserRequests(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user requests failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]requestDTO, 0, len(requests))
	for _, item := range requests {
		items = append(items, requestToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPoolRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolRequests")
	defer span.End()

	poolID := r.PathValue("poolID")
	requests, err := h.requestService.ListPoolRequests(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pool requests failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]requestDTO, 0, len(requests))
	for _, item := range requests {
		items = append(items, requestToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
