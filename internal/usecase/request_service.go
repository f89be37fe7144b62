package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/request"
	idgen "github.com/gridironpool/survivor-pool/internal/platform/id"
)

// CreateRequestInput is the incoming payload for asking to join a pool.
type CreateRequestInput struct {
	UserID          string
	PoolID          string
	NumberOfEntries int
}

// ConfirmPaymentInput records the payment a user made for a pending request.
type ConfirmPaymentInput struct {
	RequestID     string
	UserID        string
	TransactionID string
	PaymentMethod string
}

// ApprovalResult is what an approved request produced.
type ApprovalResult struct {
	Request request.Request
	Entries []entry.Entry
}

type RequestService struct {
	poolRepo    pool.Repository
	requestRepo request.Repository
	entryRepo   entry.Repository
	idGen       idgen.Generator
	logger      *slog.Logger
	now         func() time.Time
}

func NewRequestService(
	poolRepo pool.Repository,
	requestRepo request.Repository,
	entryRepo entry.Repository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RequestService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RequestService{
		poolRepo:    poolRepo,
		requestRepo: requestRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRequest opens a pending request for entries into a pool. A user holds
// at most one open request per pool, and their existing entries plus the new
// ask may never exceed the per-pool allowance of three.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.CreateRequest")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.PoolID = strings.TrimSpace(input.PoolID)
	if input.UserID == "" {
		return request.Request{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.PoolID == "" {
		return request.Request{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}
	if input.NumberOfEntries < 1 || input.NumberOfEntries > entry.MaxPerUserPerPool {
		return request.Request{}, fmt.Errorf("%w: number of entries must be between 1 and %d", ErrInvalidInput, entry.MaxPerUserPerPool)
	}

	p, found, err := s.poolRepo.GetByID(ctx, input.PoolID)
	if err != nil {
		return request.Request{}, fmt.Errorf("get pool: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: pool=%s", ErrNotFound, input.PoolID)
	}
	if !p.AcceptsRequests() {
		return request.Request{}, fmt.Errorf("%w: pool %s is not open for requests", ErrConflict, input.PoolID)
	}

	entryCount, err := s.entryRepo.CountByUserAndPool(ctx, input.UserID, input.PoolID)
	if err != nil {
		return request.Request{}, fmt.Errorf("count entries: %w", err)
	}
	openRequested, err := s.requestRepo.SumOpenEntries(ctx, input.UserID, input.PoolID)
	if err != nil {
		return request.Request{}, fmt.Errorf("sum open requests: %w", err)
	}
	if openRequested > 0 {
		return request.Request{}, fmt.Errorf("%w: user already has an open request for pool %s", ErrConflict, input.PoolID)
	}
	if entryCount+openRequested+input.NumberOfEntries > entry.MaxPerUserPerPool {
		return request.Request{}, fmt.Errorf("%w: maximum of %d entries per pool", ErrConflict, entry.MaxPerUserPerPool)
	}

	requestID, err := s.idGen.NewID()
	if err != nil {
		return request.Request{}, fmt.Errorf("generate request id: %w", err)
	}

	now := s.now().UTC()
	r := request.Request{
		ID:              requestID,
		UserID:          input.UserID,
		PoolID:          input.PoolID,
		NumberOfEntries: input.NumberOfEntries,
		Status:          request.StatusPending,
		TotalAmount:     int64(input.NumberOfEntries) * p.EntryFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.Validate(); err != nil {
		return request.Request{}, fmt.Errorf("validate request: %w", err)
	}

	if err := s.requestRepo.Insert(ctx, r); err != nil {
		if errors.Is(err, request.ErrOpenRequestExists) {
			return request.Request{}, fmt.Errorf("%w: user already has an open request for pool %s", ErrConflict, input.PoolID)
		}
		return request.Request{}, fmt.Errorf("insert request: %w", err)
	}

	s.logger.InfoContext(ctx, "request created",
		"request_id", r.ID,
		"pool_id", r.PoolID,
		"user_id", r.UserID,
		"entries", r.NumberOfEntries,
		"total_amount", r.TotalAmount,
	)

	return r, nil
}

// ConfirmPayment moves a pending request to payment_pending and records the
// payment reference. Only the request owner may confirm, and only once.
func (s *RequestService) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.ConfirmPayment")
	defer span.End()

	input.TransactionID = strings.TrimSpace(input.TransactionID)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if input.TransactionID == "" {
		return request.Request{}, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if input.PaymentMethod == "" {
		return request.Request{}, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	r, found, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return request.Request{}, fmt.Errorf("get request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request=%s", ErrNotFound, input.RequestID)
	}
	if r.UserID != input.UserID {
		return request.Request{}, fmt.Errorf("%w: request %s does not belong to caller", ErrForbidden, input.RequestID)
	}
	if r.Status != request.StatusPending {
		return request.Request{}, fmt.Errorf("%w: payment already confirmed or request closed (status=%s)", ErrConflict, r.Status)
	}

	r.Status = request.StatusPaymentPending
	r.TransactionID = input.TransactionID
	r.PaymentMethod = input.PaymentMethod
	r.UpdatedAt = s.now().UTC()

	if err := s.requestRepo.Update(ctx, r); err != nil {
		return request.Request{}, fmt.Errorf("update request: %w", err)
	}

	s.logger.InfoContext(ctx, "request payment confirmed", "request_id", r.ID, "method", r.PaymentMethod)
	return r, nil
}

// ApproveRequest approves a payment-confirmed request and creates its
// entries, numbered 1..NumberOfEntries. Entry creation is all-or-nothing: if
// the batch insert fails, the request's approved status is rolled back so it
// never promises entries that do not exist.
func (s *RequestService) ApproveRequest(ctx context.Context, requestID string) (ApprovalResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.ApproveRequest")
	defer span.End()

	r, found, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return ApprovalResult{}, fmt.Errorf("get request: %w", err)
	}
	if !found {
		return ApprovalResult{}, fmt.Errorf("%w: request=%s", ErrNotFound, requestID)
	}
	if r.Status == request.StatusPending {
		return ApprovalResult{}, fmt.Errorf("%w: request %s payment has not been confirmed", ErrConflict, requestID)
	}
	if r.Status != request.StatusPaymentPending {
		return ApprovalResult{}, fmt.Errorf("%w: request %s is not awaiting approval (status=%s)", ErrConflict, requestID, r.Status)
	}

	now := s.now().UTC()
	entries := make([]entry.Entry, 0, r.NumberOfEntries)
	for i := 1; i <= r.NumberOfEntries; i++ {
		entryID, err := s.idGen.NewID()
		if err != nil {
			return ApprovalResult{}, fmt.Errorf("generate entry id: %w", err)
		}
		entries = append(entries, entry.Entry{
			ID:          entryID,
			UserID:      r.UserID,
			PoolID:      r.PoolID,
			RequestID:   r.ID,
			EntryNumber: i,
			Status:      entry.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	previousStatus := r.Status
	r.Status = request.StatusApproved
	r.UpdatedAt = now
	if err := s.requestRepo.Update(ctx, r); err != nil {
		return ApprovalResult{}, fmt.Errorf("mark request approved: %w", err)
	}

	if err := s.entryRepo.InsertBatch(ctx, entries); err != nil {
		r.Status = previousStatus
		r.UpdatedAt = s.now().UTC()
		if revertErr := s.requestRepo.Update(ctx, r); revertErr != nil {
			s.logger.ErrorContext(ctx, "revert request status after entry failure",
				"request_id", r.ID, "error", revertErr)
		}
		return ApprovalResult{}, fmt.Errorf("create entries for request %s: %w", r.ID, err)
	}

	s.logger.InfoContext(ctx, "request approved",
		"request_id", r.ID,
		"pool_id", r.PoolID,
		"user_id", r.UserID,
		"entries_created", len(entries),
	)

	return ApprovalResult{Request: r, Entries: entries}, nil
}

// RejectRequest closes a request without creating entries. An approved
// request can never be rejected.
func (s *RequestService) RejectRequest(ctx context.Context, requestID string) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.RejectRequest")
	defer span.End()

	r, found, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return request.Request{}, fmt.Errorf("get request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request=%s", ErrNotFound, requestID)
	}
	if r.Status == request.StatusApproved {
		return request.Request{}, fmt.Errorf("%w: cannot reject an already approved request", ErrConflict)
	}

	r.Status = request.StatusRejected
	r.UpdatedAt = s.now().UTC()
	if err := s.requestRepo.Update(ctx, r); err != nil {
		return request.Request{}, fmt.Errorf("update request: %w", err)
	}

	s.logger.InfoContext(ctx, "request rejected", "request_id", r.ID)
	return r, nil
}

// GetRequest returns one request, owner- or admin-visible as decided by the
// HTTP layer.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.GetRequest")
	defer span.End()

	r, found, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return request.Request{}, fmt.Errorf("get request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request=%s", ErrNotFound, requestID)
	}
	return r, nil
}

// ListPoolRequests returns every request made against a pool.
func (s *RequestService) ListPoolRequests(ctx context.Context, poolID string) ([]request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.ListPoolRequests")
	defer span.End()

	if _, found, err := s.poolRepo.GetByID(ctx, poolID); err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}

	requests, err := s.requestRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool requests: %w", err)
	}
	return requests, nil
}

// ListUserRequests returns every request the user has made.
func (s *RequestService) ListUserRequests(ctx context.Context, userID string) ([]request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.ListUserRequests")
	defer span.End()

	requests, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user requests: %w", err)
	}
	return requests, nil
}
