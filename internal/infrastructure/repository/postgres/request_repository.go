package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/request"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type RequestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) GetByID(ctx context.Context, requestID string) (request.Request, bool, error) {
	query, args, err := qb.Select("*").From("requests").
		Where(
			qb.Eq("id", requestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return request.Request{}, false, fmt.Errorf("build get request by id query: %w", err)
	}

	var row requestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return request.Request{}, false, nil
		}
		return request.Request{}, false, fmt.Errorf("get request by id: %w", err)
	}

	return requestFromRow(row), true, nil
}

func (r *RequestRepository) ListByPool(ctx context.Context, poolID string) ([]request.Request, error) {
	return r.list(ctx, qb.Eq("pool_id", poolID))
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]request.Request, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *RequestRepository) list(ctx context.Context, conditions ...qb.Condition) ([]request.Request, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Select("*").From("requests").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list requests query: %w", err)
	}

	var rows []requestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select requests: %w", err)
	}

	out := make([]request.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, requestFromRow(row))
	}

	return out, nil
}

// SumOpenEntries totals the entries asked for by requests that are still in
// flight (pending or payment_pending) for one user and pool.
func (r *RequestRepository) SumOpenEntries(ctx context.Context, userID, poolID string) (int, error) {
	query, args, err := qb.Select("COALESCE(SUM(number_of_entries), 0)").From("requests").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("pool_id", poolID),
			qb.In("status", []any{string(request.StatusPending), string(request.StatusPaymentPending)}),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build sum open requests query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum open requests: %w", err)
	}

	return total, nil
}

func (r *RequestRepository) Insert(ctx context.Context, req request.Request) error {
	model := requestInsertModel{
		ID:              req.ID,
		UserID:          req.UserID,
		PoolID:          req.PoolID,
		NumberOfEntries: req.NumberOfEntries,
		Status:          string(req.Status),
		TotalAmount:     req.TotalAmount,
	}

	query, args, err := qb.InsertModel("requests", model, "")
	if err != nil {
		return fmt.Errorf("build insert request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return request.ErrOpenRequestExists
		}
		return fmt.Errorf("insert request id=%s: %w", req.ID, err)
	}

	return nil
}

func (r *RequestRepository) Update(ctx context.Context, req request.Request) error {
	query, args, err := qb.Update("requests").
		Set("status", string(req.Status)).
		Set("payment_method", optionalString(req.PaymentMethod)).
		Set("transaction_id", optionalString(req.TransactionID)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", req.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update request id=%s: %w", req.ID, err)
	}

	return nil
}
