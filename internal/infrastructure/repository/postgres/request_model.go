package postgres

import (
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/request"
)

type requestTableModel struct {
	ID              string     `db:"id"`
	UserID          string     `db:"user_id"`
	PoolID          string     `db:"pool_id"`
	NumberOfEntries int        `db:"number_of_entries"`
	Status          string     `db:"status"`
	PaymentMethod   *string    `db:"payment_method"`
	TransactionID   *string    `db:"transaction_id"`
	TotalAmount     int64      `db:"total_amount"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

func requestFromRow(row requestTableModel) request.Request {
	return request.Request{
		ID:              row.ID,
		UserID:          row.UserID,
		PoolID:          row.PoolID,
		NumberOfEntries: row.NumberOfEntries,
		Status:          request.Status(row.Status),
		PaymentMethod:   derefString(row.PaymentMethod),
		TransactionID:   derefString(row.TransactionID),
		TotalAmount:     row.TotalAmount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type requestInsertModel struct {
	ID              string `db:"id"`
	UserID          string `db:"user_id"`
	PoolID          string `db:"pool_id"`
	NumberOfEntries int    `db:"number_of_entries"`
	Status          string `db:"status"`
	TotalAmount     int64  `db:"total_amount"`
}
