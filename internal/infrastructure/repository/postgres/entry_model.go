package postgres

import (
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
)

type entryTableModel struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	PoolID         string     `db:"pool_id"`
	RequestID      string     `db:"request_id"`
	EntryNumber    int        `db:"entry_number"`
	Status         string     `db:"status"`
	EliminatedWeek *int       `db:"eliminated_week"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

func entryFromRow(row entryTableModel) entry.Entry {
	return entry.Entry{
		ID:             row.ID,
		UserID:         row.UserID,
		PoolID:         row.PoolID,
		RequestID:      row.RequestID,
		EntryNumber:    row.EntryNumber,
		Status:         entry.Status(row.Status),
		EliminatedWeek: row.EliminatedWeek,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

type entryInsertModel struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	PoolID      string `db:"pool_id"`
	RequestID   string `db:"request_id"`
	EntryNumber int    `db:"entry_number"`
	Status      string `db:"status"`
}
