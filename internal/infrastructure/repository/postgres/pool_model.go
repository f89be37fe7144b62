package postgres

import (
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
)

type poolTableModel struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Season          int        `db:"season"`
	CurrentWeek     int        `db:"current_week"`
	Status          string     `db:"status"`
	WeekCount       int        `db:"week_count"`
	MaxParticipants int        `db:"max_participants"`
	MaxEntries      int        `db:"max_entries"`
	EntryFee        int64      `db:"entry_fee"`
	PrizePot        int64      `db:"prize_pot"`
	CreatorID       string     `db:"creator_id"`
	Description     *string    `db:"description"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

func poolFromRow(row poolTableModel) pool.Pool {
	return pool.Pool{
		ID:              row.ID,
		Name:            row.Name,
		Season:          row.Season,
		CurrentWeek:     row.CurrentWeek,
		Status:          pool.Status(row.Status),
		WeekCount:       row.WeekCount,
		MaxParticipants: row.MaxParticipants,
		MaxEntries:      row.MaxEntries,
		EntryFee:        row.EntryFee,
		PrizePot:        row.PrizePot,
		CreatorID:       row.CreatorID,
		Description:     derefString(row.Description),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type poolInsertModel struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Season          int     `db:"season"`
	CurrentWeek     int     `db:"current_week"`
	Status          string  `db:"status"`
	WeekCount       int     `db:"week_count"`
	MaxParticipants int     `db:"max_participants"`
	MaxEntries      int     `db:"max_entries"`
	EntryFee        int64   `db:"entry_fee"`
	PrizePot        int64   `db:"prize_pot"`
	CreatorID       string  `db:"creator_id"`
	Description     *string `db:"description"`
}
