package entry

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
)

const MaxPerUserPerPool = 3

// Entry is one admitted slot for a user in a pool. Elimination is one-way:
// once EliminatedWeek is set it never changes.
type Entry struct {
	ID             string
	UserID         string
	PoolID         string
	RequestID      string
	EntryNumber    int
	Status         Status
	EliminatedWeek *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("entry user id is required")
	}
	if e.PoolID == "" {
		return fmt.Errorf("entry pool id is required")
	}
	if e.EntryNumber < 1 || e.EntryNumber > MaxPerUserPerPool {
		return fmt.Errorf("entry number must be between 1 and %d", MaxPerUserPerPool)
	}
	if e.Status != StatusActive && e.Status != StatusEliminated {
		return fmt.Errorf("unknown entry status %q", e.Status)
	}
	if e.Status == StatusEliminated && e.EliminatedWeek == nil {
		return fmt.Errorf("eliminated entry must record the elimination week")
	}
	return nil
}

func (e Entry) IsActive() bool {
	return e.Status == StatusActive
}
