package pick

import (
	"errors"
	"fmt"
	"time"
)

// ErrTeamReused is returned by repositories when a write would give an entry
// the same team in two different weeks. It is the storage-level backstop for
// the season-long team-reuse rule.
var ErrTeamReused = errors.New("team already used this season for this entry")

type Result string

const (
	ResultPending Result = "pending"
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
)

// Pick is a single weekly team selection belonging to one entry. At most one
// pick exists per (entry, entryNumber, week), and a team may be used at most
// once per entry across the season.
type Pick struct {
	ID          string
	EntryID     string
	EntryNumber int
	PoolID      string
	Week        int
	Team        string
	GameID      string
	Result      Result
	PickedAt    time.Time
	UpdatedAt   time.Time
}

func (p Pick) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.EntryID == "" {
		return fmt.Errorf("pick entry id is required")
	}
	if p.EntryNumber < 1 {
		return fmt.Errorf("pick entry number must be at least 1")
	}
	if p.Week < 1 {
		return fmt.Errorf("pick week must be at least 1")
	}
	if p.Team == "" {
		return fmt.Errorf("pick team is required")
	}
	switch p.Result {
	case ResultPending, ResultWin, ResultLoss:
	default:
		return fmt.Errorf("unknown pick result %q", p.Result)
	}
	return nil
}

// Graded reports whether the pick's result has already been settled.
func (p Pick) Graded() bool {
	return p.Result != ResultPending
}
