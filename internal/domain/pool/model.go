package pool

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// statusRank orders the pool lifecycle. Transitions may only move forward.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusOpen:      1,
	StatusActive:    2,
	StatusCompleted: 3,
}

func ValidStatus(s Status) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a pool may move from one status to the next.
// Backward transitions are never allowed.
func CanTransition(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Pool is a season-long survivor competition with an entry fee and prize pot.
type Pool struct {
	ID              string
	Name            string
	Season          int
	CurrentWeek     int
	Status          Status
	WeekCount       int
	MaxParticipants int
	MaxEntries      int
	EntryFee        int64
	PrizePot        int64
	CreatorID       string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p Pool) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pool id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("pool name is required")
	}
	if p.Season < 2020 {
		return fmt.Errorf("pool season must be 2020 or later")
	}
	if p.WeekCount < 1 || p.WeekCount > 18 {
		return fmt.Errorf("pool week count must be between 1 and 18")
	}
	if !ValidStatus(p.Status) {
		return fmt.Errorf("unknown pool status %q", p.Status)
	}
	if p.MaxParticipants < 2 {
		return fmt.Errorf("pool must allow at least 2 participants")
	}
	if p.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative")
	}
	if p.CreatorID == "" {
		return fmt.Errorf("pool creator is required")
	}
	return nil
}

// AcceptsRequests reports whether users may currently ask to join.
func (p Pool) AcceptsRequests() bool {
	return p.Status == StatusOpen
}
