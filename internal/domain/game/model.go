package game

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "STATUS_SCHEDULED"
	StatusInProgress = "STATUS_IN_PROGRESS"
	StatusFinal      = "STATUS_FINAL"
	StatusPostponed  = "STATUS_POSTPONED"
	StatusCanceled   = "STATUS_CANCELED"
)

// Game is one scheduled NFL matchup as supplied by the schedule provider.
// This service only reads games: to gate pick timing against KickoffAt and
// to resolve pick outcomes from the final score.
type Game struct {
	ID        string
	Season    int
	Week      int
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	HomeScore *int
	AwayScore *int
	UpdatedAt time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinal, "STATUS_FINAL_OVERTIME", "FINAL", "F", "F/OT":
		return true
	default:
		return false
	}
}

func IsDecidedStatus(status string) bool {
	return IsFinalStatus(status)
}

// Involves reports whether the team plays in this game. Team names are
// matched case-insensitively the way the schedule provider reports them.
func (g Game) Involves(team string) bool {
	return strings.EqualFold(g.HomeTeam, team) || strings.EqualFold(g.AwayTeam, team)
}

// Winner returns the winning team name for a final game, or "" for a game
// that is not final or ended tied.
func (g Game) Winner() string {
	if !IsFinalStatus(g.Status) || g.HomeScore == nil || g.AwayScore == nil {
		return ""
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam
	default:
		return ""
	}
}
