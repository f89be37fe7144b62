package rundown

import (
	"strings"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
)

type eventsEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	EventID   string           `json:"event_id"`
	EventDate string           `json:"event_date"`
	Score     eventScore       `json:"score"`
	Teams     []normalizedTeam `json:"teams_normalized"`
	Schedule  eventSchedule    `json:"schedule"`
}

type eventScore struct {
	EventStatus string `json:"event_status"`
	ScoreHome   int    `json:"score_home"`
	ScoreAway   int    `json:"score_away"`
}

type eventSchedule struct {
	SeasonYear int `json:"season_year"`
	Week       int `json:"week"`
}

type normalizedTeam struct {
	Name   string `json:"name"`
	Mascot string `json:"mascot"`
	IsHome bool   `json:"is_home"`
	IsAway bool   `json:"is_away"`
}

func (t normalizedTeam) fullName() string {
	return strings.TrimSpace(strings.TrimSpace(t.Name) + " " + strings.TrimSpace(t.Mascot))
}

func mapEvent(item eventItem, season, week int) (game.Game, bool) {
	if strings.TrimSpace(item.EventID) == "" {
		return game.Game{}, false
	}

	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.EventDate))
	if err != nil {
		return game.Game{}, false
	}

	var home, away string
	for _, team := range item.Teams {
		switch {
		case team.IsHome:
			home = team.fullName()
		case team.IsAway:
			away = team.fullName()
		}
	}
	if home == "" || away == "" {
		return game.Game{}, false
	}

	if item.Schedule.SeasonYear > 0 {
		season = item.Schedule.SeasonYear
	}
	if item.Schedule.Week > 0 {
		week = item.Schedule.Week
	}

	status := game.NormalizeStatus(item.Score.EventStatus)
	g := game.Game{
		ID:        strings.TrimSpace(item.EventID),
		Season:    season,
		Week:      week,
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff.UTC(),
		Status:    status,
	}

	// Scheduled games carry zeroed score fields; only surface scores once
	// the game has actually started.
	if status != game.StatusScheduled && status != game.StatusPostponed && status != game.StatusCanceled {
		homeScore := item.Score.ScoreHome
		awayScore := item.Score.ScoreAway
		g.HomeScore = &homeScore
		g.AwayScore = &awayScore
	}

	return g, true
}
