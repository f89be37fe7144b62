package memory

import (
	"fmt"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/season"
)

const (
	PoolIDDemoSurvivor = "nfl-survivor-2025"
	SeedSeason         = 2025
)

func SeedPools() []pool.Pool {
	return []pool.Pool{
		{
			ID:              PoolIDDemoSurvivor,
			Name:            "NFL Survivor 2025",
			Season:          SeedSeason,
			CurrentWeek:     1,
			Status:          pool.StatusOpen,
			WeekCount:       season.MaxWeeks,
			MaxParticipants: 100,
			MaxEntries:      3,
			EntryFee:        2500,
			CreatorID:       "user-admin",
			Description:     "Pick one winner a week. Lose once and you are out.",
		},
	}
}

// SeedGames covers the opening two weeks of the demo pool's season so the
// service is usable without the schedule provider.
func SeedGames() []game.Game {
	cal := season.NewCalendar(SeedSeason)
	sundayWeek1 := cal.Opening.AddDate(0, 0, 3).Add(18 * time.Hour)
	sundayWeek2 := cal.Opening.AddDate(0, 0, 10).Add(18 * time.Hour)

	matchups := []struct {
		week    int
		home    string
		away    string
		kickoff time.Time
	}{
		{1, "Kansas City Chiefs", "Baltimore Ravens", cal.Opening.Add(24*time.Hour + 15*time.Minute)},
		{1, "Philadelphia Eagles", "Green Bay Packers", sundayWeek1},
		{1, "Buffalo Bills", "Arizona Cardinals", sundayWeek1},
		{1, "Detroit Lions", "Los Angeles Rams", sundayWeek1.Add(3 * time.Hour)},
		{1, "San Francisco 49ers", "New York Jets", sundayWeek1.Add(7 * time.Hour)},
		{2, "Baltimore Ravens", "Las Vegas Raiders", sundayWeek2},
		{2, "Dallas Cowboys", "New Orleans Saints", sundayWeek2},
		{2, "Green Bay Packers", "Indianapolis Colts", sundayWeek2},
		{2, "Kansas City Chiefs", "Cincinnati Bengals", sundayWeek2.Add(3 * time.Hour)},
		{2, "Philadelphia Eagles", "Atlanta Falcons", sundayWeek2.Add(7 * time.Hour)},
	}

	games := make([]game.Game, 0, len(matchups))
	for i, m := range matchups {
		games = append(games, game.Game{
			ID:        fmt.Sprintf("nfl-%d-w%d-%03d", SeedSeason, m.week, i+1),
			Season:    SeedSeason,
			Week:      m.week,
			HomeTeam:  m.home,
			AwayTeam:  m.away,
			KickoffAt: m.kickoff,
			Status:    game.StatusScheduled,
		})
	}
	return games
}
