package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = cloneGame(g)
	}

	return &GameRepository{items: items}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	return cloneGame(g), true, nil
}

func (r *GameRepository) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, g := range r.items {
		if g.Season == season && g.Week == week {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) FindByTeamAndWeek(_ context.Context, season, week int, team string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.items {
		if g.Season == season && g.Week == week && g.Involves(team) {
			return cloneGame(g), true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) UpsertBatch(_ context.Context, games []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range games {
		r.items[g.ID] = cloneGame(g)
	}
	return nil
}

func cloneGame(g game.Game) game.Game {
	copied := g
	if g.HomeScore != nil {
		score := *g.HomeScore
		copied.HomeScore = &score
	}
	if g.AwayScore != nil {
		score := *g.AwayScore
		copied.AwayScore = &score
	}
	return copied
}
