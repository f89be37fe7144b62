package cache

import (
	"context"
	"strconv"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	basecache "github.com/gridironpool/survivor-pool/internal/platform/cache"
)

// GameRepository caches game reads in front of the persistent store. Pick
// validation hits GetByID and FindByTeamAndWeek on every submission while the
// slate only changes when a sync job runs, so the whole game keyspace is
// invalidated on UpsertBatch.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := "game:id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: cloneGame(item), exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cloneGame(cached.value), cached.exists, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	key := "game:week:" + strconv.Itoa(season) + ":" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByWeek(ctx, season, week)
		if err != nil {
			return nil, err
		}
		return cloneGames(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return cloneGames(items), nil
}

func (r *GameRepository) FindByTeamAndWeek(ctx context.Context, season, week int, team string) (game.Game, bool, error) {
	key := "game:team:" + strconv.Itoa(season) + ":" + strconv.Itoa(week) + ":" + team
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.FindByTeamAndWeek(ctx, season, week, team)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: cloneGame(item), exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cloneGame(cached.value), cached.exists, nil
}

func (r *GameRepository) UpsertBatch(ctx context.Context, games []game.Game) error {
	if err := r.next.UpsertBatch(ctx, games); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

func cloneGame(item game.Game) game.Game {
	out := item
	if item.HomeScore != nil {
		v := *item.HomeScore
		out.HomeScore = &v
	}
	if item.AwayScore != nil {
		v := *item.AwayScore
		out.AwayScore = &v
	}
	return out
}

func cloneGames(items []game.Game) []game.Game {
	out := make([]game.Game, 0, len(items))
	for _, item := range items {
		out = append(out, cloneGame(item))
	}
	return out
}

// PoolRepository caches pool reads. Pools change rarely; every request and
// pick submission loads one.
type PoolRepository struct {
	next  pool.Repository
	cache *basecache.Store
}

func NewPoolRepository(next pool.Repository, cache *basecache.Store) *PoolRepository {
	return &PoolRepository{next: next, cache: cache}
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "pool:id:"+poolID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, poolID)
		if err != nil {
			return nil, err
		}
		return cachedPoolByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return pool.Pool{}, false, err
	}

	cached, _ := v.(cachedPoolByID)
	return cached.value, cached.exists, nil
}

func (r *PoolRepository) List(ctx context.Context) ([]pool.Pool, error) {
	v, err := r.cache.GetOrLoad(ctx, "pool:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]pool.Pool(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]pool.Pool)
	return append([]pool.Pool(nil), items...), nil
}

func (r *PoolRepository) Insert(ctx context.Context, item pool.Pool) error {
	if err := r.next.Insert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "pool:list")
	r.cache.Delete(ctx, "pool:id:"+item.ID)
	return nil
}

func (r *PoolRepository) UpdateStatus(ctx context.Context, poolID string, status pool.Status) error {
	if err := r.next.UpdateStatus(ctx, poolID, status); err != nil {
		return err
	}
	r.cache.Delete(ctx, "pool:list")
	r.cache.Delete(ctx, "pool:id:"+poolID)
	return nil
}

type cachedPoolByID struct {
	value  pool.Pool
	exists bool
}
