package game

import "context"

// Repository describes game persistence needs from use cases. Games are
// written only by schedule synchronization; everything else reads.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByWeek(ctx context.Context, season, week int) ([]Game, error)
	// FindByTeamAndWeek resolves the game a team plays in a given week.
	FindByTeamAndWeek(ctx context.Context, season, week int, team string) (Game, bool, error)
	UpsertBatch(ctx context.Context, games []Game) error
}

// Source is the external schedule provider contract: it supplies the weekly
// slate and final outcomes. Implemented by the rundown client.
type Source interface {
	FetchWeek(ctx context.Context, season, week int) ([]Game, error)
}
