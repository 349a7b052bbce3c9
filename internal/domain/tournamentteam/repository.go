package tournamentteam

import "context"

type Repository interface {
	Get(ctx context.Context, key Key) (Team, bool, error)
	// Upsert inserts or updates the row for item.Key() and returns the stored row.
	Upsert(ctx context.Context, item Team) (Team, error)
	ListByMatchType(ctx context.Context, tournamentCode string, matchType MatchType) ([]Team, error)
}
