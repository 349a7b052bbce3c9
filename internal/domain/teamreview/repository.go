package teamreview

import (
	"context"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/team"
)

// ResolveCommand carries every write of a review resolution. Implementations
// apply them in one transaction: the optional new team, the review's terminal
// state and the matching tournament team row.
type ResolveCommand struct {
	ReviewID   string
	Resolution Resolution
	TeamID     *string
	NewTeam    *team.Team
	ResolvedBy string
	Notes      string
	ResolvedAt time.Time
	MatchScore float64
}

type Repository interface {
	// Create returns ErrPendingExists when the external team already has a
	// pending review in the tournament.
	Create(ctx context.Context, item Review) error
	GetByID(ctx context.Context, id string) (Review, bool, error)
	FindPending(ctx context.Context, tournamentCode, externalCode string) (Review, bool, error)
	ListPending(ctx context.Context, filter ListFilter) ([]Review, error)
	// Resolve returns ErrAlreadyResolved when the review is no longer pending.
	Resolve(ctx context.Context, cmd ResolveCommand) (Review, error)
}
