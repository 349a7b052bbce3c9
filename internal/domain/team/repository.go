package team

import "context"

// Repository describes internal team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListCandidates(ctx context.Context, query CandidateQuery) ([]Team, error)
	Create(ctx context.Context, item Team) error
}
