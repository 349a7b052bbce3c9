package syncjob

import "context"

type Repository interface {
	Create(ctx context.Context, item Log) error
	// Update persists a status change. It returns ErrInvalidTransition when the
	// stored row is not in a state that may move to item.Status.
	Update(ctx context.Context, item Log) error
	GetByID(ctx context.Context, id string) (Log, bool, error)
	ListRecent(ctx context.Context, filter ListFilter) ([]Log, error)
}
