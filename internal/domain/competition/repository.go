package competition

import "context"

type Repository interface {
	GetEventByID(ctx context.Context, id string) (Event, bool, error)
	GetEventByVisualCode(ctx context.Context, code string) (Event, bool, error)
	UpsertEvent(ctx context.Context, item Event) (Event, error)

	GetSubEvent(ctx context.Context, eventID, code string) (SubEvent, bool, error)
	ListSubEvents(ctx context.Context, eventID string) ([]SubEvent, error)
	UpsertSubEvent(ctx context.Context, item SubEvent) (SubEvent, error)

	GetDraw(ctx context.Context, subEventID, code string) (Draw, bool, error)
	// ListDrawsByCode returns every draw with the given code under any sub-event of the event.
	ListDrawsByCode(ctx context.Context, eventID, code string) ([]Draw, error)
	UpsertDraw(ctx context.Context, item Draw) (Draw, error)

	// AdvanceWatermarks moves LastSync forward for all listed entities in one
	// transaction. A watermark never moves backwards.
	AdvanceWatermarks(ctx context.Context, marks Watermarks) error
}
