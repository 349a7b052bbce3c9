package memory

import "time"

func laterOf(current, next *time.Time) *time.Time {
	switch {
	case current == nil && next == nil:
		return nil
	case current == nil:
		v := *next
		return &v
	case next == nil || !next.After(*current):
		v := *current
		return &v
	default:
		v := *next
		return &v
	}
}
