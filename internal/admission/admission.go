package admission

import "context"

// Gate is the advisory per-user throttle consulted before starting a job.
// TryAdmit reports whether the user may start a job now; on true the user is
// marked busy for the cool-down window. Implementations fail open: a broken
// store admits rather than blocks.
type Gate interface {
	TryAdmit(ctx context.Context, userID int64) bool
}
