package ports

import "context"

// UserCache is a best-effort read-through cache of user projections.
//
// Every id carries a generation that Invalidate advances. Get reports the
// generation it saw and Set stores only while that generation is current,
// so a value read before an update or delete is never written back.
type UserCache interface {
	// Get returns nil and no error on a miss.
	Get(ctx context.Context, id string) (*UserDTO, uint64, error)
	Set(ctx context.Context, user *UserDTO, generation uint64) error
	Invalidate(ctx context.Context, id string) error
}
