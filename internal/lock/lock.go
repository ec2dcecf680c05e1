// Package lock serializes work per key. The ledger takes one lock per group
// around every mutation so recalculation and balance replacement for a group
// never interleave.
package lock

import (
	"context"
	"errors"
)

// ErrNotObtained is returned when a lock could not be acquired before the
// context was done or the retry budget ran out.
var ErrNotObtained = errors.New("lock not obtained")

// Locker hands out exclusive locks by key.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned function
	// releases the lock and is safe to call more than once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// GroupKey is the lock key for a ledger group.
func GroupKey(groupID string) string {
	return "ledger:group:" + groupID
}
