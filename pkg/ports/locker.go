package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes writes to one session's transcript across processes.
// session.Manager takes it around each load-append-save of a run, so two replicas
// recording into the same session never drop each other's runs.
type DistributedLocker interface {
	// Lock blocks until the lock on key (a session id) is held or ctx is done.
	// The lock expires after ttl if the holder dies before releasing it.
	// The returned UnlockFunc must be called once the transcript is saved.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
