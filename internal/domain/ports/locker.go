package ports

import "context"

// Locker provides mutual exclusion keyed by string, across goroutines and,
// for distributed implementations, across processes.
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
