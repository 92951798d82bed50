// Package structs implements helper data structures.
package structs

import "sync"

// SyncPool is a typed wrapper around [sync.Pool] (it avoids doing type conversion after Get()).
// It is used to hand out per-goroutine scratch objects, such as samplers that
// hold an internal random buffer, to callers sharing a read-only object.
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool.
// The input function f is the function that is used to create new objects if none is available in the pool.
func NewSyncPool[T any](f func() T) *SyncPool[T] {
	pool := &sync.Pool{
		New: func() any {
			return f()
		},
	}
	return &SyncPool[T]{pool: pool}
}

// Get returns an object of type T from the pool.
func (spool *SyncPool[T]) Get() T {
	return spool.pool.Get().(T)
}

// Put returns the object to the pool.
func (spool *SyncPool[T]) Put(obj T) {
	spool.pool.Put(obj)
}
