// Package lazy builds process-wide clients on first use.
package lazy

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Value holds a T created on first use. Concurrent first callers share a
// single in-flight init; a successful result is cached, a failed one is not.
type Value[T any] struct {
	init  func(ctx context.Context) (T, error)
	group singleflight.Group

	mu    sync.RWMutex
	value T
	ready bool
}

// New returns a Value that calls init on first Get.
func New[T any](init func(ctx context.Context) (T, error)) *Value[T] {
	return &Value[T]{init: init}
}

// Get returns the cached value or runs init.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.mu.RLock()
	if v.ready {
		defer v.mu.RUnlock()
		return v.value, nil
	}
	v.mu.RUnlock()

	res, err, _ := v.group.Do("init", func() (any, error) {
		v.mu.RLock()
		if v.ready {
			defer v.mu.RUnlock()
			return v.value, nil
		}
		v.mu.RUnlock()

		// The init outlives the first caller's cancellation; others may be waiting.
		value, err := v.init(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		v.mu.Lock()
		v.value, v.ready = value, true
		v.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
