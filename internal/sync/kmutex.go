package sync

import (
	"sync"
)

// KMutex hands out sync.Locker instances for locking by a key, the zero value is ready to use.
// Callers of Do with the same key run one at a time, so a result cached by the first one can be reused by the rest.
type KMutex[K comparable] struct {
	mu sync.Mutex
	mx map[K]*refCtMutex
}

// refCtMutex is a reference counted mutex, the count is guarded by KMutex.mu.
type refCtMutex struct {
	sync.Mutex

	refCount int
}

// Make returns a mutex for the specified key with its reference counter incremented by one, created if not present.
func (km *KMutex[K]) Make(key K) sync.Locker {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.mx == nil {
		km.mx = make(map[K]*refCtMutex, 1)
	} else if mu, ok := km.mx[key]; ok {
		mu.refCount++
		return mu
	}

	mu := &refCtMutex{refCount: 1}
	km.mx[key] = mu
	return mu
}

// Release decrements the reference counter for the mutex with the supplied key, removing it entirely if it reaches zero.
func (km *KMutex[K]) Release(key K) {
	km.mu.Lock()
	defer km.mu.Unlock()

	if mu, ok := km.mx[key]; ok {
		mu.refCount--
		if mu.refCount <= 0 {
			delete(km.mx, key)
		}
	}
}

// Len returns the number of keys currently held.
func (km *KMutex[K]) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return len(km.mx)
}

// Do acquires a lock for the key, runs the action and releases it.
func (km *KMutex[K]) Do(key K, action func() error) error {
	mu := km.Make(key)
	mu.Lock()
	defer func() {
		mu.Unlock()
		km.Release(key)
	}()

	return action()
}
