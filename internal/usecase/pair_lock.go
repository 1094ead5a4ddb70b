package usecase

import "sync"

// pairLocks serializes private-chat creation per normalized participant
// pair, closing the find-or-create race between concurrent requests for the
// same pair. Locks are never reclaimed; the key space is bounded by the
// pairs actually requested.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Acquire locks the mutex for the given key and returns its release func.
func (p *pairLocks) Acquire(key string) func() {
	p.mu.Lock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
