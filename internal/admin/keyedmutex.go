package admin

import "sync"

// keyedMutex serializes mutations per access ID. Two concurrent actions
// against the same grant (say, renew and force-revoke) must not interleave;
// actions on different grants proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns the unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, exists := k.locks[key]
	if !exists {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
