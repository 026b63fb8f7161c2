package ledger

import "sync"

// keyedMutex serialises work per customer id. Entries are dropped once no
// goroutine holds or waits for them.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[uint]*keyedEntry
}

type keyedEntry struct {
	mu      sync.Mutex
	waiters int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[uint]*keyedEntry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) Lock(key uint) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{}
		k.entries[key] = e
	}
	e.waiters++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.waiters--
		if e.waiters == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
