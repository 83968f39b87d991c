// Package intern caches canonical comparison keys for names. Keys are
// computed once per distinct input and shared between goroutines.
package intern

import (
	"sync"
)

// Table maps strings to a derived key. The derivation must be pure.
type Table struct {
	derive  func(string) string
	maxSize int

	mutex sync.RWMutex
	keys  map[string]string
}

// NewTable creates a table holding at most maxSize keys. Once full it starts
// over, since lookups also see arbitrary user input.
func NewTable(maxSize int, derive func(string) string) *Table {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &Table{
		derive:  derive,
		maxSize: maxSize,
		keys:    make(map[string]string, min(maxSize, 64)),
	}
}

// Key returns the derived key for s.
func (t *Table) Key(s string) string {
	t.mutex.RLock()
	k, ok := t.keys[s]
	t.mutex.RUnlock()
	if ok {
		return k
	}

	k = t.derive(s)

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.keys) >= t.maxSize {
		clear(t.keys)
	}
	t.keys[s] = k
	return k
}

// Preload derives keys for names ahead of parsing.
func (t *Table) Preload(names ...string) {
	for _, n := range names {
		t.Key(n)
	}
}

// Len returns the number of cached keys.
func (t *Table) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.keys)
}

// Reset drops every cached key.
func (t *Table) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	clear(t.keys)
}
