// Package annotate decides which selected lines carry blame annotations and
// keeps the status indicator in step with the on/off toggle.
package annotate

import "sync"

// Toggle is the enablement flag of one editing session.
type Toggle struct {
	mu sync.RWMutex
	on bool
}

func NewToggle(on bool) *Toggle {
	return &Toggle{on: on}
}

func (t *Toggle) On() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.on
}

func (t *Toggle) Set(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = on
}

// Flip inverts the flag and returns the new value.
func (t *Toggle) Flip() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = !t.on
	return t.on
}
