// Package intern deduplicates strings that repeat across many records, such
// as the author and summary of a commit that touched hundreds of lines.
package intern

import (
	"strings"
	"sync"
)

type Pool struct {
	mu    sync.RWMutex
	store map[string]string
}

func New(sizeHint int) *Pool {
	return &Pool{store: make(map[string]string, sizeHint)}
}

// Get returns the canonical copy of s. The first occurrence is cloned so the
// pool never pins the buffer s was sliced from.
func (p *Pool) Get(s string) string {
	if s == "" {
		return ""
	}

	p.mu.RLock()
	v, ok := p.store[s]
	p.mu.RUnlock()
	if ok {
		return v
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if v, ok := p.store[s]; ok {
		return v
	}
	v = strings.Clone(s)
	p.store[v] = v
	return v
}

// Len returns the number of distinct strings held.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.store)
}
