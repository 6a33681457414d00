package cache

import (
	"sync"

	"github.com/DrSkyle/lineblame/pkg/blame"
)

// ShownErrors remembers which error kinds have already been shown.
type ShownErrors struct {
	mu    sync.Mutex
	kinds map[blame.Kind]struct{}
}

func NewShownErrors() *ShownErrors {
	return &ShownErrors{kinds: make(map[blame.Kind]struct{})}
}

// MarkShown records kind and returns true only the first time it is seen.
func (s *ShownErrors) MarkShown(kind blame.Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.kinds[kind]; ok {
		return false
	}
	s.kinds[kind] = struct{}{}
	return true
}

// Shown reports whether kind was already marked.
func (s *ShownErrors) Shown(kind blame.Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.kinds[kind]
	return ok
}
