package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// RunSet remembers the keys already handled during one extraction run.
// It lives and dies with the run that owns it; nothing is persisted.
// Not safe for concurrent use: a run processes its cards on a single goroutine.
type RunSet[K comparable] struct {
	seen mapset.Set[K]
}

func NewRunSet[K comparable]() *RunSet[K] {
	return &RunSet[K]{seen: mapset.NewThreadUnsafeSet[K]()}
}

// Claim records key and reports whether it was new.
func (s *RunSet[K]) Claim(key K) bool {
	return s.seen.Add(key)
}

// IsSeen checks if key has already been claimed.
func (s *RunSet[K]) IsSeen(key K) bool {
	return s.seen.Contains(key)
}

func (s *RunSet[K]) Len() int {
	return s.seen.Cardinality()
}
