package runutil

import "container/list"

// DefaultDedupeCap bounds the collector's duplicate-suppression window.
// Overlap twins surface within a few in-flight chunks of each other, so the
// window only needs to span that horizon, not the whole run.
const DefaultDedupeCap = 200_000

// LRUSet is a size-bounded set with O(1) membership insert and
// least-recently-seen eviction. It trades exactness for bounded memory:
// keys older than the capacity horizon are forgotten.
type LRUSet[K comparable] struct {
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

type lruEntry[K comparable] struct{ k K }

// NewLRUSet returns a set holding at most capacity keys
// (DefaultDedupeCap when capacity <= 0).
func NewLRUSet[K comparable](capacity int) *LRUSet[K] {
	if capacity <= 0 {
		capacity = DefaultDedupeCap
	}
	return &LRUSet[K]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Add inserts k and reports whether it was already present. A hit refreshes
// the key's position; an insert past capacity evicts the stalest key.
func (s *LRUSet[K]) Add(k K) bool {
	if e, ok := s.m[k]; ok {
		s.ll.MoveToFront(e)
		return true
	}
	s.m[k] = s.ll.PushFront(&lruEntry[K]{k: k})
	if s.ll.Len() > s.cap {
		if tail := s.ll.Back(); tail != nil {
			s.ll.Remove(tail)
			delete(s.m, tail.Value.(*lruEntry[K]).k)
		}
	}
	return false
}

// Len reports the number of keys currently tracked.
func (s *LRUSet[K]) Len() int { return s.ll.Len() }
