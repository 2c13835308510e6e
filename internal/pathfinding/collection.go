package pathfinding

import "container/heap"

// OpenSet holds the open nodes of a search. Entries are ordered by F score in
// a binary heap and indexed by key, so both the cheapest entry and membership
// lookups are available on every expansion. Equal scores pop in insertion
// order.
type OpenSet[K comparable] struct {
	queue openQueue[K]
	index map[K]*openEntry[K]
	seq   uint64
}

type openEntry[K comparable] struct {
	key    K
	handle NodeID
	f      float64
	seq    uint64
	index  int
}

func NewOpenSet[K comparable]() *OpenSet[K] {
	return &OpenSet[K]{index: make(map[K]*openEntry[K])}
}

// Add inserts handle under key, evicting any entry already stored for key.
func (s *OpenSet[K]) Add(key K, handle NodeID, f float64) {
	if old, ok := s.index[key]; ok {
		heap.Remove(&s.queue, old.index)
		delete(s.index, key)
	}
	entry := &openEntry[K]{key: key, handle: handle, f: f, seq: s.seq}
	s.seq++
	heap.Push(&s.queue, entry)
	s.index[key] = entry
}

// RemoveBest pops the entry with the lowest F score.
func (s *OpenSet[K]) RemoveBest() (NodeID, bool) {
	if s.queue.Len() == 0 {
		return noParent, false
	}
	entry := heap.Pop(&s.queue).(*openEntry[K])
	delete(s.index, entry.key)
	return entry.handle, true
}

// Remove deletes the entry for key and returns its handle.
func (s *OpenSet[K]) Remove(key K) (NodeID, bool) {
	entry, ok := s.index[key]
	if !ok {
		return noParent, false
	}
	heap.Remove(&s.queue, entry.index)
	delete(s.index, key)
	return entry.handle, true
}

// Get returns the handle stored for key without removing it.
func (s *OpenSet[K]) Get(key K) (NodeID, bool) {
	entry, ok := s.index[key]
	if !ok {
		return noParent, false
	}
	return entry.handle, true
}

func (s *OpenSet[K]) Contains(key K) bool {
	_, ok := s.index[key]
	return ok
}

// ContainsHandle reports whether key is open and currently held by handle.
func (s *OpenSet[K]) ContainsHandle(key K, handle NodeID) bool {
	entry, ok := s.index[key]
	return ok && entry.handle == handle
}

func (s *OpenSet[K]) Len() int {
	return s.queue.Len()
}

// Clear empties the set so it can serve another search.
func (s *OpenSet[K]) Clear() {
	for i := range s.queue {
		s.queue[i] = nil
	}
	s.queue = s.queue[:0]
	clear(s.index)
	s.seq = 0
}

type openQueue[K comparable] []*openEntry[K]

func (q openQueue[K]) Len() int { return len(q) }

func (q openQueue[K]) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q openQueue[K]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue[K]) Push(x any) {
	item := x.(*openEntry[K])
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *openQueue[K]) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
