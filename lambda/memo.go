package lambda

import (
	"fmt"
	"sync"
	"time"

	"github.com/ahrtr/gocontainer/queue/priorityqueue"
	"lukechampine.com/uint128"

	"github.com/rfielding/lambda-beta/expr"
)

type memoEntry[E any] struct {
	input  E
	output E
	steps  uint64
	used   uint64
	stored time.Time
}

// memoStamp records that key was used at tick used. Stamps left behind by a
// later use or by Expire are skipped when they reach the head of the queue.
type memoStamp struct {
	key  uint128.Uint128
	used uint64
}

type stampCmp struct{}

func (stampCmp) Compare(v1, v2 interface{}) (int, error) {
	a, ok1 := v1.(memoStamp)
	b, ok2 := v2.(memoStamp)
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("memo: cannot compare %T with %T", v1, v2)
	}
	switch {
	case a.used < b.used:
		return -1, nil
	case a.used > b.used:
		return 1, nil
	}
	return 0, nil
}

// Memo caches normal forms keyed by the fingerprint of the input term. Hits
// are verified with expr.Equal, so a fingerprint collision is a miss rather
// than a wrong answer. It holds at most capacity entries and evicts the least
// recently used one first. A Memo is safe for concurrent use when E is
// expr.Shared.
type Memo[E expr.Expression[E]] struct {
	mu       sync.Mutex
	capacity int
	clock    uint64
	entries  map[uint128.Uint128]*memoEntry[E]
	order    priorityqueue.Interface
	hits     uint64
	misses   uint64
	now      func() time.Time
}

func NewMemo[E expr.Expression[E]](capacity int) *Memo[E] {
	if capacity < 1 {
		capacity = 1
	}
	return &Memo[E]{
		capacity: capacity,
		entries:  make(map[uint128.Uint128]*memoEntry[E]),
		order:    priorityqueue.New().WithComparator(stampCmp{}),
		now:      time.Now,
	}
}

// Lookup returns a copy of the normal form stored for input and the number of
// steps it took to reach it.
func (m *Memo[E]) Lookup(input E) (E, uint64, bool) {
	key := expr.Fingerprint(input)
	m.mu.Lock()
	defer m.mu.Unlock()
	ent, ok := m.entries[key]
	if !ok || !expr.Equal(ent.input, input) {
		m.misses++
		var zero E
		return zero, 0, false
	}
	m.hits++
	m.touch(key, ent)
	return ent.output.Clone(), ent.steps, true
}

// Store records output as the normal form of input. Both stay owned by the
// caller; the memo keeps its own copies.
func (m *Memo[E]) Store(input, output E, steps uint64) {
	key := expr.Fingerprint(input)
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[key]; ok {
		m.release(old)
	}
	ent := &memoEntry[E]{
		input:  input.Clone(),
		output: output.Clone(),
		steps:  steps,
		stored: m.now(),
	}
	m.entries[key] = ent
	m.touch(key, ent)
	for len(m.entries) > m.capacity {
		m.evictOldest()
	}
	if m.order.Size() > 4*m.capacity+16 {
		m.compact()
	}
}

// Expire drops every entry stored more than age ago and returns how many went.
func (m *Memo[E]) Expire(age time.Duration) int {
	cutoff := m.now().Add(-age)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, ent := range m.entries {
		if ent.stored.Before(cutoff) {
			m.release(ent)
			delete(m.entries, key)
			n++
		}
	}
	if n > 0 {
		m.compact()
	}
	return n
}

func (m *Memo[E]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns the hit and miss counts since the memo was created.
func (m *Memo[E]) Stats() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

func (m *Memo[E]) touch(key uint128.Uint128, ent *memoEntry[E]) {
	m.clock++
	ent.used = m.clock
	m.order.Add(memoStamp{key: key, used: ent.used})
}

func (m *Memo[E]) evictOldest() {
	for !m.order.IsEmpty() {
		st := m.order.Poll().(memoStamp)
		ent, ok := m.entries[st.key]
		if !ok || ent.used != st.used {
			continue
		}
		m.release(ent)
		delete(m.entries, st.key)
		return
	}
}

// compact rebuilds the queue from the live entries, dropping stale stamps.
func (m *Memo[E]) compact() {
	m.order.Clear()
	for key, ent := range m.entries {
		m.order.Add(memoStamp{key: key, used: ent.used})
	}
}

func (m *Memo[E]) release(ent *memoEntry[E]) {
	ent.input.Release()
	ent.output.Release()
}
