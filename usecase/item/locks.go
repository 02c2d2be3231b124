package item

import "sync"

// listLocks serializes mutations per list so concurrent cascade and
// propagation walks on the same tree cannot interleave. Mutexes are created
// on first use and kept for the process lifetime.
type listLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newListLocks() *listLocks {
	return &listLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *listLocks) get(listID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[listID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[listID] = m
	}
	return m
}

// lock acquires the mutex for one list and returns the unlock func.
func (l *listLocks) lock(listID string) func() {
	m := l.get(listID)
	m.Lock()
	return m.Unlock
}

// lockPair acquires two list mutexes in lexicographic id order so cross-list
// moves cannot deadlock against each other.
func (l *listLocks) lockPair(a, b string) func() {
	if a == b {
		return l.lock(a)
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	fm, sm := l.get(first), l.get(second)
	fm.Lock()
	sm.Lock()
	return func() {
		sm.Unlock()
		fm.Unlock()
	}
}
