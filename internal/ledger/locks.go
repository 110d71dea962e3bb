package ledger

import "sync"

// accountLocks serializes operations per account id. Operations on different
// accounts run in parallel; a transfer holds both parties' locks for its whole
// duration, acquired in lexicographic order so two opposing transfers cannot
// deadlock each other.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lock acquires the lock for one account and returns the unlock func.
func (l *accountLocks) lock(id string) func() {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// lockPair acquires both accounts' locks in lexicographic order.
func (l *accountLocks) lockPair(a, b string) func() {
	first, second := a, b
	if first > second {
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
