package service

import "sync"

// learnerLocks serialises transitions per learner. Entries are refcounted
// and dropped once nobody holds or waits for them.
type learnerLocks struct {
	mu    sync.Mutex
	locks map[string]*learnerLock
}

type learnerLock struct {
	mu   sync.Mutex
	refs int
}

func newLearnerLocks() *learnerLocks {
	return &learnerLocks{locks: make(map[string]*learnerLock)}
}

// lock blocks until the learner's lock is held and returns its release func
func (l *learnerLocks) lock(learnerID string) func() {
	l.mu.Lock()
	lk, ok := l.locks[learnerID]
	if !ok {
		lk = &learnerLock{}
		l.locks[learnerID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, learnerID)
		}
		l.mu.Unlock()
	}
}
