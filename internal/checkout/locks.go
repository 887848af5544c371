package checkout

import "sync"

// draftLocks serializes mutating actions per draft. Acquisition never
// waits: a busy draft is reported to the caller instead.
type draftLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newDraftLocks() *draftLocks {
	return &draftLocks{held: make(map[string]struct{})}
}

func (l *draftLocks) tryLock(draftID string) (unlock func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[draftID]; busy {
		return nil, false
	}
	l.held[draftID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, draftID)
			l.mu.Unlock()
		})
	}, true
}
