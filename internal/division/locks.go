package division

import (
	"sync"

	"github.com/google/uuid"
)

// goalLocks serializes division writes per goal ID. Cross-goal writes and
// all reads stay concurrent.
type goalLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

func (l *goalLocks) forGoal(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[uuid.UUID]*sync.Mutex)
	}
	if _, ok := l.m[id]; !ok {
		l.m[id] = &sync.Mutex{}
	}
	return l.m[id]
}
