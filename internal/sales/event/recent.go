package event

import "sync"

// recentIDs remembers the last capacity event IDs, forgetting the oldest
// first. One upload attempt produces one event, so a bounded window is
// enough to drop redeliveries without growing for the life of the process.
type recentIDs struct {
	mu       sync.Mutex
	capacity int
	order    []string
	next     int
	set      map[string]struct{}
}

func newRecentIDs(capacity int) *recentIDs {
	if capacity < 1 {
		capacity = 1
	}

	return &recentIDs{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		set:      make(map[string]struct{}, capacity),
	}
}

// add reports whether id was new.
func (r *recentIDs) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.set[id]; ok {
		return false
	}

	if len(r.order) < r.capacity {
		r.order = append(r.order, id)
	} else {
		delete(r.set, r.order[r.next])
		r.order[r.next] = id
		r.next = (r.next + 1) % r.capacity
	}
	r.set[id] = struct{}{}

	return true
}

func (r *recentIDs) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.set, id)
}
