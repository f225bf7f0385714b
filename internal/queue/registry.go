package queue

import "sync"

// Registry tracks which single-flight slots are occupied by a live job. It is
// the in-process guard; the persistent repo enforces the same invariant across
// processes.
type Registry struct {
	mu     sync.Mutex
	active map[string]string // job key -> job ID
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]string)}
}

// Acquire claims the slot for jobID. When the slot is already held it returns
// the holding job's ID and false.
func (r *Registry) Acquire(key, jobID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, held := r.active[key]; held {
		return existing, false
	}
	r.active[key] = jobID
	return jobID, true
}

// Release frees the slot.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, key)
}

// Holder returns the job ID occupying the slot, if any.
func (r *Registry) Holder(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, held := r.active[key]
	return id, held
}
