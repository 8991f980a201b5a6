package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/bulk-notify/internal/domain"
)

// Registry is the process-wide job store. Jobs live for the process
// lifetime only and are never deleted. Each job has a single writer
// (its worker) and arbitrarily many concurrent readers, so every read
// goes through the lock and returns a deep copy.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job

	now func() time.Time
}

func New() *Registry {
	return &Registry{
		jobs: make(map[string]*domain.Job),
		now:  time.Now,
	}
}

// Create inserts a new PROCESSING job and returns its id. The job is
// visible to readers before the caller starts the worker, so a client
// polling right after submission never sees "not found".
func (r *Registry) Create(total int) string {
	job := &domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusProcessing,
		Progress:  0,
		Total:     total,
		StartedAt: r.now().UTC(),
		Logs:      []string{},
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job.ID
}

// Get returns a copy of the job record.
func (r *Registry) Get(id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %q", domain.ErrNotFound, id)
	}
	return job.Clone(), nil
}

// Update runs the mutator under the write lock. Only the job's own
// worker may call this; readers observe either the pre- or post-update
// record, never a partial write.
func (r *Registry) Update(id string, mutate func(job *domain.Job)) error {
	if mutate == nil {
		return fmt.Errorf("mutator is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job %q", domain.ErrNotFound, id)
	}
	mutate(job)
	return nil
}
