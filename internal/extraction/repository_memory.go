package extraction

import (
	"context"
	"errors"
	"sync"
)

// InMemoryRepository backs handler and worker tests.
type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int
	jobs    map[int]*Job
	results map[int]*Result
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:  1,
		jobs:    make(map[int]*Job),
		results: make(map[int]*Result),
	}
}

func (r *InMemoryRepository) CreateJob(_ context.Context, userID, imageURL, filename string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.jobs[id] = &Job{
		ID:       id,
		UserID:   userID,
		ImageURL: imageURL,
		Filename: filename,
		Status:   StatusUploaded,
	}
	return id, nil
}

func (r *InMemoryRepository) ClaimPending(_ context.Context) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := 1; id < r.nextID; id++ {
		job, ok := r.jobs[id]
		if ok && job.Status == StatusUploaded {
			job.Status = StatusProcessing
			copied := *job
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) MarkExtracted(_ context.Context, id int, result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return errors.New("extraction job not found")
	}
	job.Status = StatusExtracted
	job.LastError = nil
	r.results[id] = result
	return nil
}

func (r *InMemoryRepository) MarkFailed(_ context.Context, id int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return errors.New("extraction job not found")
	}
	job.Status = StatusFailed
	job.LastError = &reason
	return nil
}

func (r *InMemoryRepository) GetJob(_ context.Context, id int) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("extraction job not found")
	}
	copied := *job
	return &copied, nil
}

func (r *InMemoryRepository) ResetForRetry(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return errors.New("extraction job not found")
	}
	job.Status = StatusUploaded
	job.LastError = nil
	return nil
}

// Result returns the stored pipeline output for a job (test helper).
func (r *InMemoryRepository) Result(id int) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id]
}
