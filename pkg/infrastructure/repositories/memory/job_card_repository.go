package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// JobCardRepository provides in-memory job card storage
type JobCardRepository struct {
	mu      sync.RWMutex
	jobs    []entities.JobCard
	jobsMap map[string]int
}

// NewJobCardRepository creates a new in-memory job card repository
func NewJobCardRepository() *JobCardRepository {
	return &JobCardRepository{
		jobs:    []entities.JobCard{},
		jobsMap: make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.JobCardRepository = (*JobCardRepository)(nil)

// SaveJobCard inserts or replaces a job card, ledger included
func (r *JobCardRepository) SaveJobCard(_ context.Context, job *entities.JobCard) error {
	if job.ID == "" {
		return fmt.Errorf("job card id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := job.Clone()
	if index, exists := r.jobsMap[job.ID]; exists {
		r.jobs[index] = stored
		return nil
	}
	r.jobsMap[job.ID] = len(r.jobs)
	r.jobs = append(r.jobs, stored)
	return nil
}

// GetJobCard returns a copy of the job card with the given id
func (r *JobCardRepository) GetJobCard(_ context.Context, id string) (*entities.JobCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index, exists := r.jobsMap[id]
	if !exists {
		return nil, fmt.Errorf("job card %s: %w", id, entities.ErrNotFound)
	}
	job := r.jobs[index].Clone()
	return &job, nil
}

// GetAllJobCards returns copies of all job cards
func (r *JobCardRepository) GetAllJobCards(_ context.Context) ([]*entities.JobCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]*entities.JobCard, 0, len(r.jobs))
	for i := range r.jobs {
		job := r.jobs[i].Clone()
		jobs = append(jobs, &job)
	}
	return jobs, nil
}
