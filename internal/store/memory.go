package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"motscroises/internal/domain"
)

// MemoryStore is an in-memory store implementation for testing.
type MemoryStore struct {
	jobs *MemoryJobRepository
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: &MemoryJobRepository{
			jobs: make(map[string]*domain.SolveJob),
		},
	}
}

func (s *MemoryStore) Jobs() JobRepository               { return s.jobs }
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                      { return nil }

// MemoryJobRepository is an in-memory solve-job repository.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.SolveJob
}

func (r *MemoryJobRepository) Store(ctx context.Context, job *domain.SolveJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *job
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	clone.UpdatedAt = time.Now().UTC()
	r.jobs[job.ID] = &clone
	return nil
}

func (r *MemoryJobRepository) Get(ctx context.Context, id string) (*domain.SolveJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (r *MemoryJobRepository) List(ctx context.Context, filter JobFilter) ([]*JobSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var jobs []*domain.SolveJob
	for _, job := range r.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })

	var result []*JobSummary
	for _, job := range jobs {
		result = append(result, &JobSummary{
			ID:        job.ID,
			Status:    job.Status,
			CreatedAt: strftime.Format("%Y-%m-%d %H:%M:%S", job.CreatedAt.UTC()),
			UpdatedAt: strftime.Format("%Y-%m-%d %H:%M:%S", job.UpdatedAt.UTC()),
		})
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result, nil
}

func (r *MemoryJobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryJobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}
