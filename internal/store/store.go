// Package store provides database storage for solve jobs.
package store

import (
	"context"

	"motscroises/internal/domain"
)

// JobFilter contains criteria for listing solve jobs.
type JobFilter struct {
	Status domain.JobStatus
	Limit  int
	Offset int
}

// JobSummary contains summary info for solve-job listings.
type JobSummary struct {
	ID        string          `json:"id"`
	Status    domain.JobStatus `json:"status"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// JobRepository defines the interface for solve-job storage operations.
type JobRepository interface {
	// Store saves a solve job, inserting or replacing by ID.
	Store(ctx context.Context, job *domain.SolveJob) error

	// Get retrieves a solve job by ID.
	Get(ctx context.Context, id string) (*domain.SolveJob, error)

	// List returns job summaries matching the filter criteria, most
	// recently created first.
	List(ctx context.Context, filter JobFilter) ([]*JobSummary, error)

	// UpdateStatus changes a job's status and touches its update time.
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error

	// Delete removes a solve job by ID.
	Delete(ctx context.Context, id string) error
}

// Store combines all repository interfaces.
type Store interface {
	Jobs() JobRepository

	// Migrate runs database migrations.
	Migrate(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
