package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	_ "modernc.org/sqlite"

	"motscroises/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	jobs *sqliteJobRepo
}

// NewSQLiteStore creates a new SQLite store.
// Use ":memory:" for in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if !strings.Contains(dsn, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	store := &SQLiteStore{db: db}
	store.jobs = &sqliteJobRepo{db: db}

	return store, nil
}

// Jobs returns the solve-job repository.
func (s *SQLiteStore) Jobs() JobRepository {
	return s.jobs
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	upSQL, err := migrationsFS.ReadFile("migrations/001_initial.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	_, err = s.db.ExecContext(ctx, string(upSQL))
	if err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteJobRepo implements JobRepository for SQLite.
type sqliteJobRepo struct {
	db *sql.DB
}

func (r *sqliteJobRepo) Store(ctx context.Context, job *domain.SolveJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = time.Now().UTC()

	request, err := json.Marshal(job.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal solve request: %w", err)
	}

	var result []byte
	if job.Result != nil {
		result, err = json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal solve result: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO solve_jobs (id, status, request, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			request = excluded.request,
			result = excluded.result,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, job.ID, job.Status, request, result, job.Error, job.CreatedAt, job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to store solve job: %w", err)
	}

	return nil
}

func (r *sqliteJobRepo) Get(ctx context.Context, id string) (*domain.SolveJob, error) {
	var job domain.SolveJob
	var request, result []byte
	var errMsg sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, status, request, result, error, created_at, updated_at
		FROM solve_jobs WHERE id = ?
	`, id).Scan(&job.ID, &job.Status, &request, &result, &errMsg, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve job: %w", err)
	}

	if err := json.Unmarshal(request, &job.Request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solve request: %w", err)
	}
	if result != nil {
		job.Result = &domain.SolveResult{}
		if err := json.Unmarshal(result, job.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal solve result: %w", err)
		}
	}
	job.Error = errMsg.String

	return &job, nil
}

func (r *sqliteJobRepo) List(ctx context.Context, filter JobFilter) ([]*JobSummary, error) {
	query := `SELECT id, status, created_at, updated_at FROM solve_jobs WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solve jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*JobSummary
	for rows.Next() {
		var id string
		var status domain.JobStatus
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan solve job: %w", err)
		}
		jobs = append(jobs, &JobSummary{
			ID:        id,
			Status:    status,
			CreatedAt: strftime.Format("%Y-%m-%d %H:%M:%S", createdAt.UTC()),
			UpdatedAt: strftime.Format("%Y-%m-%d %H:%M:%S", updatedAt.UTC()),
		})
	}

	return jobs, rows.Err()
}

func (r *sqliteJobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE solve_jobs SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *sqliteJobRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM solve_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete solve job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
