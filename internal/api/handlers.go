// Package api provides HTTP handlers for the crossword solver service.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"motscroises/internal/dictionary"
	"motscroises/internal/domain"
	"motscroises/internal/solve"
	"motscroises/internal/store"
	"motscroises/internal/validate"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store     store.Store
	dict      *dictionary.Index
	solveOpts solve.Options
	log       *slog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(s store.Store, dict *dictionary.Index, opts solve.Options, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: s, dict: dict, solveOpts: opts, log: log}
}

// SubmitSolve creates a solve job and runs it asynchronously.
// POST /v1/solve
func (h *Handler) SubmitSolve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if errs := validate.ValidateSolveRequest(body); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid solve request",
			"issues": errs,
		})
		return
	}

	var req domain.SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid solve request JSON")
		return
	}

	now := time.Now().UTC()
	job := &domain.SolveJob{
		ID:        uuid.New().String(),
		Status:    domain.StatusQueued,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Jobs().Store(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue solve job")
		return
	}

	go h.runJob(job.ID, req)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     job.ID,
		"status": string(domain.StatusQueued),
	})
}

// runJob executes a solve job in the background and persists its
// outcome. It deliberately uses a detached context for store access:
// the HTTP request that created the job has already been answered by
// the time this runs. The search itself gets its own bounded context —
// an unsatisfiable or over-constrained request must not spin the
// search workers forever with nothing left to cancel them — kept
// separate from the store context so a search timeout never also
// aborts writing the job's final (failed) status back to the store.
func (h *Handler) runJob(id string, req domain.SolveRequest) {
	storeCtx := context.Background()

	if err := h.store.Jobs().UpdateStatus(storeCtx, id, domain.StatusRunning); err != nil {
		h.log.Error("failed to mark job running", "id", id, "error", err)
	}

	solveCtx, cancel := context.WithTimeout(storeCtx, h.solveOpts.EffectiveTimeout())
	result, err := solve.Run(solveCtx, req, h.solveOpts)
	cancel()

	job, getErr := h.store.Jobs().Get(storeCtx, id)
	if getErr != nil {
		h.log.Error("failed to reload job after solving", "id", id, "error", getErr)
		return
	}

	if err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
	} else {
		job.Result = result
		if result.Solved {
			job.Status = domain.StatusSolved
		} else {
			job.Status = domain.StatusFailed
		}
	}

	if err := h.store.Jobs().Store(storeCtx, job); err != nil {
		h.log.Error("failed to persist job result", "id", id, "error", err)
	}
}

// GetSolve returns a solve job by ID.
// GET /v1/solve/{id}
func (h *Handler) GetSolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	job, err := h.store.Jobs().Get(r.Context(), id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "solve job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch solve job")
		return
	}

	writeJSONWithETag(w, job)
}

// ListSolves lists solve jobs, optionally filtered by status.
// GET /v1/solve?status=solved&limit=20
func (h *Handler) ListSolves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.JobFilter{
		Status: domain.JobStatus(q.Get("status")),
		Limit:  50,
	}
	if limit := q.Get("limit"); limit != "" {
		if l, err := json.Number(limit).Int64(); err == nil && l > 0 && l <= 200 {
			filter.Limit = int(l)
		}
	}

	jobs, err := h.store.Jobs().List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list solve jobs")
		return
	}
	if jobs == nil {
		jobs = []*store.JobSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// LookupWords returns dictionary words matching a pattern of letters
// and '.' wildcards, exercising dictionary.Index.MatchingIndices.
// GET /v1/dictionary?pattern=c.t
func (h *Handler) LookupWords(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		writeError(w, http.StatusBadRequest, "missing pattern")
		return
	}

	ids := h.dict.MatchingIndices(pattern)
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		word, err := h.dict.WordOfIndex(id)
		if err != nil {
			continue
		}
		words = append(words, word)
	}
	sort.Strings(words)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pattern": pattern,
		"words":   words,
		"count":   len(words),
	})
}

// HealthCheck returns server health status.
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// APIError represents an error response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIError{Error: http.StatusText(status), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONWithETag(w http.ResponseWriter, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	hash := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(hash[:8]) + `"`

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-store")

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
