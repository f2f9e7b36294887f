package api

import (
	"encoding/json"
	"io"
	"net/http"

	"motscroises/internal/domain"
	"motscroises/internal/solve"
	"motscroises/internal/store"
	"motscroises/internal/validate"
)

// AdminHandler holds dependencies for admin HTTP handlers.
type AdminHandler struct {
	store     store.Store
	solveOpts solve.Options
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(s store.Store, opts solve.Options) *AdminHandler {
	return &AdminHandler{store: s, solveOpts: opts}
}

// SolveSync runs a solve request to completion and returns the result
// directly in the response, bypassing the job queue. Meant for local
// development and smoke-testing a dictionary/grid combination.
// POST /admin/v1/solve/sync
func (h *AdminHandler) SolveSync(w http.ResponseWriter, r *http.Request) {
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

	result, err := solve.Run(r.Context(), req, h.solveOpts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DeleteSolve removes a solve job by ID.
// DELETE /admin/v1/solve/{id}
func (h *AdminHandler) DeleteSolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	if err := h.store.Jobs().Delete(r.Context(), id); err != nil {
		if err == store.ErrNotFound {
			writeError(w, http.StatusNotFound, "solve job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": "deleted",
	})
}
