package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"motscroises/internal/dictionary"
	"motscroises/internal/domain"
	"motscroises/internal/solve"
	"motscroises/internal/store"
)

func testWordList() []string {
	return []string{
		"cat", "car", "cab", "can", "cot",
		"at", "an", "it", "is", "ox",
		"tan", "tin", "ten", "tao",
		"arc", "ran", "rat", "roc",
		"no", "to", "on",
		"cats", "cars", "tans", "nato", "orca",
		"arco", "rato", "tarn", "cora", "rocs",
		"cord", "site", "dose",
	}
}

func testDictionary() *dictionary.Index {
	return dictionary.Build(testWordList(), 4)
}

func setupTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router := NewRouter(Config{
		Store:      db,
		Dictionary: testDictionary(),
		SolveOpts:  solve.Options{Cutoff: 5000, Threads: 2, Logger: logger},
		Logger:     logger,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return server, db
}

func TestHealthCheck(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("failed to get health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]string
	json.NewDecoder(resp.Body).Decode(&result)

	if result["status"] != "ok" {
		t.Errorf("expected status ok, got %s", result["status"])
	}
}

func TestSubmitSolveQueuesAJob(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(domain.SolveRequest{
		Width: 4, Height: 4, BlackTileCap: 16,
		Words: testWordList(),
	})

	resp, err := http.Post(server.URL+"/v1/solve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to submit solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.StatusCode)
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&result)

	if result.ID == "" {
		t.Error("expected a non-empty job id")
	}
	if result.Status != string(domain.StatusQueued) {
		t.Errorf("expected status queued, got %s", result.Status)
	}
}

func TestSubmitSolveRejectsInvalidRequest(t *testing.T) {
	server, _ := setupTestServer(t)

	body := []byte(`{"width": 2}`)

	resp, err := http.Post(server.URL+"/v1/solve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to submit solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", resp.StatusCode)
	}
}

func TestGetSolveEventuallySolves(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(domain.SolveRequest{
		Width: 4, Height: 4, BlackTileCap: 16,
		Words: testWordList(),
	})

	resp, err := http.Post(server.URL+"/v1/solve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to submit solve: %v", err)
	}
	var submitted struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&submitted)
	resp.Body.Close()

	var job domain.SolveJob
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		getResp, err := http.Get(server.URL + "/v1/solve/" + submitted.ID)
		if err != nil {
			t.Fatalf("failed to get solve job: %v", err)
		}
		json.NewDecoder(getResp.Body).Decode(&job)
		getResp.Body.Close()

		if job.Status == domain.StatusSolved || job.Status == domain.StatusFailed {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if job.Status != domain.StatusSolved {
		t.Fatalf("expected job to solve, got status %s (error: %s)", job.Status, job.Error)
	}
	if job.Result == nil || !job.Result.Solved {
		t.Error("expected a solved result")
	}
}

func TestGetSolveNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/v1/solve/nonexistent")
	if err != nil {
		t.Fatalf("failed to get solve job: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestListSolves(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		job := &domain.SolveJob{
			ID:     "job-" + string(rune('a'+i)),
			Status: domain.StatusQueued,
			Request: domain.SolveRequest{
				Width: 4, Height: 4, BlackTileCap: 16,
			},
		}
		if err := db.Jobs().Store(ctx, job); err != nil {
			t.Fatalf("failed to store job %d: %v", i, err)
		}
	}

	resp, err := http.Get(server.URL + "/v1/solve")
	if err != nil {
		t.Fatalf("failed to list solve jobs: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Jobs  []store.JobSummary `json:"jobs"`
		Count int                `json:"count"`
	}
	json.NewDecoder(resp.Body).Decode(&result)

	if result.Count != 3 {
		t.Errorf("expected 3 jobs, got %d", result.Count)
	}
}

func TestLookupWordsMatchesPattern(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/v1/dictionary?pattern=c.t")
	if err != nil {
		t.Fatalf("failed to look up words: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Words []string `json:"words"`
	}
	json.NewDecoder(resp.Body).Decode(&result)

	found := false
	for _, w := range result.Words {
		if w == "cat" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected \"cat\" among matches, got %v", result.Words)
	}
}

func TestLookupWordsRequiresPattern(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/v1/dictionary")
	if err != nil {
		t.Fatalf("failed to look up words: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestCORSHeaders(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("failed to get health: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestGzipCompression(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	job := &domain.SolveJob{
		ID:     "gzip-test",
		Status: domain.StatusQueued,
		Request: domain.SolveRequest{
			Width: 4, Height: 4, BlackTileCap: 16,
		},
	}
	db.Jobs().Store(ctx, job)

	req, _ := http.NewRequest("GET", server.URL+"/v1/solve/gzip-test", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to get solve job: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Error("expected gzip content encoding")
	}
}
