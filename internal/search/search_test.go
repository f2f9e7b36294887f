package search

import (
	"context"
	"testing"
	"time"

	"motscroises/internal/dictionary"
	"motscroises/internal/gridmodel"
)

func TestSolveFindsACompleteGrid(t *testing.T) {
	words := []string{
		"cat", "car", "cab", "can", "cot",
		"at", "an", "it", "is", "ox",
		"tan", "tin", "ten", "tao",
		"arc", "ran", "rat", "roc",
		"no", "to", "on",
		"cats", "cord", "site", "dose",
	}
	dict := dictionary.Build(words, 4)

	m, err := gridmodel.NewWordVariableModel(dict, 4, 4, 16, nil)
	if err != nil {
		t.Fatalf("NewWordVariableModel: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	solved, err := Solve(ctx, m.Space, m.BranchGroups(), Config{Cutoff: 5000, Threads: 2})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !solved.Solved() {
		t.Error("returned space should be fully assigned")
	}
}

func TestSolveReturnsErrNoSolutionWhenImpossible(t *testing.T) {
	dict := dictionary.Build([]string{"xx"}, 4)
	m, err := gridmodel.NewWordVariableModel(dict, 4, 4, 0, nil)
	if err != nil {
		t.Fatalf("NewWordVariableModel: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = Solve(ctx, m.Space, m.BranchGroups(), Config{Cutoff: 50, Threads: 1})
	if err == nil {
		t.Error("expected ErrNoSolution (or context deadline) for an unsatisfiable model")
	}
}
