package validate

import (
	"encoding/json"
	"testing"

	"motscroises/internal/domain"
)

func TestValidateSolveRequestJSONAcceptsMinimalRequest(t *testing.T) {
	data := []byte(`{"width":9,"height":9,"words":["cat","dog"],"black_tile_cap":10}`)
	if errs := ValidateSolveRequestJSON(data); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateSolveRequestJSONRejectsMissingRequired(t *testing.T) {
	data := []byte(`{"width":9,"height":9}`)
	errs := ValidateSolveRequestJSON(data)
	if len(errs) == 0 {
		t.Fatal("expected errors for missing required fields")
	}
}

func TestValidateSolveRequestJSONRejectsUnknownProperty(t *testing.T) {
	data := []byte(`{"width":9,"height":9,"words":["cat"],"black_tile_cap":0,"bogus":true}`)
	if errs := ValidateSolveRequestJSON(data); len(errs) == 0 {
		t.Fatal("expected an error for an additional property")
	}
}

func TestValidateSolveRequestJSONRejectsTooSmallGrid(t *testing.T) {
	data := []byte(`{"width":2,"height":9,"words":["cat"],"black_tile_cap":0}`)
	if errs := ValidateSolveRequestJSON(data); len(errs) == 0 {
		t.Fatal("expected an error for a width below the minimum")
	}
}

func TestValidateSolveResultJSONAcceptsSolved(t *testing.T) {
	data := []byte(`{"solved":true,"grid":["cat","ox#"],"words":["cat"],"attempts":3,"elapsed_millis":120}`)
	if errs := ValidateSolveResultJSON(data); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateSolveResultJSONRejectsMissingRequired(t *testing.T) {
	data := []byte(`{"grid":["cat"]}`)
	if errs := ValidateSolveResultJSON(data); len(errs) == 0 {
		t.Fatal("expected errors for missing required fields")
	}
}

func TestValidateSolveRequestSemanticRejectsOverlongMandatory(t *testing.T) {
	req := &domain.SolveRequest{
		Width: 5, Height: 5,
		Mandatory: []string{"toolongforthisgrid"},
	}
	errs := ValidateSolveRequestSemantic(req)
	if len(errs) == 0 {
		t.Fatal("expected an error for a mandatory word longer than the grid")
	}
}

func TestValidateSolveRequestSemanticRejectsExcessiveBlackTileCap(t *testing.T) {
	req := &domain.SolveRequest{Width: 3, Height: 3, BlackTileCap: 100}
	errs := ValidateSolveRequestSemantic(req)
	if len(errs) == 0 {
		t.Fatal("expected an error for black_tile_cap exceeding the grid size")
	}
}

func TestValidateSolveRequestSemanticRejectsOutOfRangePin(t *testing.T) {
	req := &domain.SolveRequest{
		Width: 5, Height: 5,
		Pinned: map[string]int{"9,9": 'a'},
	}
	errs := ValidateSolveRequestSemantic(req)
	if len(errs) == 0 {
		t.Fatal("expected an error for a pinned cell outside the grid")
	}
}

func TestValidateSolveRequestSemanticRejectsMalformedPinKey(t *testing.T) {
	req := &domain.SolveRequest{
		Width: 5, Height: 5,
		Pinned: map[string]int{"notacell": 'a'},
	}
	errs := ValidateSolveRequestSemantic(req)
	if len(errs) == 0 {
		t.Fatal("expected an error for a malformed pinned cell key")
	}
}

func TestValidateSolveRequestSemanticAcceptsValidPin(t *testing.T) {
	req := &domain.SolveRequest{
		Width: 5, Height: 5,
		Pinned: map[string]int{"2,3": 'a'},
	}
	if errs := ValidateSolveRequestSemantic(req); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateSolveRequestCombinesSchemaAndSemanticChecks(t *testing.T) {
	req := domain.SolveRequest{
		Width: 5, Height: 5,
		Words:        []string{"cat"},
		BlackTileCap: 1,
		Mandatory:    []string{"catastrophic"},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	errs := ValidateSolveRequest(data)
	if len(errs) == 0 {
		t.Fatal("expected semantic errors to surface through ValidateSolveRequest")
	}
}

func TestValidationErrorError(t *testing.T) {
	err := ValidationError{Path: "/grid/0/0", Message: "test error"}
	if err.Error() != "/grid/0/0: test error" {
		t.Errorf("Error() = %q, want %q", err.Error(), "/grid/0/0: test error")
	}

	err = ValidationError{Path: "", Message: "root error"}
	if err.Error() != "root error" {
		t.Errorf("Error() = %q, want %q", err.Error(), "root error")
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		{Path: "/a", Message: "error 1"},
		{Path: "/b", Message: "error 2"},
	}
	expected := "/a: error 1; /b: error 2"
	if errs.Error() != expected {
		t.Errorf("Error() = %q, want %q", errs.Error(), expected)
	}

	empty := ValidationErrors{}
	if empty.Error() != "no errors" {
		t.Errorf("Error() = %q, want %q", empty.Error(), "no errors")
	}
}
