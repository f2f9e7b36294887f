// Package validate provides JSON schema and semantic validation for
// solve requests and results.
package validate

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"motscroises/internal/domain"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var (
	solveRequestSchema *jsonschema.Schema
	solveResultSchema  *jsonschema.Schema
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	solveRequestSchema = mustCompile(compiler, "solve_request.schema.json")
	solveResultSchema = mustCompile(compiler, "solve_result.schema.json")
}

func mustCompile(compiler *jsonschema.Compiler, name string) *jsonschema.Schema {
	data, err := schemasFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("failed to read %s: %v", name, err))
	}
	if err := compiler.AddResource(name, strings.NewReader(string(data))); err != nil {
		panic(fmt.Sprintf("failed to add %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return schema
}

// ValidationError represents a single validation error with path context.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no errors"
	}
	var msgs []string
	for _, e := range ve {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateSolveRequestJSON validates solve-request JSON against the schema.
func ValidateSolveRequestJSON(data []byte) ValidationErrors {
	return validateAgainst(solveRequestSchema, data)
}

// ValidateSolveResultJSON validates solve-result JSON against the schema.
func ValidateSolveResultJSON(data []byte) ValidationErrors {
	return validateAgainst(solveResultSchema, data)
}

func validateAgainst(schema *jsonschema.Schema, data []byte) ValidationErrors {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ValidationErrors{{Message: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaErrorToValidationErrors(err)
	}
	return nil
}

func schemaErrorToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	switch e := err.(type) {
	case *jsonschema.ValidationError:
		errors = append(errors, extractValidationErrors(e)...)
	default:
		errors = append(errors, ValidationError{Message: err.Error()})
	}
	return errors
}

func extractValidationErrors(ve *jsonschema.ValidationError) ValidationErrors {
	var errors ValidationErrors
	if ve.Message != "" {
		errors = append(errors, ValidationError{
			Path:    ve.InstanceLocation,
			Message: ve.Message,
		})
	}
	for _, cause := range ve.Causes {
		errors = append(errors, extractValidationErrors(cause)...)
	}
	return errors
}

// ValidateSolveRequestSemantic performs the checks JSON Schema cannot
// express: that a mandatory word could ever fit the grid, that the
// black-tile cap isn't larger than the grid itself, and that pinned
// cells fall on the grid and use a legal cell code.
func ValidateSolveRequestSemantic(req *domain.SolveRequest) ValidationErrors {
	var errors ValidationErrors

	longest := req.Width
	if req.Height > longest {
		longest = req.Height
	}
	for i, word := range req.Mandatory {
		if len([]rune(word)) > longest {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("/mandatory/%d", i),
				Message: fmt.Sprintf("word %q is longer than the longest line (%d)", word, longest),
			})
		}
	}

	if req.BlackTileCap > req.Width*req.Height {
		errors = append(errors, ValidationError{
			Path:    "/black_tile_cap",
			Message: fmt.Sprintf("black_tile_cap %d exceeds total cell count %d", req.BlackTileCap, req.Width*req.Height),
		})
	}

	for key, code := range req.Pinned {
		row, col, ok := parseCellKey(key)
		if !ok {
			errors = append(errors, ValidationError{
				Path:    "/pinned/" + key,
				Message: "pinned cell key must be \"row,col\"",
			})
			continue
		}
		if row < 0 || row >= req.Height || col < 0 || col >= req.Width {
			errors = append(errors, ValidationError{
				Path:    "/pinned/" + key,
				Message: fmt.Sprintf("cell (%d,%d) is outside the %dx%d grid", row, col, req.Height, req.Width),
			})
		}
		if !(code >= 'a' && code <= 'z') && code != 'z'+1 {
			errors = append(errors, ValidationError{
				Path:    "/pinned/" + key,
				Message: fmt.Sprintf("cell code %d is neither a lowercase letter nor the black-tile code", code),
			})
		}
	}

	return errors
}

func parseCellKey(key string) (row, col int, ok bool) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(parts[0])
	c, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return r, c, true
}

// ValidateSolveRequest performs both schema and semantic validation.
func ValidateSolveRequest(data []byte) ValidationErrors {
	if errs := ValidateSolveRequestJSON(data); len(errs) > 0 {
		return errs
	}
	var req domain.SolveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ValidationErrors{{Message: fmt.Sprintf("failed to parse solve request: %v", err)}}
	}
	return ValidateSolveRequestSemantic(&req)
}
