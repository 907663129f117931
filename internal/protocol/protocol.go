// Package protocol implements the stdin/stdout JSON exchange between a
// grading host and a grader process: one request document in, one verdict
// document out.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/grader-exec/internal/models"
)

// MalformedInputError reports a request that is not a well-formed grade
// request document. No verdict is written when it occurs.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// ReadOptions controls [ReadRequest].
type ReadOptions struct {
	// MaxBytes caps the size of the request document. Zero means no limit.
	MaxBytes int64
}

// ReadRequest consumes r to the end and decodes it as a single grade request.
func ReadRequest(r io.Reader, opts ReadOptions) (*models.GradeRequest, error) {
	if opts.MaxBytes > 0 {
		r = io.LimitReader(r, opts.MaxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}

	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("request exceeds %d bytes", opts.MaxBytes)}
	}

	return DecodeRequest(data)
}

// DecodeRequest parses and validates a request document already in memory.
func DecodeRequest(data []byte) (*models.GradeRequest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedInputError{Reason: "invalid JSON", Err: err}
	}

	if errs := validateRequest(doc); len(errs) > 0 {
		return nil, &MalformedInputError{Reason: strings.Join(errs, "; ")}
	}

	fields := doc.(map[string]any)
	if err := coalesceHint(fields); err != nil {
		return nil, err
	}

	var req models.GradeRequest
	if err := mapstructure.Decode(fields, &req); err != nil {
		return nil, &MalformedInputError{Reason: "decoding request", Err: err}
	}
	return &req, nil
}

// coalesceHint removes a JSON-falsy hint (null, false, 0, "", [], {}) so it
// decodes as absent. Any other non-string hint is malformed.
func coalesceHint(fields map[string]any) error {
	hint, ok := fields["hint"]
	if !ok {
		return nil
	}

	falsy := false
	switch v := hint.(type) {
	case string:
		return nil
	case nil:
		falsy = true
	case bool:
		falsy = !v
	case float64:
		falsy = v == 0
	case []any:
		falsy = len(v) == 0
	case map[string]any:
		falsy = len(v) == 0
	}

	if !falsy {
		return &MalformedInputError{Reason: "/hint: must be a string, null or an empty value"}
	}
	delete(fields, "hint")
	return nil
}

// WriteResult writes result as one JSON document followed by a newline,
// using ", " and ": " separators.
func WriteResult(w io.Writer, result *models.GradeResult) error {
	score, err := result.Score.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	reasoning, err := json.Marshal(result.Reasoning)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if _, err := fmt.Fprintf(w, "{\"pass\": %t, \"score\": %s, \"reasoning\": %s}\n", result.Pass, score, reasoning); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// EncodeRequest is the host-side counterpart of [DecodeRequest].
func EncodeRequest(req *models.GradeRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return data, nil
}

// DecodeResult parses a verdict written by a grader process and checks
// that its score agrees with its pass flag.
func DecodeResult(data []byte) (*models.GradeResult, error) {
	var result struct {
		Pass      *bool    `json:"pass"`
		Score     *float64 `json:"score"`
		Reasoning string   `json:"reasoning"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing grader result: %w", err)
	}
	if result.Pass == nil || result.Score == nil {
		return nil, fmt.Errorf("grader result must have 'pass' and 'score'")
	}

	gr := &models.GradeResult{
		Pass:      *result.Pass,
		Score:     models.Score(*result.Score),
		Reasoning: result.Reasoning,
	}
	if err := gr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grader result: %w", err)
	}
	return gr, nil
}
