package models

import (
	"fmt"
	"strconv"
)

// GraderKind identifies the type of grader (e.g. hint, exec).
type GraderKind string

const (
	GraderKindHint GraderKind = "hint"
	GraderKindExec GraderKind = "exec"
)

const (
	ReasoningContains = "Contains expected"
	ReasoningMissing  = "Missing expected"
)

// GradeRequest is the document a grader reads from stdin.
type GradeRequest struct {
	// Output is the candidate answer. A missing key decodes to "".
	Output string `mapstructure:"output" json:"output"`
	// Hint is the expected substring. Missing and null both decode to nil.
	Hint *string `mapstructure:"hint" json:"hint,omitempty"`
}

// HintText returns the hint, or "" when it is absent or null.
func (r *GradeRequest) HintText() string {
	if r.Hint == nil {
		return ""
	}
	return *r.Hint
}

// Score is a grading score in [0, 1]. Whole values are written with one
// decimal place (1.0, 0.0).
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	out := strconv.FormatFloat(float64(s), 'f', -1, 64)
	if float64(s) == float64(int64(s)) {
		out += ".0"
	}
	return []byte(out), nil
}

// GradeResult is the verdict a grader writes to stdout.
type GradeResult struct {
	Pass      bool   `json:"pass"`
	Score     Score  `json:"score"`
	Reasoning string `json:"reasoning"`
}

// NewGradeResult builds the verdict for pass, keeping score and reasoning
// consistent with it.
func NewGradeResult(pass bool) *GradeResult {
	if pass {
		return &GradeResult{Pass: true, Score: 1.0, Reasoning: ReasoningContains}
	}
	return &GradeResult{Pass: false, Score: 0.0, Reasoning: ReasoningMissing}
}

// Validate checks that score agrees with pass. Results produced by
// [NewGradeResult] always validate; results read back from an external
// grader might not.
func (r *GradeResult) Validate() error {
	switch {
	case r.Pass && r.Score != 1.0:
		return fmt.Errorf("passing result has score %v, want 1.0", float64(r.Score))
	case !r.Pass && r.Score != 0.0:
		return fmt.Errorf("failing result has score %v, want 0.0", float64(r.Score))
	}
	return nil
}
