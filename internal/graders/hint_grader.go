package graders

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spboyer/grader-exec/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// hintGrader passes when the request's hint occurs in its output, ignoring
// case. A request without a hint always passes.
type hintGrader struct {
	name string
}

// NewHintGrader creates a [hintGrader].
func NewHintGrader(name string) *hintGrader {
	return &hintGrader{name: name}
}

func (hg *hintGrader) Name() string            { return hg.name }
func (hg *hintGrader) Kind() models.GraderKind { return models.GraderKindHint }

func (hg *hintGrader) Grade(ctx context.Context, req *models.GradeRequest) (*models.GradeResult, error) {
	// Casers keep state between calls, so each grade gets its own.
	lower := cases.Lower(language.Und)
	output := lower.String(req.Output)
	hint := lower.String(req.HintText())

	pass := true
	if hint != "" {
		pass = strings.Contains(output, hint)
	}

	slog.Debug("Hint graded", "grader", hg.name, "hint", hint, "pass", pass)
	return models.NewGradeResult(pass), nil
}
