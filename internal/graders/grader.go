package graders

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/grader-exec/internal/models"
)

//go:generate go tool mockgen -destination=mocks/mock_grader.go -package=mocks . Grader

// Grader is the interface for all graders
type Grader interface {
	// Name returns the grader name
	Name() string

	// Kind returns the grader type
	Kind() models.GraderKind

	// Grade evaluates a request and returns a verdict
	Grade(ctx context.Context, req *models.GradeRequest) (*models.GradeResult, error)
}

// Create builds a grader of the given kind, decoding params into its arguments.
func Create(kind models.GraderKind, name string, params map[string]any) (Grader, error) {
	switch kind {
	case models.GraderKindHint:
		return NewHintGrader(name), nil
	case models.GraderKindExec:
		args := ExecGraderArgs{Name: name}
		if err := mapstructure.Decode(params, &args); err != nil {
			return nil, fmt.Errorf("decoding params for exec grader '%s': %w", name, err)
		}
		return NewExecGrader(args)
	default:
		return nil, fmt.Errorf("'%s' is not a valid grader type", kind)
	}
}
