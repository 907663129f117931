package graders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/spboyer/grader-exec/internal/models"
	"github.com/spboyer/grader-exec/internal/protocol"
)

// DefaultExecTimeoutSeconds is the timeout for exec graders when none is specified.
const DefaultExecTimeoutSeconds = 30

// execWaitDelay bounds how long Grade waits for the grader's output pipes
// to close once the process has been killed.
const execWaitDelay = 2 * time.Second

// ExecGraderArgs holds the arguments for creating an exec grader.
type ExecGraderArgs struct {
	// Name is the identifier for this grader, used in logs and error messages.
	Name string
	// Command is the grader program to execute.
	Command string `mapstructure:"command"`
	// Args are the arguments to pass to the program.
	Args []string `mapstructure:"args"`
	// Timeout is the maximum execution time in seconds. Defaults to 30 if not set.
	Timeout int `mapstructure:"timeout"`
}

// execGrader runs an external grader process. The request is written to its
// stdin as JSON and its stdout must hold a single JSON verdict.
type execGrader struct {
	name    string
	command string
	args    []string
	timeout time.Duration
}

// NewExecGrader creates an [execGrader] that delegates grading to an external command.
func NewExecGrader(args ExecGraderArgs) (*execGrader, error) {
	if args.Command == "" {
		return nil, fmt.Errorf("exec grader '%s' must have a 'command'", args.Name)
	}

	timeout := args.Timeout
	if timeout <= 0 {
		timeout = DefaultExecTimeoutSeconds
	}

	return &execGrader{
		name:    args.Name,
		command: args.Command,
		args:    args.Args,
		timeout: time.Duration(timeout) * time.Second,
	}, nil
}

func (eg *execGrader) Name() string            { return eg.name }
func (eg *execGrader) Kind() models.GraderKind { return models.GraderKindExec }

func (eg *execGrader) Grade(ctx context.Context, req *models.GradeRequest) (*models.GradeResult, error) {
	input, err := protocol.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, eg.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, eg.command, eg.args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = execWaitDelay
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	slog.Debug("Exec grader finished", "grader", eg.name, "command", eg.command, "duration", time.Since(start), "error", err)

	if err != nil {
		if timeoutCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("exec grader '%s' timed out after %s", eg.name, eg.timeout)
		}

		msg := fmt.Sprintf("exec grader '%s' failed: %v", eg.name, err)
		if errOutput := strings.TrimSpace(stderr.String()); errOutput != "" {
			msg = fmt.Sprintf("%s; stderr: %s", msg, errOutput)
		}
		return nil, errors.New(msg)
	}

	result, err := protocol.DecodeResult(bytes.TrimSpace(stdout.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("exec grader '%s': %w", eg.name, err)
	}
	return result, nil
}
