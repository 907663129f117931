package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spboyer/grader-exec/internal/graders"
	"github.com/spboyer/grader-exec/internal/projectconfig"
	"github.com/spboyer/grader-exec/internal/protocol"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "grader-exec",
		Short: "Grade an answer read from stdin against an expected hint",
		Long: `grader-exec reads one JSON grade request from stdin, checks whether the
request's "hint" occurs in its "output" (ignoring case), and writes one JSON
verdict to stdout:

  {"pass": true, "score": 1.0, "reasoning": "Contains expected"}

A request without a hint always passes.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(configPath)
			if err != nil {
				return err
			}

			g, err := graders.Create(cfg.Grader.Kind, cfg.Grader.Name, cfg.Grader.Params())
			if err != nil {
				return fmt.Errorf("creating grader: %w", err)
			}

			return runGrade(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), g, protocol.ReadOptions{
				MaxBytes: cfg.Input.MaxBytes,
			})
		},
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newInvokeCommand(&configPath))

	return cmd
}

// runGrade reads one request from in, grades it with g and writes the
// verdict to out. Nothing is written when reading or grading fails.
func runGrade(ctx context.Context, in io.Reader, out io.Writer, g graders.Grader, opts protocol.ReadOptions) error {
	if isTerminal(in) {
		slog.Info("Reading grade request from the terminal; finish with Ctrl-D")
	}

	req, err := protocol.ReadRequest(in, opts)
	if err != nil {
		return err
	}
	slog.Debug("Grade request decoded", "grader", g.Name(), "kind", g.Kind(), "outputLen", len(req.Output), "hasHint", req.Hint != nil)

	result, err := g.Grade(ctx, req)
	if err != nil {
		return fmt.Errorf("grading with '%s': %w", g.Name(), err)
	}

	return protocol.WriteResult(out, result)
}

// isTerminal reports whether in is a file attached to a terminal.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
