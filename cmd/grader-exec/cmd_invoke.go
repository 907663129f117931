package main

import (
	"path/filepath"

	"github.com/spboyer/grader-exec/internal/graders"
	"github.com/spboyer/grader-exec/internal/models"
	"github.com/spboyer/grader-exec/internal/projectconfig"
	"github.com/spboyer/grader-exec/internal/protocol"
	"github.com/spf13/cobra"
)

func newInvokeCommand(configPath *string) *cobra.Command {
	var timeout int

	cmd := &cobra.Command{
		Use:   "invoke -- <command> [args...]",
		Short: "Run an external grader over the stdin/stdout JSON protocol",
		Long: `Reads a grade request from stdin, passes it to <command> on its stdin, and
prints the verdict the command writes to its stdout. The command must exit 0
and emit a verdict whose score agrees with its pass flag.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(*configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.Grader.Timeout
			}

			g, err := graders.Create(models.GraderKindExec, filepath.Base(args[0]), map[string]any{
				"command": args[0],
				"args":    args[1:],
				"timeout": timeout,
			})
			if err != nil {
				return err
			}

			return runGrade(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), g, protocol.ReadOptions{
				MaxBytes: cfg.Input.MaxBytes,
			})
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", graders.DefaultExecTimeoutSeconds, "Grader timeout in seconds")

	return cmd
}
