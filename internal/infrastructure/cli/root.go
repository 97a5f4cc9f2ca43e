package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/guardsh/internal/app"
	"github.com/doeshing/guardsh/internal/domain"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Orchestrator.Prompter = NewPrompter(nil, nil)

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "guardsh [request]",
		Short: "guardsh - natural language commands with safety guardrails",
		Long:  "guardsh translates natural language into shell commands, classifies their risk, and executes them directly or in a sandbox.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			runCmd.SetArgs(args)
			return runCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd)
	root.AddCommand(newSessionCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newPolicyCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		autoConfirm bool
		sessionID   string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "run [natural language or command]",
		Short: "Translate and safely execute a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := strings.Join(args, " ")

			sid := sessionID
			if sid == "" {
				wd, _ := os.Getwd()
				sess, err := container.Sessions.Start(ctx, os.Getenv("USER"), wd, nil)
				if err != nil {
					return fmt.Errorf("start session: %w", err)
				}
				sid = sess.ID
			}

			sess, err := container.Sessions.Get(ctx, sid)
			if err != nil {
				return err
			}

			candidate, err := container.Translator.Translate(ctx, input, sess)
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}
			RenderCandidate(cmd.OutOrStdout(), candidate)

			if dryRun {
				assessment := container.Classifier.Classify(candidate.Command)
				RenderAssessment(cmd.OutOrStdout(), assessment)
				return nil
			}

			outcome, err := container.Orchestrator.EvaluateAndExecute(ctx, input, candidate.Command, sid, autoConfirm)
			RenderOutcome(cmd.OutOrStdout(), outcome)
			if outcome.State == domain.StateAwaitingConfirmation {
				return resolvePending(cmd, container, outcome, candidate.Command)
			}
			if err != nil {
				return err
			}
			// Blocked commands exit non-zero so scripts can tell refusal
			// from success.
			if outcome.State == domain.StateBlocked {
				return &domain.BlockedError{Command: candidate.Command, Reasons: outcome.Assessment.BlockedReasons}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Pre-authorize execution (blocked commands stay blocked)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Existing session id (default: start a new session)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify only, never execute")
	return cmd
}

// resolvePending handles the suspended-confirmation path for batch usage:
// when the prompter could not run inline, ask on stdin now.
func resolvePending(cmd *cobra.Command, container *app.Container, outcome domain.PipelineOutcome, command string) error {
	prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	granted, err := prompter.Confirm(outcome.Assessment, command)
	if err != nil {
		granted = false
	}
	resolved, err := container.Orchestrator.Confirm(cmd.Context(), outcome.PendingID, granted)
	RenderOutcome(cmd.OutOrStdout(), resolved)
	return err
}
