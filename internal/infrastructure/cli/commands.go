package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/guardsh/internal/app"
	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/infrastructure"
)

const version = "0.3.0"

// newSessionCommand groups session management subcommands.
func newSessionCommand(container *app.Container) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage guardsh sessions",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := container.Sessions.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
				return nil
			}
			for _, sess := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-10s  %s\n",
					sess.ID, sess.StartedAt.Format(domain.TimestampFormat), sess.Status, sess.WorkingDir)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max sessions to show")

	endCmd := &cobra.Command{
		Use:   "end [session-id]",
		Short: "Terminate a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Sessions.Terminate(cmd.Context(), args[0])
		},
	}

	sessionCmd.AddCommand(listCmd, endCmd)
	return sessionCmd
}

// newHistoryCommand groups command-log subcommands.
func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect a session's command log",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list [session-id]",
		Short: "List a session's command entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Sessions.Entries(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")

	clearCmd := &cobra.Command{
		Use:   "clear [session-id]",
		Short: "Clear a session's command log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Sessions.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Command log cleared.")
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, clearCmd)
	return historyCmd
}

func renderEntries(out io.Writer, entries []domain.CommandEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No command entries recorded yet.")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s  %-9s  %-20s  %s\n",
			entry.Timestamp.Format(domain.TimestampFormat),
			entry.State, entry.AssessmentSummary, entry.Command)
	}
}

// newPolicyCommand exposes the resolved policy document.
func newPolicyCommand(container *app.Container) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the active risk policy",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved policy path and rule counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := container.Classifier.Rules()
			fmt.Fprintf(cmd.OutOrStdout(), "Policy file: %s\n",
				infrastructure.ResolveRulesPath(container.Config.Security.RulesFile))
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", rules.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Custom rules: %d\n", len(rules.CustomRules))
			fmt.Fprintf(cmd.OutOrStdout(), "Danger patterns: %d\n", len(rules.DangerRules))
			fmt.Fprintf(cmd.OutOrStdout(), "Safe prefixes: %d\n", len(rules.SafePrefixes))
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [command]",
		Short: "Classify a command without executing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assessment := container.Classifier.Classify(strings.Join(args, " "))
			RenderAssessment(cmd.OutOrStdout(), assessment)
			return nil
		},
	}

	policyCmd.AddCommand(showCmd, checkCmd)
	return policyCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print guardsh version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "guardsh", version)
		},
	}
}
