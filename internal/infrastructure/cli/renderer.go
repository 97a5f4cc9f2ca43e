package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/guardsh/internal/domain"
)

// RenderCandidate prints the translated command proposal.
func RenderCandidate(out io.Writer, candidate domain.Candidate) {
	fmt.Fprintln(out, "Candidate command:")
	fmt.Fprintf(out, "  %s\n", candidate.Command)
	if candidate.Explanation != "" {
		fmt.Fprintf(out, "  (%s, confidence %.0f%%)\n", candidate.Explanation, candidate.Confidence*100)
	}
}

// RenderAssessment prints a risk assessment.
func RenderAssessment(out io.Writer, assessment domain.RiskAssessment) {
	fmt.Fprintf(out, "\nRisk: %s\n", strings.ToUpper(assessment.Level.String()))
	for _, reason := range assessment.BlockedReasons {
		fmt.Fprintf(out, " blocked: %s\n", reason)
	}
	for _, warning := range assessment.Warnings {
		fmt.Fprintf(out, " - %s\n", warning)
	}
	if assessment.RequiresElevation {
		fmt.Fprintln(out, " - requires elevated privileges")
	}
}

// RenderOutcome prints the terminal pipeline outcome and captured output.
func RenderOutcome(out io.Writer, outcome domain.PipelineOutcome) {
	switch outcome.State {
	case domain.StateBlocked:
		fmt.Fprintln(out, "\nBlocked by policy:")
		for _, reason := range outcome.Assessment.BlockedReasons {
			fmt.Fprintf(out, " - %s\n", reason)
		}
	case domain.StateCancelled:
		fmt.Fprintln(out, "\nCancelled.")
	case domain.StateAwaitingConfirmation:
		fmt.Fprintf(out, "\nAwaiting confirmation (pending id %s)\n", outcome.PendingID)
	case domain.StateTimedOut:
		fmt.Fprintln(out, "\nTimed out.")
	}

	result := outcome.Result
	if result == nil {
		return
	}
	if result.Success {
		fmt.Fprintln(out, "\nCommand completed.")
	} else if outcome.State == domain.StateFailed {
		fmt.Fprintf(out, "\nCommand failed (exit code %d).\n", result.ExitCode)
	}
	if result.Stdout != "" {
		fmt.Fprintln(out, "\nstdout:")
		fmt.Fprintln(out, result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprintln(out, "\nstderr:")
		fmt.Fprintln(out, result.Stderr)
	}
	if result.Truncated {
		fmt.Fprintln(out, "(output truncated)")
	}
}
