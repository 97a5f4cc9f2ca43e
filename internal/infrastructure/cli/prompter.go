package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout. High-risk
// and elevated commands require typing "yes" in full.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled reports whether a prompt can be shown. On a non-interactive
// stdin the orchestrator suspends the request instead.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks the user for confirmation based on the assessment.
func (p *Prompter) Confirm(assessment domain.RiskAssessment, command string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s risk detected\n", strings.ToUpper(assessment.Level.String()))
	for _, warning := range assessment.Warnings {
		fmt.Fprintf(p.out, " - %s\n", warning)
	}
	if assessment.RequiresElevation {
		fmt.Fprintln(p.out, " - requires elevated privileges")
	}
	if command != "" {
		fmt.Fprintf(p.out, "Command:\n  %s\n", command)
	}

	if assessment.Level >= domain.RiskHigh || assessment.RequiresElevation {
		return p.askExplicit()
	}
	return p.ask()
}

func (p *Prompter) ask() (bool, error) {
	fmt.Fprint(p.out, "Continue? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

func (p *Prompter) askExplicit() (bool, error) {
	fmt.Fprint(p.out, "Type 'yes' to confirm (or anything else to cancel): ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(line) == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
