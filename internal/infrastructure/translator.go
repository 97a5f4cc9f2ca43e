package infrastructure

import (
	"context"
	"strings"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// HeuristicTranslator is an offline Translator that maps common phrasings
// to commands. It stands in for an AI-backed translator when no provider
// is configured; confidence is informational only and never gates
// execution.
type HeuristicTranslator struct{}

// NewHeuristicTranslator builds the offline translator.
func NewHeuristicTranslator() *HeuristicTranslator {
	return &HeuristicTranslator{}
}

// Translate implements ports.Translator.
func (t *HeuristicTranslator) Translate(_ context.Context, text string, _ domain.Session) (domain.Candidate, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range heuristicRules {
		if rule.match(lower) {
			return domain.Candidate{
				Command:     rule.command,
				Confidence:  0.6,
				Explanation: rule.explanation,
			}, nil
		}
	}
	// Bare command input passes through unchanged; the classifier still
	// sees it.
	return domain.Candidate{
		Command:     strings.TrimSpace(text),
		Confidence:  0.1,
		Explanation: "no translation rule matched; treating input as a literal command",
	}, nil
}

type heuristicRule struct {
	keywords    []string
	command     string
	explanation string
}

func (r heuristicRule) match(lower string) bool {
	for _, kw := range r.keywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

var heuristicRules = []heuristicRule{
	{[]string{"list", "file"}, "ls -la", "list files in the current directory"},
	{[]string{"disk", "usage"}, "df -h", "show filesystem disk usage"},
	{[]string{"current", "director"}, "pwd", "print the working directory"},
	{[]string{"running", "process"}, "ps aux", "list running processes"},
	{[]string{"git", "status"}, "git status", "show git working tree status"},
	{[]string{"docker", "container"}, "docker ps", "list running containers"},
	{[]string{"what", "time"}, "date", "print the current date and time"},
	{[]string{"who", "am i"}, "whoami", "print the current user"},
}

var _ ports.Translator = (*HeuristicTranslator)(nil)
