package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/guardsh/assets"
	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/pkg/filesystem"
	"github.com/doeshing/guardsh/internal/ports"
)

// RuleClassifier implements the RiskClassifier port by pattern matching
// against an immutable rule set. The evaluation order is fixed: custom
// rules, then danger patterns, then safe prefixes, then a cautious default.
// Compound command strings (pipes, &&, ;) are scanned as one string; a
// dangerous pattern anywhere in the text sets the whole assessment.
type RuleClassifier struct {
	rules  domain.RuleSet
	custom []compiledCustomRule
	danger []compiledDangerRule
	safe   []string
}

type compiledCustomRule struct {
	re   *regexp.Regexp
	rule domain.CustomRule
}

type compiledDangerRule struct {
	re   *regexp.Regexp
	rule domain.DangerPattern
}

// NewRuleClassifier loads a policy document from disk (or the embedded
// defaults when the path is empty or missing) and compiles it.
func NewRuleClassifier(path string) (*RuleClassifier, error) {
	rules, err := loadRuleSet(path)
	if err != nil {
		return nil, err
	}
	return NewRuleClassifierFromRules(rules)
}

// NewRuleClassifierFromRules compiles an in-memory rule set. The rule set
// is copied by value and never mutated; replacing rules means building a
// new classifier.
func NewRuleClassifierFromRules(rules domain.RuleSet) (*RuleClassifier, error) {
	c := &RuleClassifier{rules: rules}
	for _, rule := range rules.CustomRules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile custom rule %q: %w", rule.Pattern, err)
		}
		c.custom = append(c.custom, compiledCustomRule{re: re, rule: rule})
	}
	for _, rule := range rules.DangerRules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile danger pattern %q: %w", rule.Pattern, err)
		}
		c.danger = append(c.danger, compiledDangerRule{re: re, rule: rule})
	}
	for _, prefix := range rules.SafePrefixes {
		if p := strings.ToLower(strings.TrimSpace(prefix)); p != "" {
			c.safe = append(c.safe, p)
		}
	}
	return c, nil
}

// Rules returns the rule set this classifier was built from.
func (c *RuleClassifier) Rules() domain.RuleSet {
	return c.rules
}

// Classify implements ports.RiskClassifier.
func (c *RuleClassifier) Classify(command string) domain.RiskAssessment {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return domain.RiskAssessment{
			Level:          domain.RiskCritical,
			BlockedReasons: []string{"empty command"},
		}
	}

	// Custom rules first, in registration order; first match wins.
	for _, rule := range c.custom {
		if !rule.re.MatchString(trimmed) {
			continue
		}
		return assessCustomRule(rule.rule)
	}

	// Ordered danger patterns; the first match is terminal. There is no
	// score aggregation across rules.
	for _, rule := range c.danger {
		if !rule.re.MatchString(trimmed) {
			continue
		}
		return assessDangerRule(rule.rule)
	}

	// Safe prefixes: case-insensitive exact prefix on word boundary.
	lower := strings.ToLower(trimmed)
	for _, prefix := range c.safe {
		if lower == prefix || strings.HasPrefix(lower, prefix+" ") {
			return domain.RiskAssessment{Level: domain.RiskSafe, MatchedRule: prefix}
		}
	}

	// Unknown commands fail toward caution, never toward silent allow.
	return domain.RiskAssessment{
		Level:                domain.RiskMedium,
		RequiresConfirmation: true,
		Warnings:             []string{"command matched no rule; defaulting to medium risk"},
	}
}

func assessCustomRule(rule domain.CustomRule) domain.RiskAssessment {
	level := domain.ParseRiskLevel(rule.Level)
	message := rule.Message
	if message == "" {
		message = fmt.Sprintf("matched custom rule %s", rule.Pattern)
	}
	if rule.Action == domain.RuleActionBlock {
		if level < domain.RiskHigh {
			level = domain.RiskHigh
		}
		return domain.RiskAssessment{
			Level:          level,
			BlockedReasons: []string{message},
			MatchedRule:    rule.Pattern,
		}
	}
	return domain.RiskAssessment{
		Level:                level,
		RequiresConfirmation: level >= domain.RiskHigh,
		Warnings:             []string{message},
		MatchedRule:          rule.Pattern,
	}
}

func assessDangerRule(rule domain.DangerPattern) domain.RiskAssessment {
	level := domain.ParseRiskLevel(rule.Level)
	assessment := domain.RiskAssessment{
		Level:       level,
		MatchedRule: rule.Pattern,
	}
	if rule.Block || level == domain.RiskCritical {
		assessment.BlockedReasons = []string{rule.Message}
		return assessment
	}
	assessment.RequiresConfirmation = true
	assessment.Warnings = []string{rule.Message}
	return assessment
}

// loadRuleSet reads a policy YAML file, falling back to the embedded
// defaults only when the file is absent. A present-but-invalid or
// unreadable file is an error; silently substituting defaults there would
// hide a broken policy.
func loadRuleSet(path string) (domain.RuleSet, error) {
	path = resolveRulesPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.RuleSet{}, fmt.Errorf("read policy document: %w", err)
		}
		data = assets.DefaultPolicyYAML
	}
	var rules domain.RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.RuleSet{}, fmt.Errorf("parse policy document: %w", err)
	}
	// A document that declares no rules at all gets the defaults; a policy
	// carrying only custom rules is a deliberate choice and stands as-is.
	if len(rules.CustomRules) == 0 && len(rules.DangerRules) == 0 && len(rules.SafePrefixes) == 0 {
		if err := yaml.Unmarshal(assets.DefaultPolicyYAML, &rules); err != nil {
			return domain.RuleSet{}, fmt.Errorf("parse embedded policy: %w", err)
		}
	}
	return rules, nil
}

func resolveRulesPath(path string) string {
	if path == "" {
		return filesystem.ExpandPath("~/.guardsh/policy.yaml")
	}
	return filesystem.ExpandPath(path)
}

// ResolveRulesPath expands the policy path to an absolute location.
func ResolveRulesPath(path string) string {
	return resolveRulesPath(path)
}

var _ ports.RiskClassifier = (*RuleClassifier)(nil)
