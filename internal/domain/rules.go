package domain

// DangerPattern flags commands matching a regular expression with a risk
// level. Patterns are evaluated in document order and the first match is
// terminal for the classification.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Block   bool   `yaml:"block,omitempty"`
}

// CustomRule is a user-supplied override evaluated before the built-in
// danger patterns. Action is "allow" or "block"; the first matching custom
// rule wins regardless of later rules.
type CustomRule struct {
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"`
	Level   string `yaml:"level,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Custom rule actions.
const (
	RuleActionAllow = "allow"
	RuleActionBlock = "block"
)

// RuleSet is the immutable, versioned rule configuration a classifier is
// built from. Reloading rules replaces the whole RuleSet; individual lists
// are never mutated in place.
type RuleSet struct {
	Version      string          `yaml:"version"`
	CustomRules  []CustomRule    `yaml:"custom_rules"`
	DangerRules  []DangerPattern `yaml:"danger_patterns"`
	SafePrefixes []string        `yaml:"safe_prefixes"`
}
