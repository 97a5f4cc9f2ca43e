// Package domain defines core business entities and value objects for guardsh.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures: risk levels, execution requests
// and results, sessions, and the pipeline state machine vocabulary.
package domain

// RiskLevel is an ordinal danger classification for a command.
// Higher values are more dangerous; comparisons with < and >= are meaningful.
type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the lowercase name of the risk level.
func (l RiskLevel) String() string {
	switch l {
	case RiskSafe:
		return "safe"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseRiskLevel maps a policy document string to a RiskLevel.
// Unknown values map to RiskSafe, matching the permissive default used
// for malformed rule entries.
func ParseRiskLevel(value string) RiskLevel {
	switch value {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	case "critical":
		return RiskCritical
	default:
		return RiskSafe
	}
}

// RiskAssessment is the outcome of classifying one command against the
// active rule set. It is produced once per command and never mutated;
// re-evaluation yields a new value.
type RiskAssessment struct {
	Level                RiskLevel
	BlockedReasons       []string
	RequiresConfirmation bool
	RequiresElevation    bool
	Warnings             []string
	MatchedRule          string
}

// Blocked reports whether the command must not be executed.
func (a RiskAssessment) Blocked() bool {
	return len(a.BlockedReasons) > 0
}

// Summary renders a short single-line description for audit entries.
func (a RiskAssessment) Summary() string {
	s := a.Level.String()
	switch {
	case a.Blocked():
		s += " (blocked)"
	case a.RequiresElevation:
		s += " (elevation)"
	case a.RequiresConfirmation:
		s += " (confirm)"
	}
	return s
}
