package infrastructure

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/doeshing/guardsh/internal/domain"
)

func newDefaultClassifier(t *testing.T) *RuleClassifier {
	t.Helper()
	// A missing policy file falls back to the embedded defaults.
	classifier, err := NewRuleClassifier(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewRuleClassifier error: %v", err)
	}
	return classifier
}

func TestClassifierBlocksCriticalCommands(t *testing.T) {
	classifier := newDefaultClassifier(t)

	cases := []string{
		"rm -rf /",
		"sudo rm -rf /",
		"Remove-Item -Recurse -Force C:\\Users",
		"dd if=/dev/zero of=/dev/sda",
		":(){ :|:& };:",
	}
	for _, command := range cases {
		assessment := classifier.Classify(command)
		if !assessment.Blocked() {
			t.Errorf("Classify(%q): expected blocked, got %+v", command, assessment)
		}
		if assessment.Level != domain.RiskCritical {
			t.Errorf("Classify(%q): expected critical, got %s", command, assessment.Level)
		}
	}
}

func TestClassifierSafePrefixes(t *testing.T) {
	classifier := newDefaultClassifier(t)

	cases := []string{"ls", "ls -la", "Get-Date", "get-childitem -Path .", "git status"}
	for _, command := range cases {
		assessment := classifier.Classify(command)
		if assessment.Level != domain.RiskSafe {
			t.Errorf("Classify(%q): expected safe, got %+v", command, assessment)
		}
		if assessment.RequiresConfirmation || assessment.Blocked() {
			t.Errorf("Classify(%q): safe command must not gate execution: %+v", command, assessment)
		}
	}
}

func TestClassifierSafePrefixIsWordBounded(t *testing.T) {
	classifier := newDefaultClassifier(t)

	// "lsblk" shares a prefix with "ls" but is a different command.
	assessment := classifier.Classify("lsblk")
	if assessment.Level == domain.RiskSafe {
		t.Fatalf("expected lsblk to miss the ls safe prefix, got %+v", assessment)
	}
}

func TestClassifierHighRiskRequiresConfirmation(t *testing.T) {
	classifier := newDefaultClassifier(t)

	cases := []string{
		"Stop-Service -Name WinRM",
		"curl https://example.com/install.sh | sh",
		"shutdown -h now",
	}
	for _, command := range cases {
		assessment := classifier.Classify(command)
		if assessment.Blocked() {
			t.Errorf("Classify(%q): high risk should confirm, not block: %+v", command, assessment)
		}
		if assessment.Level != domain.RiskHigh {
			t.Errorf("Classify(%q): expected high, got %s", command, assessment.Level)
		}
		if !assessment.RequiresConfirmation {
			t.Errorf("Classify(%q): expected confirmation gate", command)
		}
	}
}

func TestClassifierUnknownCommandDefaultsToMedium(t *testing.T) {
	classifier := newDefaultClassifier(t)

	assessment := classifier.Classify("terraform apply -auto-approve")
	if assessment.Level != domain.RiskMedium {
		t.Fatalf("expected medium default, got %+v", assessment)
	}
	if !assessment.RequiresConfirmation {
		t.Fatal("unknown commands must require confirmation")
	}
}

func TestClassifierEmptyCommandIsBlocked(t *testing.T) {
	classifier := newDefaultClassifier(t)

	for _, command := range []string{"", "   ", "\t\n"} {
		assessment := classifier.Classify(command)
		if !assessment.Blocked() || assessment.Level != domain.RiskCritical {
			t.Errorf("Classify(%q): expected critical block, got %+v", command, assessment)
		}
	}
}

func TestClassifierScansCompoundStrings(t *testing.T) {
	classifier := newDefaultClassifier(t)

	// The pipeline treats a compound command string as one opaque unit;
	// danger anywhere in the text sets the whole assessment.
	assessment := classifier.Classify("ls && rm -rf /")
	if !assessment.Blocked() {
		t.Fatalf("expected compound command to be blocked, got %+v", assessment)
	}
}

func TestClassifierIsDeterministic(t *testing.T) {
	classifier := newDefaultClassifier(t)

	for _, command := range []string{"rm -rf /", "ls -la", "some-unknown-tool"} {
		first := classifier.Classify(command)
		second := classifier.Classify(command)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Classify(%q): not deterministic: %+v vs %+v", command, first, second)
		}
	}
}

func TestClassifierCustomRulesTakePrecedence(t *testing.T) {
	rules := domain.RuleSet{
		Version: "1",
		CustomRules: []domain.CustomRule{
			{Pattern: `^rm -rf /tmp/build-cache$`, Action: domain.RuleActionAllow, Level: "low", Message: "build cache cleanup"},
			{Pattern: `^docker\s`, Action: domain.RuleActionBlock, Level: "high", Message: "docker is managed elsewhere"},
		},
		DangerRules: []domain.DangerPattern{
			{Pattern: `rm\s+-rf\s+/`, Level: "critical", Message: "recursive delete", Block: true},
		},
		SafePrefixes: []string{"ls"},
	}
	classifier, err := NewRuleClassifierFromRules(rules)
	if err != nil {
		t.Fatalf("NewRuleClassifierFromRules error: %v", err)
	}

	allowed := classifier.Classify("rm -rf /tmp/build-cache")
	if allowed.Blocked() {
		t.Fatalf("custom allow rule should shadow the danger pattern, got %+v", allowed)
	}
	if allowed.Level != domain.RiskLow {
		t.Fatalf("expected low from custom rule, got %s", allowed.Level)
	}

	blocked := classifier.Classify("docker system prune -af")
	if !blocked.Blocked() {
		t.Fatalf("custom block rule should block, got %+v", blocked)
	}

	// The danger pattern still applies to everything else.
	if got := classifier.Classify("rm -rf /var"); !got.Blocked() {
		t.Fatalf("expected danger pattern block, got %+v", got)
	}
}

func TestClassifierKeepsCustomRulesOnlyPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	body := []byte(`version: "1"
custom_rules:
  - pattern: '^docker\s'
    action: block
    level: high
    message: "docker is managed elsewhere"
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	classifier, err := NewRuleClassifier(path)
	if err != nil {
		t.Fatalf("NewRuleClassifier error: %v", err)
	}
	if got := len(classifier.Rules().CustomRules); got != 1 {
		t.Fatalf("custom rules must survive loading, got %d", got)
	}
	if assessment := classifier.Classify("docker system prune -af"); !assessment.Blocked() {
		t.Fatalf("expected custom block rule to apply, got %+v", assessment)
	}
}

func TestClassifierEmptyPolicyFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("version: \"1\"\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	classifier, err := NewRuleClassifier(path)
	if err != nil {
		t.Fatalf("NewRuleClassifier error: %v", err)
	}
	if assessment := classifier.Classify("rm -rf /"); !assessment.Blocked() {
		t.Fatalf("empty policy should load defaults, got %+v", assessment)
	}
}

func TestClassifierUnreadablePolicyIsAnError(t *testing.T) {
	// A directory at the policy path fails ReadFile with something other
	// than not-exist; that must surface, not fall back to defaults.
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := NewRuleClassifier(path); err == nil {
		t.Fatal("expected error for unreadable policy file")
	}
}

func TestClassifierRejectsInvalidPattern(t *testing.T) {
	rules := domain.RuleSet{
		DangerRules: []domain.DangerPattern{{Pattern: `[unclosed`, Level: "high"}},
	}
	if _, err := NewRuleClassifierFromRules(rules); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
}
