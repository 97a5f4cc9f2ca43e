package infrastructure

import (
	"regexp"

	"github.com/doeshing/guardsh/internal/ports"
)

// elevationRule tags an administrative-operation pattern with the platforms
// it applies to. An empty platform list means the pattern applies everywhere.
type elevationRule struct {
	re        *regexp.Regexp
	category  string
	platforms []string
}

// PlatformEvaluator implements the PermissionEvaluator port. It detects
// commands that need elevated privileges but never blocks on its own; the
// orchestrator decides what a detection means.
type PlatformEvaluator struct {
	rules  []elevationRule
	logger ports.Logger
}

// NewPlatformEvaluator builds an evaluator with the built-in rule table.
func NewPlatformEvaluator(logger ports.Logger) *PlatformEvaluator {
	return &PlatformEvaluator{rules: elevationRules(), logger: logger}
}

// RequiresElevation implements ports.PermissionEvaluator. A detection is
// always logged, independent of whether the command is later confirmed.
func (e *PlatformEvaluator) RequiresElevation(command, platform string) bool {
	for _, rule := range e.rules {
		if !rule.appliesTo(platform) {
			continue
		}
		if rule.re.MatchString(command) {
			if e.logger != nil {
				e.logger.Info("elevation required", map[string]interface{}{
					"category": rule.category,
					"platform": platform,
				})
			}
			return true
		}
	}
	return false
}

func (r elevationRule) appliesTo(platform string) bool {
	if len(r.platforms) == 0 {
		return true
	}
	for _, p := range r.platforms {
		if p == platform {
			return true
		}
	}
	return false
}

func elevationRules() []elevationRule {
	unix := []string{"linux", "darwin"}
	windows := []string{"windows"}
	return []elevationRule{
		// Explicit privilege escalation.
		{re: regexp.MustCompile(`(^|\s)(sudo|doas)\s`), category: "privilege-escalation", platforms: unix},
		{re: regexp.MustCompile(`(^|\s)su\s+(-|root)\b`), category: "privilege-escalation", platforms: unix},

		// Service control.
		{re: regexp.MustCompile(`\bsystemctl\s+(start|stop|restart|enable|disable|mask)\b`), category: "service-control", platforms: unix},
		{re: regexp.MustCompile(`\bservice\s+\S+\s+(start|stop|restart)\b`), category: "service-control", platforms: unix},
		{re: regexp.MustCompile(`(?i)\b(start|stop|restart|set)-service\b`), category: "service-control", platforms: windows},
		{re: regexp.MustCompile(`(?i)\bsc(\.exe)?\s+(start|stop|config|delete)\b`), category: "service-control", platforms: windows},

		// User and group management.
		{re: regexp.MustCompile(`\b(useradd|userdel|usermod|groupadd|groupdel|passwd)\b`), category: "user-management", platforms: unix},
		{re: regexp.MustCompile(`(?i)\bnet\s+(user|localgroup)\b`), category: "user-management", platforms: windows},
		{re: regexp.MustCompile(`(?i)\b(new|remove|set)-localuser\b`), category: "user-management", platforms: windows},

		// Disk and partition operations.
		{re: regexp.MustCompile(`\b(fdisk|parted|mkfs|mount|umount|losetup)\b`), category: "disk-management", platforms: unix},
		{re: regexp.MustCompile(`(?i)\b(diskpart|format-volume|initialize-disk|new-partition)\b`), category: "disk-management", platforms: windows},

		// Network and firewall configuration.
		{re: regexp.MustCompile(`\b(iptables|nft|ufw|firewall-cmd|ip\s+(link|addr|route))\b`), category: "network-config", platforms: unix},
		{re: regexp.MustCompile(`(?i)\bnetsh\b`), category: "network-config", platforms: windows},
		{re: regexp.MustCompile(`(?i)\b(new|set|remove)-netfirewallrule\b`), category: "network-config", platforms: windows},

		// Execution policy and system registry.
		{re: regexp.MustCompile(`(?i)\bset-executionpolicy\b`), category: "execution-policy", platforms: windows},
		{re: regexp.MustCompile(`(?i)\breg\s+(add|delete)\s+hklm\b`), category: "registry", platforms: windows},
	}
}

var _ ports.PermissionEvaluator = (*PlatformEvaluator)(nil)
