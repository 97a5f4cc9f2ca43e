package domain

// Config mirrors ~/.guardsh/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Security            SecuritySettings  `yaml:"security"`
	Sandbox             SandboxSettings   `yaml:"sandbox"`
	Execution           ExecutionSettings `yaml:"execution"`
}

// Preferences captures user level toggles. AutoConfirmLow grants the
// confirmation gate automatically for low-risk, non-elevated commands;
// blocked and high-risk commands are unaffected.
type Preferences struct {
	AutoConfirmLow bool `yaml:"auto_confirm_low"`
	Verbose        bool `yaml:"verbose"`
}

// SecuritySettings defines classifier and confirmation behavior.
type SecuritySettings struct {
	RulesFile             string `yaml:"rules_file"`
	SandboxRequired       bool   `yaml:"sandbox_required"`
	ConfirmTimeoutSeconds int    `yaml:"confirm_timeout_seconds"`
}

// SandboxSettings configures the container runner and the threshold above
// which risky commands are routed to it.
type SandboxSettings struct {
	Enabled        bool   `yaml:"enabled"`
	RiskThreshold  string `yaml:"risk_threshold"`
	Image          string `yaml:"image"`
	MemoryLimit    string `yaml:"memory_limit"`
	CPULimit       string `yaml:"cpu_limit"`
	ProcessLimit   int    `yaml:"process_limit"`
	NetworkEnabled bool   `yaml:"network_enabled"`
	Filesystem     string `yaml:"filesystem"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ExecutionSettings controls how commands run on the host.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxOutputBytes int    `yaml:"max_output_bytes"`
}

// SandboxSpecFromConfig builds the default SandboxSpec for a request.
func SandboxSpecFromConfig(s SandboxSettings) SandboxSpec {
	spec := SandboxSpec{
		Image:          s.Image,
		MemoryLimit:    s.MemoryLimit,
		CPULimit:       s.CPULimit,
		ProcessLimit:   s.ProcessLimit,
		NetworkEnabled: s.NetworkEnabled,
		Filesystem:     FilesystemMode(s.Filesystem),
		Timeout:        SecondsOrDefault(s.TimeoutSeconds, DefaultSandboxTimeout),
	}
	if spec.Image == "" {
		spec.Image = DefaultSandboxImage
	}
	if spec.Filesystem != FilesystemReadWrite {
		spec.Filesystem = FilesystemReadOnly
	}
	return spec
}
