package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/guardsh/assets"
	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/pkg/filesystem"
	"github.com/doeshing/guardsh/internal/ports"
)

// FileLoader loads YAML configuration from ~/.guardsh/config.yaml
// (overridable via GUARDSH_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is seeded with the
// embedded defaults so the first run leaves an editable config behind.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("GUARDSH_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.GuardshDir(), "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = filepath.Join(filesystem.GuardshDir(), "policy.yaml")
	}
	if cfg.Security.ConfirmTimeoutSeconds <= 0 {
		cfg.Security.ConfirmTimeoutSeconds = int(domain.DefaultConfirmTimeout.Seconds())
	}
	if cfg.Sandbox.RiskThreshold == "" {
		cfg.Sandbox.RiskThreshold = domain.RiskHigh.String()
	}
	if cfg.Sandbox.Image == "" {
		cfg.Sandbox.Image = domain.DefaultSandboxImage
	}
	if cfg.Sandbox.MemoryLimit == "" {
		cfg.Sandbox.MemoryLimit = domain.DefaultMemoryLimit
	}
	if cfg.Sandbox.CPULimit == "" {
		cfg.Sandbox.CPULimit = domain.DefaultCPULimit
	}
	if cfg.Sandbox.ProcessLimit <= 0 {
		cfg.Sandbox.ProcessLimit = domain.DefaultProcessLimit
	}
	if cfg.Sandbox.TimeoutSeconds <= 0 {
		cfg.Sandbox.TimeoutSeconds = int(domain.DefaultSandboxTimeout.Seconds())
	}
	if cfg.Execution.TimeoutSeconds <= 0 {
		cfg.Execution.TimeoutSeconds = int(domain.DefaultCommandTimeout.Seconds())
	}
	if cfg.Execution.MaxOutputBytes <= 0 {
		cfg.Execution.MaxOutputBytes = domain.DefaultMaxOutputBytes
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
