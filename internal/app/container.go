package app

import (
	"context"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/infrastructure"
	"github.com/doeshing/guardsh/internal/infrastructure/session"
	"github.com/doeshing/guardsh/internal/pkg/logger"
	"github.com/doeshing/guardsh/internal/ports"
	"github.com/doeshing/guardsh/internal/services"
)

// Container wires up the safety pipeline with infrastructure adapters.
type Container struct {
	Orchestrator *services.Orchestrator
	Translator   ports.Translator
	Sessions     ports.SessionStore
	Classifier   *infrastructure.RuleClassifier
	Config       domain.Config
	ConfigLoader *infrastructure.FileLoader
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := infrastructure.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Preferences.Verbose {
		verbose = true
	}

	log := logger.NewStd(verbose)

	classifier, err := infrastructure.NewRuleClassifier(cfg.Security.RulesFile)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewSQLiteStore()
	if err != nil {
		return nil, err
	}

	orchestrator := &services.Orchestrator{
		Classifier:  classifier,
		Permissions: infrastructure.NewPlatformEvaluator(log),
		Direct:      infrastructure.NewDirectRunner(cfg.Execution.Shell, cfg.Execution.MaxOutputBytes),
		Sandbox:     infrastructure.NewSandboxRunner(nil, log, cfg.Execution.MaxOutputBytes),
		Sessions:    sessions,
		Audit:       infrastructure.NewAuditor(log),
		Logger:      log,
		Config:      cfg,
	}

	return &Container{
		Orchestrator: orchestrator,
		Translator:   infrastructure.NewHeuristicTranslator(),
		Sessions:     sessions,
		Classifier:   classifier,
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
	}, nil
}
