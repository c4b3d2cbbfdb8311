package app

import (
	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/infrastructure/config"
	"github.com/doeshing/cmdguard/internal/infrastructure/executor"
	"github.com/doeshing/cmdguard/internal/infrastructure/history"
	"github.com/doeshing/cmdguard/internal/infrastructure/security"
	"github.com/doeshing/cmdguard/internal/infrastructure/translator"
	"github.com/doeshing/cmdguard/internal/pkg/logger"
	"github.com/doeshing/cmdguard/internal/ports"
	"github.com/doeshing/cmdguard/internal/services"
)

// Container wires up the pipeline with its infrastructure adapters.
type Container struct {
	Pipeline     *services.Pipeline
	Translator   ports.Translator
	Policy       domain.SafetyPolicy
	PolicyLoader *config.PolicyLoader
	Catalog      *security.Catalog
	HistoryStore ports.HistoryRepository
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. The prompter is attached by
// the frontend; everything else is ready to run.
func BuildContainer(verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	policyLoader := config.NewPolicyLoader("")
	policy, err := policyLoader.Load()
	if err != nil {
		return nil, err
	}

	catalog, err := security.LoadCatalog("")
	if err != nil {
		return nil, err
	}
	classifier, err := security.NewClassifier(catalog)
	if err != nil {
		return nil, err
	}

	historyStore := history.NewSQLiteStore()

	pipeline := &services.Pipeline{
		Classifier: classifier,
		Policy:     security.NewEngine(),
		Executor:   executor.NewShellExecutor("", log),
		Explainer:  security.NewTemplateExplainer(),
		History:    history.NewRecorder(historyStore, log),
		Logger:     log,
	}

	return &Container{
		Pipeline:     pipeline,
		Translator:   &translator.Passthrough{},
		Policy:       policy,
		PolicyLoader: policyLoader,
		Catalog:      catalog,
		HistoryStore: historyStore,
		Logger:       log,
	}, nil
}
