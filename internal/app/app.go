package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"paycat/internal/config"
	"paycat/internal/models"
	"paycat/internal/services"
)

// App holds the wired service graph for one process.
type App struct {
	Config   *config.Config
	Prompts  *config.PromptLoader
	Registry *services.Registry

	SearchService         services.SearchProvider // nil when not configured
	ClassificationService *services.ClassificationService

	// Providers that hold external connections and need Close.
	geminiProviders []*services.GeminiProvider
	// Local providers kept for doctor's reachability check.
	OllamaProviders []*services.OllamaProvider
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Registry: services.NewRegistry()}

	if err := app.initPrompts(); err != nil {
		return nil, err
	}
	if err := app.initProviders(); err != nil {
		app.Close()
		return nil, err
	}
	app.initSearchService()
	app.initClassificationService()

	log.Info("Application initialization complete.")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initPrompts() error {
	prompts, err := config.NewPromptLoader(a.Config.Prompts.Path)
	if err != nil {
		return fmt.Errorf("init prompt loader: %w", err)
	}
	a.Prompts = prompts
	return nil
}

func (a *App) initProviders() error {
	cfg := a.Config
	ctx := context.Background()

	for _, model := range cfg.Ollama.Models {
		p := services.NewOllamaProvider(model, cfg, a.Prompts)
		a.Registry.Register(models.ModelTypeLocal, p)
		a.OllamaProviders = append(a.OllamaProviders, p)
	}

	for _, model := range cfg.OpenAI.Models {
		a.Registry.Register(models.ModelTypeCloud, services.NewOpenAIProvider(cfg.OpenAI.APIKey, model, cfg, a.Prompts))
	}

	for _, model := range cfg.Gemini.Models {
		p, err := services.NewGeminiProvider(ctx, cfg.Gemini.APIKey, model, cfg, a.Prompts)
		if err != nil {
			return fmt.Errorf("init gemini provider for model %s: %w", model, err)
		}
		a.Registry.Register(models.ModelTypeCloud, p)
		a.geminiProviders = append(a.geminiProviders, p)
	}

	return nil
}

func (a *App) initSearchService() {
	cfg := a.Config
	if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
		log.Warn("Google search credentials not provided. Search augmentation will be disabled.")
		return
	}
	search, err := services.NewGoogleSearchService(cfg.Search.APIKey, cfg.Search.EngineID)
	if err != nil {
		// Search is an optional enrichment; classification still works.
		log.Warnf("Failed to initialize search service, search augmentation disabled: %v", err)
		return
	}
	a.SearchService = search
}

func (a *App) initClassificationService() {
	limits := models.RequestLimits{
		MaxCategories:        a.Config.Limits.MaxCategories,
		MaxPaymentTextLength: a.Config.Limits.MaxPaymentTextLength,
	}
	a.ClassificationService = services.NewClassificationService(a.Registry, a.SearchService, a.Config.Search.MaxResults, limits)
}

// Close releases provider resources. Safe to call on a partially built app.
func (a *App) Close() {
	for _, p := range a.geminiProviders {
		if err := p.Close(); err != nil {
			log.Warnf("Failed to close Gemini client: %v", err)
		}
	}
}
