package services

import (
	"fmt"
	"sort"
	"strings"

	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// ProviderStatus reports whether a backend is usable.
type ProviderStatus string

const (
	ProviderStatusActive   ProviderStatus = "active"
	ProviderStatusDisabled ProviderStatus = "disabled"
)

// ClassifierProvider is the backend contract: an LLM backend bound to one
// concrete model. Each implementation differs only in transport and
// response shape; the classification capability is uniform.
type ClassifierProvider interface {
	classifier.PaymentClassifier
	Name() string      // backend name, e.g. "openai", "gemini", "ollama"
	ModelName() string // concrete model this instance is bound to
	Status() ProviderStatus
}

// Registry resolves (model type, model name) to a provider instance.
// Model names are matched case-insensitively.
type Registry struct {
	byType map[models.ModelType]map[string]ClassifierProvider
}

func NewRegistry() *Registry {
	return &Registry{
		byType: map[models.ModelType]map[string]ClassifierProvider{
			models.ModelTypeLocal: {},
			models.ModelTypeCloud: {},
		},
	}
}

// Register binds a provider under the given model type. Registering the
// same model name twice replaces the earlier provider.
func (r *Registry) Register(modelType models.ModelType, p ClassifierProvider) {
	r.byType[modelType][strings.ToLower(p.ModelName())] = p
}

// Resolve returns the provider for the requested model, or ErrUnknownModel
// with the list of registered names for that type.
func (r *Registry) Resolve(modelType models.ModelType, modelName string) (ClassifierProvider, error) {
	providers := r.byType[modelType]
	if p, ok := providers[strings.ToLower(modelName)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: invalid model '%s' for type '%s' (valid models: %s)",
		models.ErrUnknownModel, modelName, modelType, strings.Join(r.modelNames(modelType), ", "))
}

// Providers returns the registered providers for a model type, sorted by
// model name so CLI output is stable.
func (r *Registry) Providers(modelType models.ModelType) []ClassifierProvider {
	providers := r.byType[modelType]
	out := make([]ClassifierProvider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelName() < out[j].ModelName() })
	return out
}

func (r *Registry) modelNames(modelType models.ModelType) []string {
	names := make([]string, 0, len(r.byType[modelType]))
	for _, p := range r.Providers(modelType) {
		names = append(names, p.ModelName())
	}
	return names
}
