package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// --- Mock Provider ---

type mockProvider struct {
	name      string
	model     string
	result    classifier.Result
	err       error
	callCount int
	lastReq   classifier.Request
}

func (m *mockProvider) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	m.callCount++
	m.lastReq = req
	if m.err != nil {
		return classifier.Result{}, m.err
	}
	return m.result, nil
}

func (m *mockProvider) Name() string            { return m.name }
func (m *mockProvider) ModelName() string       { return m.model }
func (m *mockProvider) Status() ProviderStatus { return ProviderStatusActive }

// --- Mock Search ---

type mockSearch struct {
	results   []SearchResult
	err       error
	callCount int
}

func (m *mockSearch) Search(ctx context.Context, query string, numResults int64) ([]SearchResult, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// --- End Mocks ---

func newTestService(provider *mockProvider, search SearchProvider) *ClassificationService {
	registry := NewRegistry()
	registry.Register(models.ModelTypeLocal, provider)
	return NewClassificationService(registry, search, 3, models.RequestLimits{})
}

func localRequest() *models.ClassificationRequest {
	return &models.ClassificationRequest{
		PaymentText: "UBER *TRIP HELP.UBER.COM",
		Categories:  []string{"Transport", "Groceries"},
		ModelType:   models.ModelTypeLocal,
		ModelName:   "test-model",
		UseSearch:   false,
	}
}

func TestClassificationService_Classify_ReturnsMemberCategory(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Transport", Reasoning: "ride hailing"},
	}
	svc := newTestService(provider, nil)

	resp, err := svc.Classify(context.Background(), localRequest())

	require.NoError(t, err)
	assert.Equal(t, "Transport", resp.Category)
	assert.Equal(t, "ride hailing", resp.Reasoning)
	assert.False(t, resp.SearchUsed)
	assert.Contains(t, []string{"Transport", "Groceries", classifier.Unknown}, resp.Category,
		"category must always be a member of the supplied list or the unknown sentinel")
}

func TestClassificationService_Classify_CoercesCategoryCase(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "transport", Reasoning: "lowercased by the model"},
	}
	svc := newTestService(provider, nil)

	resp, err := svc.Classify(context.Background(), localRequest())

	require.NoError(t, err)
	assert.Equal(t, "Transport", resp.Category, "case-insensitive match should be coerced to the caller's spelling")
}

func TestClassificationService_Classify_InventedCategoryBecomesUnknown(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Ride Sharing", Reasoning: "not in the list"},
	}
	svc := newTestService(provider, nil)

	resp, err := svc.Classify(context.Background(), localRequest())

	require.NoError(t, err)
	assert.Equal(t, classifier.Unknown, resp.Category)
	assert.Equal(t, "not in the list", resp.Reasoning, "reasoning is preserved even when the category is coerced")
}

func TestClassificationService_Classify_SearchDisabledNeverCallsSearch(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Transport", Reasoning: "r"},
	}
	search := &mockSearch{results: []SearchResult{{Title: "t", Snippet: "s"}}}
	svc := newTestService(provider, search)

	req := localRequest()
	req.UseSearch = false
	resp, err := svc.Classify(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, search.callCount, "search API must not be invoked when use_search is false")
	assert.False(t, resp.SearchUsed)
	assert.Empty(t, provider.lastReq.SearchContext)
}

func TestClassificationService_Classify_SearchEnabledInjectsSnippets(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Transport", Reasoning: "r"},
	}
	search := &mockSearch{results: []SearchResult{
		{Title: "Uber", Snippet: "Ride hailing company", Link: "https://uber.com"},
	}}
	svc := newTestService(provider, search)

	req := localRequest()
	req.UseSearch = true
	resp, err := svc.Classify(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, search.callCount)
	assert.True(t, resp.SearchUsed)
	assert.Contains(t, provider.lastReq.SearchContext, "Uber: Ride hailing company")
}

func TestClassificationService_Classify_SearchFailureDegradesGracefully(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Transport", Reasoning: "r"},
	}
	search := &mockSearch{err: errors.New("search API down")}
	svc := newTestService(provider, search)

	req := localRequest()
	req.UseSearch = true
	resp, err := svc.Classify(context.Background(), req)

	require.NoError(t, err, "search failures must not fail the classification")
	assert.False(t, resp.SearchUsed)
	assert.Empty(t, provider.lastReq.SearchContext)
	assert.Equal(t, 1, provider.callCount)
}

func TestClassificationService_Classify_EmptySearchResultsNotMarkedUsed(t *testing.T) {
	provider := &mockProvider{
		name:   "ollama",
		model:  "test-model",
		result: classifier.Result{Category: "Transport", Reasoning: "r"},
	}
	search := &mockSearch{results: nil}
	svc := newTestService(provider, search)

	req := localRequest()
	req.UseSearch = true
	resp, err := svc.Classify(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.SearchUsed, "search_used must be false when no snippets reached the prompt")
}

func TestClassificationService_Classify_ProviderErrorPropagates(t *testing.T) {
	provider := &mockProvider{
		name:  "ollama",
		model: "test-model",
		err:   models.ErrParse,
	}
	svc := newTestService(provider, nil)

	_, err := svc.Classify(context.Background(), localRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrParse))
}

func TestClassificationService_Classify_UnknownModelRejected(t *testing.T) {
	provider := &mockProvider{name: "ollama", model: "test-model"}
	svc := newTestService(provider, nil)

	req := localRequest()
	req.ModelName = "no-such-model"
	_, err := svc.Classify(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownModel))
	assert.Contains(t, err.Error(), "test-model", "error should list the registered models")
}

func TestClassificationService_Classify_InvalidRequestRejected(t *testing.T) {
	provider := &mockProvider{name: "ollama", model: "test-model"}
	svc := newTestService(provider, nil)

	req := localRequest()
	req.PaymentText = ""
	_, err := svc.Classify(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, 0, provider.callCount, "provider must not be called for invalid requests")
}
