package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"paycat/internal/config"
	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// chatCompleter is the minimal slice of the OpenAI client the provider needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider classifies payments via the OpenAI chat completion API
// with JSON-object response formatting.
type OpenAIProvider struct {
	client      chatCompleter
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	prompts     *config.PromptLoader
}

// NewOpenAIProvider creates an OpenAI-backed classifier for one model.
// A missing API key yields a disabled provider rather than an error, so
// the rest of the registry stays usable.
func NewOpenAIProvider(apiKey, model string, cfg *config.Config, prompts *config.PromptLoader) *OpenAIProvider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY") // Fallback to env var
	}

	p := &OpenAIProvider{
		model:       model,
		temperature: float32(cfg.OpenAI.Temperature),
		maxTokens:   cfg.OpenAI.MaxTokens,
		timeout:     time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		prompts:     prompts,
	}
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. OpenAI provider will be disabled.")
		return p
	}
	p.client = openai.NewClient(apiKey)
	log.Infof("OpenAI provider initialized with model %s", model)
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

func (p *OpenAIProvider) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	if p.client == nil {
		return classifier.Result{}, fmt.Errorf("%w: OpenAI provider is not initialized (missing API key)", models.ErrProvider)
	}

	systemPrompt, userPrompt, err := renderClassifyPrompts(p.prompts, req)
	if err != nil {
		return classifier.Result{}, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature:    p.temperature,
		MaxTokens:      p.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return classifier.Result{}, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return classifier.Result{}, fmt.Errorf("%w: no choices returned from OpenAI", models.ErrParse)
	}

	result, err := classifier.ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return classifier.Result{}, err
	}
	result.SearchUsed = req.SearchContext != ""
	return result, nil
}

func wrapOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: openai: %v", models.ErrProviderTimeout, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: openai: %v", models.ErrRateLimited, err)
		case apiErr.HTTPStatusCode == http.StatusRequestTimeout || apiErr.HTTPStatusCode == http.StatusGatewayTimeout:
			return fmt.Errorf("%w: openai: %v", models.ErrProviderTimeout, err)
		}
	}
	return fmt.Errorf("%w: openai chat completion failed: %v", models.ErrProvider, err)
}

var _ ClassifierProvider = (*OpenAIProvider)(nil)
