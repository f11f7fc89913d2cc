package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"paycat/internal/config"
	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// GeminiProvider classifies payments via the Google Gemini API with a JSON
// response schema, so the model is constrained to the expected shape.
type GeminiProvider struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	timeout         time.Duration
	prompts         *config.PromptLoader
}

// classificationSchema constrains Gemini's JSON output.
var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category":   {Type: genai.TypeString},
		"reasoning":  {Type: genai.TypeString},
		"confidence": {Type: genai.TypeNumber},
	},
	Required: []string{"category", "reasoning"},
}

// NewGeminiProvider creates a Gemini-backed classifier for one model.
// A missing API key yields a disabled provider; a failed client init is an
// error because it indicates a misconfiguration rather than an absent key.
func NewGeminiProvider(ctx context.Context, apiKey, model string, cfg *config.Config, prompts *config.PromptLoader) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY") // Fallback to env var
	}

	p := &GeminiProvider{
		model:           model,
		temperature:     float32(cfg.Gemini.Temperature),
		maxOutputTokens: int32(cfg.Gemini.MaxOutputTokens),
		timeout:         time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
		prompts:         prompts,
	}
	if apiKey == "" {
		log.Warn("Google API key not provided. Gemini provider will be disabled.")
		return p, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	p.client = client
	log.Infof("Gemini provider initialized with model %s", model)
	return p, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) ModelName() string { return p.model }

func (p *GeminiProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

func (p *GeminiProvider) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	if p.client == nil {
		return classifier.Result{}, fmt.Errorf("%w: Gemini provider is not initialized (missing API key)", models.ErrProvider)
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

	gm := p.client.GenerativeModel(p.model)
	gm.SetTemperature(p.temperature)
	gm.SetMaxOutputTokens(p.maxOutputTokens)
	gm.GenerationConfig.ResponseMIMEType = "application/json"
	gm.GenerationConfig.ResponseSchema = classificationSchema

	resp, err := gm.GenerateContent(ctx, genai.Text(systemPrompt+"\n"+userPrompt))
	if err != nil {
		return classifier.Result{}, wrapGeminiError(err)
	}

	content, err := geminiResponseText(resp)
	if err != nil {
		return classifier.Result{}, err
	}

	result, err := classifier.ParseResponse(content)
	if err != nil {
		return classifier.Result{}, err
	}
	result.SearchUsed = req.SearchContext != ""
	return result, nil
}

// geminiResponseText concatenates the text parts of the first candidate.
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: Gemini API returned no candidates", models.ErrParse)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: Gemini API returned no text content", models.ErrParse)
	}
	return sb.String(), nil
}

func wrapGeminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini: %v", models.ErrProviderTimeout, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: gemini: %v", models.ErrRateLimited, err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: gemini: %v", models.ErrProviderTimeout, err)
		}
	}
	return fmt.Errorf("%w: gemini content generation failed: %v", models.ErrProvider, err)
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ ClassifierProvider = (*GeminiProvider)(nil)
