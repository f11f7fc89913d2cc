package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"paycat/internal/config"
	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// OllamaProvider classifies payments via a locally hosted Ollama server
// using the /api/generate endpoint in JSON mode. A bounded semaphore keeps
// the local server from being flooded by request-level parallelism.
type OllamaProvider struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float64
	prompts     *config.PromptLoader
	sem         chan struct{}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response     string `json:"response"`
	EvalDuration int64  `json:"eval_duration"`
}

// NewOllamaProvider creates an Ollama-backed classifier for one model.
func NewOllamaProvider(model string, cfg *config.Config, prompts *config.PromptLoader) *OllamaProvider {
	maxConcurrent := cfg.Ollama.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	timeout := time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second

	log.Infof("Ollama provider initialized with model %s (base URL %s)", model, cfg.Ollama.BaseURL)
	return &OllamaProvider{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(cfg.Ollama.BaseURL, "/"),
		model:       model,
		temperature: cfg.Ollama.Temperature,
		prompts:     prompts,
		sem:         make(chan struct{}, maxConcurrent),
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) ModelName() string { return p.model }

func (p *OllamaProvider) Status() ProviderStatus {
	if p.baseURL == "" {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

func (p *OllamaProvider) Classify(ctx context.Context, req classifier.Request) (classifier.Result, error) {
	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return classifier.Result{}, fmt.Errorf("%w: ollama: %v", models.ErrProviderTimeout, ctx.Err())
	}

	systemPrompt, userPrompt, err := renderClassifyPrompts(p.prompts, req)
	if err != nil {
		return classifier.Result{}, err
	}

	payload := ollamaGenerateRequest{
		Model:   p.model,
		Prompt:  systemPrompt + "\n" + userPrompt,
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": p.temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return classifier.Result{}, fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return classifier.Result{}, fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.CorrelationID != "" {
		httpReq.Header.Set("X-Correlation-ID", req.CorrelationID)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return classifier.Result{}, wrapOllamaTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return classifier.Result{}, fmt.Errorf("%w: ollama rate limited", models.ErrRateLimited)
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return classifier.Result{}, fmt.Errorf("%w: ollama timed out (status %d)", models.ErrProviderTimeout, resp.StatusCode)
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifier.Result{}, fmt.Errorf("%w: ollama returned status %d: %s", models.ErrProvider, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var generated ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return classifier.Result{}, fmt.Errorf("%w: decoding ollama response body: %v", models.ErrParse, err)
	}

	result, err := classifier.ParseResponse(generated.Response)
	if err != nil {
		return classifier.Result{}, err
	}
	result.SearchUsed = req.SearchContext != ""
	return result, nil
}

// Ping checks whether the Ollama server is reachable. Used by `paycat doctor`.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ollama server unreachable at %s: %w", p.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ollama server at %s returned status %d", p.baseURL, resp.StatusCode)
	}
	return nil
}

func wrapOllamaTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: ollama: %v", models.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: ollama request failed: %v", models.ErrProvider, err)
}

var _ ClassifierProvider = (*OllamaProvider)(nil)
