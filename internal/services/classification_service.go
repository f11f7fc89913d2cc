package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"paycat/internal/models"
	"paycat/pkg/classifier"
)

// ClassificationService runs the single linear classification flow:
// resolve provider → optional search pre-step → call provider → validate
// category membership. No retries, no caching, no batching.
type ClassificationService struct {
	registry         *Registry
	search           SearchProvider // nil when search is not configured
	searchMaxResults int64
	limits           models.RequestLimits
}

func NewClassificationService(registry *Registry, search SearchProvider, searchMaxResults int64, limits models.RequestLimits) *ClassificationService {
	return &ClassificationService{
		registry:         registry,
		search:           search,
		searchMaxResults: searchMaxResults,
		limits:           limits,
	}
}

func (s *ClassificationService) Classify(ctx context.Context, req *models.ClassificationRequest) (*models.ClassificationResponse, error) {
	if err := req.Normalize(s.limits); err != nil {
		return nil, err
	}

	provider, err := s.registry.Resolve(req.ModelType, req.ModelName)
	if err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	clsReq := classifier.Request{
		PaymentText:   req.PaymentText,
		Categories:    req.Categories,
		CorrelationID: correlationID,
	}

	// Search pre-step. Failures degrade to the non-augmented prompt;
	// search_used reflects whether snippets actually reached the prompt.
	searchUsed := false
	if req.UseSearch && s.search != nil {
		results, searchErr := s.search.Search(ctx, req.PaymentText, s.searchMaxResults)
		switch {
		case searchErr != nil:
			log.Warnf("Search failed, continuing without search results (correlation_id=%s): %v", correlationID, searchErr)
		case len(results) > 0:
			clsReq.SearchContext = FormatSnippets(results)
			searchUsed = true
		}
	}

	log.Infof("Classifying payment (correlation_id=%s, provider=%s, model=%s, use_search=%v)",
		correlationID, provider.Name(), provider.ModelName(), searchUsed)

	start := time.Now()
	result, err := provider.Classify(ctx, clsReq)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		log.Errorf("Classification failed (correlation_id=%s, model=%s, duration_ms=%.2f): %v",
			correlationID, provider.ModelName(), durationMs, err)
		return nil, err
	}

	category, matched := classifier.ValidateCategory(result.Category, req.Categories)
	if !matched {
		log.Warnf("Model returned category outside the allowed list, using %q (correlation_id=%s, returned=%q)",
			classifier.Unknown, correlationID, result.Category)
	}

	log.Infof("Classification complete (correlation_id=%s, model=%s, category=%s, confidence=%.2f, duration_ms=%.2f)",
		correlationID, provider.ModelName(), category, result.Confidence, durationMs)

	return &models.ClassificationResponse{
		Category:   category,
		Reasoning:  result.Reasoning,
		SearchUsed: searchUsed,
	}, nil
}
