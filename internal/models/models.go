package models

import (
	"fmt"
	"strings"
)

// ModelType selects between a locally hosted model server and a cloud API.
type ModelType string

const (
	ModelTypeLocal ModelType = "local"
	ModelTypeCloud ModelType = "cloud"
)

// ClassificationRequest is the body of POST /api/v1/classify.
type ClassificationRequest struct {
	PaymentText string    `json:"payment_text"`
	Categories  []string  `json:"categories"`
	ModelType   ModelType `json:"model_type"`
	ModelName   string    `json:"model_name"`
	UseSearch   bool      `json:"use_search"`
}

// ClassificationResponse is the body returned by POST /api/v1/classify.
type ClassificationResponse struct {
	Category   string `json:"category"`
	Reasoning  string `json:"reasoning"`
	SearchUsed bool   `json:"search_used"`
}

// RequestLimits bounds what a single classification request may carry.
// Zero values fall back to the defaults below.
type RequestLimits struct {
	MaxCategories        int
	MaxPaymentTextLength int
}

const (
	DefaultMaxCategories        = 20
	DefaultMaxPaymentTextLength = 10000
)

func (l RequestLimits) maxCategories() int {
	if l.MaxCategories > 0 {
		return l.MaxCategories
	}
	return DefaultMaxCategories
}

func (l RequestLimits) maxPaymentTextLength() int {
	if l.MaxPaymentTextLength > 0 {
		return l.MaxPaymentTextLength
	}
	return DefaultMaxPaymentTextLength
}

// CleanCategories trims whitespace and removes case-insensitive duplicates,
// keeping the first spelling the caller supplied.
func CleanCategories(categories []string) []string {
	cleaned := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		key := strings.ToLower(cat)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, cat)
	}
	return cleaned
}

// Normalize cleans the category list and validates the request against the
// given limits. It mutates the receiver's Categories on success.
func (r *ClassificationRequest) Normalize(limits RequestLimits) error {
	if strings.TrimSpace(r.PaymentText) == "" {
		return fmt.Errorf("%w: payment_text cannot be empty", ErrValidation)
	}
	if len(r.PaymentText) > limits.maxPaymentTextLength() {
		return fmt.Errorf("%w: payment_text too long (max %d chars)", ErrValidation, limits.maxPaymentTextLength())
	}

	cleaned := CleanCategories(r.Categories)
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: at least one valid category must be provided", ErrValidation)
	}
	if len(cleaned) > limits.maxCategories() {
		return fmt.Errorf("%w: too many categories (max %d)", ErrValidation, limits.maxCategories())
	}
	r.Categories = cleaned

	switch r.ModelType {
	case ModelTypeLocal, ModelTypeCloud:
	default:
		return fmt.Errorf("%w: model_type must be 'local' or 'cloud'", ErrValidation)
	}

	r.ModelName = strings.TrimSpace(r.ModelName)
	if r.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrValidation)
	}

	// Search augmentation only makes sense for the local backend; cloud
	// providers never see search snippets.
	if r.UseSearch && r.ModelType == ModelTypeCloud {
		return fmt.Errorf("%w: use_search is not supported for cloud models", ErrValidation)
	}

	return nil
}
