package classifier

import "context"

// Unknown is the sentinel category returned when the model's answer cannot
// be mapped onto the caller's category list.
const Unknown = "unknown"

// Request holds the payment text plus optional pre-fetched search context.
type Request struct {
	PaymentText   string
	Categories    []string
	CorrelationID string
	SearchContext string // formatted snippet lines, empty when search is off
}

// Result is the uniform outcome every backend produces.
type Result struct {
	Category   string
	Reasoning  string
	Confidence float64
	SearchUsed bool
}

// PaymentClassifier classifies a payment description into one of the
// caller-supplied categories.
type PaymentClassifier interface {
	Classify(ctx context.Context, req Request) (Result, error)
}
