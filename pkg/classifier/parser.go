package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"paycat/internal/models"
)

// ParseResponse decodes raw model output. Every backend is instructed to
// emit a JSON object with category/reasoning (and optional confidence)
// fields; anything else is a parse error, never a crash.
func ParseResponse(content string) (Result, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	var parsed struct {
		Category   *string `json:"category"`
		Reasoning  *string `json:"reasoning"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v (content: %s)", models.ErrParse, err, content)
	}
	if parsed.Category == nil || parsed.Reasoning == nil {
		return Result{}, fmt.Errorf("%w: missing required category/reasoning fields (content: %s)", models.ErrParse, content)
	}

	return Result{
		Category:   strings.TrimSpace(*parsed.Category),
		Reasoning:  *parsed.Reasoning,
		Confidence: parsed.Confidence,
	}, nil
}

// ValidateCategory maps the model's category onto the caller's list.
// Case-insensitive matches are coerced to the caller's spelling; anything
// else becomes Unknown so an invented category is never passed through.
func ValidateCategory(category string, allowed []string) (string, bool) {
	category = strings.TrimSpace(category)
	for _, a := range allowed {
		if strings.EqualFold(category, a) {
			return a, true
		}
	}
	return Unknown, false
}

// stripCodeFence removes a markdown code fence some models wrap JSON in
// even when asked for bare JSON output.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
