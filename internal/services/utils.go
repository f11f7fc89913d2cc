package services

import (
	"fmt"
	"strings"

	"paycat/internal/config"
	"paycat/pkg/classifier"
)

// renderClassifyPrompts builds the system and user prompts for a
// classification call. The with-search template is selected whenever the
// request carries search context.
func renderClassifyPrompts(prompts *config.PromptLoader, req classifier.Request) (string, string, error) {
	systemPrompt := prompts.Prompt(config.PromptSystem)

	replacements := map[string]string{
		"PAYMENT_TEXT":     req.PaymentText,
		"VALID_CATEGORIES": strings.Join(req.Categories, ", "),
	}
	key := config.PromptClassifyUser
	if req.SearchContext != "" {
		key = config.PromptClassifyUserWithSearch
		replacements["SEARCH_RESULTS"] = req.SearchContext
	}

	userPrompt, err := prompts.FormattedPrompt(key, replacements)
	if err != nil {
		return "", "", fmt.Errorf("render classification prompt: %w", err)
	}
	return systemPrompt, userPrompt, nil
}
