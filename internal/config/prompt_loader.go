package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Prompt template keys looked up in the prompts YAML file.
const (
	PromptSystem                 = "system_prompt"
	PromptClassifyUser           = "classify_user_prompt"
	PromptClassifyUserWithSearch = "classify_user_prompt_with_search"
)

const defaultPromptsFile = "prompts.yaml"

// Built-in templates used when the prompts file does not override a key.
// Placeholders use the {{NAME}} convention.
var defaultPrompts = map[string]string{
	PromptSystem: "You are a payment classification assistant. " +
		"Classify the payment description into exactly one of the provided categories. " +
		"Respond with a JSON object with fields \"category\", \"reasoning\" and optional \"confidence\" (0-1). " +
		"The category must be copied verbatim from the provided list.",

	PromptClassifyUser: "Payment description: {{PAYMENT_TEXT}}\n" +
		"Valid categories: {{VALID_CATEGORIES}}\n" +
		"Return JSON only.",

	PromptClassifyUserWithSearch: "Payment description: {{PAYMENT_TEXT}}\n" +
		"Valid categories: {{VALID_CATEGORIES}}\n" +
		"Web search results for additional context:\n{{SEARCH_RESULTS}}\n" +
		"Return JSON only.",
}

// PromptLoader resolves named prompt templates from a YAML file, falling
// back to the built-in defaults for any key the file does not define.
type PromptLoader struct {
	prompts map[string]string
}

// NewPromptLoader reads the prompts file at path. An empty path means
// prompts.yaml in the working directory; a missing file is not an error
// (defaults apply), but an unreadable or malformed one is.
func NewPromptLoader(path string) (*PromptLoader, error) {
	prompts := make(map[string]string, len(defaultPrompts))
	for k, tmpl := range defaultPrompts {
		prompts[k] = tmpl
	}

	explicit := path != ""
	if path == "" {
		path = defaultPromptsFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read prompts file '%s': %w", path, err)
		}
		// Default location and no file present; built-in templates apply.
		return &PromptLoader{prompts: prompts}, nil
	}

	for _, key := range v.AllKeys() {
		prompts[key] = v.GetString(key)
	}
	return &PromptLoader{prompts: prompts}, nil
}

// Prompt returns the raw template for key, or "" when unknown.
func (p *PromptLoader) Prompt(key string) string {
	return p.prompts[key]
}

// FormattedPrompt renders the template for key, substituting each
// {{NAME}} placeholder with the matching replacement value.
func (p *PromptLoader) FormattedPrompt(key string, replacements map[string]string) (string, error) {
	tmpl, ok := p.prompts[key]
	if !ok || tmpl == "" {
		return "", fmt.Errorf("prompt template '%s' not found", key)
	}
	out := tmpl
	for name, value := range replacements {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out, nil
}
