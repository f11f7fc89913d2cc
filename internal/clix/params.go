package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"paycat/internal/models"
)

// ParseCategories reads the comma-separated "categories" flag, trimming
// whitespace and dropping empty entries.
func ParseCategories(flags *pflag.FlagSet) ([]string, error) {
	raw, _ := flags.GetString("categories")
	var categories []string
	for _, c := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(c)
		if trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	return categories, nil
}

// ParseModelType reads the "model-type" flag and validates it.
func ParseModelType(flags *pflag.FlagSet) (models.ModelType, error) {
	raw, _ := flags.GetString("model-type")
	modelType := models.ModelType(strings.ToLower(strings.TrimSpace(raw)))
	switch modelType {
	case models.ModelTypeLocal, models.ModelTypeCloud:
		return modelType, nil
	default:
		return "", fmt.Errorf("invalid model type '%s' (must be '%s' or '%s')",
			raw, models.ModelTypeLocal, models.ModelTypeCloud)
	}
}
