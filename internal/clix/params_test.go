package clix

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycat/internal/models"
)

func newFlags(categories, modelType string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("categories", categories, "")
	flags.String("model-type", modelType, "")
	return flags
}

func TestParseCategories(t *testing.T) {
	categories, err := ParseCategories(newFlags(" Groceries , Transport,,Utilities ", "local"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Transport", "Utilities"}, categories)

	_, err = ParseCategories(newFlags(" , ", "local"))
	require.Error(t, err)
}

func TestParseModelType(t *testing.T) {
	modelType, err := ParseModelType(newFlags("", " Local "))
	require.NoError(t, err)
	assert.Equal(t, models.ModelTypeLocal, modelType)

	modelType, err = ParseModelType(newFlags("", "cloud"))
	require.NoError(t, err)
	assert.Equal(t, models.ModelTypeCloud, modelType)

	_, err = ParseModelType(newFlags("", "hybrid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid model type")
}
