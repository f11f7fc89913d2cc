package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycat/internal/models"
)

func TestParseResponse_ValidJSON(t *testing.T) {
	content := `{"category": "Groceries", "reasoning": "Supermarket purchase", "confidence": 0.92}`

	result, err := ParseResponse(content)

	require.NoError(t, err, "ParseResponse should not fail on valid JSON")
	assert.Equal(t, "Groceries", result.Category)
	assert.Equal(t, "Supermarket purchase", result.Reasoning)
	assert.Equal(t, 0.92, result.Confidence)
}

func TestParseResponse_CodeFencedJSON(t *testing.T) {
	// Some models wrap JSON in a markdown fence even in JSON mode.
	content := "```json\n{\"category\": \"Transport\", \"reasoning\": \"Taxi ride\"}\n```"

	result, err := ParseResponse(content)

	require.NoError(t, err)
	assert.Equal(t, "Transport", result.Category)
	assert.Equal(t, "Taxi ride", result.Reasoning)
}

func TestParseResponse_InvalidJSON(t *testing.T) {
	content := `This is just plain text, not JSON.`

	_, err := ParseResponse(content)

	require.Error(t, err, "ParseResponse should fail on non-JSON content")
	assert.True(t, errors.Is(err, models.ErrParse), "error should wrap models.ErrParse")
	assert.Contains(t, err.Error(), content, "error should include the raw content")
}

func TestParseResponse_MissingFields(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "missing reasoning", content: `{"category": "Groceries"}`, wantErr: true},
		{name: "missing category", content: `{"reasoning": "because"}`, wantErr: true},
		{name: "empty object", content: `{}`, wantErr: true},
		{name: "missing confidence only", content: `{"category": "Rent", "reasoning": "monthly payment"}`, wantErr: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseResponse(tc.content)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Rent", result.Category)
			assert.Equal(t, float64(0), result.Confidence)
		})
	}
}

func TestValidateCategory(t *testing.T) {
	allowed := []string{"Groceries", "Transport", "Utilities"}

	testCases := []struct {
		name      string
		category  string
		expected  string
		wantMatch bool
	}{
		{name: "exact match", category: "Groceries", expected: "Groceries", wantMatch: true},
		{name: "case-insensitive match coerced to caller spelling", category: "groceries", expected: "Groceries", wantMatch: true},
		{name: "surrounding whitespace", category: "  Transport ", expected: "Transport", wantMatch: true},
		{name: "invented category falls back to unknown", category: "Entertainment", expected: Unknown, wantMatch: false},
		{name: "empty category falls back to unknown", category: "", expected: Unknown, wantMatch: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ValidateCategory(tc.category, allowed)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.wantMatch, ok)
		})
	}
}
