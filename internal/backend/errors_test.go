package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		msg     string
		warning bool
	}{
		{"string detail", `{"detail":"Category not found"}`, "Category not found", false},
		{"object with message", `{"detail":{"message":"Cannot rename the default category 'Uncategorized'"}}`, "Cannot rename the default category 'Uncategorized'", false},
		{"validation list", `{"detail":[{"loc":["body","amount"],"msg":"field required"}]}`, "amount: field required", false},
		{"limit warning", `{"detail":{"message":"over","limit":10,"total":12,"exceeded":true}}`, "over", true},
		{"not json", `Internal Server Error`, "Internal Server Error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, w, _ := parseDetail([]byte(tt.body))
			assert.Equal(t, tt.msg, msg)
			assert.Equal(t, tt.warning, w != nil)
		})
	}
}

func TestLimitWarningExceededFallsBackToDifference(t *testing.T) {
	_, w, _ := parseDetail([]byte(`{"detail":{"limit":10,"total":12.5,"exceeded":true}}`))
	require.NotNil(t, w)
	assert.Equal(t, int64(250), w.Exceeded.Cents)
	assert.Contains(t, w.Error(), "exceeded by 2.50")
}

func TestAPIErrorUnwrap(t *testing.T) {
	assert.True(t, errors.Is(&APIError{Status: 401}, ErrUnauthorized))
	assert.False(t, errors.Is(&APIError{Status: 403}, ErrUnauthorized))

	wrapped := &warningError{APIError: &APIError{Status: 400, Detail: "x"}}
	var apiErr *APIError
	assert.True(t, errors.As(wrapped, &apiErr))
}
