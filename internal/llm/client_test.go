package llm

import (
	"testing"

	sdk "github.com/inference-gateway/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider sdk.Provider
		wantModel    string
		wantErr      bool
	}{
		{model: "openai/gpt-4o", wantProvider: "openai", wantModel: "gpt-4o"},
		{model: "anthropic/claude-sonnet-4", wantProvider: "anthropic", wantModel: "claude-sonnet-4"},
		{model: "ollama/llama3.1/8b", wantProvider: "ollama", wantModel: "llama3.1/8b"},
		{model: "gpt-4o", wantErr: true},
		{model: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, modelName, err := parseProvider(tt.model)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, provider)
			assert.Equal(t, tt.wantModel, modelName)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{
		BaseURL: "http://localhost:8080",
		Model:   "openai/gpt-4o",
	})

	assert.Equal(t, "openai/gpt-4o", c.model)
	assert.Equal(t, "openai/gpt-4o", c.summarizerModel, "summarizer falls back to the main model")
	assert.Equal(t, 4096, c.maxTokens)
}

func TestNewClient_SeparateSummarizer(t *testing.T) {
	c := NewClient(Options{
		BaseURL:         "http://localhost:8080/",
		Model:           "openai/gpt-4o",
		SummarizerModel: "openai/gpt-4o-mini",
		MaxTokens:       1024,
	})

	assert.Equal(t, "openai/gpt-4o-mini", c.summarizerModel)
	assert.Equal(t, 1024, c.maxTokens)
}
