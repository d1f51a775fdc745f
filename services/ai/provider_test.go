package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		model string
		want  ProviderKind
	}{
		{"gpt-4", OpenAICompatible},
		{"gpt-3.5-turbo", OpenAICompatible},
		{"gpt", OpenAICompatible},
		{"claude-3-opus", AnthropicCompatible},
		{"claude-3-sonnet", AnthropicCompatible},
		{"claude", AnthropicCompatible},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			kind, err := ResolveProvider(tt.model)

			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestResolveProviderRejectsUnknownPrefixes(t *testing.T) {
	for _, model := range []string{"unknown-model", "", "GPT-4", "Claude-3", " gpt-4", "llama-3", "o1-mini"} {
		_, err := ResolveProvider(model)

		var unsupported *UnsupportedModelError
		require.ErrorAs(t, err, &unsupported, model)
		assert.Equal(t, model, unsupported.Model)
		assert.Equal(t, "Unsupported model: "+model, err.Error())
	}
}

func TestProviderKindNames(t *testing.T) {
	assert.Equal(t, "openai", OpenAICompatible.String())
	assert.Equal(t, "anthropic", AnthropicCompatible.String())
	assert.Equal(t, "OpenAI", OpenAICompatible.DisplayName())
	assert.Equal(t, "Anthropic", AnthropicCompatible.DisplayName())
	assert.Equal(t, "unknown", ProviderKind(0).String())
}
