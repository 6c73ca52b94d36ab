package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://example.com:9100"),
		WithModel("text-embedding-3-small"),
		WithToken("sk-test"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://example.com:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "sk-test", cfg.Token)
}

func TestNormalizeHostSuffix(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already canonical", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tc.host))
			cfg.Normalize()
			assert.Equal(t, tc.want, cfg.EmbeddingHost)
		})
	}
}

func TestValidateRejectsIncomplete(t *testing.T) {
	cfg := &Config{EmbeddingModel: "m"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{EmbeddingHost: "http://localhost:11434"}
	assert.Error(t, cfg.Validate())
}

func TestNormalizeDefaultsToken(t *testing.T) {
	cfg := &Config{EmbeddingHost: "http://localhost:11434", EmbeddingModel: "m"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "none", cfg.Token)
}
