package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "kbprep.yaml")

	configData := `
paths:
  knowledge_base: "./kb"
  output: "out/chunks.json"

chunker:
  max_tokens: 500
  overlap_tokens: 40
  tokenizer: "cl100k_base"

practice:
  name: "Lakeview Dental"
  domain: "www.lakeviewdental.com"
  doctors:
    - "Dr. Ann Lee"

cleaner:
  reviewer_headings:
    - "## Pat K."

analyzer:
  long_chars: 3000
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "./kb", config.Paths.KnowledgeBase)
	assert.Equal(t, "out/chunks.json", config.Paths.Output)
	assert.Equal(t, "*.md", config.Paths.Pattern)
	assert.Equal(t, 500, config.Chunker.MaxTokens)
	assert.Equal(t, 40, config.Chunker.OverlapTokens)
	assert.Equal(t, 75, config.Chunker.MinTokens)
	assert.Equal(t, "cl100k_base", config.Chunker.Tokenizer)
	assert.Equal(t, "Lakeview Dental", config.Practice.Name)
	assert.Equal(t, []string{"## Pat K."}, config.Cleaner.ReviewerHeadings)
	assert.Contains(t, config.Offer.Includes, "Dental exam with Dr. Ann Lee")
	assert.Equal(t, 3000, config.Analyzer.LongChars)
	assert.Equal(t, 100, config.Analyzer.ShortChars)
	assert.Empty(t, config.Validate())
}

func TestLoadConfigZeroOverlap(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "kbprep.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("chunker:\n  overlap_tokens: 0\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 0, config.Chunker.OverlapTokens)
	assert.Equal(t, 350, config.Chunker.MaxTokens)
	assert.Empty(t, config.Validate())
}

func TestLoadConfigOverlapDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "kbprep.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("chunker:\n  max_tokens: 200\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 50, config.Chunker.OverlapTokens)
}

func TestDefaultConfig(t *testing.T) {
	config := Default()

	assert.Equal(t, "knowledge-base", config.Paths.KnowledgeBase)
	assert.Equal(t, "processed-chunks.json", config.Paths.Output)
	assert.Equal(t, 350, config.Chunker.MaxTokens)
	assert.Equal(t, 50, config.Chunker.OverlapTokens)
	assert.Equal(t, 75, config.Chunker.MinTokens)
	assert.Equal(t, 100, config.Chunker.MinChars)
	assert.Equal(t, "Shoreline Dental Chicago", config.Practice.Name)
	assert.Contains(t, config.Offer.Includes, "Dental exam with Dr. Mollie Rojas or Dr. Sonal Patel")
	assert.Len(t, config.Cleaner.ReviewerHeadings, 4)
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "invalid chunker",
			mutate: func(c *Config) {
				c.Chunker.MaxTokens = 100
				c.Chunker.OverlapTokens = 100
				c.Chunker.MinTokens = 150
			},
			errorMessages: []string{
				"chunker.overlap_tokens: overlap_tokens must be non-negative and less than max_tokens",
				"chunker.min_tokens: min_tokens must be between 0 and max_tokens",
			},
		},
		{
			name: "invalid paths and thresholds",
			mutate: func(c *Config) {
				c.Paths.KnowledgeBase = " "
				c.Paths.Pattern = "[*.md"
				c.Analyzer.ShortChars = 5000
			},
			errorMessages: []string{
				"paths.knowledge_base: knowledge base directory is required",
				"paths.pattern: invalid glob pattern",
				"analyzer.short_chars: short_chars must be less than long_chars",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			errors := config.Validate()
			require.Len(t, errors, len(tt.errorMessages))
			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("KBPREP_INPUT_DIR", "/data/kb")
	t.Setenv("KBPREP_OUTPUT", "/data/chunks.json")
	t.Setenv("KBPREP_TOKENIZER", "p50k_base")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "/data/kb", config.Paths.KnowledgeBase)
	assert.Equal(t, "/data/chunks.json", config.Paths.Output)
	assert.Equal(t, "p50k_base", config.Chunker.Tokenizer)
}
