package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlConfig = `
dataset: places.csv
reference: codes.csv
replace:
  source_field: code
  find_field: old_code
  replace_field: region
  pattern_match: true
  strip_leading_zeros: true
`

const hclConfig = `
dataset   = "places.csv"
reference = "codes.csv"

replace {
  source_field  = "code"
  find_field    = "old_code"
  replace_field = "region"
  pattern_match = true
  unmatched     = "blank"
}
`

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", yamlConfig)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "places.csv", cfg.Dataset)
	require.NotNil(t, cfg.Replace)
	assert.Equal(t, "code", cfg.Replace.SourceField)
	assert.True(t, cfg.Replace.StripLeadingZeros)
	assert.Equal(t, UnmatchedKeep, cfg.Replace.Unmatched, "default unmatched policy")
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "run.hcl", hclConfig)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Replace)
	assert.Equal(t, "region", cfg.Replace.ReplaceField)
	assert.Equal(t, UnmatchedBlank, cfg.Replace.Unmatched)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "run.json", `{
		"dataset": "places.geojson",
		"translate": {
			"service": "ollama",
			"source_field": "name",
			"target_field": "name_en",
			"target_lang": "en",
			"batch_mode": true
		}
	}`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Translate)
	assert.Equal(t, "ollama", cfg.Translate.Service)
	assert.Equal(t, 10, cfg.Translate.BatchSize, "default batch size")
	assert.Equal(t, 2, cfg.Translate.MaxRetries, "default retries")
}

func TestLoad_BareAttrcleanTriesBothFormats(t *testing.T) {
	t.Run("yaml body", func(t *testing.T) {
		path := writeConfig(t, ".attrclean", yamlConfig)
		cfg, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "places.csv", cfg.Dataset)
	})

	t.Run("hcl body", func(t *testing.T) {
		path := writeConfig(t, ".attrclean", hclConfig)
		cfg, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "places.csv", cfg.Dataset)
	})

	t.Run("garbage", func(t *testing.T) {
		path := writeConfig(t, ".attrclean", "{{{not a config")
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse .attrclean")
	})
}

func TestLoad_UnknownFieldsRejected(t *testing.T) {
	path := writeConfig(t, "run.yaml", "dataset: places.csv\nbogus: true\n")
	_, err := Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "run.toml", "dataset = 'places.csv'")
	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
