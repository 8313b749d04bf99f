package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/wikiqa/internal/bench"
	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRelationalPath, cfg.Relational.Path)
	assert.Equal(t, DefaultDocumentPath, cfg.Document.Path)
	assert.False(t, cfg.Document.Cache)
	assert.Equal(t, 5, cfg.Bench.Iterations)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, bench.DefaultQuestions, cfg.Questions())
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "wikiqa.toml", `
[relational]
path = "/var/lib/wikiqa/kb.db"

[document]
path = "/var/lib/wikiqa/kb.json"
cache = true

[bench]
iterations = 20
questions = ["What is the capital of China?"]

[log]
level = "debug"
json = true

[[lexicon.phrases]]
phrase = "licence plate code"
property_id = "P395"
label = "licence plate code"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/wikiqa/kb.db", cfg.Relational.Path)
	assert.Equal(t, "/var/lib/wikiqa/kb.json", cfg.Document.Path)
	assert.True(t, cfg.Document.Cache)
	assert.Equal(t, 20, cfg.Bench.Iterations)
	assert.Equal(t, []string{"What is the capital of China?"}, cfg.Questions())
	assert.Equal(t, 10, cfg.Search.Limit, "unset keys keep defaults")
	assert.True(t, cfg.Log.JSON)

	require.Len(t, cfg.Lexicon.Phrases, 1)
	lex, err := cfg.BuildLexicon()
	require.NoError(t, err)
	id, ok := lex.PropertyID("the licence plate code of beijing")
	require.True(t, ok)
	assert.Equal(t, "P395", id)
	assert.Equal(t, lexicon.Default().Len()+1, lex.Len())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "wikiqa.yaml", `
search:
  limit: 3
document:
  path: other.json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.Limit)
	assert.Equal(t, "other.json", cfg.Document.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WIKIQA_BENCH_ITERATIONS", "7")
	t.Setenv("WIKIQA_RELATIONAL_PATH", "env.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Bench.Iterations)
	assert.Equal(t, "env.db", cfg.Relational.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[bench]\niterations = -1\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "bench.iterations must be >= 0, got -1")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		v := viper.New()
		SetDefaults(v)
		cfg, err := LoadWithViper(v)
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(c *Config){
		"empty relational path": func(c *Config) { c.Relational.Path = " " },
		"empty document path":   func(c *Config) { c.Document.Path = "" },
		"shared path":           func(c *Config) { c.Document.Path = c.Relational.Path },
		"negative limit":        func(c *Config) { c.Search.Limit = -2 },
		"unknown level":         func(c *Config) { c.Log.Level = "loud" },
		"bad phrase":            func(c *Config) { c.Lexicon.Phrases = []lexicon.Entry{{Phrase: "", PropertyID: "P1"}} },
		"ambiguous phrase":      func(c *Config) { c.Lexicon.Phrases = []lexicon.Entry{{Phrase: "capital", PropertyID: "P999"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	assert.NoError(t, valid().Validate())
}
