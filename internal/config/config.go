// Package config loads wikiqa settings with Viper.
package config

import (
	"github.com/kittclouds/wikiqa/internal/bench"
	"github.com/kittclouds/wikiqa/pkg/lexicon"
)

// Config is the full wikiqa configuration.
type Config struct {
	Relational RelationalConfig `mapstructure:"relational"`
	Document   DocumentConfig   `mapstructure:"document"`
	Bench      BenchConfig      `mapstructure:"bench"`
	Search     SearchConfig     `mapstructure:"search"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"`
	Log        LogConfig        `mapstructure:"log"`
}

// RelationalConfig locates the SQLite database file.
type RelationalConfig struct {
	Path string `mapstructure:"path"`
}

// DocumentConfig locates the document collection file.
type DocumentConfig struct {
	Path string `mapstructure:"path"`
	// Cache keeps the decoded collection in memory between calls
	Cache bool `mapstructure:"cache"`
}

// BenchConfig tunes the comparison harness.
type BenchConfig struct {
	Iterations int `mapstructure:"iterations"`
	// Questions replaces the built-in workload when non-empty
	Questions []string `mapstructure:"questions"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	Limit int `mapstructure:"limit"`
}

// LexiconConfig adds phrases on top of the built-in lexicon.
type LexiconConfig struct {
	Phrases []lexicon.Entry `mapstructure:"phrases"`
}

// LogConfig selects log encoding and level.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// BuildLexicon compiles the built-in lexicon plus configured phrases.
func (c *Config) BuildLexicon() (*lexicon.Lexicon, error) {
	if len(c.Lexicon.Phrases) == 0 {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.WithDefaults(c.Lexicon.Phrases)
	if err != nil {
		return nil, invalid(err, "lexicon.phrases")
	}
	return lex, nil
}

// Questions returns the configured benchmark workload, or the built-in one.
func (c *Config) Questions() []string {
	if len(c.Bench.Questions) == 0 {
		return bench.DefaultQuestions
	}
	return c.Bench.Questions
}
