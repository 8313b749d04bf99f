package config

import (
	"github.com/spf13/viper"
)

// Default locations, relative to the working directory.
const (
	DefaultRelationalPath = "data/wikidata.db"
	DefaultDocumentPath   = "data/wikidata.json"
)

// EnvPrefix prefixes environment overrides, e.g. WIKIQA_BENCH_ITERATIONS.
const EnvPrefix = "WIKIQA"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("relational.path", DefaultRelationalPath)

	v.SetDefault("document.path", DefaultDocumentPath)
	v.SetDefault("document.cache", false)

	v.SetDefault("bench.iterations", 5)
	v.SetDefault("bench.questions", []string{})

	v.SetDefault("search.limit", 10)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}
