package config

import (
	"strings"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
)

// ErrInvalidConfig marks every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

func invalid(err error, key string) error {
	return errors.Mark(errors.Wrapf(err, "%s", key), ErrInvalidConfig)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Relational.Path) == "" {
		return errors.Wrap(ErrInvalidConfig, "relational.path cannot be empty")
	}
	if strings.TrimSpace(c.Document.Path) == "" {
		return errors.Wrap(ErrInvalidConfig, "document.path cannot be empty")
	}
	if c.Relational.Path == c.Document.Path {
		return errors.Wrapf(ErrInvalidConfig, "relational.path and document.path must differ, both are %q", c.Document.Path)
	}

	// 0 = harness default
	if c.Bench.Iterations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "bench.iterations must be >= 0, got %d", c.Bench.Iterations)
	}
	if c.Search.Limit < 0 {
		return errors.Wrapf(ErrInvalidConfig, "search.limit must be >= 0, got %d", c.Search.Limit)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log.level %q: %v", c.Log.Level, err)
	}

	if _, err := c.BuildLexicon(); err != nil {
		return err
	}
	return nil
}
