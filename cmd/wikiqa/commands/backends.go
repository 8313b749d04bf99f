// Package commands implements the wikiqa subcommands.
package commands

import (
	"github.com/kittclouds/wikiqa/internal/config"
	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
	"github.com/kittclouds/wikiqa/internal/store"
)

// Backend selector values for --backend.
const (
	BackendRelational = "relational"
	BackendDocument   = "document"
	BackendAll        = "all"
)

// Global flag values, bound by the root command.
var (
	ConfigFile  string
	JSONLogs    bool
	BackendFlag string
)

var cfg *config.Config

// Init loads configuration and initializes the global logger.
func Init() error {
	c, err := config.Load(ConfigFile)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if JSONLogs {
		c.Log.JSON = true
	}
	if err := logger.Initialize(c.Log.JSON, c.Log.Level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	cfg = c
	return nil
}

type namedBackend struct {
	name string
	store.Backend
}

// openBackends opens the backends selected by --backend. The returned
// closer closes all of them.
func openBackends() ([]namedBackend, func(), error) {
	lex, err := cfg.BuildLexicon()
	if err != nil {
		return nil, nil, err
	}
	query := store.QueryOptions{Lexicon: lex}

	var open []namedBackend
	closeAll := func() {
		for _, b := range open {
			if err := b.Close(); err != nil {
				logger.Logger.Warnw("close failed", logger.FieldBackend, b.name, logger.FieldError, err)
			}
		}
	}

	switch BackendFlag {
	case BackendRelational, BackendDocument, BackendAll:
	default:
		return nil, nil, errors.Newf("unknown backend %q (want %s, %s or %s)",
			BackendFlag, BackendRelational, BackendDocument, BackendAll)
	}

	if BackendFlag != BackendDocument {
		sq, err := store.NewSQLiteStore(cfg.Relational.Path, store.Options{Query: query})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open relational backend")
		}
		open = append(open, namedBackend{BackendRelational, sq})
	}
	if BackendFlag != BackendRelational {
		doc, err := store.NewDocStore(cfg.Document.Path, store.DocOptions{Cache: cfg.Document.Cache, Query: query})
		if err != nil {
			closeAll()
			return nil, nil, errors.Wrap(err, "failed to open document backend")
		}
		open = append(open, namedBackend{BackendDocument, doc})
	}
	return open, closeAll, nil
}
