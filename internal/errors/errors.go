// Package errors provides error handling for wikiqa.
//
// It re-exports github.com/cockroachdb/errors so every package wraps and
// inspects errors the same way:
//
//	if err := tx.Commit(); err != nil {
//	    return errors.Wrapf(err, "commit entity %s", id)
//	}
//
//	if errors.Is(err, store.ErrClosed) {
//	    // handle closed store
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
	GetAllHints = crdb.GetAllHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)
