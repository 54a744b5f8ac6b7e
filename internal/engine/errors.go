package engine

import (
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for the user-facing failure kinds this package returns.
// Callers should compare with errors.Is; wrapping with
// fmt.Errorf("...: %w", ...) is expected at call sites that need to name the
// offending id.
var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
	ErrMalformed   = errors.New("malformed input")
	ErrDirty       = errors.New("context is dirty")
)

// bug reports an invariant violation — surfaced as a fatal abort, not
// recoverable — through one choke point, rather than scattering ad hoc
// panics across the engine — the same
// pattern golang.org/x/tools/gopls uses its internal bug-reporting package
// for "should never happen" assertions. Unlike gopls (which, in production,
// logs and continues so one editor session doesn't crash an IDE), a library
// invariant violation here has no safe continuation: the condensation may
// already be structurally broken, so bug always panics.
func bug(logger *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if logger != nil {
		logger.Error("invariant violated", "detail", msg)
	}
	panic("tagengine: invariant violated: " + msg)
}
