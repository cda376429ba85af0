// Package siteerr classifies build failures so callers can tell which ones
// abort the whole run. The taxonomy is fixed: structural template errors are
// fatal, a missing template file fails only its page, and asset copies are
// best-effort.
package siteerr

import (
	"errors"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Kind classifies an error against the propagation policy.
type Kind int

const (
	// KindStructural marks a template without an html root element.
	// Fatal for the whole build; the process exits non-zero.
	KindStructural Kind = iota
	// KindTemplateNotFound marks a page whose template file is absent.
	// Fatal for that page only.
	KindTemplateNotFound
	// KindPage marks any other per-page failure (unreadable file, broken
	// front matter). Fatal for that page only.
	KindPage
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindTemplateNotFound:
		return "template-not-found"
	default:
		return "page"
	}
}

// Error carries a classified failure with the path it concerns.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Structural wraps err as a build-fatal structural template error.
func Structural(path string, err error) *Error {
	return &Error{Kind: KindStructural, Path: path, Err: err}
}

// TemplateNotFound wraps err as a page-fatal missing template error.
func TemplateNotFound(path string, err error) *Error {
	return &Error{Kind: KindTemplateNotFound, Path: path, Err: err}
}

// PageError wraps err as a page-fatal processing error.
func PageError(path string, err error) *Error {
	return &Error{Kind: KindPage, Path: path, Err: err}
}

// IsStructural reports whether err contains a build-fatal structural error.
func IsStructural(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindStructural
}

// BestEffort runs op and swallows its failure, leaving only a debug trace.
// Used solely for the asset copy operations where a missing source directory
// is not an error.
func BestEffort(what string, op func() error) {
	if err := op(); err != nil {
		slog.Debug("best-effort operation failed", slog.String("op", what), logfields.Error(err))
	}
}
