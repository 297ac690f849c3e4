package abcparse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSectionInference marks a set title that names no section.
	ErrSectionInference = errors.New("cannot infer section")
	// ErrNonContiguousSection marks a section that reappears after another section.
	ErrNonContiguousSection = errors.New("non-contiguous section")
	// ErrHeaderOrder marks a header line before the first numbering marker.
	ErrHeaderOrder = errors.New("header before any tune")
	// ErrUnresolvedComposer marks a composer back-reference whose tune never appears in its set.
	ErrUnresolvedComposer = errors.New("unresolved composer reference")
	// ErrMissingContext marks music that appears before the set it belongs to.
	ErrMissingContext = errors.New("missing set context")
	// ErrDuplicateSlug marks two sets in one folder that share a slug.
	ErrDuplicateSlug = errors.New("duplicate set slug")
)

// ParseError locates a structural failure in the source document.
type ParseError struct {
	Line   int
	Text   string
	Kind   error
	Detail string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %v", e.Line, e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if text := strings.TrimSpace(e.Text); text != "" {
		fmt.Fprintf(&b, " (%q)", text)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(kind error, line int, text, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   line,
		Text:   text,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
