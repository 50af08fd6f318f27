// Package mediaerr contains categorized, severity-tagged errors.
package mediaerr

import (
	"fmt"
	"strings"
)

// Severity is the severity of an error.
type Severity int

// severities.
const (
	SeverityRecoverable Severity = 1
	SeverityCritical    Severity = 2
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "RECOVERABLE"

	case SeverityCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Category is the component an error comes from.
type Category int

// categories.
const (
	CategoryText   Category = 2
	CategoryMedia  Category = 3
	CategoryPlayer Category = 7
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryText:
		return "TEXT"

	case CategoryMedia:
		return "MEDIA"

	case CategoryPlayer:
		return "PLAYER"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Code identifies an error condition.
type Code int

// codes.
const (
	// the text header is missing or malformed.
	CodeInvalidTextHeader Code = 2000

	// a cue could not be parsed.
	CodeInvalidTextCue Code = 2001

	// a markup document could not be parsed.
	CodeInvalidXML Code = 2005

	// the init segment doesn't contain a TTML track.
	CodeInvalidMP4TTML Code = 2007

	// a declared length doesn't fit into the available bytes.
	CodeBufferReadOutOfBounds Code = 3000

	// a required box is missing.
	CodeMP4BoxNotFound Code = 3020

	// a method was called in a state that doesn't allow it.
	CodeInvalidParserState Code = 7100
)

var codeNames = map[Code]string{
	CodeInvalidTextHeader:     "INVALID_TEXT_HEADER",
	CodeInvalidTextCue:        "INVALID_TEXT_CUE",
	CodeInvalidXML:            "INVALID_XML",
	CodeInvalidMP4TTML:        "INVALID_MP4_TTML",
	CodeBufferReadOutOfBounds: "BUFFER_READ_OUT_OF_BOUNDS",
	CodeMP4BoxNotFound:        "MP4_BOX_NOT_FOUND",
	CodeInvalidParserState:    "INVALID_PARSER_STATE",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is an error with a severity, a category and a code.
// Two errors are equal with respect to errors.Is when
// severity, category and code are equal.
type Error struct {
	Severity Severity
	Category Category
	Code     Code

	// additional details, not taken into account when comparing errors.
	Data []any

	// wrapped error, if any.
	Err error
}

// New allocates an Error.
func New(severity Severity, category Category, code Code, data ...any) *Error {
	return &Error{
		Severity: severity,
		Category: category,
		Code:     code,
		Data:     data,
	}
}

// Wrap allocates an Error that wraps another error.
func Wrap(err error, severity Severity, category Category, code Code, data ...any) *Error {
	e := New(severity, category, code, data...)
	e.Err = err
	return e
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %v %v (%d)", e.Category, e.Severity, e.Code, int(e.Code))

	for _, d := range e.Data {
		fmt.Fprintf(&b, ": %v", d)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements the interface used by errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Severity == t.Severity &&
		e.Category == t.Category &&
		e.Code == t.Code
}
