package errors

import (
	"fmt"
	"strings"
)

// FormatKind classifies a text parse failure.
type FormatKind int

const (
	// IndexMismatch means a record's 1-based index did not match its position.
	IndexMismatch FormatKind = iota + 1
	// MissingDelimiter means the expected ':' or ',' was not found.
	MissingDelimiter
	// MissingSeparator means the section boundary line was absent.
	MissingSeparator
	// TruncatedInput means the input ended before all records were read.
	TruncatedInput
	// InvalidToken means a count, index or state token could not be used.
	InvalidToken
	// LineTooLong means a line exceeded the reader's line size limit.
	LineTooLong
)

var formatKindNames = map[FormatKind]string{
	IndexMismatch:    "index mismatch",
	MissingDelimiter: "missing delimiter",
	MissingSeparator: "missing separator",
	TruncatedInput:   "truncated input",
	InvalidToken:     "invalid token",
	LineTooLong:      "line too long",
}

// String returns the human-readable kind name.
func (k FormatKind) String() string {
	if s, ok := formatKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("FormatKind(%d)", int(k))
}

// FormatError is returned by the text codec while scanning malformed input.
// Line is 1-based; Text is the offending line as read.
type FormatError struct {
	Kind     FormatKind
	Line     int
	Expected string
	Actual   string
	Text     string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Kind.String())
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %s but got %s", e.Expected, e.Actual)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " (%q)", e.Text)
	}
	return b.String()
}

// Code returns the error code for this error type.
func (e *FormatError) Code() Code {
	return ErrCodeInvalidFormat
}
