// Package source opens delimited text inputs and maps low-level failures
// onto the error kinds callers match on.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNotFound       = errors.New("source not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrNumericFormat  = errors.New("invalid numeric field")
)

// NotFoundError reports a source path that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() []error { return []error{ErrNotFound, e.Err} }

// MalformedInputError reports a structural failure in delimited text,
// such as an unterminated quoted field.
type MalformedInputError struct {
	Path string
	Err  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("error reading delimited file %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() []error { return []error{ErrMalformedInput, e.Err} }

// NumericFormatError reports a field that should hold an integer but does not.
type NumericFormatError struct {
	Path   string
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("%s:%d: column %d: invalid integer %q", e.Path, e.Line, e.Column, e.Value)
}

func (e *NumericFormatError) Unwrap() []error { return []error{ErrNumericFormat, e.Err} }

// Open opens path for reading. A missing file yields a *NotFoundError.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// NewReader returns a csv.Reader splitting on comma that tolerates a varying
// number of fields per row. Row length checks are left to the caller.
func NewReader(r io.Reader, comma rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	return cr
}

// WrapReadError classifies an error returned by a csv.Reader.
func WrapReadError(path string, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Path: path, Err: err}
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

// ParseUint parses a non-negative decimal integer field that must fit in
// bitSize bits. Surrounding whitespace and a single leading '+' are ignored.
func ParseUint(path string, line, column int, raw string, bitSize int) (uint64, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(raw), "+")
	v, err := strconv.ParseUint(digits, 10, bitSize)
	if err != nil {
		return 0, &NumericFormatError{Path: path, Line: line, Column: column, Value: raw, Err: err}
	}
	return v, nil
}

// Normalize returns the canonical form used for protocol names and tags.
func Normalize(s string) string {
	return strings.ToUpper(s)
}
