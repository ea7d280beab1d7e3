package ra

import (
	"errors"
	"fmt"
)

// Defining possible error
var (
	ErrMalformedName     = errors.New("stanza first line is not \"<key> <name>\"")
	ErrEmptyStanza       = errors.New("stanza has no key lines")
	ErrNoTrailingNewline = errors.New("file does not end in a newline")
	ErrDuplicateStanza   = errors.New("duplicate stanza name")
	ErrStanzaNotFound    = errors.New("stanza not found")
)

// ParseError locates a structural problem within an RA file.
type ParseError struct {
	Path string
	Line int // first line of the offending stanza, 1 based
	Err  error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: %v", path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
