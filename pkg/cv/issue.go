package cv

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a class of validation problem.
type Kind int

const (
	MissingKey Kind = iota
	BlankKey
	DuplicateKey
	ExtraKey
	InvalidType
	NonmatchKey
	InvalidProtocol
	InvalidDate
	MissingFile
	InvalidFloat
	InvalidInt
	InvalidList
	UnmatchedRegex
	OrganismMismatch
	DuplicateVendorID
)

var kindNames = map[Kind]string{
	MissingKey:        "MissingKeyError",
	BlankKey:          "BlankKeyError",
	DuplicateKey:      "DuplicateKeyError",
	ExtraKey:          "ExtraKeyError",
	InvalidType:       "InvalidTypeError",
	NonmatchKey:       "NonmatchKeyError",
	InvalidProtocol:   "InvalidProtocolError",
	InvalidDate:       "InvalidDateError",
	MissingFile:       "MissingFileError",
	InvalidFloat:      "InvalidFloatError",
	InvalidInt:        "InvalidIntError",
	InvalidList:       "InvalidListError",
	UnmatchedRegex:    "UnmatchedRegexError",
	OrganismMismatch:  "OrganismError",
	DuplicateVendorID: "DuplicateVendorIdError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets reports serialise kinds by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown issue kind %q", text)
	}
	*k = kind
	return nil
}

func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Issue is one validation problem found on a stanza. Strict issues are hard
// failures; the rest are advisory.
type Issue struct {
	Stanza  string `json:"stanza"`
	Type    string `json:"type"`
	Kind    Kind   `json:"kind"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
	Strict  bool   `json:"strict"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s[%s] %s: %s", i.Stanza, i.Type, i.Kind, i.Message)
}

// Handler consumes issues one at a time; returning an error stops the walk.
type Handler func(Issue) error

// Raise is the fail-fast handler: the first issue becomes the error.
func Raise(i Issue) error {
	return i
}

// Collect appends every issue to dst and never stops.
func Collect(dst *[]Issue) Handler {
	return func(i Issue) error {
		*dst = append(*dst, i)
		return nil
	}
}

// Report is the outcome of validating a file or a single stanza.
type Report struct {
	Issues       []Issue  `json:"issues"`
	MissingTypes []string `json:"missing_types"`
}

func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Each feeds issues to h in order and returns the first error h returns.
func (r Report) Each(h Handler) error {
	for _, i := range r.Issues {
		if err := h(i); err != nil {
			return err
		}
	}
	return nil
}

// StrictOnly keeps the hard failures.
func (r Report) StrictOnly() Report {
	out := Report{MissingTypes: r.MissingTypes}
	for _, i := range r.Issues {
		if i.Strict {
			out.Issues = append(out.Issues, i)
		}
	}
	return out
}

// ForStanza keeps the issues raised against one stanza.
func (r Report) ForStanza(name string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Stanza == name {
			out = append(out, i)
		}
	}
	return out
}

// Count tallies issues of one kind.
func (r Report) Count(kind Kind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Strategy turns a report into a pass/fail error.
type Strategy func(Report) error

// FailFast reports the first issue, as a validation run stopping at the first
// problem would.
func FailFast(r Report) error {
	return r.Each(Raise)
}

// CollectAll fails only when a strict issue exists, carrying every issue.
func CollectAll(r Report) error {
	for _, i := range r.Issues {
		if i.Strict {
			return &ValidationError{Issues: r.Issues}
		}
	}
	return nil
}

// ValidationError carries the full issue list of a failed run.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		lines = append(lines, i.Error())
	}
	return fmt.Sprintf("%d validation issues:\n%s", len(e.Issues), strings.Join(lines, "\n"))
}

// AsIssue unwraps an error produced by FailFast.
func AsIssue(err error) (Issue, bool) {
	var i Issue
	ok := errors.As(err, &i)
	return i, ok
}
