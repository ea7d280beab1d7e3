package cv

import (
	"io"
	"sort"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
)

// File is a controlled vocabulary (cv.ra) with its validation settings.
type File struct {
	*ra.File[*Stanza]

	rules        RuleTable
	protocolPath string
	baseDir      string

	missingTypes map[string]struct{}
	ruleCache    map[string]Rule
}

type Option func(*File)

// WithProtocolPath enables protocol document checks rooted at dir.
func WithProtocolPath(dir string) Option {
	return func(f *File) {
		f.protocolPath = dir
	}
}

// WithRules replaces the default per-type relational rules.
func WithRules(rules RuleTable) Option {
	return func(f *File) {
		f.rules = rules
	}
}

// WithBaseDir resolves relative paths of "exists" fields against dir.
func WithBaseDir(dir string) Option {
	return func(f *File) {
		f.baseDir = dir
	}
}

func New(opts ...Option) *File {
	f := &File{
		File:         ra.NewFile(NewStanza),
		rules:        DefaultRules(),
		missingTypes: make(map[string]struct{}),
		ruleCache:    make(map[string]Rule),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open reads a cv.ra file.
func Open(path string, opts ...Option) (*File, error) {
	f := New(opts...)
	if err := f.Read(path); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse reads controlled vocabulary text from r.
func Parse(r io.Reader, opts ...Option) (*File, error) {
	f := New(opts...)
	if err := f.ReadFrom(r); err != nil {
		return nil, err
	}
	return f, nil
}

// MissingTypes lists field names seen during validation that have no
// typeOfTerm stanza, sorted.
func (f *File) MissingTypes() []string {
	out := make([]string, 0, len(f.missingTypes))
	for k := range f.missingTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TypeNames lists the terms of every typeOfTerm stanza in file order.
func (f *File) TypeNames() []string {
	return ra.FilterMap(f.File,
		func(s *Stanza) bool { return s.Type() == TypeOfTerm },
		func(s *Stanza) string { return s.Term() })
}

// Terms returns the stanzas whose declared or effective type is typeName.
func (f *File) Terms(typeName string) []*Stanza {
	return f.Filter(func(s *Stanza) bool { return s.isType(typeName) })
}

// TypeOfTerm finds the single typeOfTerm stanza describing typeName.
func (f *File) TypeOfTerm(typeName string) (*Stanza, int) {
	if s, ok := BuiltinTypeOfTerm(typeName); ok {
		return s, 1
	}
	matches := f.typeOfTermStanzas(typeName)
	if len(matches) != 1 {
		return nil, len(matches)
	}
	return matches[0], 1
}

func (f *File) typeOfTermStanzas(term string) []*Stanza {
	return f.Filter(func(s *Stanza) bool {
		return s.Type() == TypeOfTerm && s.Term() == term
	})
}

func (f *File) rule(text string) (Rule, error) {
	if r, ok := f.ruleCache[text]; ok {
		return r, nil
	}
	r, err := ParseRule(text)
	if err == nil {
		f.ruleCache[text] = r
	}
	return r, err
}
