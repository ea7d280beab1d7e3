package ra

import (
	"fmt"
	"strings"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ordered"
)

// DuplicateMarker joins a repeated key and its ordinal, e.g. "lab__$$0".
const DuplicateMarker = "__$$"

// Duplicate is one repeated occurrence of a key within a stanza.
type Duplicate struct {
	Key   string // stored key, e.g. "lab__$$1"
	Base  string // original key, e.g. "lab"
	Value string
}

// Stanza is one named block of key/value lines.
type Stanza struct {
	name    string
	fields  *ordered.Map[string]
	leading []string
}

type StanzaOption func(*Stanza)

// WithLeadingKeys keeps the stanza sorted, with keys pinned to the front in
// the given order. The ordering is applied after every Set.
func WithLeadingKeys(keys ...string) StanzaOption {
	return func(s *Stanza) {
		s.leading = keys
	}
}

func NewStanza(opts ...StanzaOption) *Stanza {
	s := &Stanza{fields: ordered.New[string]()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stanza) Name() string {
	return s.name
}

// ReadStanza populates the stanza from its lines and names it from the
// first key line. It returns that line's key and the stanza name.
func (s *Stanza) ReadStanza(lines []string) (string, string, error) {
	first := -1
	for i, line := range lines {
		s.ReadLine(line)
		if first < 0 && !isPassthrough(strings.TrimSpace(line)) {
			first = i
		}
	}
	if first < 0 {
		return "", "", ErrEmptyStanza
	}
	name, err := s.ReadName(lines[first])
	if err != nil {
		return "", "", err
	}
	key, _ := splitLine(strings.TrimSpace(lines[first]))
	s.normalize()
	return key, name, nil
}

// ReadLine stores one line. Comments and blank lines become passthrough
// entries; a repeated key goes under key__$$N instead of overwriting.
func (s *Stanza) ReadLine(line string) {
	line = strings.TrimSpace(line)
	if isPassthrough(line) {
		s.fields.Append(line)
		return
	}

	key, value := splitLine(line)
	if s.fields.Contains(key) {
		for n := 0; ; n++ {
			alt := fmt.Sprintf("%s%s%d", key, DuplicateMarker, n)
			if !s.fields.Contains(alt) {
				key = alt
				break
			}
		}
	}
	s.fields.Set(key, value)
}

// ReadName takes the stanza name from the value of its first line, which
// must be "<key> <name>".
func (s *Stanza) ReadName(line string) (string, error) {
	_, name := splitLine(strings.TrimSpace(line))
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedName, line)
	}
	s.name = name
	return s.name, nil
}

func isPassthrough(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

func splitLine(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func (s *Stanza) Get(key string) (string, bool) {
	return s.fields.Get(key)
}

// Value returns the value for key, or "" when absent.
func (s *Stanza) Value(key string) string {
	v, _ := s.fields.Get(key)
	return v
}

func (s *Stanza) MustGet(key string) (string, error) {
	v, err := s.fields.MustGet(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.name, err)
	}
	return v, nil
}

func (s *Stanza) Has(key string) bool {
	return s.fields.Contains(key)
}

func (s *Stanza) Set(key, value string) {
	s.fields.Set(key, value)
	s.normalize()
}

func (s *Stanza) Delete(key string) bool {
	return s.fields.Delete(key)
}

func (s *Stanza) Keys() []string {
	return s.fields.Keys()
}

func (s *Stanza) Len() int {
	return s.fields.Len()
}

func (s *Stanza) Entries() []ordered.Entry[string] {
	return s.fields.Entries()
}

// Fields returns a snapshot of the keyed values.
func (s *Stanza) Fields() map[string]string {
	out := make(map[string]string, s.fields.Len())
	for _, e := range s.fields.Entries() {
		if !e.Passthrough {
			out[e.Key] = e.Value
		}
	}
	return out
}

// Duplicates lists every repeated key occurrence in stanza order.
func (s *Stanza) Duplicates() []Duplicate {
	var dups []Duplicate
	for _, e := range s.fields.Entries() {
		if e.Passthrough {
			continue
		}
		if base, ok := IsDuplicateKey(e.Key); ok {
			dups = append(dups, Duplicate{Key: e.Key, Base: base, Value: e.Value})
		}
	}
	return dups
}

// IsDuplicateKey reports whether key is a synthesized duplicate marker and
// returns the original key.
func IsDuplicateKey(key string) (string, bool) {
	i := strings.LastIndex(key, DuplicateMarker)
	if i <= 0 {
		return "", false
	}
	for _, c := range key[i+len(DuplicateMarker):] {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	if i+len(DuplicateMarker) == len(key) {
		return "", false
	}
	return key[:i], true
}

// String renders the stanza back to RA text, without a trailing blank line.
func (s *Stanza) String() string {
	var b strings.Builder
	for _, e := range s.fields.Entries() {
		if e.Passthrough {
			b.WriteString(e.Value)
		} else {
			key := e.Key
			if base, ok := IsDuplicateKey(key); ok {
				key = base
			}
			b.WriteString(key)
			if e.Value != "" {
				b.WriteString(" ")
				b.WriteString(e.Value)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Stanza) normalize() {
	if len(s.leading) == 0 {
		return
	}
	s.fields.Sort()
	s.fields.Promote(s.leading...)
}
