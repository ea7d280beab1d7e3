// Package mdb reads ENCODE metaDb files: one composite stanza plus one
// stanza per file or table, grouped into experiments by expId.
package mdb

import (
	"strings"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
)

const (
	ObjComposite = "composite"
	ObjTable     = "table"
)

// LeadingKeys are kept at the top of every metaDb stanza.
var LeadingKeys = []string{"metaObject", "objType"}

type Stanza struct {
	*ra.Stanza
}

func NewStanza() *Stanza {
	return &Stanza{Stanza: ra.NewStanza(ra.WithLeadingKeys(LeadingKeys...))}
}

func (s *Stanza) ObjType() string {
	return s.Value("objType")
}

func (s *Stanza) ExpID() string {
	return s.Value("expId")
}

// IsRevoked is true for stanzas carrying any objStatus (revoked, replaced,
// renamed). They are left out of every aggregate.
func (s *Stanza) IsRevoked() bool {
	return s.Has("objStatus")
}

// DataTypeName returns the declared dataType, "" when absent.
func (s *Stanza) DataTypeName() string {
	return s.Value("dataType")
}

// Title joins the values of the experimental variables with "_". Variables
// that are absent or "None" are skipped.
func (s *Stanza) Title(expVars []string) string {
	parts := make([]string, 0, len(expVars))
	for _, v := range expVars {
		value, ok := s.Get(v)
		if !ok || value == "" || value == "None" {
			continue
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, "_")
}
