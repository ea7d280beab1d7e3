package cv

import (
	"errors"
	"fmt"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
)

const (
	TypeOfTerm    = "typeOfTerm"
	CellType      = "cellType"
	MouseCellType = "mouseCellType"
	Antibody      = "antibody"
)

// LeadingKeys are kept at the top of every CV stanza.
var LeadingKeys = []string{"term", "tag", "type", "label"}

var ErrUnknownOrganism = errors.New("cell line organism is neither human nor mouse")

// Stanza is a controlled vocabulary term.
type Stanza struct {
	*ra.Stanza
}

func NewStanza() *Stanza {
	return &Stanza{Stanza: ra.NewStanza(ra.WithLeadingKeys(LeadingKeys...))}
}

func (s *Stanza) Type() string {
	return s.Value("type")
}

func (s *Stanza) Term() string {
	return s.Value("term")
}

func (s *Stanza) Organism() string {
	return s.Value("organism")
}

// EffectiveType folds the historical spellings of a declared type into the
// name of its typeOfTerm stanza. Cell lines split by organism.
func EffectiveType(declared, organism string) (string, error) {
	switch declared {
	case "Cell Line", "cell", CellType:
		switch organism {
		case "human":
			return CellType, nil
		case "mouse":
			return MouseCellType, nil
		default:
			return declared, fmt.Errorf("%w: %q", ErrUnknownOrganism, organism)
		}
	case "Antibody":
		return Antibody, nil
	}
	return declared, nil
}

// effectiveType ignores organism problems; used when matching other stanzas.
func (s *Stanza) effectiveType() string {
	t, _ := EffectiveType(s.Type(), s.Organism())
	return t
}

// isType matches either the declared or the effective type.
func (s *Stanza) isType(name string) bool {
	return s.Type() == name || s.effectiveType() == name
}

// The on-disk vocabulary does not reliably define mouseCellType, so its
// typeOfTerm stanza is built in. Downstream files depend on this exact field
// list; change it only together with cv.ra.
var builtinMouseCellType = []string{
	"term mouseCellType",
	"tag MOUSECELLTYPE",
	"type typeOfTerm",
	"searchable multiSelect",
	"cvDefined yes",
	"validate cv or None",
	"priority 1",
	"requiredVars term,tag,type,description,organism,vendorName,orderUrl,age,strain,sex",
	"optionalVars label,tissue,termId,termUrl,color,protocol,category,vendorId,lots,deprecated",
}

// BuiltinTypeOfTerm returns the built-in typeOfTerm stanza for name, if any.
func BuiltinTypeOfTerm(name string) (*Stanza, bool) {
	if name != MouseCellType {
		return nil, false
	}
	s := NewStanza()
	if _, _, err := s.ReadStanza(builtinMouseCellType); err != nil {
		panic(fmt.Sprintf("builtin %s stanza: %v", name, err))
	}
	return s, true
}

func (s *Stanza) requiredVars() []string {
	return varList(s.Value("requiredVars"))
}

func (s *Stanza) optionalVars() []string {
	return varList(s.Value("optionalVars"))
}

func varList(v string) []string {
	return util.SplitList(util.StripComment(v))
}
