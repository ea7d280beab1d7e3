package cv

// CheckKind selects one of the relational checks run after the typeOfTerm
// driven pipeline.
type CheckKind int

const (
	// value must be the term of a stanza of Type
	CheckRelational CheckKind = iota
	// every comma separated value must be the term of a stanza of Type
	CheckListRelational
	// value must equal Field of some stanza of Type
	CheckFullRelational
	// every "Lab:document" value must exist under <protocolPath>/<Category>/
	CheckProtocol
)

type Check struct {
	Kind     CheckKind
	Key      string
	Type     string
	Field    string
	Category string
}

// TypeRules holds what is specific to one vocabulary type. Required and
// Optional apply only when the type's typeOfTerm stanza does not list them.
type TypeRules struct {
	Required  []string
	Optional  []string
	Checks    []Check
	VendorIDs bool // vendorName+vendorId must not repeat across unrelated terms
}

// RuleTable maps an effective type name to its rules.
type RuleTable map[string]TypeRules

// DefaultRules returns the relational checks the ENCODE vocabulary relies on.
func DefaultRules() RuleTable {
	return RuleTable{
		CellType: {
			Checks: []Check{
				{Kind: CheckRelational, Key: "sex", Type: "sex"},
				{Kind: CheckRelational, Key: "tissue", Type: "tissue"},
				{Kind: CheckProtocol, Key: "protocol", Category: "cell"},
			},
			VendorIDs: true,
		},
		MouseCellType: {
			Checks: []Check{
				{Kind: CheckRelational, Key: "sex", Type: "sex"},
				{Kind: CheckRelational, Key: "strain", Type: "strain"},
				{Kind: CheckRelational, Key: "age", Type: "age"},
				{Kind: CheckProtocol, Key: "protocol", Category: "cell"},
			},
			VendorIDs: true,
		},
		Antibody: {
			Checks: []Check{
				{Kind: CheckListRelational, Key: "lab", Type: "lab"},
				{Kind: CheckFullRelational, Key: "target", Type: "antibodyTarget", Field: "target"},
				{Kind: CheckProtocol, Key: "validation", Category: "antibody"},
			},
		},
		"lab": {
			Checks: []Check{
				{Kind: CheckListRelational, Key: "organism", Type: "organism"},
				{Kind: CheckRelational, Key: "grantPi", Type: "grant"},
			},
		},
		"strain": {
			Checks: []Check{
				{Kind: CheckRelational, Key: "organism", Type: "organism"},
				{Kind: CheckProtocol, Key: "protocol", Category: "strain"},
			},
		},
		"tissue": {
			Checks: []Check{
				{Kind: CheckRelational, Key: "organism", Type: "organism"},
			},
		},
		"age": {
			Checks: []Check{
				{Kind: CheckRelational, Key: "organism", Type: "organism"},
			},
		},
	}
}
