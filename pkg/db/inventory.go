package db

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
)

// ValType is the column type inferred for a field from every value seen.
type ValType int

const (
	ValString ValType = iota
	ValUnsigned
	ValInt
	ValFloat
	ValLongString
)

// LongStringSize is the longest value a plain string column holds.
const LongStringSize = 255

func (v ValType) String() string {
	switch v {
	case ValUnsigned:
		return "unsigned"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValLongString:
		return "longString"
	default:
		return "string"
	}
}

// Field tallies one field of one stanza type.
type Field struct {
	Name          string
	Column        string
	Count         int
	CountFloat    int
	CountInt      int
	CountUnsigned int
	MaxSize       int
	uniq          map[string]int
}

func (f *Field) Unique() int {
	return len(f.uniq)
}

// ValType picks the narrowest type every observed value fits.
func (f *Field) ValType() ValType {
	switch {
	case f.Count == 0:
		return ValString
	case f.Count == f.CountUnsigned:
		return ValUnsigned
	case f.Count == f.CountInt:
		return ValInt
	case f.Count == f.CountFloat:
		return ValFloat
	case f.MaxSize > LongStringSize:
		return ValLongString
	}
	return ValString
}

func (f *Field) observe(value string) {
	f.Count++
	if isFloat(value) {
		f.CountFloat++
		if isInt(value) {
			f.CountInt++
			if isDigits(value) {
				f.CountUnsigned++
			}
		}
	}
	if len(value) > f.MaxSize {
		f.MaxSize = len(value)
	}
	f.uniq[value]++
}

// StanzaType groups the stanzas declaring one type.
type StanzaType struct {
	Name        string
	Symbol      string
	Description string
	Count       int
	Fields      []*Field
	Terms       []*cv.Stanza
	byName      map[string]*Field
}

// Optional is true when some stanza of the type lacks the field.
func (t *StanzaType) Optional(f *Field) bool {
	return f.Count != t.Count
}

func (t *StanzaType) field(name string) *Field {
	if f, ok := t.byName[name]; ok {
		return f
	}
	f := &Field{Name: name, Column: SnakeCase(name), uniq: make(map[string]int)}
	t.byName[name] = f
	t.Fields = append(t.Fields, f)
	return f
}

// Inventory describes the fields of every stanza type in a vocabulary,
// types and fields in order of first appearance.
type Inventory struct {
	Types  []*StanzaType
	byName map[string]*StanzaType
}

func (inv *Inventory) Type(name string) (*StanzaType, bool) {
	t, ok := inv.byName[name]
	return t, ok
}

// Survey walks the vocabulary and tallies each type's fields. Duplicate
// keys are counted under their base name.
func Survey(f *cv.File) *Inventory {
	inv := &Inventory{byName: make(map[string]*StanzaType)}
	for _, s := range f.Stanzas() {
		name := s.Type()
		t, ok := inv.byName[name]
		if !ok {
			t = &StanzaType{Name: name, Symbol: TypeSymbol(name), byName: make(map[string]*Field)}
			inv.byName[name] = t
			inv.Types = append(inv.Types, t)
		}
		t.Count++
		t.Terms = append(t.Terms, s)
		for _, e := range s.Entries() {
			if e.Passthrough {
				continue
			}
			key := e.Key
			if base, dup := ra.IsDuplicateKey(key); dup {
				key = base
			}
			t.field(key).observe(e.Value)
		}
	}

	for _, t := range inv.Types {
		t.Description = "NoTypeDescription"
		symbol, _ := cv.EffectiveType(t.Name, "human")
		if tot, n := f.TypeOfTerm(symbol); n == 1 && tot.Has("description") {
			t.Description = tot.Value("description")
		}
	}
	return inv
}

// WriteStats prints one line per type followed by its field tallies.
func (inv *Inventory) WriteStats(w io.Writer) error {
	for _, t := range inv.Types {
		if _, err := fmt.Fprintf(w, "%d %s\n", t.Count, t.Name); err != nil {
			return err
		}
		for _, f := range t.Fields {
			_, err := fmt.Fprintf(w, "    %s count %d, unique %d, float %d, int %d, unsigned %d, type %s\n",
				f.Name, f.Count, f.Unique(), f.CountFloat, f.CountInt, f.CountUnsigned, f.ValType())
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// TypeSymbol names the table for a stanza type.
func TypeSymbol(name string) string {
	switch name {
	case "Cell Line":
		return cv.CellType
	case "Antibody":
		return cv.Antibody
	}
	return name
}

// SnakeCase turns thisIsMyVar into this_is_my_var.
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	return isDigits(strings.TrimPrefix(s, "-"))
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
