package mdb

import (
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/encode"
	"go.uber.org/zap"
)

// Experiment is the set of stanzas sharing one expId, in file order.
type Experiment struct {
	ID      string
	Stanzas []*Stanza

	expVars  []string
	registry *encode.Registry
	dataType lazy[*encode.DataType]
}

// NormalStanzas leaves out revoked stanzas.
func (e *Experiment) NormalStanzas() []*Stanza {
	out := make([]*Stanza, 0, len(e.Stanzas))
	for _, s := range e.Stanzas {
		if !s.IsRevoked() {
			out = append(out, s)
		}
	}
	return out
}

// DataType is the data type every normal stanza declares. It is absent when
// they disagree, when one of them declares none, or when the name is unknown
// to the registry.
func (e *Experiment) DataType() (encode.DataType, bool) {
	dt, _ := e.dataType.get(func() (*encode.DataType, error) {
		names := make([]string, 0, len(e.Stanzas))
		for _, s := range e.NormalStanzas() {
			names = append(names, s.DataTypeName())
		}
		name, ok := unify(names)
		if !ok {
			return nil, nil
		}
		return lookupDataType(e.registry, name, zap.String("exp_id", e.ID)), nil
	})
	if dt == nil {
		return encode.DataType{}, false
	}
	return *dt, true
}

// Title is the experimental-variable title shared by every normal stanza.
func (e *Experiment) Title() (string, bool) {
	titles := make([]string, 0, len(e.Stanzas))
	for _, s := range e.NormalStanzas() {
		titles = append(titles, s.Title(e.expVars))
	}
	return unify(titles)
}

func lookupDataType(reg *encode.Registry, name string, fields ...zap.Field) *encode.DataType {
	dt, err := reg.DataType(name)
	if err != nil {
		logger.Warn("Unknown data type", append(fields, zap.String("data_type", name))...)
		return nil
	}
	return &dt
}

// unify returns the value all members share. Empty strings stand for a
// member without a value; any such member, any disagreement, or no members
// at all gives false.
func unify(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	first := values[0]
	for _, v := range values {
		if v == "" || v != first {
			return "", false
		}
	}
	return first, true
}

// lazy memoizes a computation on first use.
type lazy[T any] struct {
	done bool
	val  T
	err  error
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	if !l.done {
		l.val, l.err = compute()
		l.done = true
	}
	return l.val, l.err
}
