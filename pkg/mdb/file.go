package mdb

import (
	"errors"
	"fmt"
	"io"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/encode"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ordered"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
	"go.uber.org/zap"
)

// Inconsistent marks an experiment whose stanzas carry different GEO
// accessions.
const Inconsistent = "Inconsistent"

var (
	ErrNoComposite       = errors.New("no composite stanza")
	ErrMultipleComposite = errors.New("more than one composite stanza")
)

// File is one composite track's metaDb. Derived values are computed on
// first use; the file must not be modified after that.
type File struct {
	*ra.File[*Stanza]

	registry *encode.Registry

	composite   lazy[*Stanza]
	experiments lazy[*ordered.Map[*Experiment]]
	dataType    lazy[*encode.DataType]
}

// New returns an empty metaDb using reg for data type lookups, or the
// embedded registry when reg is nil.
func New(reg *encode.Registry) (*File, error) {
	if reg == nil {
		var err error
		if reg, err = encode.DefaultRegistry(); err != nil {
			return nil, err
		}
	}
	return &File{File: ra.NewFile(NewStanza), registry: reg}, nil
}

func Open(path string, reg *encode.Registry) (*File, error) {
	f, err := New(reg)
	if err != nil {
		return nil, err
	}
	if err := f.Read(path); err != nil {
		return nil, err
	}
	return f, nil
}

func Parse(r io.Reader, reg *encode.Registry) (*File, error) {
	f, err := New(reg)
	if err != nil {
		return nil, err
	}
	if err := f.ReadFrom(r); err != nil {
		return nil, err
	}
	return f, nil
}

// CompositeStanza returns the single stanza with objType composite.
func (f *File) CompositeStanza() (*Stanza, error) {
	return f.composite.get(func() (*Stanza, error) {
		found := f.Filter(func(s *Stanza) bool { return s.ObjType() == ObjComposite })
		switch len(found) {
		case 0:
			return nil, fmt.Errorf("%s: %w", f.Path(), ErrNoComposite)
		case 1:
			return found[0], nil
		default:
			return nil, fmt.Errorf("%s: %w (%d)", f.Path(), ErrMultipleComposite, len(found))
		}
	})
}

// Name is the composite's metaObject.
func (f *File) Name() (string, error) {
	c, err := f.CompositeStanza()
	if err != nil {
		return "", err
	}
	return c.Value("metaObject"), nil
}

// ExpVars lists the composite's experimental variables.
func (f *File) ExpVars() ([]string, error) {
	c, err := f.CompositeStanza()
	if err != nil {
		return nil, err
	}
	return util.SplitList(c.Value("expVars")), nil
}

// Experiments groups the non-composite stanzas by expId in order of first
// appearance. Stanzas without an expId are skipped.
func (f *File) Experiments() *ordered.Map[*Experiment] {
	exps, _ := f.experiments.get(func() (*ordered.Map[*Experiment], error) {
		expVars, err := f.ExpVars()
		if err != nil {
			logger.Debug("No experimental variables, titles unavailable", zap.Error(err))
		}

		grouped := ordered.New[*Experiment]()
		for _, s := range f.Stanzas() {
			if s.ObjType() == ObjComposite {
				continue
			}
			id := s.ExpID()
			if id == "" {
				logger.Debug("Skipping stanza without expId", zap.String("stanza", s.Name()))
				continue
			}
			exp, ok := grouped.Get(id)
			if !ok {
				exp = &Experiment{ID: id, expVars: expVars, registry: f.registry}
				grouped.Set(id, exp)
			}
			exp.Stanzas = append(exp.Stanzas, s)
		}
		return grouped, nil
	})
	return exps
}

// DataType is the data type shared by every experiment with normal stanzas.
func (f *File) DataType() (encode.DataType, bool) {
	dt, _ := f.dataType.get(func() (*encode.DataType, error) {
		var names []string
		for _, exp := range f.Experiments().Values() {
			if len(exp.NormalStanzas()) == 0 {
				continue
			}
			dt, ok := exp.DataType()
			if !ok {
				return nil, nil
			}
			names = append(names, dt.Name)
		}
		name, ok := unify(names)
		if !ok {
			return nil, nil
		}
		return lookupDataType(f.registry, name, zap.String("path", f.Path())), nil
	})
	if dt == nil {
		return encode.DataType{}, false
	}
	return *dt, true
}

// GeoMapping maps each expId to the GEO sample accession its normal stanzas
// were submitted under, or Inconsistent when they differ.
func (f *File) GeoMapping() map[string]string {
	out := make(map[string]string)
	for _, exp := range f.Experiments().Values() {
		for _, s := range exp.NormalStanzas() {
			acc := s.Value("geoSampleAccession")
			if acc == "" {
				continue
			}
			prev, seen := out[exp.ID]
			switch {
			case !seen:
				out[exp.ID] = acc
			case prev != Inconsistent && prev != acc:
				logger.Warn("Inconsistent GEO mapping", zap.String("stanza", s.Name()), zap.String("exp_id", exp.ID))
				out[exp.ID] = Inconsistent
			}
		}
	}
	return out
}

// Tables returns the tableName of every live table stanza.
func (f *File) Tables() []string {
	return ra.FilterMap(f.File,
		func(s *Stanza) bool { return s.ObjType() == ObjTable && !s.IsRevoked() && s.Has("tableName") },
		func(s *Stanza) string { return s.Value("tableName") })
}

// Revoked returns the names of stanzas carrying an objStatus.
func (f *File) Revoked() []string {
	return ra.FilterMap(f.File,
		func(s *Stanza) bool { return s.IsRevoked() },
		func(s *Stanza) string { return s.Name() })
}
