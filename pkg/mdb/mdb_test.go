package mdb

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composite = `metaObject wgEncodeTest
objType composite
expVars cell,antibody,treatment
lab Stam

`

func stanza(name, expID string, extra ...string) string {
	lines := []string{"metaObject " + name, "objType table", "expId " + expID, "tableName " + name}
	lines = append(lines, extra...)
	return strings.Join(lines, "\n") + "\n\n"
}

func parse(t *testing.T, text string) *File {
	t.Helper()
	f, err := Parse(strings.NewReader(text), nil)
	require.NoError(t, err)
	return f
}

func TestCompositeStanza(t *testing.T) {
	f := parse(t, composite+stanza("a", "1"))
	c, err := f.CompositeStanza()
	require.NoError(t, err)
	assert.Equal(t, "wgEncodeTest", c.Name())

	name, err := f.Name()
	require.NoError(t, err)
	assert.Equal(t, "wgEncodeTest", name)

	vars, err := f.ExpVars()
	require.NoError(t, err)
	assert.Equal(t, []string{"cell", "antibody", "treatment"}, vars)

	_, err = parse(t, stanza("a", "1")).CompositeStanza()
	assert.True(t, errors.Is(err, ErrNoComposite))

	second := strings.Replace(composite, "wgEncodeTest", "wgEncodeOther", 1)
	_, err = parse(t, composite+second).CompositeStanza()
	assert.True(t, errors.Is(err, ErrMultipleComposite))
}

func TestLeadingKeys(t *testing.T) {
	f := parse(t, "objType table\nzeta 1\nmetaObject x\nalpha 2\n")
	s, ok := f.Get("table")
	require.True(t, ok)
	assert.Equal(t, []string{"metaObject", "objType", "alpha", "zeta"}, s.Keys())
}

func TestExperimentsGroupedByExpID(t *testing.T) {
	f := parse(t, composite+
		stanza("a", "1")+
		stanza("b", "2")+
		stanza("c", "1")+
		"metaObject orphan\nobjType file\n\n")

	exps := f.Experiments()
	assert.Equal(t, []string{"1", "2"}, exps.Keys())
	one, ok := exps.Get("1")
	require.True(t, ok)
	require.Len(t, one.Stanzas, 2)
	assert.Equal(t, "a", one.Stanzas[0].Name())
	assert.Equal(t, "c", one.Stanzas[1].Name())
	assert.Same(t, exps, f.Experiments())
}

func TestExperimentDataTypeUnification(t *testing.T) {
	tests := []struct {
		name      string
		dataTypes []string
		want      string
		ok        bool
	}{
		{"agree", []string{"RnaSeq", "RnaSeq", "RnaSeq"}, "RnaSeq", true},
		{"disagree", []string{"RnaSeq", "RnaSeq", "ChipSeq"}, "", false},
		{"disagree first", []string{"ChipSeq", "RnaSeq", "RnaSeq"}, "", false},
		{"one missing", []string{"RnaSeq", "", "RnaSeq"}, "", false},
		{"first missing", []string{"", "RnaSeq", "RnaSeq"}, "", false},
		{"unknown name", []string{"Bogus", "Bogus"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := composite
			for i, dt := range tt.dataTypes {
				var extra []string
				if dt != "" {
					extra = append(extra, "dataType "+dt)
				}
				text += stanza(string(rune('a'+i)), "1", extra...)
			}
			f := parse(t, text)
			exp, ok := f.Experiments().Get("1")
			require.True(t, ok)

			dt, ok := exp.DataType()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, dt.Name)
				assert.Equal(t, "transcriptomic", dt.Source)
			}
		})
	}
}

func TestRevokedStanzasExcluded(t *testing.T) {
	f := parse(t, composite+
		stanza("a", "1", "dataType RnaSeq", "cell K562", "antibody None")+
		stanza("b", "1", "dataType RnaSeq", "cell K562")+
		stanza("c", "1", "dataType ChipSeq", "cell GM12878", "objStatus revoked - bad antibody")+
		stanza("d", "1", "objStatus replaced"))

	exp, ok := f.Experiments().Get("1")
	require.True(t, ok)
	assert.Len(t, exp.Stanzas, 4)
	require.Len(t, exp.NormalStanzas(), 2)

	dt, ok := exp.DataType()
	require.True(t, ok)
	assert.Equal(t, "RnaSeq", dt.Name)

	title, ok := exp.Title()
	require.True(t, ok)
	assert.Equal(t, "K562", title)

	assert.Equal(t, []string{"c", "d"}, f.Revoked())
	assert.Equal(t, []string{"a", "b"}, f.Tables())
}

func TestTitle(t *testing.T) {
	s := NewStanza()
	_, _, err := s.ReadStanza([]string{"metaObject x", "cell HeLa-S3", "antibody None", "treatment IFNa4h"})
	require.NoError(t, err)
	assert.Equal(t, "HeLa-S3_IFNa4h", s.Title([]string{"cell", "antibody", "treatment"}))
	assert.Equal(t, "", s.Title(nil))

	f := parse(t, composite+
		stanza("a", "1", "cell K562")+
		stanza("b", "1", "cell HepG2"))
	exp, _ := f.Experiments().Get("1")
	_, ok := exp.Title()
	assert.False(t, ok)
}

func TestFileDataType(t *testing.T) {
	f := parse(t, composite+
		stanza("a", "1", "dataType RnaSeq")+
		stanza("b", "2", "dataType RnaSeq")+
		stanza("c", "3", "dataType ChipSeq", "objStatus revoked"))
	dt, ok := f.DataType()
	require.True(t, ok)
	assert.Equal(t, "RnaSeq", dt.Name)

	f = parse(t, composite+
		stanza("a", "1", "dataType RnaSeq")+
		stanza("b", "2", "dataType ChipSeq"))
	_, ok = f.DataType()
	assert.False(t, ok)
}

func TestGeoMapping(t *testing.T) {
	f := parse(t, composite+
		stanza("a", "1", "geoSampleAccession GSM1")+
		stanza("b", "1", "geoSampleAccession GSM1")+
		stanza("c", "2", "geoSampleAccession GSM2")+
		stanza("d", "2", "geoSampleAccession GSM3")+
		stanza("e", "3"))
	assert.Equal(t, map[string]string{"1": "GSM1", "2": Inconsistent}, f.GeoMapping())
}

func TestSummarize(t *testing.T) {
	f := parse(t, composite+
		stanza("a", "1", "dataType RnaSeq", "cell K562")+
		stanza("b", "1", "dataType RnaSeq", "cell K562", "objStatus renamed"))
	sum, err := Summarize(f)
	require.NoError(t, err)
	assert.Equal(t, "wgEncodeTest", sum.Name)
	assert.Equal(t, "RnaSeq", sum.DataType)
	require.Len(t, sum.Experiments, 1)
	assert.Equal(t, ExperimentSummary{ID: "1", Stanzas: 2, Normal: 1, DataType: "RnaSeq", Title: "K562"}, sum.Experiments[0])

	_, err = Summarize(parse(t, stanza("a", "1")))
	assert.True(t, errors.Is(err, ErrNoComposite))
}
