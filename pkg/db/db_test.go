package db

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
)

const cvText = `term cellType
tag CELLTYPE
type typeOfTerm
description Cell lines and primary cells
requiredVars term,tag,type,organism

term GM12878
tag GM12878
type Cell Line
organism human
tier 1
color 153,38,0

term K562
tag K562
type Cell Line
organism human
tier 1
karyotype cancer

term HeLa-S3
tag HELAS3
type Cell Line
organism human
tier 2.5
`

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "racv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func survey(t *testing.T, text string) *Inventory {
	t.Helper()
	f, err := cv.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return Survey(f)
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"vendorId":     "vendor_id",
		"term":         "term",
		"requiredVars": "required_vars",
		"labPiFull":    "lab_pi_full",
	}
	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), in)
	}
	assert.Equal(t, "cellType", TypeSymbol("Cell Line"))
	assert.Equal(t, "antibody", TypeSymbol("Antibody"))
	assert.Equal(t, "lab", TypeSymbol("lab"))
}

func TestFieldValType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   ValType
	}{
		{"unsigned", []string{"1", "22"}, ValUnsigned},
		{"int", []string{"1", "-3"}, ValInt},
		{"float", []string{"1", "2.5", "-1e3"}, ValFloat},
		{"string", []string{"1", "abc"}, ValString},
		{"long", []string{strings.Repeat("x", LongStringSize+1)}, ValLongString},
		{"none", nil, ValString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Field{uniq: make(map[string]int)}
			for _, v := range tt.values {
				f.observe(v)
			}
			assert.Equal(t, tt.want, f.ValType())
		})
	}
}

func TestSurvey(t *testing.T) {
	inv := survey(t, cvText)
	require.Len(t, inv.Types, 2)

	cells, ok := inv.Type("Cell Line")
	require.True(t, ok)
	assert.Equal(t, "cellType", cells.Symbol)
	assert.Equal(t, 3, cells.Count)
	assert.Equal(t, "Cell lines and primary cells", cells.Description)

	byName := map[string]*Field{}
	for _, f := range cells.Fields {
		byName[f.Name] = f
	}
	assert.Equal(t, ValFloat, byName["tier"].ValType())
	assert.Equal(t, 2, byName["tier"].Unique())
	assert.True(t, cells.Optional(byName["karyotype"]))
	assert.False(t, cells.Optional(byName["organism"]))

	tot, ok := inv.Type("typeOfTerm")
	require.True(t, ok)
	assert.Equal(t, "NoTypeDescription", tot.Description)

	var buf bytes.Buffer
	require.NoError(t, inv.WriteStats(&buf))
	assert.Contains(t, buf.String(), "3 Cell Line\n")
	assert.Contains(t, buf.String(), "    tier count 3, unique 2, float 3, int 2, unsigned 2, type float\n")
}

func TestExportCV(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	inv := survey(t, cvText)

	require.NoError(t, s.ExportCV(ctx, inv))
	// exporting twice replaces rather than duplicates
	require.NoError(t, s.ExportCV(ctx, inv))

	types, err := s.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{
		{Name: "typeOfTerm", Symbol: "typeOfTerm", Count: 1},
		{Name: "Cell Line", Symbol: "cellType", Count: 3},
	}, types)

	values, err := s.TermValues(ctx, "cellType", "K562")
	require.NoError(t, err)
	assert.Equal(t, "cancer", values["karyotype"])
	assert.Equal(t, "human", values["organism"])

	_, err = s.TermValues(ctx, "cellType", "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	cols, err := s.FieldColumns(ctx, "Cell Line")
	require.NoError(t, err)
	assert.Equal(t, []string{"term", "tag", "type", "color", "organism", "tier", "karyotype"}, cols)
}

func TestRunArchive(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	report := cv.Report{
		Issues: []cv.Issue{
			{Stanza: "K562", Type: "Cell Line", Kind: cv.MissingKey, Key: "sex", Message: "missing required key sex", Strict: true},
			{Stanza: "K562", Type: "Cell Line", Kind: cv.ExtraKey, Key: "volume", Value: "11", Message: "extraneous key volume"},
		},
		MissingTypes: []string{"tier"},
	}
	run, err := s.SaveRun(ctx, "cv.ra", report)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.IssueCount)
	assert.Equal(t, 1, run.StrictCount)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "cv.ra", got.Source)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, report, got.Report)

	_, err = s.GetRun(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
