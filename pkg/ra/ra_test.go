package ra

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labRa = `# cv.ra excerpt

term Myers
tag MYERS
type lab
# hudsonalpha
labInst HudsonAlpha
labPi Myers

term Stam
tag STAM
type lab
labPi Stam
`

func writeRa(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ra")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write ra: %v", err)
	}
	return path
}

func TestReadLineSplitsOnFirstWhitespace(t *testing.T) {
	s := NewStanza()
	s.ReadLine("description   B-lymphocyte, lymphoblastoid")
	s.ReadLine("deprecated")
	s.ReadLine("label\tGM")

	assert.Equal(t, "B-lymphocyte, lymphoblastoid", s.Value("description"))
	v, ok := s.Get("deprecated")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, "GM", s.Value("label"))
}

func TestDuplicateKeysArePreserved(t *testing.T) {
	s := NewStanza()
	_, name, err := s.ReadStanza([]string{"term x", "a 1", "a 2", "a 3"})
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	assert.Equal(t, "1", s.Value("a"))
	assert.Equal(t, "2", s.Value("a__$$0"))
	assert.Equal(t, "3", s.Value("a__$$1"))

	dups := s.Duplicates()
	require.Len(t, dups, 2)
	assert.Equal(t, Duplicate{Key: "a__$$0", Base: "a", Value: "2"}, dups[0])
	assert.Equal(t, Duplicate{Key: "a__$$1", Base: "a", Value: "3"}, dups[1])
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		key  string
		base string
		ok   bool
	}{
		{"lab__$$0", "lab", true},
		{"lab__$$12", "lab", true},
		{"lab", "", false},
		{"lab__$$", "", false},
		{"lab__$$x", "", false},
		{"__$$0", "", false},
	}
	for _, tt := range tests {
		base, ok := IsDuplicateKey(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.base, base, tt.key)
	}
}

func TestReadName(t *testing.T) {
	s := NewStanza()
	name, err := s.ReadName("term Cell Line")
	require.NoError(t, err)
	assert.Equal(t, "Cell Line", name)

	_, err = s.ReadName("term")
	assert.True(t, errors.Is(err, ErrMalformedName))
}

func TestPassthroughRoundTrip(t *testing.T) {
	lines := []string{
		"term GM12878",
		"# lymphoblastoid",
		"tag GM12878",
		"#",
		"type Cell Line",
	}
	s := NewStanza()
	_, _, err := s.ReadStanza(lines)
	require.NoError(t, err)

	entries := s.Entries()
	require.Len(t, entries, 5)
	assert.True(t, entries[1].Passthrough)
	assert.Equal(t, "# lymphoblastoid", entries[1].Value)
	assert.True(t, entries[3].Passthrough)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", s.String())
}

func TestLeadingKeysReorderOnSet(t *testing.T) {
	s := NewStanza(WithLeadingKeys("term", "tag", "type", "label"))
	_, _, err := s.ReadStanza([]string{"term K562", "type Cell Line", "description leukemia", "tag K562"})
	require.NoError(t, err)
	assert.Equal(t, []string{"term", "tag", "type", "description"}, s.Keys())

	s.Set("label", "K562")
	s.Set("color", "0,0,0")
	assert.Equal(t, []string{"term", "tag", "type", "label", "color", "description"}, s.Keys())
}

func TestFileRead(t *testing.T) {
	f, err := ReadPath(writeRa(t, labRa))
	require.NoError(t, err)

	assert.Equal(t, []string{"Myers", "Stam"}, f.Names())
	myers, ok := f.Get("Myers")
	require.True(t, ok)
	assert.Equal(t, "HudsonAlpha", myers.Value("labInst"))
	assert.Equal(t, "# hudsonalpha", myers.Entries()[3].Value)

	_, err = f.MustGet("Snyder")
	assert.True(t, errors.Is(err, ErrStanzaNotFound))
}

func TestFileReadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadPath(filepath.Join(t.TempDir(), "nope.ra"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("no trailing newline", func(t *testing.T) {
		_, err := ReadPath(writeRa(t, "term a\ntype lab"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoTrailingNewline))
	})

	t.Run("duplicate stanza", func(t *testing.T) {
		_, err := ReadPath(writeRa(t, "term a\ntype lab\n\nterm a\ntype lab\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateStanza))

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 4, perr.Line)
	})

	t.Run("malformed name", func(t *testing.T) {
		_, err := ReadPath(writeRa(t, "term\ntype lab\n"))
		assert.True(t, errors.Is(err, ErrMalformedName))
	})
}

func TestEmptyFileIsValid(t *testing.T) {
	f := NewRaFile()
	require.NoError(t, f.ReadFrom(strings.NewReader("")))
	assert.Equal(t, 0, f.Len())
}

func TestFilterMap(t *testing.T) {
	f := NewRaFile()
	require.NoError(t, f.ReadFrom(strings.NewReader(labRa)))

	withInst := f.Filter(func(s *Stanza) bool { return s.Has("labInst") })
	require.Len(t, withInst, 1)
	assert.Equal(t, "Myers", withInst[0].Name())

	pis := FilterMap(f, func(s *Stanza) bool { return s.Value("type") == "lab" }, func(s *Stanza) string { return s.Value("labPi") })
	assert.Equal(t, []string{"Myers", "Stam"}, pis)
}

func TestFileStringRoundTrip(t *testing.T) {
	text := "term a\ntype lab\n\nterm b\n# note\ntype lab\n"
	f := NewRaFile()
	require.NoError(t, f.ReadFrom(strings.NewReader(text)))
	assert.Equal(t, text, f.String())
}
