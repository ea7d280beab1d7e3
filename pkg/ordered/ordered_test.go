package ordered

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsInsertionOrder(t *testing.T) {
	m := New[string]()
	m.Set("type", "Cell Line")
	m.Set("term", "GM12878")
	m.Set("tag", "GM12878")
	m.Set("type", "cellType") // overwrite stays in place

	assert.Equal(t, []string{"type", "term", "tag"}, m.Keys())
	assert.Equal(t, []string{"cellType", "GM12878", "GM12878"}, m.Values())
	assert.Equal(t, 3, m.Len())
}

func TestGetMissing(t *testing.T) {
	m := New[int]()
	_, ok := m.Get("nope")
	assert.False(t, ok)

	_, err := m.MustGet("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestPassthroughEntries(t *testing.T) {
	m := New[string]()
	m.Set("a", "1")
	m.Append("# a comment")
	m.Set("b", "2")

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[1].Passthrough)
	assert.Equal(t, "# a comment", entries[1].Value)
}

func TestDelete(t *testing.T) {
	m := New[string]()
	for _, k := range []string{"a", "b", "c"} {
		m.Set(k, k)
	}
	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	v, ok := m.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name  string
		index int
		key   string
		want  []string
	}{
		{"to front", 0, "c", []string{"c", "a", "b", "d"}},
		{"to back", 3, "a", []string{"b", "c", "d", "a"}},
		{"clamped high", 99, "b", []string{"a", "c", "d", "b"}},
		{"clamped low", -4, "d", []string{"d", "a", "b", "c"}},
		{"same place", 1, "b", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New[string]()
			for _, k := range []string{"a", "b", "c", "d"} {
				m.Set(k, k)
			}
			require.NoError(t, m.Reorder(tt.index, tt.key))
			assert.Equal(t, tt.want, m.Keys())
			// index must follow the move
			v, ok := m.Get(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.key, v)
		})
	}

	m := New[string]()
	assert.Error(t, m.Reorder(0, "missing"))
}

func TestSortAndPromote(t *testing.T) {
	m := New[string]()
	m.Set("description", "d")
	m.Append("# keep me here")
	m.Set("type", "Antibody")
	m.Set("label", "l")
	m.Set("tag", "TAG")
	m.Set("term", "CTCF")
	m.Set("antibodyDescription", "x")

	m.Sort()
	m.Promote("term", "tag", "type", "label")

	assert.Equal(t, []string{"term", "tag", "type", "label", "antibodyDescription", "description"}, m.Keys())
	entries := m.Entries()
	assert.True(t, entries[1].Passthrough, "passthrough keeps its slot")
	assert.Equal(t, "# keep me here", entries[1].Value)
}

func TestPromoteSkipsAbsentKeys(t *testing.T) {
	m := New[string]()
	m.Set("objType", "table")
	m.Set("cell", "K562")
	m.Promote("metaObject", "objType")
	assert.Equal(t, []string{"objType", "cell"}, m.Keys())
}
