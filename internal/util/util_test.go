package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"term,tag,type # the basics", "term,tag,type"},
		{"  cv or None  ", "cv or None"},
		{"# only a comment", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripComment(tt.in), "input %q", tt.in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"yes", "no", "maybe"}, SplitList(" yes, no ,maybe,"))
	assert.Nil(t, SplitList(""))
}

func TestPathChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.True(t, PathExists(file))
	assert.False(t, PathExists(filepath.Join(dir, "missing")))
}
