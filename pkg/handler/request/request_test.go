package request

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "html"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestParseValidateQuery(t *testing.T) {
	req, err := ParseValidateQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ValidateRequest{Source: "request", Format: FormatJSON}, req)

	req, err = ParseValidateQuery(url.Values{
		"source":      {"cv.ra"},
		"collect":     {"1"},
		"strict_only": {"true"},
		"format":      {"text"},
	})
	require.NoError(t, err)
	assert.Equal(t, ValidateRequest{Source: "cv.ra", Collect: true, StrictOnly: true, Format: FormatText}, req)

	_, err = ParseValidateQuery(url.Values{"strict_only": {"sure"}})
	assert.EqualError(t, err, "strict_only need to be bool-like string")
}

func TestApply(t *testing.T) {
	report := cv.Report{Issues: []cv.Issue{
		{Stanza: "a", Kind: cv.ExtraKey},
		{Stanza: "b", Kind: cv.MissingKey, Strict: true},
		{Stanza: "c", Kind: cv.BlankKey, Strict: true},
	}}

	assert.Len(t, ValidateRequest{}.Apply(report).Issues, 1)
	assert.Equal(t, "a", ValidateRequest{}.Apply(report).Issues[0].Stanza)
	assert.Len(t, ValidateRequest{Collect: true}.Apply(report).Issues, 3)

	strict := ValidateRequest{StrictOnly: true}.Apply(report)
	require.Len(t, strict.Issues, 1)
	assert.Equal(t, "b", strict.Issues[0].Stanza)
	assert.Len(t, report.Issues, 3)
}
