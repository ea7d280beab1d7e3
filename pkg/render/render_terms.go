package render

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
)

var termsPageTemplate *template.Template

// TermsPageData lists the terms of one vocabulary type.
type TermsPageData struct {
	Type    string
	Columns []string
	Terms   []*cv.Stanza
}

// swatchColor turns a cv.ra "r,g,b" color into a CSS hex color. Anything
// else renders grey.
func swatchColor(rgb string) string {
	parts := strings.Split(rgb, ",")
	if len(parts) != 3 {
		return "#CCCCCC"
	}
	var c [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return "#CCCCCC"
		}
		c[i] = v
	}
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>{{ .Type }} terms</title>
	</head>
	<body>
		<h1>{{ .Type }}</h1>
		<p>{{ len .Terms }} terms.</p>
		<table border="1">
		<tr>
			{{ range .Columns }}<th>{{ . }}</th>{{ end }}
		</tr>
		{{ range $term := .Terms }}
			<tr>
			{{ range $col := $.Columns }}
				{{ if eq $col "color" }}
					<td style="background-color: {{ swatchColor ($term.Value $col) }}">{{ $term.Value $col }}</td>
				{{ else }}
					<td>{{ $term.Value $col }}</td>
				{{ end }}
			{{ end }}
			</tr>
		{{ end }}
		</table>
	</body>
	</html>`

	termsPageTemplate = template.New("terms_page").Funcs(template.FuncMap{
		"swatchColor": swatchColor,
	})
	termsPageTemplate = template.Must(termsPageTemplate.Parse(mainTmpl))
}

// TermColumns collects the field names used by any of terms, in first-seen
// order, skipping duplicate markers.
func TermColumns(terms []*cv.Stanza) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, t := range terms {
		for _, k := range t.Keys() {
			if strings.Contains(k, "__$$") || seen[k] {
				continue
			}
			seen[k] = true
			cols = append(cols, k)
		}
	}
	return cols
}

func RenderTermsPage(w io.Writer, data TermsPageData) error {
	return termsPageTemplate.Execute(w, data)
}
