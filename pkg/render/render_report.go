// Render validation reports as an HTML page or plain text

package render

import (
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"go.uber.org/zap"
)

var (
	reportPageTemplate *htmltemplate.Template
	reportTextTemplate *template.Template
)

var reportFuncs = map[string]any{
	"severity": func(strict bool) string {
		if strict {
			return "error"
		}
		return "warning"
	},
}

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Validation run {{ .ID }}</title>
		<style>
		.error { background-color: #f8d7da; }
		.warning { background-color: #fff3cd; }
		</style>
	</head>
	<body>
		<h1>Validation of {{ .Source }}</h1>
		<p><strong>Run:</strong> {{ .ID }}</p>
		<p><strong>Created:</strong> {{ .CreatedAt.Format "2006-01-02 15:04:05 MST" }}</p>
		<p>{{ .IssueCount }} issues, {{ .StrictCount }} strict.</p>
		{{ if .Report.Issues }}
			{{ template "issue_table" .Report }}
		{{ else }}
			<p>No issues found.</p>
		{{ end }}
		{{ with .Report.MissingTypes }}
			<h2>Fields without a typeOfTerm</h2>
			<ul>{{ range . }}<li>{{ . }}</li>{{ end }}</ul>
		{{ end }}
	</body>
	</html>`

	issueTableTmpl := `
	{{ define "issue_table" }}
		<table border="1">
		<tr>
			<th>Stanza</th>
			<th>Type</th>
			<th>Kind</th>
			<th>Key</th>
			<th>Value</th>
			<th>Message</th>
		</tr>
		{{ range .Issues }}
			<tr class="{{ severity .Strict }}">
				<td>{{ .Stanza }}</td>
				<td>{{ .Type }}</td>
				<td>{{ .Kind }}</td>
				<td>{{ .Key }}</td>
				<td>{{ .Value }}</td>
				<td>{{ .Message }}</td>
			</tr>
		{{ end }}
		</table>
	{{ end }}`

	reportPageTemplate = htmltemplate.New("report_page").Funcs(reportFuncs)
	reportPageTemplate = htmltemplate.Must(reportPageTemplate.Parse(mainTmpl))
	reportPageTemplate = htmltemplate.Must(reportPageTemplate.Parse(issueTableTmpl))

	textTmpl := `{{ range .Issues }}{{ severity .Strict }}: {{ .Error }}
{{ end }}{{ with .MissingTypes }}fields without a typeOfTerm: {{ join . }}
{{ end }}`
	reportTextTemplate = template.New("report_text").Funcs(reportFuncs).Funcs(template.FuncMap{
		"join": func(items []string) string { return strings.Join(items, ", ") },
	})
	reportTextTemplate = template.Must(reportTextTemplate.Parse(textTmpl))
}

// RenderReportPage writes the HTML page for an archived run.
func RenderReportPage(w io.Writer, run db.Run) error {
	logger.Debug("Rendering report page", zap.String("run_id", run.ID), zap.Int("issues", run.IssueCount))
	return reportPageTemplate.Execute(w, run)
}

// RenderReportText writes one line per issue followed by the unresolved
// field types, ending with a summary line.
func RenderReportText(w io.Writer, report cv.Report) error {
	if err := reportTextTemplate.Execute(w, report); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d issues, %d strict\n", len(report.Issues), len(report.StrictOnly().Issues))
	return err
}
