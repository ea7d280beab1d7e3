package request

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
)

// Validate options shared by the CLI flags and the HTTP query string.
type ValidateRequest struct {
	Source     string `json:"source"`      // name recorded with the run
	Collect    bool   `json:"collect"`     // report every issue instead of the first
	StrictOnly bool   `json:"strict_only"` // drop advisory issues
	Format     Format `json:"-"`
}

// ParseValidateQuery reads ?source=&collect=&strict_only=&format= . The
// format defaults to JSON.
func ParseValidateQuery(q url.Values) (ValidateRequest, error) {
	req := ValidateRequest{Source: q.Get("source"), Format: FormatJSON}
	if req.Source == "" {
		req.Source = "request"
	}

	var err error
	if req.Collect, err = parseBool(q, "collect"); err != nil {
		return req, err
	}
	if req.StrictOnly, err = parseBool(q, "strict_only"); err != nil {
		return req, err
	}
	if name := q.Get("format"); name != "" {
		if req.Format, err = ParseFormat(name); err != nil {
			return req, err
		}
	}
	return req, nil
}

func parseBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s need to be bool-like string", key)
	}
	return b, nil
}

// Apply narrows a full report the way the request asks. Without Collect
// only the first remaining issue is kept.
func (r ValidateRequest) Apply(report cv.Report) cv.Report {
	if r.StrictOnly {
		report = report.StrictOnly()
	}
	if !r.Collect && len(report.Issues) > 1 {
		report.Issues = report.Issues[:1]
	}
	return report
}
