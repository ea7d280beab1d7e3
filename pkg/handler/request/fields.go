package request

import "fmt"

// Format selects how a validation report is written.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "text"
	}
}

func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatText, fmt.Errorf("unknown format %q (want text, json or html)", name)
	}
}
