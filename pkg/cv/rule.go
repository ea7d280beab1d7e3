package cv

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
)

// The validate field of a typeOfTerm stanza holds one of:
//
//	cv | cv or None | cv or <type> | date | exists | float | integer |
//	list: a,b,c | none | regex: <pattern>
//
// optionally followed by a "# comment".

type RuleKind int

const (
	RuleNone RuleKind = iota
	RuleCV
	RuleDate
	RuleExists
	RuleFloat
	RuleInteger
	RuleList
	RuleRegex
)

var ErrUnknownRule = errors.New("unknown validate rule")

type Rule struct {
	Kind      RuleKind
	AllowNone bool     // cv or None
	AltType   string   // cv or <type>
	Options   []string // list:
	Pattern   *regexp.Regexp
	Raw       string
}

// ParseRule interprets the validate field of a typeOfTerm stanza.
func ParseRule(text string) (Rule, error) {
	raw := strings.TrimSpace(text)

	if rest, ok := cutPrefixFold(raw, "regex:"); ok {
		// patterns may contain '#', so only a whitespace separated comment is dropped
		if i := strings.Index(rest, " #"); i >= 0 {
			rest = rest[:i]
		}
		pattern := strings.TrimSpace(rest)
		// anchored at the start only, like a prefix match
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return Rule{Raw: raw}, fmt.Errorf("%w: bad regex %q: %v", ErrUnknownRule, pattern, err)
		}
		return Rule{Kind: RuleRegex, Pattern: re, Raw: raw}, nil
	}

	body := util.StripComment(raw)
	if rest, ok := cutPrefixFold(body, "list:"); ok {
		return Rule{Kind: RuleList, Options: util.SplitList(rest), Raw: raw}, nil
	}

	switch strings.ToLower(body) {
	case "", "none":
		return Rule{Kind: RuleNone, Raw: raw}, nil
	case "cv":
		return Rule{Kind: RuleCV, Raw: raw}, nil
	case "date":
		return Rule{Kind: RuleDate, Raw: raw}, nil
	case "exists":
		return Rule{Kind: RuleExists, Raw: raw}, nil
	case "float":
		return Rule{Kind: RuleFloat, Raw: raw}, nil
	case "integer":
		return Rule{Kind: RuleInteger, Raw: raw}, nil
	}

	if rest, ok := cutPrefixFold(body, "cv or "); ok {
		alt := strings.TrimSpace(rest)
		if strings.EqualFold(alt, "None") {
			return Rule{Kind: RuleCV, AllowNone: true, Raw: raw}, nil
		}
		return Rule{Kind: RuleCV, AltType: alt, Raw: raw}, nil
	}

	return Rule{Raw: raw}, fmt.Errorf("%w: %q", ErrUnknownRule, raw)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

func (r Rule) allows(value string) bool {
	for _, o := range r.Options {
		if o == value {
			return true
		}
	}
	return false
}
