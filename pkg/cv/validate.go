package cv

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ra"
	"go.uber.org/zap"
)

// Validate checks every stanza of the file and then the cross-stanza vendor
// id rule. Missing field types are reset and recollected.
func (f *File) Validate() Report {
	f.missingTypes = make(map[string]struct{})

	var report Report
	resolved := make(map[string]string)
	for _, s := range f.Stanzas() {
		issues, effType, ok := f.validateStanza(s)
		report.Issues = append(report.Issues, issues...)
		if ok {
			resolved[s.Name()] = effType
		}
	}
	report.Issues = append(report.Issues, f.checkVendorIDs(resolved)...)
	report.MissingTypes = f.MissingTypes()

	logger.Debug("Validated controlled vocabulary",
		zap.String("path", f.Path()),
		zap.Int("stanzas", f.Len()),
		zap.Int("issues", len(report.Issues)),
		zap.Int("missing_types", len(report.MissingTypes)))
	return report
}

// ValidateStanza runs the per-stanza pipeline for one named stanza.
func (f *File) ValidateStanza(name string) (Report, error) {
	s, err := f.MustGet(name)
	if err != nil {
		return Report{}, err
	}
	issues, _, _ := f.validateStanza(s)
	return Report{Issues: issues, MissingTypes: f.MissingTypes()}, nil
}

// validateStanza returns the issues, the effective type and whether the type
// resolved. When it does not, no other check runs.
func (f *File) validateStanza(s *Stanza) ([]Issue, string, bool) {
	v := &stanzaCheck{file: f, stanza: s, typ: s.Type()}

	effType, err := EffectiveType(s.Type(), s.Organism())
	if err != nil {
		v.add(OrganismMismatch, "organism", s.Organism(), true, err.Error())
		return v.issues, "", false
	}

	tot, n := f.TypeOfTerm(effType)
	if tot == nil {
		v.add(InvalidType, "type", s.Type(), true,
			fmt.Sprintf("type %q resolves to %d typeOfTerm stanzas for %q, want exactly 1", s.Type(), n, effType))
		return v.issues, "", false
	}

	rules := f.rules[effType]
	required := tot.requiredVars()
	if !tot.Has("requiredVars") {
		required = rules.Required
	}
	optional := tot.optionalVars()
	if !tot.Has("optionalVars") {
		optional = rules.Optional
	}

	v.checkMandatory(required)
	v.checkExtraneous(required, optional)
	v.checkDuplicates()
	v.checkFieldTypes()
	for _, c := range rules.Checks {
		v.run(c)
	}
	return v.issues, effType, true
}

type stanzaCheck struct {
	file   *File
	stanza *Stanza
	typ    string
	issues []Issue
}

func (v *stanzaCheck) add(kind Kind, key, value string, strict bool, msg string) {
	v.issues = append(v.issues, Issue{
		Stanza:  v.stanza.Name(),
		Type:    v.typ,
		Kind:    kind,
		Key:     key,
		Value:   value,
		Message: msg,
		Strict:  strict,
	})
}

// fieldKeys skips duplicate markers.
func (v *stanzaCheck) fieldKeys() []string {
	var keys []string
	for _, k := range v.stanza.Keys() {
		if _, dup := ra.IsDuplicateKey(k); !dup {
			keys = append(keys, k)
		}
	}
	return keys
}

func (v *stanzaCheck) checkMandatory(required []string) {
	for _, key := range required {
		value, ok := v.stanza.Get(key)
		switch {
		case !ok:
			v.add(MissingKey, key, "", true, fmt.Sprintf("missing required key %s", key))
		case value == "":
			v.add(BlankKey, key, "", true, fmt.Sprintf("required key %s is blank", key))
		}
	}
}

func (v *stanzaCheck) checkExtraneous(required, optional []string) {
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		allowed[k] = true
	}
	isOptional := make(map[string]bool, len(optional))
	for _, k := range optional {
		allowed[k] = true
		isOptional[k] = true
	}

	for _, key := range v.fieldKeys() {
		if !allowed[key] {
			v.add(ExtraKey, key, v.stanza.Value(key), false, fmt.Sprintf("extraneous key %s", key))
			continue
		}
		if isOptional[key] && !contains(required, key) && v.stanza.Value(key) == "" {
			v.add(BlankKey, key, "", false, fmt.Sprintf("optional key %s is blank", key))
		}
	}
}

func (v *stanzaCheck) checkDuplicates() {
	for _, d := range v.stanza.Duplicates() {
		v.add(DuplicateKey, d.Base, d.Value, true, fmt.Sprintf("duplicate key %s (%s)", d.Base, d.Value))
	}
}

// checkFieldTypes applies the validate rule of each field's typeOfTerm
// stanza. Fields without one are collected into the file's missing types.
func (v *stanzaCheck) checkFieldTypes() {
	f := v.file
	for _, key := range v.fieldKeys() {
		value := v.stanza.Value(key)

		matches := f.typeOfTermStanzas(key)
		if len(matches) == 0 {
			f.missingTypes[key] = struct{}{}
			continue
		}
		if value == "" || !matches[0].Has("validate") {
			continue
		}

		rule, err := f.rule(matches[0].Value("validate"))
		if err != nil {
			logger.Warn("Unusable validate rule, skipping field",
				zap.String("field", key), zap.String("rule", rule.Raw), zap.Error(err))
			continue
		}
		v.apply(key, value, rule)
	}
}

func (v *stanzaCheck) apply(key, value string, rule Rule) {
	switch rule.Kind {
	case RuleNone:
	case RuleCV:
		if rule.AllowNone && value == "None" {
			return
		}
		if v.file.hasTerm(key, value) || (rule.AltType != "" && v.file.hasTerm(rule.AltType, value)) {
			return
		}
		v.add(NonmatchKey, key, value, true, fmt.Sprintf("%s (%s) does not match any %s term", key, value, key))
	case RuleDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			v.add(InvalidDate, key, value, true, fmt.Sprintf("%s (%s) is not a YYYY-MM-DD date", key, value))
		}
	case RuleExists:
		path := value
		if !filepath.IsAbs(path) && v.file.baseDir != "" {
			path = filepath.Join(v.file.baseDir, path)
		}
		if !util.PathExists(path) {
			v.add(MissingFile, key, value, true, fmt.Sprintf("%s (%s) does not exist", key, value))
		}
	case RuleFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			v.add(InvalidFloat, key, value, true, fmt.Sprintf("%s (%s) is not a float", key, value))
		}
	case RuleInteger:
		if _, err := strconv.Atoi(value); err != nil {
			v.add(InvalidInt, key, value, true, fmt.Sprintf("%s (%s) is not an integer", key, value))
		}
	case RuleList:
		if !rule.allows(value) {
			v.add(InvalidList, key, value, true,
				fmt.Sprintf("%s (%s) is not one of %s", key, value, strings.Join(rule.Options, ",")))
		}
	case RuleRegex:
		if !rule.Pattern.MatchString(value) {
			v.add(UnmatchedRegex, key, value, true,
				fmt.Sprintf("%s (%s) does not match %s", key, value, rule.Pattern.String()))
		}
	}
}

func (v *stanzaCheck) run(c Check) {
	value, ok := v.stanza.Get(c.Key)
	if !ok || value == "" {
		return
	}
	switch c.Kind {
	case CheckRelational:
		v.checkRelational(c.Key, value, c.Type)
	case CheckListRelational:
		for _, item := range util.SplitList(value) {
			v.checkRelational(c.Key, item, c.Type)
		}
	case CheckFullRelational:
		v.checkFullRelational(c.Key, value, c.Type, c.Field)
	case CheckProtocol:
		v.checkProtocols(c.Key, value, c.Category)
	}
}

func (v *stanzaCheck) checkRelational(key, value, typeName string) {
	if !v.file.hasTerm(typeName, value) {
		v.add(NonmatchKey, key, value, true, fmt.Sprintf("%s (%s) does not match any %s term", key, value, typeName))
	}
}

func (v *stanzaCheck) checkFullRelational(key, value, typeName, field string) {
	found := v.file.Filter(func(s *Stanza) bool {
		return s.isType(typeName) && s.Value(field) == value
	})
	if len(found) == 0 {
		v.add(NonmatchKey, key, value, true, fmt.Sprintf("%s (%s) does not match the %s of any %s", key, value, field, typeName))
	}
}

// checkProtocols expects values like "Stam:Stam_protocol.pdf"; the document
// after the colon must exist under the protocol directory for category.
func (v *stanzaCheck) checkProtocols(key, value, category string) {
	if v.file.protocolPath == "" {
		return
	}
	for _, item := range util.SplitList(value) {
		doc := item
		if i := strings.Index(item, ":"); i >= 0 {
			doc = item[i+1:]
		}
		path := filepath.Join(v.file.protocolPath, category, doc)
		if doc == "" || !util.PathExists(path) {
			v.add(InvalidProtocol, key, item, true, fmt.Sprintf("protocol document %s not found at %s", item, path))
		}
	}
}

func (f *File) hasTerm(typeName, term string) bool {
	for _, s := range f.Stanzas() {
		if s.isType(typeName) && s.Term() == term {
			return true
		}
	}
	return false
}

// checkVendorIDs flags unrelated terms sharing a vendor catalog number.
// Terms are related when one term is a prefix of the other, as with a cell
// line and its treated derivatives.
func (f *File) checkVendorIDs(resolved map[string]string) []Issue {
	var issues []Issue
	seen := make(map[string][]*Stanza)
	for _, s := range f.Stanzas() {
		effType, ok := resolved[s.Name()]
		if !ok || !f.rules[effType].VendorIDs {
			continue
		}
		id := s.Value("vendorId")
		if id == "" {
			continue
		}
		vendorKey := s.Value("vendorName") + "\x00" + id
		for _, other := range seen[vendorKey] {
			if strings.HasPrefix(s.Term(), other.Term()) || strings.HasPrefix(other.Term(), s.Term()) {
				continue
			}
			issues = append(issues, Issue{
				Stanza:  s.Name(),
				Type:    s.Type(),
				Kind:    DuplicateVendorID,
				Key:     "vendorId",
				Value:   id,
				Message: fmt.Sprintf("vendorId %s is also used by unrelated term %s", id, other.Name()),
			})
		}
		seen[vendorKey] = append(seen[vendorKey], s)
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
