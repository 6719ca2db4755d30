package filter

import (
	"fmt"
	"regexp"

	"github.com/tzlog/tzlog/core"
)

// Pattern is a compiled matcher over a string. Matching is a substring
// search; callers anchor explicitly when they need full-string matches.
type Pattern struct {
	re *regexp.Regexp
}

// NewRegex compiles a case-sensitive regular expression pattern.
func NewRegex(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", expr, err)
	}
	return &Pattern{re: re}, nil
}

// NewKeyword compiles a case-insensitive literal keyword matcher.
// Regex metacharacters in the keyword are quoted.
func NewKeyword(word string) *Pattern {
	return &Pattern{re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))}
}

// newPattern compiles expr as a regex, optionally case-insensitive.
func newPattern(expr string, caseInsensitive bool) (*Pattern, error) {
	if caseInsensitive {
		expr = `(?i)` + expr
	}
	return NewRegex(expr)
}

// Match reports whether the pattern occurs anywhere in s.
func (p *Pattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// String returns the underlying expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Rule combines up to four optional criteria, all of which must pass
// for a record to be accepted:
//
//  1. Include: the message must match this pattern.
//  2. Exclude: the message must NOT match this pattern.
//  3. File: the originating file path must match this pattern.
//  4. ExactLevel: the severity must equal this exact value
//     (not a threshold comparison).
//
// Absent criteria are vacuously satisfied; a nil Rule accepts everything.
type Rule struct {
	Include    *Pattern
	Exclude    *Pattern
	File       *Pattern
	ExactLevel *core.Level
}

// Spec describes a Rule in configuration form. Empty pattern strings
// mean the criterion is unset. CaseInsensitive applies to all three
// patterns; the default is case-sensitive regex matching. Callers that
// want simple keyword filtering set CaseInsensitive or build the Rule
// directly with NewKeyword patterns.
type Spec struct {
	Include         string
	Exclude         string
	File            string
	CaseInsensitive bool
	ExactLevel      *core.Level
}

// Compile builds a Rule from a Spec. A zero Spec yields a nil Rule.
func Compile(spec Spec) (*Rule, error) {
	if spec.Include == "" && spec.Exclude == "" && spec.File == "" && spec.ExactLevel == nil {
		return nil, nil
	}

	r := &Rule{ExactLevel: spec.ExactLevel}

	var err error
	if spec.Include != "" {
		if r.Include, err = newPattern(spec.Include, spec.CaseInsensitive); err != nil {
			return nil, err
		}
	}
	if spec.Exclude != "" {
		if r.Exclude, err = newPattern(spec.Exclude, spec.CaseInsensitive); err != nil {
			return nil, err
		}
	}
	if spec.File != "" {
		if r.File, err = newPattern(spec.File, spec.CaseInsensitive); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Accepts reports whether the record passes all criteria.
func (r *Rule) Accepts(rec *core.Record) bool {
	if r == nil {
		return true
	}
	if r.Include != nil && !r.Include.Match(rec.Message) {
		return false
	}
	if r.Exclude != nil && r.Exclude.Match(rec.Message) {
		return false
	}
	if r.File != nil && !r.File.Match(rec.Caller.File) {
		return false
	}
	if r.ExactLevel != nil && rec.Level != *r.ExactLevel {
		return false
	}
	return true
}
