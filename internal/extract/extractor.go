// Package extract discovers function definitions and call sites in source
// text without parsing it.
//
// Discovery is heuristic and shared across dialects: a small family of
// structural templates recognizes "name, parameter list, body opener" in the
// C/shader, JavaScript and Python conventions. Bodies are then cut out either
// by brace counting or by indentation. Nothing here returns an error: text
// that matches no template simply yields no functions.
package extract

import (
	"regexp"
	"strings"
)

// DefaultMinBodyLength is the trimmed body length a candidate must exceed.
const DefaultMinBodyLength = 10

// Style identifies the lexical convention a template recognizes.
type Style string

const (
	StyleTyped       Style = "typed"       // int add(int a) {
	StyleKeyword     Style = "keyword"     // function add(a) {
	StyleAssignFunc  Style = "assign_func" // add = function(a) {
	StyleIndented    Style = "indented"    // def add(a):
	StyleAssignArrow Style = "assign_arrow"
)

// Candidate is one (name, body) pair found in a file.
type Candidate struct {
	Name  string
	Body  string
	Style Style // template that produced the name
}

// template is a whole-file scan pattern. Patterns with two capture groups are
// typed signatures; the rest capture the name directly.
type template struct {
	style Style
	re    *regexp.Regexp
}

// Templates are tried in this order; each one scans the whole file.
var templates = []template{
	{StyleTyped, regexp.MustCompile(`\b(\w+)\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^)]*\)\s*\{`)},
	{StyleKeyword, regexp.MustCompile(`function\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^)]*\)\s*\{`)},
	{StyleAssignFunc, regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*function\s*\([^)]*\)\s*\{`)},
	{StyleIndented, regexp.MustCompile(`def\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^)]*\)\s*:`)},
	{StyleAssignArrow, regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*\([^)]*\)\s*=>\s*\{`)},
}

// headerKind says how a located header's body is cut out.
type headerKind int

const (
	headerBracket headerKind = iota
	headerIndent
)

// headerTemplates locate the definition of a known name. %s is replaced by the
// quoted name. The first template that matches anywhere in the file wins.
var headerTemplates = []struct {
	pattern string
	kind    headerKind
}{
	{`(?i)\b%s\s*\([^)]*\)\s*\{`, headerBracket},
	{`(?i)def\s+%s\s*\([^)]*\)\s*:`, headerIndent},
	{`(?i)function\s+%s\s*\([^)]*\)\s*\{`, headerBracket},
	{`(?i)%s\s*=\s*function\s*\([^)]*\)\s*\{`, headerBracket},
	{`(?i)%s\s*=\s*\([^)]*\)\s*=>\s*\{`, headerBracket},
}

// FunctionExtractor finds candidate function definitions in one file's text.
// It holds no per-file state and may be reused.
type FunctionExtractor struct {
	minBodyLength int
}

// Option configures a FunctionExtractor.
type Option func(*FunctionExtractor)

// WithMinBodyLength sets the trimmed length a body must exceed to be kept.
func WithMinBodyLength(n int) Option {
	return func(e *FunctionExtractor) {
		e.minBodyLength = n
	}
}

// NewFunctionExtractor creates an extractor with the default body threshold.
func NewFunctionExtractor(opts ...Option) *FunctionExtractor {
	e := &FunctionExtractor{minBodyLength: DefaultMinBodyLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFunctions returns every candidate in content, template by template.
// The same name may appear more than once when several templates match it;
// callers decide which one to keep.
func (e *FunctionExtractor) ExtractFunctions(content string) []Candidate {
	var out []Candidate
	bodies := make(map[string]string) // name -> located body, per call

	for _, t := range templates {
		for _, m := range t.re.FindAllStringSubmatch(content, -1) {
			name := candidateName(m)
			if name == "" || len(name) < 2 || IsReserved(name) {
				continue
			}

			body, seen := bodies[name]
			if !seen {
				body = FindFunctionBody(content, name)
				bodies[name] = body
			}
			if len(strings.TrimSpace(body)) <= e.minBodyLength {
				continue
			}
			out = append(out, Candidate{Name: name, Body: body, Style: t.style})
		}
	}
	return out
}

// candidateName picks the function name out of a template match. For typed
// signatures a leading primitive type means the second identifier is the
// name; any other leading word is taken as the name itself.
func candidateName(m []string) string {
	switch len(m) {
	case 2:
		return m[1]
	case 3:
		if IsPrimitiveType(m[1]) {
			return m[2]
		}
		return m[1]
	}
	return ""
}

// FindFunctionBody locates the definition of name in content and returns its
// text from the header through the end of the body, or "" when no header
// template matches.
func FindFunctionBody(content, name string) string {
	quoted := regexp.QuoteMeta(name)
	for _, h := range headerTemplates {
		re, err := regexp.Compile(strings.Replace(h.pattern, "%s", quoted, 1))
		if err != nil {
			continue
		}
		loc := re.FindStringIndex(content)
		if loc == nil {
			continue
		}
		if h.kind == headerIndent {
			return indentedBlock(content, loc[0])
		}
		return bracketedBlock(content, loc[0])
	}
	return ""
}
