package extract

import (
	"regexp"
	"strings"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// callRe matches an identifier, optionally qualified through '.' or '::'
	// segments, immediately followed by an opening parenthesis.
	callRe = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)*(?:::[a-zA-Z_][a-zA-Z0-9_]*)*)\s*\(`)

	// indentHeaderRe matches a leading indentation-style declaration header.
	indentHeaderRe = regexp.MustCompile(`^\s*def\s+[a-zA-Z_][a-zA-Z0-9_]*\s*\([^)]*\)\s*:`)
)

// RemoveComments strips block comments and then line comments. It works on
// the raw text, so comment markers inside string literals are stripped too.
func RemoveComments(content string) string {
	content = blockCommentRe.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if pos := strings.Index(line, "//"); pos >= 0 {
			lines[i] = line[:pos]
		}
	}
	return strings.Join(lines, "\n")
}

// ExtractCalls returns the names called from body, deduplicated in the order
// first seen. The declaration header is skipped so it is not mistaken for a
// call: for an indentation-style body everything through the header's ':',
// otherwise everything before the first '{'. A qualified call such as
// obj.method( yields both "obj.method" and "method".
func ExtractCalls(body string) []string {
	clean := skipHeader(RemoveComments(body))

	var result []string
	seen := make(map[string]bool)
	add := func(name string) {
		if seen[name] || len(name) <= 1 || IsReserved(name) {
			return
		}
		seen[name] = true
		result = append(result, name)
	}

	for _, m := range callRe.FindAllStringSubmatch(clean, -1) {
		full := m[1]
		add(full)
		if last := lastSegment(full); last != full {
			add(last)
		}
	}
	return result
}

// skipHeader drops the declaration header from a body. Bodies with neither
// header form are returned unchanged.
func skipHeader(body string) string {
	if loc := indentHeaderRe.FindStringIndex(body); loc != nil {
		return body[loc[1]:]
	}
	if brace := strings.IndexByte(body, '{'); brace != -1 {
		return body[brace:]
	}
	return body
}

// lastSegment returns the part after the final '.' if name contains one,
// otherwise the part after the final '::', otherwise name itself.
func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
