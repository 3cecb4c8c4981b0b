package extract

import (
	"strings"
	"unicode"
)

// bracketedBlock returns content[start:] up to and including the brace that
// closes the first '{' at or after start. Braces are counted, so nested
// blocks of any depth are handled. Unbalanced input yields the rest of the
// content; no opening brace yields "".
func bracketedBlock(content string, start int) string {
	open := strings.IndexByte(content[start:], '{')
	if open == -1 {
		return ""
	}
	open += start

	depth := 0
	for i := open; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return content[start:]
}

// indentedBlock returns the header line at start plus every following line
// that belongs to its indentation-delimited block. The base indent is taken
// from the first non-blank line after the header; the block ends before the
// first non-blank line indented less than that.
func indentedBlock(content string, start int) string {
	lines := strings.Split(content[start:], "\n")
	if len(lines) < 2 {
		return lines[0]
	}

	base := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) != "" {
			base = indentWidth(line)
			break
		}
	}
	if base < 0 {
		return lines[0]
	}

	end := 1
	for ; end < len(lines); end++ {
		line := lines[end]
		if strings.TrimSpace(line) != "" && indentWidth(line) < base {
			break
		}
	}
	return strings.Join(lines[:end], "\n")
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
