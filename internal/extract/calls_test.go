package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for CallExtractor:
// - Block and line comments are removed before scanning
// - The declaration header is never scanned: up to the first brace, or
//   through the ':' of an indentation-style header
// - A dict literal in an indentation-style body is not taken as the opener
// - Qualified calls register both the full form and the last segment
// - Reserved words and one-character names are dropped
// - Results are deduplicated in first-seen order
// - Comment markers inside strings are stripped (known limitation)
// - Bodies with no header form are scanned whole

func TestExtractCalls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "worked example",
			body: "main(){ return add(1,2); }",
			want: []string{"add"},
		},
		{
			name: "header is skipped",
			body: "int compute(int a) { return helper(a); }",
			want: []string{"helper"},
		},
		{
			name: "comments removed",
			body: "f() {\n /* hidden(); \n more() */ shown();\n // gone();\n kept(); // trailing();\n}",
			want: []string{"shown", "kept"},
		},
		{
			name: "qualified calls",
			body: "f() { obj.method(1); ns::util(2); a.b.c(3); }",
			want: []string{"obj.method", "method", "ns::util", "util", "a.b.c", "c"},
		},
		{
			name: "reserved and short names dropped",
			body: "f() { x(); max(1, 2); Sin(a); if (ok) {} valid(); }",
			want: []string{"valid"},
		},
		{
			name: "deduplicated in first-seen order",
			body: "f() { b2(); a1(); b2(); obj.a1(); }",
			want: []string{"b2", "a1", "obj.a1"},
		},
		{
			name: "comment markers in strings are not protected",
			body: "f() {\n say(\"see // note\"); real();\n}",
			want: []string{"say"},
		},
		{
			name: "indentation header is skipped",
			body: "def greet(name):\n    return build(name)\n",
			want: []string{"build"},
		},
		{
			name: "dict literal does not hide earlier calls",
			body: "def f(x):\n    y = helper(x)\n    d = {'k': y}\n    return wrap(d)\n",
			want: []string{"helper", "wrap"},
		},
		{
			name: "no header scans everything",
			body: "greet(name) + build(name)",
			want: []string{"greet", "build"},
		},
		{
			name: "whitespace before parenthesis",
			body: "f() { spaced  (1); }",
			want: []string{"spaced"},
		},
		{
			name: "no calls",
			body: "f() { return a + b; }",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCalls(tt.body))
		})
	}
}

func TestRemoveComments(t *testing.T) {
	t.Parallel()

	in := "a /* one\ntwo */ b\nc // d\n/* x */ /* y */e"
	assert.Equal(t, "a  b\nc \n e", RemoveComments(in))
}

func TestLastSegment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "method", lastSegment("obj.method"))
	assert.Equal(t, "util", lastSegment("ns::util"))
	assert.Equal(t, "b::c", lastSegment("a.b::c"))
	assert.Equal(t, "plain", lastSegment("plain"))
}
