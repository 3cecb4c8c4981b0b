package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBracketedBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		start   int
		want    string
	}{
		{"balanced", "x f() { a { b } c } tail", 2, "f() { a { b } c }"},
		{"no opening brace", "f();", 0, ""},
		{"unbalanced runs to end", "f() { a { b }", 0, "f() { a { b }"},
		{"brace found after start", "skip { } f() { y }", 9, "f() { y }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bracketedBlock(tt.content, tt.start))
		})
	}
}

func TestIndentedBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"single line", "def f(): pass", "def f(): pass"},
		{"only blank lines after header", "def f():\n\n   \n", "def f():"},
		{
			"stops at dedent",
			"def f():\n    a()\n\n    b()\nnext = 1\n",
			"def f():\n    a()\n\n    b()",
		},
		{
			"deeper lines stay in the block",
			"def f():\n  if x:\n      y()\n  z()\ndef g():\n",
			"def f():\n  if x:\n      y()\n  z()",
		},
		{"runs to end of input", "def f():\n    a()", "def f():\n    a()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, indentedBlock(tt.content, 0))
		})
	}
}
