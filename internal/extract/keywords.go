package extract

import "strings"

// reservedWords are never treated as function names or call targets.
// Shading-language keywords and built-ins, JavaScript keywords and a few
// common globals. Matching is case-insensitive.
var reservedWords = newWordSet(
	"if", "else", "for", "while", "do", "switch", "case", "default", "break",
	"continue", "return", "discard", "struct", "uniform", "varying", "attribute",
	"const", "in", "out", "inout", "float", "int", "void", "bool", "vec2", "vec3",
	"vec4", "mat2", "mat3", "mat4", "sampler2D", "samplerCube", "gl_Position",
	"gl_FragColor", "texture2D", "texture", "normalize", "length", "dot", "cross",
	"pow", "exp", "log", "exp2", "log2", "sqrt", "inversesqrt", "abs", "sign",
	"floor", "ceil", "fract", "mod", "min", "max", "clamp", "mix", "step",
	"smoothstep", "sin", "cos", "tan", "asin", "acos", "atan", "radians", "degrees",
	"console", "window", "document", "function", "var", "let", "class",
	"new", "this", "super", "typeof", "instanceof", "delete", "async", "await",
	"try", "catch", "finally", "throw", "import", "export", "require", "module",
)

// primitiveTypes are return-type spellings recognized by the typed-signature
// template. When the leading token is one of these, the token after it is the
// function name. Case-sensitive.
var primitiveTypes = map[string]bool{
	"void": true, "int": true, "float": true, "double": true, "bool": true, "uint": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"sampler2D": true, "samplerCube": true,
}

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// IsReserved reports whether name is a reserved word, ignoring case.
func IsReserved(name string) bool {
	_, ok := reservedWords[strings.ToLower(name)]
	return ok
}

// IsPrimitiveType reports whether token is a recognized primitive return type.
func IsPrimitiveType(token string) bool {
	return primitiveTypes[token]
}
