package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToPascalCase joins the words of s (split on '_', '-' and spaces) with their
// first letters upper-cased. The rest of each word is kept, so camelCase humps
// survive ("vMain" -> "VMain").
func ToPascalCase(s string) string {
	// a Caser is stateful and must not be shared between goroutines
	titler := cases.Title(language.Und, cases.NoLower)
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, word := range words {
		result.WriteString(titler.String(word))
	}
	return result.String()
}

// EncoderTypeName derives the generated wrapper type name for a shader.
// Example: "vBlit" -> "VBlitEncoder", "draw_quad" -> "DrawQuadEncoder".
func EncoderTypeName(shaderName string) string {
	return ToPascalCase(shaderName) + "Encoder"
}

// SwiftIdentifier escapes Swift keywords with backticks.
func SwiftIdentifier(name string) string {
	if isSwiftKeyword(name) {
		return "`" + name + "`"
	}
	return name
}

func isSwiftKeyword(s string) bool {
	keywords := map[string]bool{
		"associatedtype": true, "class": true, "deinit": true, "enum": true, "extension": true,
		"fileprivate": true, "func": true, "import": true, "init": true, "inout": true,
		"internal": true, "let": true, "open": true, "operator": true, "private": true,
		"protocol": true, "public": true, "rethrows": true, "static": true, "struct": true,
		"subscript": true, "typealias": true, "var": true, "break": true, "case": true,
		"continue": true, "default": true, "defer": true, "do": true, "else": true,
		"fallthrough": true, "for": true, "guard": true, "if": true, "in": true,
		"repeat": true, "return": true, "switch": true, "where": true, "while": true,
		"as": true, "catch": true, "false": true, "is": true, "nil": true, "self": true,
		"Self": true, "super": true, "throw": true, "throws": true, "true": true, "try": true,
	}
	return keywords[s]
}
