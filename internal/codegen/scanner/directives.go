package scanner

import (
	"regexp"
	"strings"
)

// Directives are the mtlswift comments attached to an entry point.
//
//	// mtlswift:swiftName: BlitEncoder
//	// mtlswift:fragment: fBlit
//	// mtlswift:type: source: MTLTexture?
//	// mtlswift:access: internal
type Directives struct {
	SwiftName string            `json:"swiftName,omitempty"`
	Fragment  string            `json:"fragment,omitempty"`
	Access    string            `json:"access,omitempty"`
	Types     map[string]string `json:"types,omitempty"` // parameter name -> Swift type, may end in "?"
}

const directivePrefix = "mtlswift:"

// directivePattern matches: mtlswift:<key>: <value>
var directivePattern = regexp.MustCompile(`^mtlswift:\s*(\w+)\s*:\s*(\S.*?)\s*$`)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// swiftTypePattern accepts simple and dotted Swift type names with optional
// generic arguments and a trailing optional marker.
var swiftTypePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*(<[A-Za-z0-9_.,\s<>]+>)?\??$`)

func isDirective(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), directivePrefix)
}

// apply parses one directive comment into d.
func (d *Directives) apply(tok Token) *ParseError {
	text := strings.TrimSpace(tok.Lexeme)
	m := directivePattern.FindStringSubmatch(text)
	if m == nil {
		return errorAt(tok, "malformed directive %q (expected \"mtlswift:<key>: <value>\")", text)
	}
	key, value := m[1], m[2]

	switch key {
	case "swiftName":
		if !identPattern.MatchString(value) {
			return errorAt(tok, "swiftName %q is not a valid identifier", value)
		}
		d.SwiftName = value
	case "fragment":
		if !identPattern.MatchString(value) {
			return errorAt(tok, "fragment %q is not a valid identifier", value)
		}
		d.Fragment = value
	case "access":
		if value != "public" && value != "internal" {
			return errorAt(tok, "access must be public or internal, got %q", value)
		}
		d.Access = value
	case "type":
		name, typ, ok := strings.Cut(value, ":")
		name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
		if !ok || !identPattern.MatchString(name) || !swiftTypePattern.MatchString(typ) {
			return errorAt(tok, "malformed type directive %q (expected \"<parameter>: <SwiftType>\")", value)
		}
		if d.Types == nil {
			d.Types = make(map[string]string)
		}
		d.Types[name] = typ
	default:
		return errorAt(tok, "unknown directive %q", key)
	}
	return nil
}

// typeOverride returns the Swift type for a parameter and whether it is
// wrapped as optional.
func (d *Directives) typeOverride(param string) (typeName string, optional, ok bool) {
	t, ok := d.Types[param]
	if !ok {
		return "", false, false
	}
	if strings.HasSuffix(t, "?") {
		return strings.TrimSuffix(t, "?"), true, true
	}
	return t, false, true
}
