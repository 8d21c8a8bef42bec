package scanner

// ConstantType is the declared Metal type of a function constant.
type ConstantType string

const (
	ConstantBool    ConstantType = "bool"
	ConstantChar    ConstantType = "char"
	ConstantUChar   ConstantType = "uchar"
	ConstantShort   ConstantType = "short"
	ConstantUShort  ConstantType = "ushort"
	ConstantInt     ConstantType = "int"
	ConstantUInt    ConstantType = "uint"
	ConstantHalf    ConstantType = "half"
	ConstantFloat   ConstantType = "float"
	ConstantUShort2 ConstantType = "ushort2" // two packed 16-bit unsigned values
)

// constantScalars maps Metal scalar spellings (including aliases) to their canonical name.
var constantScalars = map[string]ConstantType{
	"bool":     ConstantBool,
	"char":     ConstantChar,
	"int8_t":   ConstantChar,
	"uchar":    ConstantUChar,
	"uint8_t":  ConstantUChar,
	"short":    ConstantShort,
	"int16_t":  ConstantShort,
	"ushort":   ConstantUShort,
	"uint16_t": ConstantUShort,
	"int":      ConstantInt,
	"int32_t":  ConstantInt,
	"uint":     ConstantUInt,
	"uint32_t": ConstantUInt,
	"half":     ConstantHalf,
	"float":    ConstantFloat,
}

// FunctionConstant is a `constant T name [[function_constant(i)]];` declaration.
type FunctionConstant struct {
	Name  string       `json:"name"`
	Type  ConstantType `json:"type"`
	Index int          `json:"index"`
}

// Scalar returns the scalar part of the type and its vector width (1 for scalars).
func (t ConstantType) Scalar() (ConstantType, int) {
	s := string(t)
	if n := len(s); n > 1 {
		switch s[n-1] {
		case '2', '3', '4':
			if base, ok := constantScalars[s[:n-1]]; ok {
				return base, int(s[n-1] - '0')
			}
		}
	}
	return t, 1
}

// parseConstantType resolves a Metal type spelling. Vector forms of every
// scalar (e.g. "float3", "ushort2") are accepted.
func parseConstantType(spelling string) (ConstantType, bool) {
	if t, ok := constantScalars[spelling]; ok {
		return t, true
	}
	n := len(spelling)
	if n < 2 {
		return "", false
	}
	switch spelling[n-1] {
	case '2', '3', '4':
		base, ok := constantScalars[spelling[:n-1]]
		if !ok {
			return "", false
		}
		return ConstantType(string(base) + spelling[n-1:]), true
	}
	return "", false
}
