package swift

import (
	"fmt"

	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

var scalarTypes = map[scanner.ConstantType]string{
	scanner.ConstantBool:   "Bool",
	scanner.ConstantChar:   "Int8",
	scanner.ConstantUChar:  "UInt8",
	scanner.ConstantShort:  "Int16",
	scanner.ConstantUShort: "UInt16",
	scanner.ConstantInt:    "Int32",
	scanner.ConstantUInt:   "UInt32",
	scanner.ConstantHalf:   "Float16",
	scanner.ConstantFloat:  "Float",
}

// constantSwiftType maps a function constant type to the Swift type of the
// initializer argument that supplies its value.
func constantSwiftType(t scanner.ConstantType) (string, error) {
	if t == scanner.ConstantUShort2 {
		return "vector_ushort2", nil
	}
	base, width := t.Scalar()
	scalar, ok := scalarTypes[base]
	if !ok {
		return "", fmt.Errorf("no Swift type for function constant type %q", t)
	}
	if width == 1 {
		return scalar, nil
	}
	return fmt.Sprintf("SIMD%d<%s>", width, scalar), nil
}
