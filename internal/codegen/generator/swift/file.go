package swift

import (
	"sort"
	"strings"

	"github.com/Alia5/mtlgen/internal/codegen/common"
)

// RenderFile joins encoders into one Swift source file: the generated-file
// header, imports, then the encoders ordered by type name.
//
// Function constant insertion (MTLFunctionConstantValues.set(_:at:) and
// set(_:type:at:)) comes from Alloy, which is imported only when needed.
func RenderFile(encoders []Encoder) (string, error) {
	header, err := common.FileHeader()
	if err != nil {
		return "", err
	}

	sorted := make([]Encoder, len(encoders))
	copy(sorted, encoders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TypeName < sorted[j].TypeName })

	usesConstants := false
	for _, e := range sorted {
		usesConstants = usesConstants || e.UsesConstants
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\nimport Metal\n")
	if usesConstants {
		sb.WriteString("import Alloy\n")
	}
	for _, e := range sorted {
		sb.WriteString("\n")
		sb.WriteString(e.Source)
	}
	return sb.String(), nil
}
