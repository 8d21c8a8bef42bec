package meta

import "github.com/Alia5/mtlgen/internal/codegen/scanner"

// AccessLevel is the visibility of generated declarations.
type AccessLevel string

const (
	AccessPublic   AccessLevel = "public"
	AccessInternal AccessLevel = "internal"
)

// DefaultPixelFormat is the color attachment format used when none is configured.
const DefaultPixelFormat = "bgra8Unorm"

// PipelineDescriptor holds everything needed to emit one render pipeline
// encoder. Shared between the generator orchestrator and the language
// generators; built once per unit and never mutated afterwards.
type PipelineDescriptor struct {
	SourceFile         string
	VertexShaderName   string
	FragmentShaderName string // empty for vertex-only pipelines
	GeneratedTypeName  string
	AccessLevel        AccessLevel
	PixelFormat        string
	Parameters         []scanner.Parameter // vertex parameters first, then fragment
	VertexConstants    []scanner.FunctionConstant
	FragmentConstants  []scanner.FunctionConstant
}

// HasFragment reports whether the pipeline has a fragment function.
func (d *PipelineDescriptor) HasFragment() bool {
	return d.FragmentShaderName != ""
}
