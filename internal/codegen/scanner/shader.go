package scanner

import "fmt"

// Stage is the pipeline phase a shader function runs in.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageKernel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageKernel:
		return "kernel"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ResourceKind is the kind of resource a parameter binds.
type ResourceKind int

const (
	ResourceBuffer ResourceKind = iota
	ResourceTexture
	ResourceSampler
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceBuffer:
		return "buffer"
	case ResourceTexture:
		return "texture"
	case ResourceSampler:
		return "sampler"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

func (k ResourceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// HostTypeName is the Swift type a resource of this kind is bound as.
func (k ResourceKind) HostTypeName() string {
	switch k {
	case ResourceTexture:
		return "MTLTexture"
	case ResourceSampler:
		return "MTLSamplerState"
	default:
		return "MTLBuffer"
	}
}

// Parameter is a bindable argument of a shader entry point.
type Parameter struct {
	Name       string       `json:"name"`
	TypeName   string       `json:"typeName"` // Swift type without optional marker, e.g. "MTLBuffer"
	Kind       ResourceKind `json:"kind"`
	Stage      Stage        `json:"stage"`
	Index      int          `json:"index"`
	IsOptional bool         `json:"isOptional"`
}

// Shader is one entry point declared in a Metal source file.
type Shader struct {
	Kind              Stage              `json:"kind"`
	Name              string             `json:"name"`
	Parameters        []Parameter        `json:"parameters"`
	FunctionConstants []FunctionConstant `json:"functionConstants"`
	Directives        Directives         `json:"directives"`
	Line              int                `json:"line"`
}

// File holds everything harvested from a single Metal source.
type File struct {
	Path      string             `json:"path"`
	Shaders   []Shader           `json:"shaders"`
	Constants []FunctionConstant `json:"constants"` // all function constants, in declaration order
}

// ShadersOfKind returns the shaders of the given stage in declaration order.
func (f *File) ShadersOfKind(kind Stage) []Shader {
	var out []Shader
	for _, s := range f.Shaders {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
