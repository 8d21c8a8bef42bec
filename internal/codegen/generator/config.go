package generator

import (
	"fmt"
	"runtime"

	"github.com/Alia5/mtlgen/internal/codegen/meta"
)

// PairingMode selects how a vertex shader finds its fragment shader when no
// fragment directive is present.
type PairingMode string

const (
	PairByPrefix PairingMode = "prefix" // vMain -> fMain
	PairBySuffix PairingMode = "suffix" // mainVertex -> mainFragment
	PairNone     PairingMode = "none"   // directives only
)

// PairingScope selects which fragment shaders a vertex shader may pair with.
type PairingScope string

const (
	ScopeFile PairingScope = "file"
	ScopeAll  PairingScope = "all"
)

// Pairing configures the vertex/fragment matching rule.
type Pairing struct {
	Mode          PairingMode  `json:"mode" yaml:"mode" toml:"mode"`
	VertexAffix   string       `json:"vertexAffix" yaml:"vertexAffix" toml:"vertexAffix"`
	FragmentAffix string       `json:"fragmentAffix" yaml:"fragmentAffix" toml:"fragmentAffix"`
	Scope         PairingScope `json:"scope" yaml:"scope" toml:"scope"`
}

// Config controls a generation run.
type Config struct {
	AccessLevel meta.AccessLevel
	PixelFormat string
	Pairing     Pairing
	// Jobs bounds the number of files processed at once. Zero means NumCPU.
	Jobs int
	// Combined means every unit ends up in one output file, so generated type
	// names must be unique across the whole batch instead of per file.
	Combined bool
}

// withDefaults fills unset fields and rejects unknown enum values.
func (c Config) withDefaults() (Config, error) {
	switch c.AccessLevel {
	case "":
		c.AccessLevel = meta.AccessPublic
	case meta.AccessPublic, meta.AccessInternal:
	default:
		return c, fmt.Errorf("unknown access level %q (expected public or internal)", c.AccessLevel)
	}
	if c.PixelFormat == "" {
		c.PixelFormat = meta.DefaultPixelFormat
	}
	if c.Jobs <= 0 {
		c.Jobs = runtime.NumCPU()
	}

	p := &c.Pairing
	switch p.Mode {
	case "":
		p.Mode = PairByPrefix
		fallthrough
	case PairByPrefix:
		if p.VertexAffix == "" {
			p.VertexAffix = "v"
		}
		if p.FragmentAffix == "" {
			p.FragmentAffix = "f"
		}
	case PairBySuffix:
		if p.VertexAffix == "" {
			p.VertexAffix = "Vertex"
		}
		if p.FragmentAffix == "" {
			p.FragmentAffix = "Fragment"
		}
	case PairNone:
	default:
		return c, fmt.Errorf("unknown pairing mode %q (expected prefix, suffix or none)", p.Mode)
	}
	switch p.Scope {
	case "":
		p.Scope = ScopeFile
	case ScopeFile, ScopeAll:
	default:
		return c, fmt.Errorf("unknown pairing scope %q (expected file or all)", p.Scope)
	}
	return c, nil
}
