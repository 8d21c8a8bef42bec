package generator

import (
	"strings"

	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

// fragmentRef is a fragment shader together with the file declaring it.
type fragmentRef struct {
	File   string
	Shader *scanner.Shader
}

func (r fragmentRef) key() string { return r.File + "\x00" + r.Shader.Name }

// Pairer matches vertex shaders with fragment shaders. It is read-only after
// construction and may be shared between workers.
type Pairer struct {
	rule      Pairing
	fragments map[string]fragmentRef
}

// NewPairer indexes the candidate fragment shaders by name. When a name is
// declared more than once the first declaration wins; the shadowed ones are
// returned so the caller can report them.
func NewPairer(rule Pairing, candidates []fragmentRef) (*Pairer, []fragmentRef) {
	p := &Pairer{rule: rule, fragments: make(map[string]fragmentRef, len(candidates))}
	var shadowed []fragmentRef
	for _, c := range candidates {
		if _, dup := p.fragments[c.Shader.Name]; dup {
			shadowed = append(shadowed, c)
			continue
		}
		p.fragments[c.Shader.Name] = c
	}
	return p, shadowed
}

// Match returns the fragment shader paired with vertex, or ok=false for a
// vertex-only pipeline. A fragment directive takes priority over the naming
// rule and must resolve.
func (p *Pairer) Match(file string, vertex *scanner.Shader) (ref fragmentRef, ok bool, err error) {
	if name := vertex.Directives.Fragment; name != "" {
		ref, ok = p.fragments[name]
		if !ok {
			return fragmentRef{}, false, &PairingError{File: file, Vertex: vertex.Name, Fragment: name}
		}
		return ref, true, nil
	}

	name, ok := p.counterpart(vertex.Name)
	if !ok {
		return fragmentRef{}, false, nil
	}
	ref, ok = p.fragments[name]
	return ref, ok, nil
}

// counterpart derives the fragment shader name the naming rule expects.
func (p *Pairer) counterpart(vertex string) (string, bool) {
	switch p.rule.Mode {
	case PairByPrefix:
		stem, found := strings.CutPrefix(vertex, p.rule.VertexAffix)
		if !found || stem == "" {
			return "", false
		}
		return p.rule.FragmentAffix + stem, true
	case PairBySuffix:
		stem, found := strings.CutSuffix(vertex, p.rule.VertexAffix)
		if !found || stem == "" {
			return "", false
		}
		return stem + p.rule.FragmentAffix, true
	default:
		return "", false
	}
}
