package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/mtlgen/internal/codegen/meta"
	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

func buffer(name string, stage scanner.Stage, index int) scanner.Parameter {
	return scanner.Parameter{Name: name, TypeName: "MTLBuffer", Kind: scanner.ResourceBuffer, Stage: stage, Index: index}
}

func texture(name string, stage scanner.Stage, index int) scanner.Parameter {
	return scanner.Parameter{Name: name, TypeName: "MTLTexture", Kind: scanner.ResourceTexture, Stage: stage, Index: index}
}

func TestDescribe(t *testing.T) {
	cfg, err := Config{}.withDefaults()
	require.NoError(t, err)

	vertex := &scanner.Shader{
		Kind:              scanner.StageVertex,
		Name:              "vMain",
		Parameters:        []scanner.Parameter{buffer("positions", scanner.StageVertex, 0)},
		FunctionConstants: []scanner.FunctionConstant{{Name: "a", Type: scanner.ConstantBool, Index: 0}},
	}
	fragment := &scanner.Shader{
		Kind:       scanner.StageFragment,
		Name:       "fMain",
		Parameters: []scanner.Parameter{texture("tex", scanner.StageFragment, 1)},
	}

	d := describe(cfg, "m.metal", vertex, fragment)
	assert.Equal(t, "VMainEncoder", d.GeneratedTypeName)
	assert.Equal(t, meta.AccessPublic, d.AccessLevel)
	assert.Equal(t, "fMain", d.FragmentShaderName)
	assert.Equal(t, []scanner.Parameter{vertex.Parameters[0], fragment.Parameters[0]}, d.Parameters)
	assert.Equal(t, vertex.FunctionConstants, d.VertexConstants)
	assert.Empty(t, d.FragmentConstants)

	vertex.Directives = scanner.Directives{SwiftName: "Custom", Access: "internal"}
	d = describe(cfg, "m.metal", vertex, nil)
	assert.Equal(t, "Custom", d.GeneratedTypeName)
	assert.Equal(t, meta.AccessInternal, d.AccessLevel)
	assert.False(t, d.HasFragment())
	assert.Len(t, d.Parameters, 1)
}

func TestValidate(t *testing.T) {
	v, f := scanner.StageVertex, scanner.StageFragment
	tests := []struct {
		name      string
		params    []scanner.Parameter
		vconsts   []scanner.FunctionConstant
		fconsts   []scanner.FunctionConstant
		conflicts bool
	}{
		{
			name:   "same index across kinds and stages",
			params: []scanner.Parameter{buffer("a", v, 0), texture("b", v, 0), buffer("c", f, 0), texture("d", f, 0)},
		},
		{
			name:      "same stage kind and index",
			params:    []scanner.Parameter{buffer("a", v, 2), buffer("b", v, 2)},
			conflicts: true,
		},
		{
			name:      "same name in both stages",
			params:    []scanner.Parameter{buffer("a", v, 0), texture("a", f, 0)},
			conflicts: true,
		},
		{
			name:      "name collides with offset argument",
			params:    []scanner.Parameter{buffer("a", v, 0), texture("aOffset", v, 1)},
			conflicts: true,
		},
		{
			name:      "name collides with encoder",
			params:    []scanner.Parameter{texture("encoder", v, 0)},
			conflicts: true,
		},
		{
			name:      "constant collides with initializer argument",
			vconsts:   []scanner.FunctionConstant{{Name: "library", Type: scanner.ConstantBool}},
			conflicts: true,
		},
		{
			name:      "constant shadowed by descriptor local",
			fconsts:   []scanner.FunctionConstant{{Name: "descriptor", Type: scanner.ConstantBool}},
			conflicts: true,
		},
		{
			name:      "constant shadowed by constant values local",
			vconsts:   []scanner.FunctionConstant{{Name: "constantValues", Type: scanner.ConstantInt}},
			conflicts: true,
		},
		{
			name:   "buffer named like an initializer local",
			params: []scanner.Parameter{buffer("descriptor", v, 0)},
		},
		{
			name:    "shared constant",
			vconsts: []scanner.FunctionConstant{{Name: "k", Type: scanner.ConstantInt, Index: 1}},
			fconsts: []scanner.FunctionConstant{{Name: "k", Type: scanner.ConstantInt, Index: 1}},
		},
		{
			name:      "constant declared differently",
			vconsts:   []scanner.FunctionConstant{{Name: "k", Type: scanner.ConstantInt, Index: 1}},
			fconsts:   []scanner.FunctionConstant{{Name: "k", Type: scanner.ConstantFloat, Index: 1}},
			conflicts: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &meta.PipelineDescriptor{
				SourceFile:        "m.metal",
				GeneratedTypeName: "MEncoder",
				Parameters:        tt.params,
				VertexConstants:   tt.vconsts,
				FragmentConstants: tt.fconsts,
			}
			err := validate(d)
			if !tt.conflicts {
				assert.NoError(t, err)
				return
			}
			var cerr *BindingConflictError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "MEncoder", cerr.Unit)
			assert.Contains(t, err.Error(), "m.metal: MEncoder: ")
		})
	}
}

func TestPairerShadowedFragments(t *testing.T) {
	first := &scanner.Shader{Kind: scanner.StageFragment, Name: "fQuad"}
	second := &scanner.Shader{Kind: scanner.StageFragment, Name: "fQuad"}
	rule := Pairing{Mode: PairByPrefix, VertexAffix: "v", FragmentAffix: "f"}

	p, shadowed := NewPairer(rule, []fragmentRef{{File: "a.metal", Shader: first}, {File: "b.metal", Shader: second}})
	require.Len(t, shadowed, 1)
	assert.Equal(t, "b.metal", shadowed[0].File)

	ref, ok, err := p.Match("a.metal", &scanner.Shader{Name: "vQuad"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, first, ref.Shader)

	_, ok, err = p.Match("a.metal", &scanner.Shader{Name: "v"})
	require.NoError(t, err)
	assert.False(t, ok, "an affix alone has no stem")
}
