package scanner

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blitSource = `
#include <metal_stdlib>
using namespace metal;

#define UNIFORMS_INDEX 3

enum TextureIndex {
    TextureIndexColor = 1,
    TextureIndexMask,
};

struct VertexOut {
    float4 position [[position]];
    float2 uv;
};

constant bool hasMask [[function_constant(0)]];
constant ushort2 gridSize [[function_constant(2)]];
constant float4 clearColor = float4(0.0, 0.0, 0.0, 1.0);

static float2 helper(float2 v) { return v * 2.0; }

// mtlswift:swiftName: BlitEncoder
vertex VertexOut vMain(constant float2 *positions [[buffer(0)]],
                       constant float4x4 &transform [[ buffer(UNIFORMS_INDEX) ]],
                       uint vid [[vertex_id]]) {
    VertexOut out;
    out.position = transform * float4(positions[vid] / float2(gridSize), 0.0, 1.0);
    out.uv = helper(positions[vid]);
    return out;
}

fragment float4 fMain(VertexOut in [[stage_in]],
                      texture2d<float, access::sample> source [[texture(0)]],
                      texture2d<float> mask [[texture(TextureIndexMask), function_constant(hasMask)]],
                      sampler s [[sampler(0)]]) {
    float4 c = source.sample(s, in.uv);
    if (hasMask) { c *= mask.sample(s, in.uv).r; }
    return c;
}

kernel void clear(texture2d<float, access::write> t [[texture(0)]],
                  uint2 gid [[thread_position_in_grid]]) {
    t.write(clearColor, gid);
}
`

func TestParseHarvestsEntryPoints(t *testing.T) {
	f, err := Parse("Blit.metal", blitSource)
	require.NoError(t, err)

	require.Len(t, f.Shaders, 3)
	assert.Equal(t, "vMain", f.Shaders[0].Name)
	assert.Equal(t, StageVertex, f.Shaders[0].Kind)
	assert.Equal(t, "fMain", f.Shaders[1].Name)
	assert.Equal(t, StageFragment, f.Shaders[1].Kind)
	assert.Equal(t, "clear", f.Shaders[2].Name)
	assert.Equal(t, StageKernel, f.Shaders[2].Kind)

	assert.Equal(t, []FunctionConstant{
		{Name: "hasMask", Type: ConstantBool, Index: 0},
		{Name: "gridSize", Type: ConstantUShort2, Index: 2},
	}, f.Constants)
}

func TestParseVertexParameters(t *testing.T) {
	f, err := Parse("Blit.metal", blitSource)
	require.NoError(t, err)

	v := f.Shaders[0]
	assert.Equal(t, "BlitEncoder", v.Directives.SwiftName)
	assert.Equal(t, []Parameter{
		{Name: "positions", TypeName: "MTLBuffer", Kind: ResourceBuffer, Stage: StageVertex, Index: 0},
		{Name: "transform", TypeName: "MTLBuffer", Kind: ResourceBuffer, Stage: StageVertex, Index: 3},
	}, v.Parameters)
	assert.Equal(t, []FunctionConstant{{Name: "gridSize", Type: ConstantUShort2, Index: 2}}, v.FunctionConstants)
}

func TestParseFragmentParameters(t *testing.T) {
	f, err := Parse("Blit.metal", blitSource)
	require.NoError(t, err)

	frag := f.Shaders[1]
	assert.Equal(t, []Parameter{
		{Name: "source", TypeName: "MTLTexture", Kind: ResourceTexture, Stage: StageFragment, Index: 0},
		{Name: "mask", TypeName: "MTLTexture", Kind: ResourceTexture, Stage: StageFragment, Index: 2, IsOptional: true},
		{Name: "s", TypeName: "MTLSamplerState", Kind: ResourceSampler, Stage: StageFragment, Index: 0},
	}, frag.Parameters)
	assert.Equal(t, []FunctionConstant{{Name: "hasMask", Type: ConstantBool, Index: 0}}, frag.FunctionConstants)
}

func TestParseTypeDirectiveMarksOptional(t *testing.T) {
	src := `
// mtlswift:type: tint: MTLBuffer?
// mtlswift:fragment: shade
vertex float4 v(device float4 *tint [[buffer(1)]]) { return float4(0); }
`
	f, err := Parse("a.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders, 1)

	s := f.Shaders[0]
	assert.Equal(t, "shade", s.Directives.Fragment)
	require.Len(t, s.Parameters, 1)
	assert.True(t, s.Parameters[0].IsOptional)
	assert.Equal(t, "MTLBuffer", s.Parameters[0].TypeName)
}

func TestParseNamespacesAndPrototypes(t *testing.T) {
	src := `
namespace effects {
    vertex float4 proto(uint vid [[vertex_id]]);
    namespace inner {
        vertex float4 inside(constant float *v [[buffer(0)]]) { return float4(v[0]); }
    }
}
fragment half4 after() { return half4(1); }
`
	f, err := Parse("ns.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders, 2)
	assert.Equal(t, "inside", f.Shaders[0].Name)
	assert.Equal(t, "after", f.Shaders[1].Name)
	assert.Empty(t, f.Shaders[1].Parameters)
}

func TestParseAttributeStageSyntax(t *testing.T) {
	src := `[[vertex]] float4 modern(constant float4 *p [[buffer(0)]]) { return p[0]; }`
	f, err := Parse("m.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders, 1)
	assert.Equal(t, StageVertex, f.Shaders[0].Kind)
}

func TestParseScopedEnumIndex(t *testing.T) {
	src := `
enum class BufferIndex : uint32_t { positions = 4, colors };
vertex float4 v(constant float4 *c [[buffer(BufferIndex::colors)]]) { return c[0]; }
`
	f, err := Parse("e.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders[0].Parameters, 1)
	assert.Equal(t, 5, f.Shaders[0].Parameters[0].Index)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		shader    string
		parameter string
		attribute string
		contains  string
	}{
		{
			name:      "missing attribute",
			src:       `vertex float4 v(constant float4 *p) { return p[0]; }`,
			shader:    "v",
			parameter: "p",
			contains:  "missing binding attribute",
		},
		{
			name:      "missing index",
			src:       `vertex float4 v(constant float4 *p [[buffer]]) { return p[0]; }`,
			shader:    "v",
			parameter: "p",
			attribute: "buffer",
			contains:  "missing binding index",
		},
		{
			name:      "non integer index",
			src:       `vertex float4 v(constant float4 *p [[buffer(1.5)]]) { return p[0]; }`,
			shader:    "v",
			parameter: "p",
			attribute: "buffer",
			contains:  "not a non-negative integer",
		},
		{
			name:      "unknown index constant",
			src:       `vertex float4 v(constant float4 *p [[buffer(Missing)]]) { return p[0]; }`,
			shader:    "v",
			parameter: "p",
			attribute: "buffer",
			contains:  "unknown binding index constant",
		},
		{
			name:      "unsupported attribute",
			src:       `fragment float4 f(constant float4 *p [[id(0)]]) { return p[0]; }`,
			shader:    "f",
			parameter: "p",
			attribute: "id",
			contains:  "unsupported attribute",
		},
		{
			name:      "two resource attributes",
			src:       `fragment float4 f(texture2d<float> t [[texture(0), buffer(1)]]) { return 0; }`,
			shader:    "f",
			parameter: "t",
			attribute: "buffer",
			contains:  "multiple resource attributes",
		},
		{
			name:      "type directive for unknown parameter",
			src:       "// mtlswift:type: nope: MTLBuffer?\nvertex float4 v() { return 0; }",
			shader:    "v",
			parameter: "nope",
			attribute: "type",
			contains:  "unknown parameter",
		},
		{
			name:      "type directive for builtin",
			src:       "// mtlswift:type: vid: MTLBuffer\nvertex float4 v(uint vid [[vertex_id]]) { return 0; }",
			shader:    "v",
			parameter: "vid",
			attribute: "type",
			contains:  "not a bindable resource",
		},
		{
			name:     "unknown directive",
			src:      "// mtlswift:color: red\nvertex float4 v() { return 0; }",
			contains: "unknown directive",
		},
		{
			name:     "malformed directive",
			src:      "// mtlswift:swiftName\nvertex float4 v() { return 0; }",
			contains: "malformed directive",
		},
		{
			name:      "fragment directive on fragment",
			src:       "// mtlswift:fragment: other\nfragment float4 f() { return 0; }",
			shader:    "f",
			attribute: "fragment",
			contains:  "only applies to vertex shaders",
		},
		{
			name:     "duplicate entry point",
			src:      "vertex float4 v() { return 0; }\nvertex float4 v() { return 1; }",
			shader:   "v",
			contains: "duplicate entry point",
		},
		{
			name:      "unsupported constant type",
			src:       `constant float4x4 m [[function_constant(0)]];`,
			parameter: "m",
			attribute: "function_constant",
			contains:  "unsupported function constant type",
		},
		{
			name:      "duplicate constant index",
			src:       "constant bool a [[function_constant(1)]];\nconstant bool b [[function_constant(1)]];",
			parameter: "b",
			attribute: "function_constant",
			contains:  "already used by a",
		},
		{
			name:      "host name before entry point",
			src:       `[[host_name("real")]] vertex float4 vMain() { return 0; }`,
			attribute: "host_name",
			contains:  "host_name is not supported",
		},
		{
			name:      "host name after parameters",
			src:       `vertex float4 vMain() [[host_name("real")]] { return 0; }`,
			shader:    "vMain",
			attribute: "host_name",
			contains:  "host_name is not supported",
		},
		{
			name:     "unterminated comment",
			src:      "vertex float4 v() { return 0; } /* open",
			contains: "unterminated block comment",
		},
		{
			name:     "stray brace",
			src:      "}",
			contains: "unexpected '}'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.metal", tt.src)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, "bad.metal", pe.File)
			assert.Equal(t, tt.shader, pe.Shader)
			assert.Equal(t, tt.parameter, pe.Parameter)
			assert.Equal(t, tt.attribute, pe.Attribute)
			assert.Contains(t, pe.Error(), tt.contains)
		})
	}
}

func TestParseErrorFormatWithContext(t *testing.T) {
	_, err := Parse("ctx.metal", "vertex float4 v(\n    constant float4 *p [[buffer(x)]]) { return 0; }")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	out := pe.FormatWithContext()
	assert.Contains(t, out, "ctx.metal:2:")
	assert.Contains(t, out, "  2|     constant float4 *p [[buffer(x)]]) { return 0; }")
	assert.Contains(t, out, "^")
}

func TestParseIgnoresNonEntryFunctions(t *testing.T) {
	src := `
float4 shade(float4 c) { return c; }
struct S { int a; };
constant float2 quad[] = { {0, 0}, {1, 1} };
`
	f, err := Parse("plain.metal", src)
	require.NoError(t, err)
	assert.Empty(t, f.Shaders)
	assert.Empty(t, f.Constants)
}

func TestParseConstantsUsedThroughHelpers(t *testing.T) {
	src := `
constant bool useFog [[function_constant(0)]];
constant float fogDensity [[function_constant(1)]];
constant bool unused [[function_constant(2)]];

static float density() { return fogDensity; }

float4 applyFog(float4 c) {
    if (useFog) { return c * density(); }
    return c;
}

fragment float4 fMain(float4 p [[position]]) {
    return applyFog(p);
}

vertex float4 vMain(uint vid [[vertex_id]]) { return float4(0); }
`
	f, err := Parse("fog.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders, 2)

	assert.Equal(t, []FunctionConstant{
		{Name: "useFog", Type: ConstantBool, Index: 0},
		{Name: "fogDensity", Type: ConstantFloat, Index: 1},
	}, f.Shaders[0].FunctionConstants)
	assert.Empty(t, f.Shaders[1].FunctionConstants)
}

func TestParseRecursiveHelpers(t *testing.T) {
	src := `
constant bool flip [[function_constant(0)]];
float a(float x);
float b(float x) { return flip ? a(x) : x; }
float a(float x) { return x > 1 ? b(x - 1) : x; }
vertex float4 v() { return float4(a(2)); }
`
	f, err := Parse("rec.metal", src)
	require.NoError(t, err)
	require.Len(t, f.Shaders, 1)
	assert.Equal(t, []FunctionConstant{{Name: "flip", Type: ConstantBool, Index: 0}}, f.Shaders[0].FunctionConstants)
}

func TestFileMarshalsStageNames(t *testing.T) {
	f, err := Parse("Blit.metal", blitSource)
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"path":"Blit.metal"`)
	assert.Contains(t, text, `"kind":"vertex"`)
	assert.Contains(t, text, `"kind":"kernel"`)
	assert.Contains(t, text, `"kind":"sampler","stage":"fragment","index":0`)
	assert.Contains(t, text, `"type":"ushort2"`)
}
