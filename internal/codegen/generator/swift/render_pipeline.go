package swift

import (
	"fmt"
	"strings"

	"github.com/Alia5/mtlgen/internal/codegen/common"
	"github.com/Alia5/mtlgen/internal/codegen/meta"
	"github.com/Alia5/mtlgen/internal/codegen/scanner"
	"github.com/Alia5/mtlgen/internal/codegen/source"
)

const indentWidth = 4

// Encoder is one generated wrapper type.
type Encoder struct {
	TypeName      string
	Source        string
	UsesConstants bool
}

// binding is how one parameter is attached to the render command encoder.
type binding struct {
	setter string // MTLRenderCommandEncoder method
	local  string // name bound by "if let" for optional parameters
	offset bool   // buffers take an extra offset argument
}

// bindingFor selects the setter for a parameter by (kind, stage).
func bindingFor(p scanner.Parameter) (binding, error) {
	var vertex, fragment binding
	switch p.Kind {
	case scanner.ResourceBuffer:
		vertex = binding{setter: "setVertexBuffer", local: "buffer", offset: true}
		fragment = binding{setter: "setFragmentBuffer", local: "buffer", offset: true}
	case scanner.ResourceTexture:
		vertex = binding{setter: "setVertexTexture", local: "texture"}
		fragment = binding{setter: "setFragmentTexture", local: "texture"}
	case scanner.ResourceSampler:
		vertex = binding{setter: "setVertexSamplerState", local: "sampler"}
		fragment = binding{setter: "setFragmentSamplerState", local: "sampler"}
	default:
		return binding{}, fmt.Errorf("parameter %s: unknown resource kind %v", p.Name, p.Kind)
	}

	switch p.Stage {
	case scanner.StageVertex:
		return vertex, nil
	case scanner.StageFragment:
		return fragment, nil
	default:
		return binding{}, fmt.Errorf("parameter %s: %v stage cannot be bound on a render encoder", p.Name, p.Stage)
	}
}

// EmitRenderPipelineEncoder emits the Swift class wrapping the render pipeline
// described by d. Output is a pure function of d.
func EmitRenderPipelineEncoder(d *meta.PipelineDescriptor) (Encoder, error) {
	access := string(d.AccessLevel)
	pixelFormat := d.PixelFormat
	if pixelFormat == "" {
		pixelFormat = meta.DefaultPixelFormat
	}

	initArgs, err := initializerArguments(d)
	if err != nil {
		return Encoder{}, err
	}

	b := source.NewBuilder(indentWidth)
	b.Begin()
	b.AddLinef("%s final class %s {", access, d.GeneratedTypeName)
	b.BlankLine()
	b.PushLevel()
	b.AddLinef("%s let pipelineState: MTLRenderPipelineState", access)
	b.BlankLine()
	b.AddLinef("%s init(%s) throws {", access, strings.Join(append(initArgs, "pixelFormat: MTLPixelFormat = ."+pixelFormat), ", "))
	b.PushLevel()
	b.AddLine("let descriptor = MTLRenderPipelineDescriptor()")
	emitFunctionAssignment(b, "vertex", d.VertexShaderName, d.VertexConstants)
	if d.HasFragment() {
		emitFunctionAssignment(b, "fragment", d.FragmentShaderName, d.FragmentConstants)
	}
	b.AddLine("descriptor.colorAttachments[0].pixelFormat = pixelFormat")
	b.AddLine("self.pipelineState = try library.device.makeRenderPipelineState(descriptor: descriptor)")
	b.PopLevel()
	b.AddLine("}")
	b.BlankLine()

	sig, call := signatureAndCall(d.Parameters)
	b.AddLinef("%s func callAsFunction(%s) {", access, sig)
	b.PushLevel()
	b.AddLinef("self.encode(%s)", call)
	b.PopLevel()
	b.AddLine("}")
	b.BlankLine()
	b.AddLinef("%s func encode(%s) {", access, sig)
	b.PushLevel()
	b.AddLine("encoder.setRenderPipelineState(self.pipelineState)")
	if err := emitParameterBindings(b, d.Parameters); err != nil {
		return Encoder{}, err
	}
	b.PopLevel()
	b.AddLine("}")
	b.PopLevel()
	b.AddLine("}")

	text, err := b.Result()
	if err != nil {
		return Encoder{}, fmt.Errorf("emit %s: %w", d.GeneratedTypeName, err)
	}
	return Encoder{
		TypeName:      d.GeneratedTypeName,
		Source:        text,
		UsesConstants: len(d.VertexConstants) > 0 || len(d.FragmentConstants) > 0,
	}, nil
}

// initializerArguments returns "library: MTLLibrary" followed by one argument
// per distinct function constant, vertex constants first.
func initializerArguments(d *meta.PipelineDescriptor) ([]string, error) {
	args := []string{"library: MTLLibrary"}
	seen := make(map[string]bool)
	for _, constants := range [][]scanner.FunctionConstant{d.VertexConstants, d.FragmentConstants} {
		for _, c := range constants {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			typ, err := constantSwiftType(c.Type)
			if err != nil {
				return nil, err
			}
			args = append(args, fmt.Sprintf("%s: %s", common.SwiftIdentifier(c.Name), typ))
		}
	}
	return args, nil
}

func emitFunctionAssignment(b *source.Builder, stage, name string, constants []scanner.FunctionConstant) {
	if len(constants) == 0 {
		b.AddLinef("descriptor.%sFunction = library.makeFunction(name: %q)", stage, name)
		return
	}
	b.AddLine("do {")
	b.PushLevel()
	b.AddLine("let constantValues = MTLFunctionConstantValues()")
	for _, c := range constants {
		value := common.SwiftIdentifier(c.Name)
		if c.Type == scanner.ConstantUShort2 {
			b.AddLinef("constantValues.set(%s, type: .ushort2, at: %d)", value, c.Index)
		} else {
			b.AddLinef("constantValues.set(%s, at: %d)", value, c.Index)
		}
	}
	b.AddLinef("descriptor.%sFunction = try library.makeFunction(name: %q, constantValues: constantValues)", stage, name)
	b.PopLevel()
	b.AddLine("} catch { throw error }")
}

// signatureAndCall computes the parameter list shared by encode and
// callAsFunction, and the argument list forwarding one to the other.
func signatureAndCall(params []scanner.Parameter) (signature, call string) {
	sigItems := []string{"encoder: MTLRenderCommandEncoder"}
	callItems := []string{"encoder: encoder"}
	for _, p := range params {
		name := common.SwiftIdentifier(p.Name)
		typ := p.TypeName
		if p.IsOptional {
			typ += "?"
		}
		sigItems = append(sigItems, fmt.Sprintf("%s: %s", name, typ))
		callItems = append(callItems, fmt.Sprintf("%s: %s", name, name))
		if p.Kind == scanner.ResourceBuffer {
			sigItems = append(sigItems, p.Name+"Offset: Int = 0")
			callItems = append(callItems, fmt.Sprintf("%sOffset: %sOffset", p.Name, p.Name))
		}
	}
	return strings.Join(sigItems, ", "), strings.Join(callItems, ", ")
}

func emitParameterBindings(b *source.Builder, params []scanner.Parameter) error {
	for _, p := range params {
		bind, err := bindingFor(p)
		if err != nil {
			return err
		}
		name := common.SwiftIdentifier(p.Name)
		value := name
		if p.IsOptional {
			value = bind.local
		}

		var stmt string
		if bind.offset {
			stmt = fmt.Sprintf("encoder.%s(%s, offset: %sOffset, index: %d)", bind.setter, value, p.Name, p.Index)
		} else {
			stmt = fmt.Sprintf("encoder.%s(%s, index: %d)", bind.setter, value, p.Index)
		}

		if p.IsOptional {
			b.AddLinef("if let %s = %s { %s }", bind.local, name, stmt)
		} else {
			b.AddLine(stmt)
		}
	}
	return nil
}
