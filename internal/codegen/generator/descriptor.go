package generator

import (
	"fmt"

	"github.com/Alia5/mtlgen/internal/codegen/common"
	"github.com/Alia5/mtlgen/internal/codegen/meta"
	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

// describe builds the descriptor for one vertex shader and its optional
// fragment shader.
func describe(cfg Config, file string, vertex *scanner.Shader, fragment *scanner.Shader) *meta.PipelineDescriptor {
	d := &meta.PipelineDescriptor{
		SourceFile:        file,
		VertexShaderName:  vertex.Name,
		GeneratedTypeName: vertex.Directives.SwiftName,
		AccessLevel:       cfg.AccessLevel,
		PixelFormat:       cfg.PixelFormat,
		VertexConstants:   vertex.FunctionConstants,
	}
	if d.GeneratedTypeName == "" {
		d.GeneratedTypeName = common.EncoderTypeName(vertex.Name)
	}
	if vertex.Directives.Access != "" {
		d.AccessLevel = meta.AccessLevel(vertex.Directives.Access)
	}

	d.Parameters = append(d.Parameters, vertex.Parameters...)
	if fragment != nil {
		d.FragmentShaderName = fragment.Name
		d.Parameters = append(d.Parameters, fragment.Parameters...)
		d.FragmentConstants = fragment.FunctionConstants
	}
	return d
}

// reservedArguments are names the generated Swift already declares.
var reservedArguments = map[string]string{
	"encoder":     "encode argument",
	"library":     "initializer argument",
	"pixelFormat": "initializer argument",
	"self":        "receiver",
}

// initializerLocals are declared in the generated init, where they would
// shadow a function constant argument of the same name.
var initializerLocals = map[string]string{
	"descriptor":     "initializer local",
	"constantValues": "initializer local",
}

// validate rejects descriptors whose generated code would not compile or
// would bind two resources to one slot.
func validate(d *meta.PipelineDescriptor) error {
	conflict := func(first, second, reason string) error {
		return &BindingConflictError{File: d.SourceFile, Unit: d.GeneratedTypeName, First: first, Second: second, Reason: reason}
	}

	type slot struct {
		stage scanner.Stage
		kind  scanner.ResourceKind
		index int
	}
	slots := make(map[slot]string)
	names := make(map[string]string) // argument name -> owner
	claim := func(name, owner string) error {
		if prev, dup := names[name]; dup {
			return conflict(prev, owner, fmt.Sprintf("both declare argument %q", name))
		}
		if what, reserved := reservedArguments[name]; reserved {
			return conflict(owner, "", fmt.Sprintf("collides with the generated %s %q", what, name))
		}
		names[name] = owner
		return nil
	}

	for _, p := range d.Parameters {
		s := slot{stage: p.Stage, kind: p.Kind, index: p.Index}
		if prev, dup := slots[s]; dup {
			return conflict(prev, p.Name, fmt.Sprintf("both bind %s %s(%d)", p.Stage, p.Kind, p.Index))
		}
		slots[s] = p.Name

		if err := claim(p.Name, p.Name); err != nil {
			return err
		}
		if p.Kind == scanner.ResourceBuffer {
			if err := claim(p.Name+"Offset", p.Name); err != nil {
				return err
			}
		}
	}

	constants := make(map[string]scanner.FunctionConstant)
	for _, list := range [][]scanner.FunctionConstant{d.VertexConstants, d.FragmentConstants} {
		for _, c := range list {
			if prev, seen := constants[c.Name]; seen {
				if prev != c {
					return conflict(c.Name, "", "is declared with different types or indices by the paired shaders")
				}
				continue
			}
			constants[c.Name] = c
			for _, reserved := range []map[string]string{reservedArguments, initializerLocals} {
				if what, ok := reserved[c.Name]; ok {
					return conflict(c.Name, "", fmt.Sprintf("collides with the generated %s %q", what, c.Name))
				}
			}
		}
	}
	return nil
}
