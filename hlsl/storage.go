// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

// ResourceAccess names a resource by its escaped name.
func (b *Backend) ResourceAccess(_ *backend.Context, r *model.ResourceDefinition) string {
	return Escape(r.Name)
}

// WriteResource declares one resource with its register annotation.
func (b *Backend) WriteResource(w *backend.Writer, ctx *backend.Context, r *model.ResourceDefinition) error {
	name := Escape(r.Name)
	reg := BindTargetFor(ctx.Model, r)

	switch r.Kind {
	case model.ResourceUniform:
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		w.WriteLine("cbuffer %sBuffer : %s", name, reg)
		w.WriteLine("{")
		w.PushIndent()
		w.WriteLine("%s %s;", t, name)
		w.PopIndent()
		w.WriteLine("}")

	case model.ResourceStructuredBuffer, model.ResourceRWStructuredBuffer, model.ResourceAtomicBuffer:
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		kind := "RWStructuredBuffer"
		if r.Kind == model.ResourceStructuredBuffer {
			kind = "StructuredBuffer"
		}
		w.WriteLine("%s<%s> %s : %s;", kind, t, name, reg)

	case model.ResourceRWTexture2D:
		if err := backend.CheckImageElement(r.String(), r.Type); err != nil {
			return err
		}
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		w.WriteLine("RWTexture2D<%s> %s : %s;", t, name, reg)

	case model.ResourceTexture2D, model.ResourceTexture2DArray, model.ResourceTextureCube,
		model.ResourceTexture2DMS, model.ResourceDepthTexture2D, model.ResourceDepthTexture2DArray,
		model.ResourceSampler, model.ResourceSamplerComparison:
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		w.WriteLine("%s %s : %s;", t, name, reg)

	default:
		return ir.NewError(ir.ErrUnsupportedResource, r.String(), "no HLSL declaration for %s", r.Kind)
	}
	w.BlankLine()
	return nil
}

// isStageStructure reports whether sd is the stage input or output of
// the entry point being written.
func isStageStructure(ctx *backend.Context, sd *model.StructureDefinition) bool {
	return (ctx.IO.Input != nil && ctx.IO.Input.Name == sd.Name) ||
		(ctx.IO.Output != nil && ctx.IO.Output.Name == sd.Name)
}

// WriteStructure writes a structure. Stage input and output structures
// get one HLSL semantic per field.
func (b *Backend) WriteStructure(w *backend.Writer, ctx *backend.Context, sd *model.StructureDefinition) error {
	name, err := b.TypeName(ir.Ref(sd.Name))
	if err != nil {
		return err
	}
	var semantics []string
	if isStageStructure(ctx, sd) {
		semantics = fieldSemantics(sd)
	}

	w.WriteLine("struct %s", name)
	w.WriteLine("{")
	w.PushIndent()
	for i, f := range sd.Fields {
		t, err := b.TypeName(f.Type)
		if err != nil {
			return err
		}
		decl := t + " " + Escape(f.Name)
		if f.ArrayLength > 0 {
			decl += fmt.Sprintf("[%d]", f.ArrayLength)
		}
		if semantics != nil {
			decl += " : " + semantics[i]
		}
		w.WriteLine("%s;", decl)
	}
	w.PopIndent()
	w.WriteLine("};")
	w.BlankLine()
	return nil
}

// fieldSemantics numbers each semantic name independently in field
// order. Untagged fields are passed as texture coordinates.
func fieldSemantics(sd *model.StructureDefinition) []string {
	next := make(map[string]int)
	out := make([]string, len(sd.Fields))
	for i, f := range sd.Fields {
		var base string
		switch f.Semantic {
		case ir.SemanticSystemPosition:
			out[i] = "SV_Position"
			continue
		case ir.SemanticColorTarget:
			base = "SV_Target"
		case ir.SemanticPosition:
			base = "POSITION"
		case ir.SemanticNormal:
			base = "NORMAL"
		case ir.SemanticColor:
			base = "COLOR"
		case ir.SemanticTangent:
			base = "TANGENT"
		default:
			base = "TEXCOORD"
		}
		out[i] = fmt.Sprintf("%s%d", base, next[base])
		next[base]++
	}
	return out
}

var builtinSemantics = map[string]string{
	ir.BuiltinVertexID:         "SV_VertexID",
	ir.BuiltinInstanceID:       "SV_InstanceID",
	ir.BuiltinDispatchThreadID: "SV_DispatchThreadID",
	ir.BuiltinGroupThreadID:    "SV_GroupThreadID",
	ir.BuiltinIsFrontFace:      "SV_IsFrontFace",
}

func builtinGlobal(name string) string {
	return ir.TypeBuiltins + "_" + name
}

// WriteBuiltins declares a static global per built-in the stage reads.
func (b *Backend) WriteBuiltins(w *backend.Writer, ctx *backend.Context) error {
	for _, name := range ctx.Entry.Builtins {
		bv, ok := ir.LookupBuiltinVariable(name)
		if !ok {
			return ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
		}
		t, err := b.TypeName(ir.Ref(bv.Type))
		if err != nil {
			return err
		}
		w.WriteLine("static %s %s;", t, builtinGlobal(name))
	}
	if len(ctx.Entry.Builtins) > 0 {
		w.BlankLine()
	}
	return nil
}

// BuiltinAccess reads the static global written by the entry function.
func (b *Backend) BuiltinAccess(_ *backend.Context, name string) (string, error) {
	if _, ok := builtinSemantics[name]; !ok {
		return "", ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
	}
	return builtinGlobal(name), nil
}

// Header is empty; HLSL needs no version declaration.
func (b *Backend) Header(*backend.Context) (string, error) {
	return "", nil
}
