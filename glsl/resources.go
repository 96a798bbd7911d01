// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	nagaglsl "github.com/gogpu/naga/glsl"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

// Features recorded on the context while writing a stage.
const (
	featureStorage     = "glsl.storage"
	featureMultisample = "glsl.multisample"
)

// ResourceAccess names uniform blocks and buffers by their single member
// and everything else by the resource name.
func (b *Backend) ResourceAccess(_ *backend.Context, r *model.ResourceDefinition) string {
	if r.Kind == model.ResourceUniform || r.Kind.IsBuffer() {
		return "field_" + r.Name
	}
	return escapeKeyword(r.Name)
}

// layout returns the layout qualifier for r, or "" when none is needed.
// GLSL 4.50 always carries set and binding; the OpenGL dialects bind
// storage objects explicitly and leave the rest to the application.
func (b *Backend) layout(r *model.ResourceDefinition, qualifiers ...string) string {
	if b.dialect == dialect450 {
		qualifiers = append(qualifiers, fmt.Sprintf("set = %d", r.Set), fmt.Sprintf("binding = %d", r.Binding))
	} else if r.Kind.IsBuffer() || r.Kind == model.ResourceRWTexture2D {
		qualifiers = append(qualifiers, fmt.Sprintf("binding = %d", r.Binding))
	}
	if len(qualifiers) == 0 {
		return ""
	}
	return "layout(" + strings.Join(qualifiers, ", ") + ") "
}

// WriteStructure writes a plain structure declaration.
func (b *Backend) WriteStructure(w *backend.Writer, _ *backend.Context, sd *model.StructureDefinition) error {
	name, err := b.TypeName(ir.Ref(sd.Name))
	if err != nil {
		return err
	}
	w.WriteLine("struct %s", name)
	w.WriteLine("{")
	w.PushIndent()
	for _, f := range sd.Fields {
		t, err := b.TypeName(f.Type)
		if err != nil {
			return err
		}
		if f.ArrayLength > 0 {
			w.WriteLine("%s %s[%d];", t, escapeKeyword(f.Name), f.ArrayLength)
		} else {
			w.WriteLine("%s %s;", t, escapeKeyword(f.Name))
		}
	}
	w.PopIndent()
	w.WriteLine("};")
	w.BlankLine()
	return nil
}

// WriteResource declares one resource.
func (b *Backend) WriteResource(w *backend.Writer, ctx *backend.Context, r *model.ResourceDefinition) error {
	name := escapeKeyword(r.Name)
	switch r.Kind {
	case model.ResourceUniform:
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		qual := b.layout(r)
		if b.dialect != dialect450 {
			qual = "layout(std140) "
		}
		w.WriteLine("%suniform %s", qual, name)
		w.WriteLine("{")
		w.PushIndent()
		w.WriteLine("%s %s;", t, b.ResourceAccess(ctx, r))
		w.PopIndent()
		w.WriteLine("};")

	case model.ResourceStructuredBuffer, model.ResourceRWStructuredBuffer, model.ResourceAtomicBuffer:
		ctx.Require(featureStorage)
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		access := ""
		if r.Kind == model.ResourceStructuredBuffer {
			access = "readonly "
		}
		w.WriteLine("%s%sbuffer %s", b.layout(r, "std430"), access, name)
		w.WriteLine("{")
		w.PushIndent()
		w.WriteLine("%s %s[];", t, b.ResourceAccess(ctx, r))
		w.PopIndent()
		w.WriteLine("};")

	case model.ResourceRWTexture2D:
		if err := backend.CheckImageElement(r.String(), r.Type); err != nil {
			return err
		}
		ctx.Require(featureStorage)
		format := "rgba32f"
		if r.Type.Name == ir.TypeFloat {
			format = "r32f"
		}
		precision := ""
		if b.dialect == dialectES {
			precision = "highp "
		}
		w.WriteLine("%suniform %simage2D %s;", b.layout(r, format), precision, name)

	case model.ResourceTexture2DMS:
		if b.dialect == dialectES {
			ctx.Require(featureMultisample)
		}
		fallthrough
	case model.ResourceTexture2D, model.ResourceTexture2DArray, model.ResourceTextureCube,
		model.ResourceDepthTexture2D, model.ResourceDepthTexture2DArray,
		model.ResourceSampler, model.ResourceSamplerComparison:
		t, err := b.TypeName(r.Type)
		if err != nil {
			return err
		}
		w.WriteLine("%suniform %s %s;", b.layout(r), t, name)

	default:
		return ir.NewError(ir.ErrUnsupportedResource, r.String(), "no GLSL declaration for %s", r.Kind)
	}
	w.BlankLine()
	return nil
}

// WriteBuiltins writes nothing; GLSL exposes built-in variables globally.
func (b *Backend) WriteBuiltins(*backend.Writer, *backend.Context) error {
	return nil
}

// BuiltinAccess returns the gl_ variable for a built-in.
func (b *Backend) BuiltinAccess(_ *backend.Context, name string) (string, error) {
	switch name {
	case ir.BuiltinVertexID:
		return "uint(gl_VertexID)", nil
	case ir.BuiltinInstanceID:
		return "uint(gl_InstanceID)", nil
	case ir.BuiltinDispatchThreadID:
		return "gl_GlobalInvocationID", nil
	case ir.BuiltinGroupThreadID:
		return "gl_LocalInvocationID", nil
	case ir.BuiltinIsFrontFace:
		return "gl_FrontFacing", nil
	}
	return "", ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
}

// EffectiveVersion returns the version the header of a stage declares:
// the configured version, raised when the stage needs compute shaders,
// storage buffers or (on ES) multisampled textures.
func (b *Backend) EffectiveVersion(ctx *backend.Context) nagaglsl.Version {
	v := b.options.Version
	needsCompute := ctx.Stage() == ir.FunctionCompute || ctx.Requires(featureMultisample)
	if (needsCompute && !v.SupportsCompute()) || (ctx.Requires(featureStorage) && !v.SupportsStorageBuffers()) {
		if v.ES {
			return nagaglsl.VersionES310
		}
		return nagaglsl.Version430
	}
	return v
}

// Header writes the version directive, default precisions for ES and the
// sampler placeholder structures of the combined-sampler dialects.
func (b *Backend) Header(ctx *backend.Context) (string, error) {
	var w backend.Writer
	v := b.EffectiveVersion(ctx)
	if b.dialect == dialect450 {
		w.WriteLine("#version %s", v.VersionNumber())
		w.WriteLine("#extension GL_ARB_separate_shader_objects : enable")
		w.WriteLine("#extension GL_ARB_shading_language_420pack : enable")
		w.BlankLine()
		return w.String(), nil
	}

	w.WriteLine("#version %s", v.String())
	if v.ES {
		w.BlankLine()
		for _, t := range []string{"float", "int", "sampler2DArray", "sampler2DShadow", "sampler2DArrayShadow"} {
			w.WriteLine("precision highp %s;", t)
		}
		if v.SupportsStorageBuffers() {
			w.WriteLine("precision highp image2D;")
			w.WriteLine("precision highp sampler2DMS;")
		}
	}
	w.BlankLine()
	w.WriteLine("struct SamplerDummy { int _dummyValue; };")
	w.WriteLine("struct SamplerComparisonDummy { int _dummyValue; };")
	w.BlankLine()
	return w.String(), nil
}
