package msl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

const (
	containerName = "ShaderContainer"
	inputParam    = "input_"
	paramSuffix   = "_param"
)

// member is one field of the shader container together with the
// attribute binding it in the entry function.
type member struct {
	decl      string
	name      string
	attribute string
}

// members lists the container fields of a stage: its resources in
// declaration order followed by its built-in variables.
func (b *Backend) members(ctx *backend.Context) ([]member, error) {
	var buffers, textures, samplers int
	out := make([]member, 0, len(ctx.Entry.Resources)+len(ctx.Entry.Builtins))
	for _, r := range ctx.Entry.Resources {
		t, err := b.memberType(r)
		if err != nil {
			return nil, err
		}
		m := member{decl: t, name: b.memberName(ctx, r)}
		switch {
		case r.Kind == model.ResourceUniform || r.Kind.IsBuffer():
			m.attribute = fmt.Sprintf("buffer(%d)", buffers)
			buffers++
		case r.Kind == model.ResourceSampler || r.Kind == model.ResourceSamplerComparison:
			m.attribute = fmt.Sprintf("sampler(%d)", samplers)
			samplers++
		default:
			m.attribute = fmt.Sprintf("texture(%d)", textures)
			textures++
		}
		out = append(out, m)
	}
	for _, name := range ctx.Entry.Builtins {
		bv, ok := ir.LookupBuiltinVariable(name)
		if !ok {
			return nil, ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
		}
		t, err := b.TypeName(ir.Ref(bv.Type))
		if err != nil {
			return nil, err
		}
		out = append(out, member{decl: t, name: builtinMember(name), attribute: builtinAttributes[name]})
	}
	return out, nil
}

// memberType returns the declared type of a resource member.
func (b *Backend) memberType(r *model.ResourceDefinition) (string, error) {
	if r.Kind == model.ResourceRWTexture2D {
		if err := backend.CheckImageElement(r.String(), r.Type); err != nil {
			return "", err
		}
		return "texture2d<float, access::read_write>", nil
	}
	t, err := b.TypeName(r.Type)
	if err != nil {
		return "", err
	}
	switch r.Kind {
	case model.ResourceUniform:
		return "constant " + t + "&", nil
	case model.ResourceStructuredBuffer:
		return "const device " + t + "*", nil
	case model.ResourceRWStructuredBuffer, model.ResourceAtomicBuffer:
		return "device " + t + "*", nil
	}
	if !ir.IsResourceType(r.Type.Name) {
		return "", ir.NewError(ir.ErrUnsupportedResource, r.String(), "no MSL declaration for %s", r.Kind)
	}
	return t, nil
}

var builtinAttributes = map[string]string{
	ir.BuiltinVertexID:         "vertex_id",
	ir.BuiltinInstanceID:       "instance_id",
	ir.BuiltinDispatchThreadID: "thread_position_in_grid",
	ir.BuiltinGroupThreadID:    "thread_position_in_threadgroup",
	ir.BuiltinIsFrontFace:      "front_facing",
}

// memberName is the escaped resource name, suffixed when it would hide a
// structure type inside the container.
func (b *Backend) memberName(ctx *backend.Context, r *model.ResourceDefinition) string {
	name := escapeName(r.Name)
	for _, sd := range ctx.Entry.Structures {
		if t, err := b.TypeName(ir.Ref(sd.Name)); err == nil && t == name {
			return name + "_"
		}
	}
	return name
}

func builtinMember(name string) string {
	return ir.TypeBuiltins + "_" + name
}

// BeginProgramScope opens the container structure that holds the stage's
// resources as members and its functions as methods.
func (b *Backend) BeginProgramScope(w *backend.Writer, _ *backend.Context) error {
	w.WriteLine("struct %s", containerName)
	w.WriteLine("{")
	w.PushIndent()
	return nil
}

// EndProgramScope writes the container constructor and closes the
// structure.
func (b *Backend) EndProgramScope(w *backend.Writer, ctx *backend.Context) error {
	members, err := b.members(ctx)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		params := make([]string, len(members))
		inits := make([]string, len(members))
		for i, m := range members {
			params[i] = m.decl + " " + m.name + paramSuffix
			inits[i] = m.name + "(" + m.name + paramSuffix + ")"
		}
		w.WriteLine("%s(%s)", containerName, strings.Join(params, ", "))
		w.PushIndent()
		w.WriteLine(": %s", strings.Join(inits, ", "))
		w.PopIndent()
		w.WriteLine("{")
		w.WriteLine("}")
	}
	w.PopIndent()
	w.WriteLine("};")
	w.BlankLine()
	return nil
}

// ResourceAccess names the container member.
func (b *Backend) ResourceAccess(ctx *backend.Context, r *model.ResourceDefinition) string {
	return b.memberName(ctx, r)
}

// WriteResource declares a resource as a container member.
func (b *Backend) WriteResource(w *backend.Writer, ctx *backend.Context, r *model.ResourceDefinition) error {
	t, err := b.memberType(r)
	if err != nil {
		return err
	}
	w.WriteLine("%s %s;", t, b.memberName(ctx, r))
	return nil
}

// WriteBuiltins declares a member per built-in the stage reads.
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
		w.WriteLine("%s %s;", t, builtinMember(name))
	}
	if len(ctx.Entry.Resources)+len(ctx.Entry.Builtins) > 0 {
		w.BlankLine()
	}
	return nil
}

func (b *Backend) BuiltinAccess(_ *backend.Context, name string) (string, error) {
	if _, ok := builtinAttributes[name]; !ok {
		return "", ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
	}
	return builtinMember(name), nil
}

// WriteStructure writes a structure. Fields of the stage input and
// output structures carry their Metal attributes.
func (b *Backend) WriteStructure(w *backend.Writer, ctx *backend.Context, sd *model.StructureDefinition) error {
	name, err := b.TypeName(ir.Ref(sd.Name))
	if err != nil {
		return err
	}
	attrs := fieldAttributes(ctx, sd)

	w.WriteLine("struct %s", name)
	w.WriteLine("{")
	w.PushIndent()
	for i, f := range sd.Fields {
		t, err := b.TypeName(f.Type)
		if err != nil {
			return err
		}
		decl := t + " " + escapeName(f.Name)
		if f.ArrayLength > 0 {
			decl += fmt.Sprintf("[%d]", f.ArrayLength)
		}
		if attrs != nil && attrs[i] != "" {
			decl += " [[" + attrs[i] + "]]"
		}
		w.WriteLine("%s;", decl)
	}
	w.PopIndent()
	w.WriteLine("};")
	w.BlankLine()
	return nil
}

// fieldAttributes returns the per-field attributes of sd, or nil when sd
// is not a stage input or output. Vertex inputs are numbered attributes,
// fragment outputs numbered color targets. Varyings match by name and
// integer varyings are flat.
func fieldAttributes(ctx *backend.Context, sd *model.StructureDefinition) []string {
	isInput := ctx.IO.Input != nil && ctx.IO.Input.Name == sd.Name
	isOutput := ctx.IO.Output != nil && ctx.IO.Output.Name == sd.Name
	if !isInput && !isOutput {
		return nil
	}
	stage := ctx.Stage()
	out := make([]string, len(sd.Fields))
	var color int
	for i, f := range sd.Fields {
		switch {
		case isInput && stage == ir.FunctionVertex:
			out[i] = fmt.Sprintf("attribute(%d)", i)
		case f.Semantic == ir.SemanticSystemPosition:
			out[i] = "position"
		case isOutput && stage == ir.FunctionFragment:
			out[i] = fmt.Sprintf("color(%d)", color)
			color++
		default:
			if p, ok := ir.LookupPrimitive(f.Type.Name); ok && p.Kind != ir.ScalarFloat {
				out[i] = "flat"
			}
		}
	}
	return out
}
