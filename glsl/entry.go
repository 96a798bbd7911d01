// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

// Names used by the synthesized main function.
const (
	inputLocal    = "input_"
	outputLocal   = "output_"
	varyingPrefix = "fsin_"
	colorOutput   = "_outputColor_"
)

// WriteEntryPoint writes the stage variables and main().
func (b *Backend) WriteEntryPoint(w *backend.Writer, ctx *backend.Context) error {
	switch ctx.Stage() {
	case ir.FunctionVertex:
		return b.writeVertexMain(w, ctx)
	case ir.FunctionFragment:
		return b.writeFragmentMain(w, ctx)
	case ir.FunctionCompute:
		return b.writeComputeMain(w, ctx)
	}
	return ir.NewError(ir.ErrEntryPointNotFound, ctx.Entry.Function.String(), "not an entry point")
}

func (b *Backend) location(i int) string {
	if b.dialect == dialect450 {
		return fmt.Sprintf("layout(location = %d) ", i)
	}
	return ""
}

// interpolation returns "flat " for integer varyings, which GLSL cannot
// interpolate.
func interpolation(t ir.TypeReference) string {
	if p, ok := ir.LookupPrimitive(t.Name); ok && p.Kind != ir.ScalarFloat {
		return "flat "
	}
	return ""
}

func (b *Backend) stageType(f model.FieldDefinition) (string, error) {
	if f.ArrayLength > 0 {
		return "", ir.NewError(ir.ErrUnsupportedType, f.Name, "stage input and output fields cannot be arrays")
	}
	if _, ok := ir.LookupPrimitive(f.Type.Name); !ok {
		return "", ir.NewError(ir.ErrUnsupportedType, f.Name, "stage input and output fields must be scalars, vectors or matrices")
	}
	return b.TypeName(f.Type)
}

// writeVaryings declares one variable per field of sd except the
// SystemPosition field, numbered in field order.
func (b *Backend) writeVaryings(w *backend.Writer, sd *model.StructureDefinition, direction string) error {
	loc := 0
	for _, f := range sd.Fields {
		if f.Semantic == ir.SemanticSystemPosition {
			continue
		}
		t, err := b.stageType(f)
		if err != nil {
			return err
		}
		w.WriteLine("%s%s%s %s %s%d;", b.location(loc), interpolation(f.Type), direction, t, varyingPrefix, loc)
		loc++
	}
	return nil
}

func (b *Backend) callEntry(ctx *backend.Context) string {
	fn := ctx.Entry.Function
	if len(fn.Params) == 0 {
		return b.FunctionName(fn.ID()) + "()"
	}
	return b.FunctionName(fn.ID()) + "(" + inputLocal + ")"
}

func (b *Backend) writeVertexMain(w *backend.Writer, ctx *backend.Context) error {
	in, out := ctx.IO.Input, ctx.IO.Output

	if in != nil {
		for i, f := range in.Fields {
			t, err := b.stageType(f)
			if err != nil {
				return err
			}
			w.WriteLine("%sin %s %s;", b.location(i), t, escapeKeyword(f.Name))
		}
		w.BlankLine()
	}
	if err := b.writeVaryings(w, out, "out"); err != nil {
		return err
	}
	w.BlankLine()

	outType, err := b.TypeName(ir.Ref(out.Name))
	if err != nil {
		return err
	}
	w.WriteLine("void main()")
	w.WriteLine("{")
	w.PushIndent()
	if err := b.writeInputCopy(w, in, nil); err != nil {
		return err
	}
	w.WriteLine("%s %s = %s;", outType, outputLocal, b.callEntry(ctx))

	loc := 0
	var position string
	for _, f := range out.Fields {
		if f.Semantic == ir.SemanticSystemPosition {
			position = escapeKeyword(f.Name)
			continue
		}
		w.WriteLine("%s%d = %s.%s;", varyingPrefix, loc, outputLocal, escapeKeyword(f.Name))
		loc++
	}
	w.WriteLine("gl_Position = %s.%s;", outputLocal, position)
	if b.options.CorrectDepth {
		w.WriteLine("gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;")
	}
	if b.options.CorrectClipSpace {
		w.WriteLine("gl_Position.y = -gl_Position.y;")
	}
	w.PopIndent()
	w.WriteLine("}")
	return nil
}

// writeInputCopy declares the user input structure and fills it from the
// stage variables. Vertex inputs are named after their fields; fragment
// inputs are numbered varyings and SystemPosition reads gl_FragCoord.
func (b *Backend) writeInputCopy(w *backend.Writer, in *model.StructureDefinition, varyings *int) error {
	if in == nil {
		return nil
	}
	inType, err := b.TypeName(ir.Ref(in.Name))
	if err != nil {
		return err
	}
	w.WriteLine("%s %s;", inType, inputLocal)
	for _, f := range in.Fields {
		field := escapeKeyword(f.Name)
		switch {
		case varyings == nil:
			w.WriteLine("%s.%s = %s;", inputLocal, field, field)
		case f.Semantic == ir.SemanticSystemPosition:
			w.WriteLine("%s.%s = gl_FragCoord;", inputLocal, field)
		default:
			w.WriteLine("%s.%s = %s%d;", inputLocal, field, varyingPrefix, *varyings)
			*varyings++
		}
	}
	return nil
}

func (b *Backend) writeFragmentMain(w *backend.Writer, ctx *backend.Context) error {
	in, out := ctx.IO.Input, ctx.IO.Output
	fn := ctx.Entry.Function

	if in != nil {
		if err := b.writeVaryings(w, in, "in"); err != nil {
			return err
		}
		w.BlankLine()
	}
	switch {
	case out != nil:
		for i := range out.Fields {
			w.WriteLine("%sout vec4 %s%d;", b.location(i), colorOutput, i)
		}
		w.BlankLine()
	case !fn.Return.IsVoid():
		w.WriteLine("%sout vec4 %s;", b.location(0), colorOutput)
		w.BlankLine()
	}

	w.WriteLine("void main()")
	w.WriteLine("{")
	w.PushIndent()
	varyings := 0
	if err := b.writeInputCopy(w, in, &varyings); err != nil {
		return err
	}
	switch {
	case out != nil:
		outType, err := b.TypeName(ir.Ref(out.Name))
		if err != nil {
			return err
		}
		w.WriteLine("%s %s = %s;", outType, outputLocal, b.callEntry(ctx))
		for i, f := range out.Fields {
			w.WriteLine("%s%d = %s.%s;", colorOutput, i, outputLocal, escapeKeyword(f.Name))
		}
	case !fn.Return.IsVoid():
		w.WriteLine("%s = %s;", colorOutput, b.callEntry(ctx))
	default:
		w.WriteLine("%s;", b.callEntry(ctx))
	}
	w.PopIndent()
	w.WriteLine("}")
	return nil
}

func (b *Backend) writeComputeMain(w *backend.Writer, ctx *backend.Context) error {
	size := ctx.Entry.Function.Workgroup
	w.WriteLine("layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;", size[0], size[1], size[2])
	w.BlankLine()
	w.WriteLine("void main()")
	w.WriteLine("{")
	w.PushIndent()
	w.WriteLine("%s;", b.callEntry(ctx))
	w.PopIndent()
	w.WriteLine("}")
	return nil
}
