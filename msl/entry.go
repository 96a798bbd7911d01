package msl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

var stageQualifiers = map[ir.FunctionKind]string{
	ir.FunctionVertex:   "vertex",
	ir.FunctionFragment: "fragment",
	ir.FunctionCompute:  "kernel",
}

// WriteEntryPoint writes the stage function. It receives the stage input,
// resources and built-ins as attributed parameters, constructs the
// container and calls the user function on it.
func (b *Backend) WriteEntryPoint(w *backend.Writer, ctx *backend.Context) error {
	fn := ctx.Entry.Function
	qualifier, ok := stageQualifiers[fn.Kind]
	if !ok {
		return ir.NewError(ir.ErrEntryPointNotFound, fn.String(), "not an entry point")
	}
	members, err := b.members(ctx)
	if err != nil {
		return err
	}

	var params []string
	if ctx.IO.Input != nil {
		t, err := b.TypeName(ir.Ref(ctx.IO.Input.Name))
		if err != nil {
			return err
		}
		params = append(params, t+" "+inputParam+" [[stage_in]]")
	}
	args := make([]string, len(members))
	for i, m := range members {
		params = append(params, fmt.Sprintf("%s %s [[%s]]", m.decl, m.name, m.attribute))
		args[i] = m.name
	}

	ret, err := b.TypeName(fn.Return)
	if err != nil {
		return err
	}
	w.WriteLine("%s %s %s(%s)", qualifier, ret, escapeName(fn.Name), strings.Join(params, ", "))
	w.WriteLine("{")
	w.PushIndent()
	call := fmt.Sprintf("%s(%s).%s()", containerName, strings.Join(args, ", "), b.FunctionName(fn.ID()))
	if ctx.IO.Input != nil {
		call = fmt.Sprintf("%s(%s).%s(%s)", containerName, strings.Join(args, ", "), b.FunctionName(fn.ID()), inputParam)
	}
	if fn.Return.IsVoid() {
		w.WriteLine("%s;", call)
	} else {
		w.WriteLine("return %s;", call)
	}
	w.PopIndent()
	w.WriteLine("}")
	return nil
}

// Header returns the standard library includes.
func (b *Backend) Header(*backend.Context) (string, error) {
	return "#include <metal_stdlib>\n#include <simd/simd.h>\nusing namespace metal;\n\n", nil
}
