// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

const inputParam = "input_"

// WriteEntryPoint writes the stage entry function, named after the user
// function, which forwards to the mangled user function.
func (b *Backend) WriteEntryPoint(w *backend.Writer, ctx *backend.Context) error {
	fn := ctx.Entry.Function

	var params []string
	if ctx.IO.Input != nil {
		t, err := b.TypeName(ir.Ref(ctx.IO.Input.Name))
		if err != nil {
			return err
		}
		params = append(params, t+" "+inputParam)
	}
	for _, name := range ctx.Entry.Builtins {
		bv, _ := ir.LookupBuiltinVariable(name)
		t, err := b.TypeName(ir.Ref(bv.Type))
		if err != nil {
			return err
		}
		params = append(params, fmt.Sprintf("%s builtin_%s : %s", t, name, builtinSemantics[name]))
	}

	ret, err := b.TypeName(fn.Return)
	if err != nil {
		return err
	}
	signature := fmt.Sprintf("%s %s(%s)", ret, Escape(fn.Name), strings.Join(params, ", "))
	if fn.Kind == ir.FunctionFragment && ctx.IO.Output == nil && !fn.Return.IsVoid() {
		signature += " : SV_Target"
	}

	if fn.Kind == ir.FunctionCompute {
		w.WriteLine("[numthreads(%d, %d, %d)]", fn.Workgroup[0], fn.Workgroup[1], fn.Workgroup[2])
	}
	w.WriteLine(signature)
	w.WriteLine("{")
	w.PushIndent()
	for _, name := range ctx.Entry.Builtins {
		w.WriteLine("%s = builtin_%s;", builtinGlobal(name), name)
	}
	call := b.FunctionName(fn.ID()) + "()"
	if ctx.IO.Input != nil {
		call = b.FunctionName(fn.ID()) + "(" + inputParam + ")"
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
