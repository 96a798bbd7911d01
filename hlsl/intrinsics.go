// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

func (b *Backend) invocationTable() backend.InvocationTable {
	t := make(backend.InvocationTable)
	const bi = ir.TypeBuiltins

	t.AddLowercase(bi, backend.MathFunctions)
	t.Add(bi, 1, backend.Call("ceil"), "Ceiling")
	t.Add(bi, 1, backend.Call("trunc"), "Truncate")
	t.Add(bi, 1, backend.Call("frac"), "Frac")
	t.Add(bi, 1, backend.Call("rsqrt"), "Rsqrt")
	t.Add(bi, 1, backend.Call("ddx"), "Ddx")
	t.Add(bi, 1, backend.Call("ddy"), "Ddy")
	t.Add(bi, 1, backend.Call("saturate"), "Saturate")
	t.Add(bi, 2, backend.Call("atan2"), "Atan2")
	t.Add(bi, 2, backend.Call("fmod"), "Fmod")
	t.Add(bi, 2, backend.Call("mul"), "Mul")
	t.Add(bi, 3, backend.Call("lerp"), "Lerp")
	t.Add(bi, 3, backend.Call("smoothstep"), "SmoothStep")
	t.Add(bi, 0, backend.Call("GroupMemoryBarrierWithGroupSync"), "GroupMemoryBarrierWithGroupSync")

	t.Add(bi, 3, method("Sample"), "Sample")
	t.Add(bi, 4, method("SampleLevel"), "SampleLevel")
	t.Add(bi, 4, method("SampleCmpLevelZero"), "SampleComparisonLevelZero")
	t.Add(bi, 4, load, "Load")
	t.Add(bi, 2, imageLoad, "ImageLoad")
	t.Add(bi, 3, imageStore, "ImageStore")
	t.Add(bi, 3, interlockedAdd, "InterlockedAdd")

	mul := func(m, v string) string { return "mul(" + m + ", " + v + ")" }
	for _, owner := range backend.VectorOwners {
		t.AddLowercase(owner, backend.VectorFunctions)
		t.Add(owner, 3, backend.Call("lerp"), "Lerp")
		t.Add(owner, 2, backend.Transform(owner, "float4", mul), "Transform")
	}
	t.Add(ir.TypeVector3, 2, backend.Call("cross"), "Cross")
	return t
}

// method formats a texture intrinsic as a method call on its first
// operand.
func method(name string) backend.InvocationFunc {
	return func(_ *backend.Context, inv backend.Invocation) (string, error) {
		return inv.Args[0].Code + "." + name + "(" + backend.JoinOperands(inv.Args[1:]) + ")", nil
	}
}

// load reads one sample of a multisampled texture; the sampler operand is
// only needed by targets without standalone textures.
func load(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + ".Load(int2(" + args[2].Code + "), " + args[3].Code + ")", nil
}

func imageLoad(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + "[uint2(" + args[1].Code + ")]", nil
}

func imageStore(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + "[uint2(" + args[1].Code + ")] = " + args[2].Code, nil
}

func interlockedAdd(_ *backend.Context, inv backend.Invocation) (string, error) {
	if !inv.Result.IsVoid() {
		return "", ir.NewError(ir.ErrUnsupportedFeature, inv.ID.String(),
			"the previous value is not available in HLSL; call it as a statement")
	}
	args := inv.Args
	return "InterlockedAdd(" + args[0].Code + "[" + args[1].Code + "], " + args[2].Code + ")", nil
}
