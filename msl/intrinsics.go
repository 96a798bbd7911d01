package msl

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
	t.Add(bi, 1, backend.Call("fract"), "Frac")
	t.Add(bi, 1, backend.Call("rsqrt"), "Rsqrt")
	t.Add(bi, 1, backend.Call("dfdx"), "Ddx")
	t.Add(bi, 1, backend.Call("dfdy"), "Ddy")
	t.Add(bi, 1, backend.Call("saturate"), "Saturate")
	t.Add(bi, 2, backend.Call("atan2"), "Atan2")
	t.Add(bi, 2, backend.Call("fmod"), "Fmod")
	t.Add(bi, 3, backend.Call("mix"), "Lerp")
	t.Add(bi, 3, backend.Call("smoothstep"), "SmoothStep")
	t.Add(bi, 2, backend.Infix("*"), "Mul")
	t.Add(bi, 0, barrier, "GroupMemoryBarrierWithGroupSync")

	t.Add(bi, 3, sample, "Sample")
	t.Add(bi, 4, sampleLevel, "SampleLevel")
	t.Add(bi, 4, sampleComparisonLevelZero, "SampleComparisonLevelZero")
	t.Add(bi, 4, load, "Load")
	t.Add(bi, 2, imageLoad, "ImageLoad")
	t.Add(bi, 3, imageStore, "ImageStore")
	t.Add(bi, 3, interlockedAdd, "InterlockedAdd")

	mul := func(m, v string) string { return "(" + m + " * " + v + ")" }
	for _, owner := range backend.VectorOwners {
		t.AddLowercase(owner, backend.VectorFunctions)
		t.Add(owner, 3, backend.Call("mix"), "Lerp")
		t.Add(owner, 2, backend.Transform(owner, "float4", mul), "Transform")
	}
	t.Add(ir.TypeVector3, 2, backend.Call("cross"), "Cross")
	return t
}

func barrier(*backend.Context, backend.Invocation) (string, error) {
	return "threadgroup_barrier(mem_flags::mem_threadgroup)", nil
}

// coordinates splits array texture coordinates into the 2D position and
// the slice index Metal takes as separate arguments.
func coordinates(tex, coords backend.Operand) string {
	switch tex.Type.Name {
	case ir.TypeTexture2DArray, ir.TypeDepthTexture2DArray:
		return coords.Code + ".xy, uint(" + coords.Code + ".z)"
	}
	return coords.Code
}

func sample(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + ".sample(" + args[1].Code + ", " + coordinates(args[0], args[2]) + ")", nil
}

func sampleLevel(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + ".sample(" + args[1].Code + ", " + coordinates(args[0], args[2]) +
		", level(" + args[3].Code + "))", nil
}

func sampleComparisonLevelZero(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	switch args[0].Type.Name {
	case ir.TypeDepthTexture2D, ir.TypeDepthTexture2DArray:
		return args[0].Code + ".sample_compare(" + args[1].Code + ", " + coordinates(args[0], args[2]) +
			", " + args[3].Code + ", level(0))", nil
	}
	return "", ir.NewError(ir.ErrUnsupportedType, args[0].Type.Name, "comparison sampling needs a depth texture")
}

// load reads one texel. The sampler argument is unused; Metal reads
// textures without one.
func load(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return args[0].Code + ".read(uint2(" + args[2].Code + "), " + args[3].Code + ")", nil
}

func imageLoad(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	out := args[0].Code + ".read(uint2(" + args[1].Code + "))"
	if backend.VectorSize(inv.Result) == 1 {
		out += ".x"
	}
	return out, nil
}

func imageStore(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	value := args[2].Code
	if backend.VectorSize(args[2].Type) == 1 {
		value = "float4(" + value + ")"
	}
	return args[0].Code + ".write(" + value + ", uint2(" + args[1].Code + "))", nil
}

func interlockedAdd(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	atomic := "atomic_uint"
	if args[0].Type.Name == ir.TypeAtomicBufferInt32 {
		atomic = "atomic_int"
	}
	return "atomic_fetch_add_explicit((device " + atomic + "*)&" + args[0].Code + "[" + args[1].Code + "], " +
		args[2].Code + ", memory_order_relaxed)", nil
}
