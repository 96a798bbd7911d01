// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

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
	t.Add(bi, 1, backend.Call("inversesqrt"), "Rsqrt")
	t.Add(bi, 1, backend.Call("dFdx"), "Ddx")
	t.Add(bi, 1, backend.Call("dFdy"), "Ddy")
	t.Add(bi, 2, backend.Call("atan"), "Atan2")
	t.Add(bi, 2, backend.Call("mod"), "Fmod")
	t.Add(bi, 3, backend.Call("mix"), "Lerp")
	t.Add(bi, 3, backend.Call("smoothstep"), "SmoothStep")
	t.Add(bi, 2, backend.Infix("*"), "Mul")
	t.Add(bi, 0, backend.Call("barrier"), "GroupMemoryBarrierWithGroupSync")
	t.Add(bi, 1, saturate, "Saturate")

	t.Add(bi, 3, b.sample, "Sample")
	t.Add(bi, 4, b.sampleLevel, "SampleLevel")
	t.Add(bi, 4, b.sampleComparisonLevelZero, "SampleComparisonLevelZero")
	t.Add(bi, 4, b.load, "Load")
	t.Add(bi, 2, imageLoad, "ImageLoad")
	t.Add(bi, 3, imageStore, "ImageStore")
	t.Add(bi, 3, interlockedAdd, "InterlockedAdd")

	mul := func(m, v string) string { return "(" + m + " * " + v + ")" }
	for _, owner := range backend.VectorOwners {
		t.AddLowercase(owner, backend.VectorFunctions)
		t.Add(owner, 3, backend.Call("mix"), "Lerp")
		t.Add(owner, 2, backend.Transform(owner, "vec4", mul), "Transform")
	}
	t.Add(ir.TypeVector3, 2, backend.Call("cross"), "Cross")
	return t
}

func saturate(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return "clamp(" + args[0].Code + ", 0.0, 1.0)", nil
}

// sampler returns the expression sampled through: the texture itself in
// the combined-sampler dialects, a combined constructor in GLSL 4.50.
func (b *Backend) sampler(tex, samp backend.Operand) (string, error) {
	if b.dialect != dialect450 {
		return tex.Code, nil
	}
	ctor, ok := combinedNames[tex.Type.Name]
	if !ok || !ir.IsResourceType(tex.Type.Name) {
		return "", ir.NewError(ir.ErrUnsupportedType, tex.Type.Name, "cannot be sampled")
	}
	return ctor + "(" + tex.Code + ", " + samp.Code + ")", nil
}

func (b *Backend) sample(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	s, err := b.sampler(args[0], args[1])
	if err != nil {
		return "", err
	}
	return "texture(" + s + ", " + args[2].Code + ")", nil
}

func (b *Backend) sampleLevel(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	s, err := b.sampler(args[0], args[1])
	if err != nil {
		return "", err
	}
	return "textureLod(" + s + ", " + args[2].Code + ", " + args[3].Code + ")", nil
}

func (b *Backend) sampleComparisonLevelZero(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	s, err := b.sampler(args[0], args[1])
	if err != nil {
		return "", err
	}
	coords, ref := args[2].Code, args[3].Code
	switch args[0].Type.Name {
	case ir.TypeDepthTexture2D:
		return "textureLod(" + s + ", vec3(" + coords + ", " + ref + "), 0.0)", nil
	case ir.TypeDepthTexture2DArray:
		return "texture(" + s + ", vec4(" + coords + ", " + ref + "))", nil
	}
	return "", ir.NewError(ir.ErrUnsupportedType, args[0].Type.Name, "comparison sampling needs a depth texture")
}

func (b *Backend) load(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	s, err := b.sampler(args[0], args[1])
	if err != nil {
		return "", err
	}
	return "texelFetch(" + s + ", ivec2(" + args[2].Code + "), " + args[3].Code + ")", nil
}

func imageLoad(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	out := "imageLoad(" + args[0].Code + ", ivec2(" + args[1].Code + "))"
	if backend.VectorSize(inv.Result) == 1 {
		out += ".x"
	}
	return out, nil
}

func imageStore(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	value := args[2].Code
	if backend.VectorSize(args[2].Type) == 1 {
		value = "vec4(" + value + ")"
	}
	return "imageStore(" + args[0].Code + ", ivec2(" + args[1].Code + "), " + value + ")", nil
}

func interlockedAdd(_ *backend.Context, inv backend.Invocation) (string, error) {
	args := inv.Args
	return "atomicAdd(" + args[0].Code + "[" + args[1].Code + "], " + args[2].Code + ")", nil
}
