// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strconv"
	"strings"
)

// unnamedIdentifier replaces empty identifiers.
const unnamedIdentifier = "_unnamed"

// Reserved words, grouped the way the FXC and DXC compilers document them.
const (
	languageKeywords = `
		asm asm_fragment bool break case cbuffer centroid class column_major
		compile compile_fragment const continue default discard do double
		dword else export extern false float for fxgroup groupshared half if
		in inline inout int interface line lineadj linear matrix min10float
		min12int min16float min16int min16uint namespace nointerpolation
		noperspective NULL out packoffset pass pixelfragment point precise
		return register row_major sample sampler shared snorm stateblock
		stateblock_state static string struct switch tbuffer technique
		technique10 technique11 texture true typedef triangle triangleadj uint
		uniform unorm unsigned vector vertexfragment void volatile while
		globallycoherent indices vertices primitives payload attributes`

	// C and C++ words the compilers refuse as identifiers.
	hostKeywords = `
		auto catch char const_cast delete dynamic_cast enum explicit friend
		goto long mutable new operator private protected public
		reinterpret_cast short signed sizeof static_cast template this throw
		try typename union using virtual typeid typeof wchar_t nullptr
		constexpr decltype noexcept static_assert thread_local alignas alignof
		char8_t char16_t char32_t co_await co_return co_yield concept requires
		consteval constinit _Alignas _Alignof _Atomic _Bool _Complex _Generic
		_Imaginary _Noreturn _Static_assert _Thread_local _Decimal32
		_Decimal64 _Decimal128 _asm`

	objectTypes = `
		AppendStructuredBuffer BlendState Buffer ByteAddressBuffer
		CompileShader ComputeShader ConsumeStructuredBuffer ConstantBuffer
		DepthStencilState DepthStencilView DomainShader GeometryShader
		Hullshader InputPatch LineStream OutputPatch PixelShader PointStream
		RasterizerState RenderTargetView RWBuffer RWByteAddressBuffer
		RWStructuredBuffer RWTexture1D RWTexture1DArray RWTexture2D
		RWTexture2DArray RWTexture2DMS RWTexture2DMSArray RWTexture3D
		RWTextureCube RWTextureCubeArray SamplerState SamplerComparisonState
		StructuredBuffer Texture1D Texture1DArray Texture2D Texture2DArray
		Texture2DMS Texture2DMSArray Texture3D TextureBuffer TextureCube
		TextureCubeArray TriangleStream VertexShader`

	// Intrinsics a local of the same name would hide from generated calls.
	intrinsics = `
		abort abs acos all AllMemoryBarrier AllMemoryBarrierWithGroupSync any
		asdouble asfloat asin asint asuint atan atan2 ceil clamp clip cos cosh
		countbits cross ddx ddx_coarse ddx_fine ddy ddy_coarse ddy_fine
		degrees determinant DeviceMemoryBarrier
		DeviceMemoryBarrierWithGroupSync distance dot dst errorf exp exp2
		f16tof32 f32tof16 faceforward firstbithigh firstbitlow floor fma fmod
		frac frexp fwidth GroupMemoryBarrier GroupMemoryBarrierWithGroupSync
		InterlockedAdd InterlockedAnd InterlockedCompareExchange
		InterlockedCompareStore InterlockedExchange InterlockedMax
		InterlockedMin InterlockedOr InterlockedXor isfinite isinf isnan ldexp
		length lerp lit log log10 log2 mad max min modf msad4 mul noise
		normalize pow printf radians rcp reflect refract reversebits round
		rsqrt saturate sign sin sincos sinh smoothstep sqrt step tan tanh
		transpose trunc`

	// Locals declared by the synthesized entry function.
	entryLocals = `input_ output_`

	// Legacy effect keywords FXC matches regardless of case.
	foldedKeywords = `asm decl pass technique texture1d texture2d texture3d texturecube`
)

var (
	reserved = wordSet(languageKeywords, hostKeywords, objectTypes, intrinsics, entryLocals, shorthandTypes())
	folded   = wordSet(foldedKeywords)
)

func wordSet(lists ...string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, w := range strings.Fields(list) {
			set[w] = true
		}
	}
	return set
}

// shorthandTypes spells every scalar, vector (T1..T4) and matrix (TRxC)
// type name.
func shorthandTypes() string {
	scalars := []struct {
		name           string
		vector, matrix bool
	}{
		{"bool", true, true}, {"int", true, true}, {"uint", true, true},
		{"dword", true, false}, {"half", true, true}, {"float", true, true},
		{"double", true, true}, {"min10float", true, true},
		{"min16float", true, true}, {"min12int", true, true},
		{"min16int", true, true}, {"min16uint", true, true},
		{"int16_t", true, false}, {"int32_t", true, false}, {"int64_t", true, false},
		{"uint16_t", true, false}, {"uint32_t", true, false}, {"uint64_t", true, false},
		{"float16_t", true, true}, {"float32_t", true, true}, {"float64_t", true, true},
		{"int8_t4_packed", false, false}, {"uint8_t4_packed", false, false},
	}

	var sb strings.Builder
	for _, s := range scalars {
		sb.WriteString(s.name + " ")
		for r := 1; r <= 4; r++ {
			n := strconv.Itoa(r)
			if s.vector {
				sb.WriteString(s.name + n + " ")
			}
			if !s.matrix {
				continue
			}
			for c := 1; c <= 4; c++ {
				sb.WriteString(s.name + n + "x" + strconv.Itoa(c) + " ")
			}
		}
	}
	return sb.String()
}

// IsReserved reports whether name cannot be used as an HLSL identifier.
// Names starting with a double underscore belong to the compiler.
func IsReserved(name string) bool {
	return reserved[name] || strings.HasPrefix(name, "__")
}

// IsCaseInsensitiveReserved reports whether name collides with a legacy
// keyword that is matched without regard to case.
func IsCaseInsensitiveReserved(name string) bool {
	return folded[strings.ToLower(name)]
}

// Escape returns name as a usable HLSL identifier.
func Escape(name string) string {
	switch {
	case name == "":
		return unnamedIdentifier
	case strings.HasPrefix(name, "__"):
		return "x" + name
	case IsReserved(name) || IsCaseInsensitiveReserved(name):
		return "_" + name
	}
	return name
}
