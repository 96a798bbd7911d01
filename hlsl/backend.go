// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	nagahlsl "github.com/gogpu/naga/hlsl"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

// Options configures HLSL code generation.
type Options struct {
	// ShaderModel selects the compiler profile, e.g. vs_5_0.
	ShaderModel nagahlsl.ShaderModel
}

// DefaultOptions returns Shader Model 5.0 options.
func DefaultOptions() Options {
	return Options{ShaderModel: nagahlsl.ShaderModel5_0}
}

// Backend generates HLSL. It holds no per-stage state.
type Backend struct {
	options Options
	table   backend.InvocationTable
}

// New creates a backend with default options.
func New() *Backend {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a backend.
func NewWithOptions(options Options) *Backend {
	b := &Backend{options: options}
	b.table = b.invocationTable()
	return b
}

// Target returns backend.TargetHLSL.
func (b *Backend) Target() backend.Target {
	return backend.TargetHLSL
}

// Profile returns the compiler profile for a stage, such as "vs_5_0".
func (b *Backend) Profile(stage ir.FunctionKind) string {
	prefix := "vs_"
	switch stage {
	case ir.FunctionFragment:
		prefix = "ps_"
	case ir.FunctionCompute:
		prefix = "cs_"
	}
	return prefix + b.options.ShaderModel.ProfileSuffix()
}

var primitiveNames = map[string]string{
	ir.TypeVoid:      "void",
	ir.TypeBool:      "bool",
	ir.TypeInt:       "int",
	ir.TypeUint:      "uint",
	ir.TypeFloat:     "float",
	ir.TypeVector2:   "float2",
	ir.TypeVector3:   "float3",
	ir.TypeVector4:   "float4",
	ir.TypeMatrix4x4: "float4x4",
	ir.TypeInt2:      "int2",
	ir.TypeInt3:      "int3",
	ir.TypeInt4:      "int4",
	ir.TypeUInt2:     "uint2",
	ir.TypeUInt3:     "uint3",
	ir.TypeUInt4:     "uint4",
}

var resourceNames = map[string]string{
	ir.TypeTexture2D:           "Texture2D",
	ir.TypeTexture2DArray:      "Texture2DArray",
	ir.TypeTextureCube:         "TextureCube",
	ir.TypeTexture2DMS:         "Texture2DMS<float4>",
	ir.TypeDepthTexture2D:      "Texture2D",
	ir.TypeDepthTexture2DArray: "Texture2DArray",
	ir.TypeSampler:             "SamplerState",
	ir.TypeSamplerComparison:   "SamplerComparisonState",
}

// TypeName spells t in HLSL.
func (b *Backend) TypeName(t ir.TypeReference) (string, error) {
	if t.IsVoid() {
		return "void", nil
	}
	if n, ok := primitiveNames[t.Name]; ok {
		return n, nil
	}
	if n, ok := resourceNames[t.Name]; ok {
		return n, nil
	}
	if ir.IsResourceType(t.Name) || t.Name == ir.TypeBuiltins {
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "type cannot be used as a value in HLSL")
	}
	return Escape(backend.MangleName(t.Name)), nil
}

// IdentifierName maps vector and matrix components and escapes the rest.
func (b *Backend) IdentifierName(owner ir.TypeReference, member string) string {
	if c, ok := backend.ComponentName(owner, member); ok {
		return c
	}
	return Escape(member)
}

// CorrectIdentifier escapes HLSL reserved words.
func (b *Backend) CorrectIdentifier(name string) string {
	return Escape(name)
}

// FunctionName returns the mangled "Type_Method" name.
func (b *Backend) FunctionName(id ir.FunctionID) string {
	return Escape(backend.MangleFunction(id))
}

// FormatInvocation translates an intrinsic call.
func (b *Backend) FormatInvocation(ctx *backend.Context, inv backend.Invocation) (string, error) {
	return b.table.Format(ctx, inv)
}

// FormatCast uses C cast syntax.
func (b *Backend) FormatCast(t ir.TypeReference, value backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	return "(" + name + ")(" + value.Code + ")", nil
}

// FormatBinary turns products involving a matrix into mul(), since "*"
// is component-wise in HLSL.
func (b *Backend) FormatBinary(op ir.BinaryOperator, left, right backend.Operand) string {
	if op == ir.BinaryMultiply && (backend.IsMatrixType(left.Type) || backend.IsMatrixType(right.Type)) {
		return "mul(" + left.Code + ", " + right.Code + ")"
	}
	return backend.InfixBinary(op, left, right)
}

// FormatLiteral formats a literal with a "u" suffix on unsigned integers.
func (b *Backend) FormatLiteral(v ir.LiteralValue) string {
	return backend.FormatLiteralC(v, "u")
}

// FormatParameter writes a parameter with its in/out modifier.
func (b *Backend) FormatParameter(p ir.Param) (string, error) {
	t, err := b.TypeName(p.Type)
	if err != nil {
		return "", err
	}
	name := Escape(p.Name)
	switch p.Direction {
	case ir.DirOut:
		return "out " + t + " " + name, nil
	case ir.DirInOut:
		return "inout " + t + " " + name, nil
	}
	return t + " " + name, nil
}

// DiscardStatement returns "discard".
func (b *Backend) DiscardStatement() string {
	return "discard"
}

// FormatConstruction builds vectors and matrices with constructor syntax
// and zero values with a cast of 0. Structures with field arguments need
// a declared constructor.
func (b *Backend) FormatConstruction(ctx *backend.Context, t ir.TypeReference, args []backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		if _, ok := ir.LookupPrimitive(t.Name); ok || ctx.Structure(t) != nil {
			return "(" + name + ")0", nil
		}
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "cannot construct a value of this type")
	}
	if _, ok := ir.LookupPrimitive(t.Name); ok {
		return name + "(" + backend.JoinOperands(args) + ")", nil
	}
	return "", ir.NewError(ir.ErrUnsupportedFeature, t.Name,
		"constructing a structure from arguments requires a %q method", ir.CtorName)
}
