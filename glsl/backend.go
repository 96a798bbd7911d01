// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	nagaglsl "github.com/gogpu/naga/glsl"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

// Options configures GLSL code generation.
type Options struct {
	// Version is the minimum GLSL version. A stage that needs compute
	// shaders or storage buffers raises it to the first version that has
	// them. Zero selects the target's base version.
	Version nagaglsl.Version

	// CorrectDepth remaps clip-space depth from [0, w] to [-w, w].
	CorrectDepth bool

	// CorrectClipSpace negates clip-space Y.
	CorrectClipSpace bool
}

// DefaultOptions returns the options a GLSL target uses unless told
// otherwise. GLSL 3.30 and ES 3.00 run on OpenGL and need the depth
// remap; GLSL 4.50 output feeds Vulkan, whose clip space is Y-down.
func DefaultOptions(target backend.Target) (Options, error) {
	switch target {
	case backend.TargetGLSL330:
		return Options{Version: nagaglsl.Version330, CorrectDepth: true}, nil
	case backend.TargetGLSLES300:
		return Options{Version: nagaglsl.VersionES300, CorrectDepth: true}, nil
	case backend.TargetGLSL450:
		return Options{Version: nagaglsl.Version450, CorrectClipSpace: true}, nil
	}
	return Options{}, fmt.Errorf("glsl: %s is not a GLSL target", target)
}

type dialect uint8

const (
	dialect330 dialect = iota
	dialectES
	dialect450
)

// Backend generates GLSL. It holds no per-stage state and may be shared
// by concurrent drivers.
type Backend struct {
	target  backend.Target
	dialect dialect
	options Options
	table   backend.InvocationTable
}

// New creates a backend for a GLSL target with its default options.
func New(target backend.Target) (*Backend, error) {
	opts, err := DefaultOptions(target)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(target, opts)
}

// NewWithOptions creates a backend for a GLSL target.
func NewWithOptions(target backend.Target, options Options) (*Backend, error) {
	defaults, err := DefaultOptions(target)
	if err != nil {
		return nil, err
	}
	if options.Version.Major == 0 {
		options.Version = defaults.Version
	}
	b := &Backend{target: target, options: options}
	switch target {
	case backend.TargetGLSL330:
		b.dialect = dialect330
	case backend.TargetGLSLES300:
		b.dialect = dialectES
	default:
		b.dialect = dialect450
	}
	if options.Version.ES != (b.dialect == dialectES) {
		return nil, fmt.Errorf("glsl: version %s does not match target %s", options.Version, target)
	}
	b.table = b.invocationTable()
	return b, nil
}

// Target returns the target this backend was created for.
func (b *Backend) Target() backend.Target {
	return b.target
}

// Profile returns the configured GLSL version number. Stages that need a
// newer version declare it in their header; see EffectiveVersion.
func (b *Backend) Profile(ir.FunctionKind) string {
	return b.options.Version.VersionNumber()
}

// Options returns the effective options.
func (b *Backend) Options() Options {
	return b.options
}

var primitiveNames = map[string]string{
	ir.TypeVoid:      "void",
	ir.TypeBool:      "bool",
	ir.TypeInt:       "int",
	ir.TypeUint:      "uint",
	ir.TypeFloat:     "float",
	ir.TypeVector2:   "vec2",
	ir.TypeVector3:   "vec3",
	ir.TypeVector4:   "vec4",
	ir.TypeMatrix4x4: "mat4",
	ir.TypeInt2:      "ivec2",
	ir.TypeInt3:      "ivec3",
	ir.TypeInt4:      "ivec4",
	ir.TypeUInt2:     "uvec2",
	ir.TypeUInt3:     "uvec3",
	ir.TypeUInt4:     "uvec4",
}

// combinedNames are the texture and sampler spellings of the dialects
// without separate sampler objects.
var combinedNames = map[string]string{
	ir.TypeTexture2D:           "sampler2D",
	ir.TypeTexture2DArray:      "sampler2DArray",
	ir.TypeTextureCube:         "samplerCube",
	ir.TypeTexture2DMS:         "sampler2DMS",
	ir.TypeDepthTexture2D:      "sampler2DShadow",
	ir.TypeDepthTexture2DArray: "sampler2DArrayShadow",
	ir.TypeSampler:             "SamplerDummy",
	ir.TypeSamplerComparison:   "SamplerComparisonDummy",
}

var separateNames = map[string]string{
	ir.TypeTexture2D:           "texture2D",
	ir.TypeTexture2DArray:      "texture2DArray",
	ir.TypeTextureCube:         "textureCube",
	ir.TypeTexture2DMS:         "texture2DMS",
	ir.TypeDepthTexture2D:      "texture2D",
	ir.TypeDepthTexture2DArray: "texture2DArray",
	ir.TypeSampler:             "sampler",
	ir.TypeSamplerComparison:   "samplerShadow",
}

// TypeName spells t in GLSL.
func (b *Backend) TypeName(t ir.TypeReference) (string, error) {
	if t.IsVoid() {
		return "void", nil
	}
	if n, ok := primitiveNames[t.Name]; ok {
		return n, nil
	}
	if ir.IsResourceType(t.Name) {
		names := combinedNames
		if b.dialect == dialect450 {
			names = separateNames
		}
		if n, ok := names[t.Name]; ok {
			return n, nil
		}
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "resource type cannot be used as a value in GLSL")
	}
	if t.Name == ir.TypeBuiltins {
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "not a value type")
	}
	return escapeKeyword(backend.MangleName(t.Name)), nil
}

// IdentifierName maps vector and matrix components to swizzles and
// indices and escapes everything else.
func (b *Backend) IdentifierName(owner ir.TypeReference, member string) string {
	if c, ok := backend.ComponentName(owner, member); ok {
		return c
	}
	return escapeKeyword(member)
}

// CorrectIdentifier escapes GLSL reserved words.
func (b *Backend) CorrectIdentifier(name string) string {
	return escapeKeyword(name)
}

// FunctionName returns the mangled "Type_Method" name.
func (b *Backend) FunctionName(id ir.FunctionID) string {
	return escapeKeyword(backend.MangleFunction(id))
}

// FormatInvocation translates an intrinsic call.
func (b *Backend) FormatInvocation(ctx *backend.Context, inv backend.Invocation) (string, error) {
	return b.table.Format(ctx, inv)
}

// FormatCast uses constructor syntax.
func (b *Backend) FormatCast(t ir.TypeReference, value backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	return name + "(" + value.Code + ")", nil
}

// FormatBinary spells floating point remainder as mod().
func (b *Backend) FormatBinary(op ir.BinaryOperator, left, right backend.Operand) string {
	if op == ir.BinaryModulo && (backend.IsFloatType(left.Type) || backend.IsFloatType(right.Type)) {
		return "mod(" + left.Code + ", " + right.Code + ")"
	}
	return backend.InfixBinary(op, left, right)
}

// FormatLiteral formats a literal with a "u" suffix on unsigned integers.
func (b *Backend) FormatLiteral(v ir.LiteralValue) string {
	return backend.FormatLiteralC(v, "u")
}

// FormatParameter writes a parameter with its in/out qualifier.
func (b *Backend) FormatParameter(p ir.Param) (string, error) {
	t, err := b.TypeName(p.Type)
	if err != nil {
		return "", err
	}
	name := escapeKeyword(p.Name)
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

// FormatConstruction builds vectors, matrices and structures with
// constructor syntax. A structure constructed without arguments is
// zero-initialized field by field.
func (b *Backend) FormatConstruction(ctx *backend.Context, t ir.TypeReference, args []backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	if _, ok := ir.LookupPrimitive(t.Name); ok {
		if len(args) == 0 {
			return b.zeroValue(ctx, t, 0)
		}
		return name + "(" + backend.JoinOperands(args) + ")", nil
	}

	sd := ctx.Structure(t)
	if sd == nil {
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "cannot construct a value of this type")
	}
	if len(args) == 0 {
		return b.zeroValue(ctx, t, 0)
	}
	if len(args) != len(sd.Fields) {
		return "", ir.NewError(ir.ErrUnsupportedFeature, t.Name,
			"construction takes %d arguments, one per field, got %d", len(sd.Fields), len(args))
	}
	return name + "(" + backend.JoinOperands(args) + ")", nil
}

// zeroValue returns the zero constant of t, or of an array of t when n > 0.
func (b *Backend) zeroValue(ctx *backend.Context, t ir.TypeReference, n int) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	var elem string
	if p, ok := ir.LookupPrimitive(t.Name); ok {
		switch {
		case p.Kind == ir.ScalarBool && p.IsScalar():
			elem = "false"
		case p.IsScalar():
			elem = name + "(0)"
		case p.Kind == ir.ScalarBool:
			elem = name + "(false)"
		default:
			elem = name + "(0)"
		}
	} else {
		sd := ctx.Structure(t)
		if sd == nil {
			return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "no zero value")
		}
		fields := make([]string, len(sd.Fields))
		for i, f := range sd.Fields {
			if fields[i], err = b.zeroValue(ctx, f.Type, f.ArrayLength); err != nil {
				return "", err
			}
		}
		elem = name + "(" + strings.Join(fields, ", ") + ")"
	}
	if n == 0 {
		return elem, nil
	}
	elems := make([]string, n)
	for i := range elems {
		elems[i] = elem
	}
	return fmt.Sprintf("%s[%d](%s)", name, n, strings.Join(elems, ", ")), nil
}
