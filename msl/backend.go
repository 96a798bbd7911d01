package msl

import (
	"strings"

	nagamsl "github.com/gogpu/naga/msl"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/ir"
)

// Options configures MSL code generation.
type Options struct {
	// LangVersion is the target MSL version.
	// Defaults to Version2_1 if zero.
	LangVersion nagamsl.Version
}

// DefaultOptions returns options targeting MSL 2.1.
func DefaultOptions() Options {
	return Options{LangVersion: nagamsl.Version2_1}
}

// Backend generates MSL.
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
	if options.LangVersion.Major == 0 {
		options.LangVersion = nagamsl.Version2_1
	}
	b := &Backend{options: options}
	b.table = b.invocationTable()
	return b
}

func (b *Backend) Target() backend.Target {
	return backend.TargetMetal
}

// Profile returns the language standard, such as "metal2.1".
func (b *Backend) Profile(ir.FunctionKind) string {
	return "metal" + b.options.LangVersion.String()
}

var primitiveNames = map[string]string{
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

var textureNames = map[string]string{
	ir.TypeTexture2D:           "texture2d<float>",
	ir.TypeTexture2DArray:      "texture2d_array<float>",
	ir.TypeTextureCube:         "texturecube<float>",
	ir.TypeTexture2DMS:         "texture2d_ms<float>",
	ir.TypeDepthTexture2D:      "depth2d<float>",
	ir.TypeDepthTexture2DArray: "depth2d_array<float>",
	ir.TypeSampler:             "sampler",
	ir.TypeSamplerComparison:   "sampler",
}

func (b *Backend) TypeName(t ir.TypeReference) (string, error) {
	if t.IsVoid() {
		return "void", nil
	}
	if n, ok := primitiveNames[t.Name]; ok {
		return n, nil
	}
	if n, ok := textureNames[t.Name]; ok {
		return n, nil
	}
	if ir.IsResourceType(t.Name) || t.Name == ir.TypeBuiltins {
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "type cannot be used as a value in MSL")
	}
	return escapeName(backend.MangleName(t.Name)), nil
}

func (b *Backend) IdentifierName(owner ir.TypeReference, member string) string {
	if c, ok := backend.ComponentName(owner, member); ok {
		return c
	}
	return escapeName(member)
}

func (b *Backend) CorrectIdentifier(name string) string {
	return escapeName(name)
}

func (b *Backend) FunctionName(id ir.FunctionID) string {
	return escapeName(backend.MangleFunction(id))
}

func (b *Backend) FormatInvocation(ctx *backend.Context, inv backend.Invocation) (string, error) {
	return b.table.Format(ctx, inv)
}

func (b *Backend) FormatCast(t ir.TypeReference, value backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	return name + "(" + value.Code + ")", nil
}

// FormatBinary spells floating point remainder as fmod().
func (b *Backend) FormatBinary(op ir.BinaryOperator, left, right backend.Operand) string {
	if op == ir.BinaryModulo && (backend.IsFloatType(left.Type) || backend.IsFloatType(right.Type)) {
		return "fmod(" + left.Code + ", " + right.Code + ")"
	}
	return backend.InfixBinary(op, left, right)
}

func (b *Backend) FormatLiteral(v ir.LiteralValue) string {
	return backend.FormatLiteralC(v, "u")
}

// FormatParameter passes out and inout parameters by thread reference.
func (b *Backend) FormatParameter(p ir.Param) (string, error) {
	t, err := b.TypeName(p.Type)
	if err != nil {
		return "", err
	}
	name := escapeName(p.Name)
	if p.Direction == ir.DirOut || p.Direction == ir.DirInOut {
		return "thread " + t + "& " + name, nil
	}
	return t + " " + name, nil
}

func (b *Backend) DiscardStatement() string {
	return "discard_fragment()"
}

// FormatConstruction uses constructor syntax for vectors, column vectors
// for matrices and aggregate initialization for structures.
func (b *Backend) FormatConstruction(ctx *backend.Context, t ir.TypeReference, args []backend.Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	if p, ok := ir.LookupPrimitive(t.Name); ok {
		switch {
		case len(args) == 0:
			return name + "(0)", nil
		case p.IsMatrix() && len(args) == p.Size*p.Columns:
			cols := make([]string, p.Columns)
			for c := range cols {
				cols[c] = "float4(" + backend.JoinOperands(args[c*p.Size:(c+1)*p.Size]) + ")"
			}
			return name + "(" + strings.Join(cols, ", ") + ")", nil
		}
		return name + "(" + backend.JoinOperands(args) + ")", nil
	}

	sd := ctx.Structure(t)
	if sd == nil {
		return "", ir.NewError(ir.ErrUnsupportedType, t.Name, "cannot construct a value of this type")
	}
	if len(args) != 0 && len(args) != len(sd.Fields) {
		return "", ir.NewError(ir.ErrUnsupportedFeature, t.Name,
			"construction takes %d arguments, one per field, got %d", len(sd.Fields), len(args))
	}
	return name + "{" + backend.JoinOperands(args) + "}", nil
}
