package backend

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/shadergen/ir"
)

// InvocationFunc formats one intrinsic call from its formatted operands.
type InvocationFunc func(ctx *Context, inv Invocation) (string, error)

// Intrinsic is an entry of an invocation table. Arity -1 accepts any
// number of arguments.
type Intrinsic struct {
	Arity  int
	Format InvocationFunc
}

// InvocationTable maps intrinsic identities to their translation.
type InvocationTable map[ir.FunctionID]Intrinsic

// Add registers fn for every method name under owner.
func (t InvocationTable) Add(owner string, arity int, fn InvocationFunc, methods ...string) {
	for _, m := range methods {
		t[ir.FunctionID{Type: owner, Method: m}] = Intrinsic{Arity: arity, Format: fn}
	}
}

// Format translates inv, failing with ErrUnsupportedFeature when the
// table has no entry or the argument count is wrong.
func (t InvocationTable) Format(ctx *Context, inv Invocation) (string, error) {
	in, ok := t[inv.ID]
	if !ok {
		return "", ir.NewError(ir.ErrUnsupportedFeature, inv.ID.String(), "no translation for intrinsic")
	}
	if in.Arity >= 0 && len(inv.Args) != in.Arity {
		return "", ir.NewError(ir.ErrUnsupportedFeature, inv.ID.String(),
			"intrinsic takes %d arguments, got %d", in.Arity, len(inv.Args))
	}
	return in.Format(ctx, inv)
}

// MathFunctions are the ShaderBuiltins intrinsics whose target name is
// the lowercased method name on every target, with their arity.
var MathFunctions = map[string]int{
	"Abs": 1, "Acos": 1, "Asin": 1, "Atan": 1, "Clamp": 3, "Cos": 1, "Cosh": 1,
	"Exp": 1, "Exp2": 1, "Floor": 1, "Log": 1, "Log2": 1, "Max": 2, "Min": 2,
	"Pow": 2, "Round": 1, "Sign": 1, "Sin": 1, "Sinh": 1, "Sqrt": 1, "Step": 2,
	"Tan": 1, "Tanh": 1,
}

// VectorFunctions are the static methods of Vector2, Vector3 and Vector4
// whose target name is the lowercased method name, with their arity.
var VectorFunctions = map[string]int{
	"Abs": 1, "Clamp": 3, "Distance": 2, "Dot": 2, "Length": 1, "Max": 2,
	"Min": 2, "Normalize": 1, "Reflect": 2,
}

// AddLowercase registers every function in fns under owner as a call to
// its lowercased name.
func (t InvocationTable) AddLowercase(owner string, fns map[string]int) {
	for name, arity := range fns {
		t.Add(owner, arity, Call(strings.ToLower(name)), name)
	}
}

// VectorOwners are the built-in types that carry static vector methods.
var VectorOwners = []string{ir.TypeVector2, ir.TypeVector3, ir.TypeVector4}

// Transform formats VectorN.Transform(v, m): v is extended to a
// homogeneous 4-vector, multiplied through mul and truncated back to the
// owner's width.
func Transform(owner, vec4 string, mul func(m, v string) string) InvocationFunc {
	return func(_ *Context, inv Invocation) (string, error) {
		args := inv.Args
		v := args[0].Code
		switch VectorSize(args[0].Type) {
		case 2:
			v = vec4 + "(" + v + ", 0.0, 1.0)"
		case 3:
			v = vec4 + "(" + v + ", 1.0)"
		}
		out := mul(args[1].Code, v)
		switch owner {
		case ir.TypeVector2:
			out += ".xy"
		case ir.TypeVector3:
			out += ".xyz"
		}
		return out, nil
	}
}

// Call formats a plain function call to name.
func Call(name string) InvocationFunc {
	return func(_ *Context, inv Invocation) (string, error) {
		return name + "(" + JoinOperands(inv.Args) + ")", nil
	}
}

// Infix formats a two-operand call as a parenthesized operator.
func Infix(op string) InvocationFunc {
	return func(_ *Context, inv Invocation) (string, error) {
		return "(" + inv.Args[0].Code + " " + op + " " + inv.Args[1].Code + ")", nil
	}
}

// JoinOperands joins operand code with ", ".
func JoinOperands(args []Operand) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Code
	}
	return strings.Join(parts, ", ")
}

// InfixBinary formats a binary operator in C syntax.
func InfixBinary(op ir.BinaryOperator, left, right Operand) string {
	return "(" + left.Code + " " + op.Symbol() + " " + right.Code + ")"
}

// FormatFloat formats a float literal so that it always parses as a
// floating point value in C-family shading languages.
func FormatFloat(f float32) string {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return "(1.0 / 0.0)"
	case math.IsInf(v, -1):
		return "(-1.0 / 0.0)"
	case math.IsNaN(v):
		return "(0.0 / 0.0)"
	}
	s := strconv.FormatFloat(v, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// FormatLiteralC formats a literal in the syntax shared by every target,
// with uintSuffix appended to unsigned integers.
func FormatLiteralC(v ir.LiteralValue, uintSuffix string) string {
	switch x := v.(type) {
	case ir.LiteralF32:
		return FormatFloat(float32(x))
	case ir.LiteralI32:
		return strconv.FormatInt(int64(x), 10)
	case ir.LiteralU32:
		return strconv.FormatUint(uint64(x), 10) + uintSuffix
	case ir.LiteralBool:
		if x {
			return "true"
		}
		return "false"
	}
	return "0"
}

// MangleName turns a qualified name into a target identifier.
func MangleName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// MangleFunction returns "Type_Method" for a user function.
func MangleFunction(id ir.FunctionID) string {
	return MangleName(id.Type) + "_" + id.Method
}

// ComponentName maps a built-in vector or matrix member to its swizzle or
// index form: X, Y, Z and W become x, y, z and w, and Mrc becomes
// "[r-1][c-1]". ok is false for members that need no substitution.
func ComponentName(owner ir.TypeReference, member string) (string, bool) {
	p, ok := ir.LookupPrimitive(owner.Name)
	if !ok {
		return "", false
	}
	if p.IsMatrix() {
		if len(member) == 3 && member[0] == 'M' {
			r, c := member[1]-'1', member[2]-'1'
			if r < 4 && c < 4 {
				return "[" + strconv.Itoa(int(r)) + "][" + strconv.Itoa(int(c)) + "]", true
			}
		}
		return "", false
	}
	switch member {
	case "X":
		return "x", true
	case "Y":
		return "y", true
	case "Z":
		return "z", true
	case "W":
		return "w", true
	}
	return "", false
}

// IsFloatType reports whether t is a float scalar or vector.
func IsFloatType(t ir.TypeReference) bool {
	p, ok := ir.LookupPrimitive(t.Name)
	return ok && p.Kind == ir.ScalarFloat && !p.IsMatrix()
}

// IsMatrixType reports whether t is a matrix.
func IsMatrixType(t ir.TypeReference) bool {
	p, ok := ir.LookupPrimitive(t.Name)
	return ok && p.IsMatrix()
}

// VectorSize returns the component count of a scalar or vector type, or 0.
func VectorSize(t ir.TypeReference) int {
	p, ok := ir.LookupPrimitive(t.Name)
	if !ok || p.IsMatrix() {
		return 0
	}
	return p.Size
}

// CheckImageElement verifies that a read-write image holds float or
// Vector4 texels.
func CheckImageElement(name string, element ir.TypeReference) error {
	switch element.Name {
	case ir.TypeFloat, ir.TypeVector4:
		return nil
	}
	return ir.NewError(ir.ErrUnsupportedResource, name,
		"%s element type %s is not supported, use %s or %s",
		ir.TypeRWTexture2D, element, ir.TypeFloat, ir.TypeVector4)
}
