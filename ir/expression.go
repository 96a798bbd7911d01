package ir

// Expression is a typed expression tree node.
type Expression interface {
	// ResultType is the type the expression evaluates to.
	ResultType() TypeReference
}

// Literal is a constant value.
type Literal struct {
	Value LiteralValue
}

func (e Literal) ResultType() TypeReference { return Ref(LiteralType(e.Value)) }

// LiteralValue represents the value of a literal.
type LiteralValue interface {
	literalValue()
}

// LiteralF32 is a 32-bit float literal.
type LiteralF32 float32

func (LiteralF32) literalValue() {}

// LiteralI32 is a 32-bit signed integer literal.
type LiteralI32 int32

func (LiteralI32) literalValue() {}

// LiteralU32 is a 32-bit unsigned integer literal.
type LiteralU32 uint32

func (LiteralU32) literalValue() {}

// LiteralBool is a boolean literal.
type LiteralBool bool

func (LiteralBool) literalValue() {}

// LiteralType returns the canonical type name of a literal value.
func LiteralType(v LiteralValue) string {
	switch v.(type) {
	case LiteralF32:
		return TypeFloat
	case LiteralI32:
		return TypeInt
	case LiteralU32:
		return TypeUint
	case LiteralBool:
		return TypeBool
	default:
		return ""
	}
}

// ExprLocal reads a local variable or parameter.
type ExprLocal struct {
	Name string
	Type TypeReference
}

func (e ExprLocal) ResultType() TypeReference { return e.Type }

// ExprResource references a resource declared on a shader class.
// An empty Owner means the declaring type of the enclosing function.
type ExprResource struct {
	Owner string
	Name  string
	Type  TypeReference
}

func (e ExprResource) ResultType() TypeReference { return e.Type }

// ExprConstant references a named constant, resolved through the Oracle.
type ExprConstant struct {
	Owner string
	Name  string
	Type  TypeReference
}

func (e ExprConstant) ResultType() TypeReference { return e.Type }

// ExprMember accesses a field of a structure or a component of a built-in type.
type ExprMember struct {
	Base   Expression
	Member string
	Type   TypeReference
}

func (e ExprMember) ResultType() TypeReference { return e.Type }

// ExprStatic reads a static member of a built-in owner, such as
// ShaderBuiltins.VertexID.
type ExprStatic struct {
	Owner  string
	Member string
	Type   TypeReference
}

func (e ExprStatic) ResultType() TypeReference { return e.Type }

// ExprIndex indexes an array, buffer, vector or matrix.
type ExprIndex struct {
	Base  Expression
	Index Expression
	Type  TypeReference
}

func (e ExprIndex) ResultType() TypeReference { return e.Type }

// ExprCall invokes a static function. Callees without a user declaration
// are intrinsics.
type ExprCall struct {
	Callee FunctionID
	Args   []Expression
	Type   TypeReference
}

func (e ExprCall) ResultType() TypeReference { return e.Type }

// ExprNew constructs a value of Type.
type ExprNew struct {
	Type TypeReference
	Args []Expression
}

func (e ExprNew) ResultType() TypeReference { return e.Type }

// ExprUnary applies a unary operator.
type ExprUnary struct {
	Op      UnaryOperator
	Operand Expression
	Type    TypeReference
}

func (e ExprUnary) ResultType() TypeReference { return e.Type }

// ExprBinary applies a binary operator.
type ExprBinary struct {
	Op    BinaryOperator
	Left  Expression
	Right Expression
	Type  TypeReference
}

func (e ExprBinary) ResultType() TypeReference { return e.Type }

// ExprSelect is the conditional operator.
type ExprSelect struct {
	Condition Expression
	Accept    Expression
	Reject    Expression
	Type      TypeReference
}

func (e ExprSelect) ResultType() TypeReference { return e.Type }

// ExprCast converts Value to Type.
type ExprCast struct {
	Type  TypeReference
	Value Expression
}

func (e ExprCast) ResultType() TypeReference { return e.Type }

// UnaryOperator represents unary operators.
type UnaryOperator uint8

const (
	UnaryNegate UnaryOperator = iota
	UnaryLogicalNot
	UnaryBitwiseNot
)

var unarySymbols = [...]string{
	UnaryNegate:     "-",
	UnaryLogicalNot: "!",
	UnaryBitwiseNot: "~",
}

// Symbol returns the operator token.
func (op UnaryOperator) Symbol() string {
	if int(op) < len(unarySymbols) {
		return unarySymbols[op]
	}
	return "?"
}

// BinaryOperator represents binary operators.
type BinaryOperator uint8

const (
	BinaryAdd BinaryOperator = iota
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryModulo
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryLessEqual
	BinaryGreater
	BinaryGreaterEqual
	BinaryAnd
	BinaryExclusiveOr
	BinaryInclusiveOr
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryShiftLeft
	BinaryShiftRight
)

var binarySymbols = [...]string{
	BinaryAdd:          "+",
	BinarySubtract:     "-",
	BinaryMultiply:     "*",
	BinaryDivide:       "/",
	BinaryModulo:       "%",
	BinaryEqual:        "==",
	BinaryNotEqual:     "!=",
	BinaryLess:         "<",
	BinaryLessEqual:    "<=",
	BinaryGreater:      ">",
	BinaryGreaterEqual: ">=",
	BinaryAnd:          "&",
	BinaryExclusiveOr:  "^",
	BinaryInclusiveOr:  "|",
	BinaryLogicalAnd:   "&&",
	BinaryLogicalOr:    "||",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
}

// Symbol returns the operator token.
func (op BinaryOperator) Symbol() string {
	if int(op) < len(binarySymbols) {
		return binarySymbols[op]
	}
	return "?"
}

// ParseBinaryOperator maps an operator token to its BinaryOperator.
func ParseBinaryOperator(symbol string) (BinaryOperator, bool) {
	for i, s := range binarySymbols {
		if s == symbol {
			return BinaryOperator(i), true
		}
	}
	return 0, false
}

// ParseUnaryOperator maps an operator token to its UnaryOperator.
func ParseUnaryOperator(symbol string) (UnaryOperator, bool) {
	for i, s := range unarySymbols {
		if s == symbol {
			return UnaryOperator(i), true
		}
	}
	return 0, false
}
