package ir

// Canonical names of the primitive types understood by every backend.
const (
	TypeVoid  = "void"
	TypeBool  = "bool"
	TypeInt   = "int32"
	TypeUint  = "uint32"
	TypeFloat = "float32"

	TypeVector2   = "Vector2"
	TypeVector3   = "Vector3"
	TypeVector4   = "Vector4"
	TypeMatrix4x4 = "Matrix4x4"
	TypeInt2      = "Int2"
	TypeInt3      = "Int3"
	TypeInt4      = "Int4"
	TypeUInt2     = "UInt2"
	TypeUInt3     = "UInt3"
	TypeUInt4     = "UInt4"
)

// Canonical names of resource types.
const (
	TypeTexture2D           = "Texture2D"
	TypeTexture2DArray      = "Texture2DArray"
	TypeTextureCube         = "TextureCube"
	TypeTexture2DMS         = "Texture2DMS"
	TypeDepthTexture2D      = "DepthTexture2D"
	TypeDepthTexture2DArray = "DepthTexture2DArray"
	TypeSampler             = "Sampler"
	TypeSamplerComparison   = "SamplerComparison"
	TypeStructuredBuffer    = "StructuredBuffer"
	TypeRWStructuredBuffer  = "RWStructuredBuffer"
	TypeAtomicBufferUInt32  = "AtomicBufferUInt32"
	TypeAtomicBufferInt32   = "AtomicBufferInt32"
	TypeRWTexture2D         = "RWTexture2D"
)

// TypeBuiltins owns intrinsic functions and built-in stage variables.
const TypeBuiltins = "ShaderBuiltins"

// Built-in stage variables, accessed as ExprStatic{Owner: TypeBuiltins}.
const (
	BuiltinVertexID         = "VertexID"
	BuiltinInstanceID       = "InstanceID"
	BuiltinDispatchThreadID = "DispatchThreadID"
	BuiltinGroupThreadID    = "GroupThreadID"
	BuiltinIsFrontFace      = "IsFrontFace"
)

// ScalarKind is the component kind of a primitive type.
type ScalarKind uint8

const (
	ScalarBool ScalarKind = iota
	ScalarSint
	ScalarUint
	ScalarFloat
)

// Primitive describes a scalar, vector or matrix type.
// Columns is 1 for scalars and vectors.
type Primitive struct {
	Kind    ScalarKind
	Size    int
	Columns int
}

// IsScalar reports whether the primitive has a single component.
func (p Primitive) IsScalar() bool { return p.Size == 1 && p.Columns == 1 }

// IsMatrix reports whether the primitive is a matrix.
func (p Primitive) IsMatrix() bool { return p.Columns > 1 }

var primitives = map[string]Primitive{
	TypeBool:      {Kind: ScalarBool, Size: 1, Columns: 1},
	TypeInt:       {Kind: ScalarSint, Size: 1, Columns: 1},
	TypeUint:      {Kind: ScalarUint, Size: 1, Columns: 1},
	TypeFloat:     {Kind: ScalarFloat, Size: 1, Columns: 1},
	TypeVector2:   {Kind: ScalarFloat, Size: 2, Columns: 1},
	TypeVector3:   {Kind: ScalarFloat, Size: 3, Columns: 1},
	TypeVector4:   {Kind: ScalarFloat, Size: 4, Columns: 1},
	TypeInt2:      {Kind: ScalarSint, Size: 2, Columns: 1},
	TypeInt3:      {Kind: ScalarSint, Size: 3, Columns: 1},
	TypeInt4:      {Kind: ScalarSint, Size: 4, Columns: 1},
	TypeUInt2:     {Kind: ScalarUint, Size: 2, Columns: 1},
	TypeUInt3:     {Kind: ScalarUint, Size: 3, Columns: 1},
	TypeUInt4:     {Kind: ScalarUint, Size: 4, Columns: 1},
	TypeMatrix4x4: {Kind: ScalarFloat, Size: 4, Columns: 4},
}

// LookupPrimitive returns the primitive description for a canonical name.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitives[name]
	return p, ok
}

var resourceTypes = map[string]bool{
	TypeTexture2D:           true,
	TypeTexture2DArray:      true,
	TypeTextureCube:         true,
	TypeTexture2DMS:         true,
	TypeDepthTexture2D:      true,
	TypeDepthTexture2DArray: true,
	TypeSampler:             true,
	TypeSamplerComparison:   true,
	TypeStructuredBuffer:    true,
	TypeRWStructuredBuffer:  true,
	TypeAtomicBufferUInt32:  true,
	TypeAtomicBufferInt32:   true,
	TypeRWTexture2D:         true,
}

// IsResourceType reports whether name is one of the resource type names.
func IsResourceType(name string) bool {
	return resourceTypes[name]
}

// IsBuiltinType reports whether name is a primitive, resource or void type.
func IsBuiltinType(name string) bool {
	if name == TypeVoid || name == TypeBuiltins {
		return true
	}
	_, ok := primitives[name]
	return ok || resourceTypes[name]
}

// BuiltinVariable describes a built-in stage variable and the one stage
// that provides it.
type BuiltinVariable struct {
	Name  string
	Type  string
	Stage FunctionKind
}

var builtinVariables = map[string]BuiltinVariable{
	BuiltinVertexID:         {BuiltinVertexID, TypeUint, FunctionVertex},
	BuiltinInstanceID:       {BuiltinInstanceID, TypeUint, FunctionVertex},
	BuiltinDispatchThreadID: {BuiltinDispatchThreadID, TypeUInt3, FunctionCompute},
	BuiltinGroupThreadID:    {BuiltinGroupThreadID, TypeUInt3, FunctionCompute},
	BuiltinIsFrontFace:      {BuiltinIsFrontFace, TypeBool, FunctionFragment},
}

// LookupBuiltinVariable returns the built-in stage variable with the given
// member name.
func LookupBuiltinVariable(name string) (BuiltinVariable, bool) {
	v, ok := builtinVariables[name]
	return v, ok
}
