package ir

import (
	"fmt"
	"strings"
)

// CtorName is the method name used for constructor identities.
const CtorName = "ctor"

// TypeReference names a resolved type.
// Handle carries the front end's own type object and is never compared.
type TypeReference struct {
	Name   string
	Handle any
}

// Ref returns a TypeReference without a front-end handle.
func Ref(name string) TypeReference {
	return TypeReference{Name: name}
}

// String returns the qualified type name.
func (r TypeReference) String() string {
	return r.Name
}

// Equal reports whether both references name the same type.
func (r TypeReference) Equal(other TypeReference) bool {
	return r.Name == other.Name
}

// IsZero reports whether the reference names no type at all.
func (r TypeReference) IsZero() bool {
	return r.Name == ""
}

// IsVoid reports whether the reference is the void type or unset.
func (r TypeReference) IsVoid() bool {
	return r.Name == "" || r.Name == TypeVoid
}

// TypeKind distinguishes value structures from shader classes.
type TypeKind uint8

const (
	// TypeStruct is a value type with fields. It has a memory layout.
	TypeStruct TypeKind = iota
	// TypeClass holds resources, constants and shader functions.
	TypeClass
)

// TypeDecl is a user-declared type.
type TypeDecl struct {
	Name      string
	Kind      TypeKind
	Fields    []FieldDecl
	Resources []ResourceDecl
	Constants []ConstantDecl
	Methods   []FunctionDecl
}

// Method returns the method with the given name, or nil.
func (t *TypeDecl) Method(name string) *FunctionDecl {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i]
		}
	}
	return nil
}

// Resource returns the resource with the given name, or nil.
func (t *TypeDecl) Resource(name string) *ResourceDecl {
	for i := range t.Resources {
		if t.Resources[i].Name == name {
			return &t.Resources[i]
		}
	}
	return nil
}

// FieldDecl is a structure field.
type FieldDecl struct {
	Name        string
	Type        TypeReference
	Semantic    Semantic
	ArrayLength int // 0 for a scalar field
}

// ResourceDecl is a GPU-visible resource declared on a shader class.
// Element is set for generic buffer declarations (StructuredBuffer of T).
type ResourceDecl struct {
	Name    string
	Type    TypeReference
	Element TypeReference
	Set     uint32
}

// ConstantDecl is a named compile-time constant.
type ConstantDecl struct {
	Name  string
	Value LiteralValue
}

// FunctionDecl is a method with a body.
type FunctionDecl struct {
	// Type is the declaring type. Program fills it in when indexing.
	Type      string
	Name      string
	Kind      FunctionKind
	Return    TypeReference
	Params    []Param
	Workgroup [3]uint32 // compute entry points only
	Body      Block
}

// ID returns the structural identity of the function.
func (f *FunctionDecl) ID() FunctionID {
	return FunctionID{Type: f.Type, Method: f.Name}
}

// Param is a function parameter.
type Param struct {
	Name      string
	Type      TypeReference
	Direction ParamDirection
}

// ParamDirection is the data flow direction of a parameter.
type ParamDirection uint8

const (
	DirIn ParamDirection = iota
	DirOut
	DirInOut
)

func (d ParamDirection) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return "in"
	}
}

// FunctionID identifies a function by declaring type and method name.
type FunctionID struct {
	Type   string
	Method string
}

// String returns "Type.Method".
func (id FunctionID) String() string {
	return id.Type + "." + id.Method
}

// IsZero reports whether the identity is empty.
func (id FunctionID) IsZero() bool {
	return id.Type == "" && id.Method == ""
}

// ParseFunctionID splits a qualified "Namespace.Type.Method" name at its last dot.
func ParseFunctionID(s string) (FunctionID, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return FunctionID{}, fmt.Errorf("invalid function name %q: want Type.Method", s)
	}
	return FunctionID{Type: s[:i], Method: s[i+1:]}, nil
}

// FunctionKind marks entry points.
type FunctionKind uint8

const (
	FunctionNormal FunctionKind = iota
	FunctionVertex
	FunctionFragment
	FunctionCompute
)

var functionKindNames = [...]string{
	FunctionNormal:   "normal",
	FunctionVertex:   "vertex",
	FunctionFragment: "fragment",
	FunctionCompute:  "compute",
}

func (k FunctionKind) String() string {
	if int(k) < len(functionKindNames) {
		return functionKindNames[k]
	}
	return fmt.Sprintf("FunctionKind(%d)", k)
}

// IsEntryPoint reports whether the kind is a stage root.
func (k FunctionKind) IsEntryPoint() bool {
	return k != FunctionNormal
}

// Semantic is the role of a structure field in stage input/output.
type Semantic uint8

const (
	SemanticNone Semantic = iota
	SemanticPosition
	SemanticSystemPosition
	SemanticNormal
	SemanticTextureCoordinate
	SemanticColor
	SemanticTangent
	SemanticColorTarget
)

var semanticNames = [...]string{
	SemanticNone:              "none",
	SemanticPosition:          "position",
	SemanticSystemPosition:    "system_position",
	SemanticNormal:            "normal",
	SemanticTextureCoordinate: "texcoord",
	SemanticColor:             "color",
	SemanticTangent:           "tangent",
	SemanticColorTarget:       "color_target",
}

func (s Semantic) String() string {
	if int(s) < len(semanticNames) {
		return semanticNames[s]
	}
	return fmt.Sprintf("Semantic(%d)", s)
}

// ParseSemantic converts a semantic name back to its tag.
// The empty string maps to SemanticNone.
func ParseSemantic(name string) (Semantic, error) {
	if name == "" {
		return SemanticNone, nil
	}
	for i, n := range semanticNames {
		if n == name {
			return Semantic(i), nil
		}
	}
	return SemanticNone, fmt.Errorf("unknown semantic %q", name)
}

// ShaderSetInfo names a set of entry points generated together.
type ShaderSetInfo struct {
	Name     string
	Vertex   *FunctionID
	Fragment *FunctionID
	Compute  *FunctionID
}

// Stages returns the present entry points in vertex, fragment, compute order.
func (s ShaderSetInfo) Stages() []FunctionID {
	var ids []FunctionID
	for _, id := range []*FunctionID{s.Vertex, s.Fragment, s.Compute} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
