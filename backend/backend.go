package backend

import (
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

// Operand is an already formatted expression together with its type.
type Operand struct {
	Code string
	Type ir.TypeReference
}

// Invocation is a call to a function that has no user declaration.
type Invocation struct {
	ID     ir.FunctionID
	Args   []Operand
	Result ir.TypeReference
}

// LanguageBackend is the capability set of one output dialect.
//
// Methods that take a *Context may read the model and the stage being
// generated and record features through Context.Require; Header is
// called last and sees every recorded feature.
type LanguageBackend interface {
	Target() Target

	// Profile names the compiler profile or language version a native
	// compiler should use for a stage.
	Profile(stage ir.FunctionKind) string

	// TypeName spells a type reference in the target language.
	TypeName(t ir.TypeReference) (string, error)

	// IdentifierName spells a member access on a value of type owner. A
	// result starting with "[" is appended without a dot.
	IdentifierName(owner ir.TypeReference, member string) string

	// CorrectIdentifier renames identifiers that collide with target
	// keywords.
	CorrectIdentifier(name string) string

	// FunctionName is the emitted name of a user function.
	FunctionName(id ir.FunctionID) string

	FormatInvocation(ctx *Context, inv Invocation) (string, error)
	FormatConstruction(ctx *Context, t ir.TypeReference, args []Operand) (string, error)
	FormatCast(t ir.TypeReference, value Operand) (string, error)
	FormatBinary(op ir.BinaryOperator, left, right Operand) string
	FormatLiteral(v ir.LiteralValue) string
	FormatParameter(p ir.Param) (string, error)
	DiscardStatement() string

	// ResourceAccess is how function bodies name a resource.
	ResourceAccess(ctx *Context, r *model.ResourceDefinition) string

	// BuiltinAccess is how function bodies read a built-in stage
	// variable.
	BuiltinAccess(ctx *Context, name string) (string, error)

	WriteStructure(w *Writer, ctx *Context, sd *model.StructureDefinition) error
	WriteResource(w *Writer, ctx *Context, r *model.ResourceDefinition) error

	// WriteBuiltins declares storage for built-in stage variables that
	// the target cannot read directly from function bodies.
	WriteBuiltins(w *Writer, ctx *Context) error

	// WriteEntryPoint writes the synthesized stage entry function.
	WriteEntryPoint(w *Writer, ctx *Context) error

	// Header returns the text placed before everything else.
	Header(ctx *Context) (string, error)
}

// ScopeBackend is implemented by backends that wrap resources and
// functions in a program scope.
type ScopeBackend interface {
	BeginProgramScope(w *Writer, ctx *Context) error
	EndProgramScope(w *Writer, ctx *Context) error
}

// Context is the state of one (shader set, backend, stage) generation.
type Context struct {
	Model *model.ShaderModel
	Entry *model.EntryPoint
	IO    model.StageIO

	features map[string]bool
}

// NewContext creates the context for one stage of m.
func NewContext(m *model.ShaderModel, ep *model.EntryPoint, io model.StageIO) *Context {
	return &Context{Model: m, Entry: ep, IO: io, features: make(map[string]bool)}
}

// Stage returns the kind of the entry point being generated.
func (c *Context) Stage() ir.FunctionKind {
	return c.Entry.Function.Kind
}

// Require records that the generated code uses a target feature.
func (c *Context) Require(feature string) {
	c.features[feature] = true
}

// Requires reports whether a feature was recorded.
func (c *Context) Requires(feature string) bool {
	return c.features[feature]
}

// Structure returns the model structure for t, or nil when t is not a
// user structure.
func (c *Context) Structure(t ir.TypeReference) *model.StructureDefinition {
	sd, _ := c.Model.StructureDefinition(t.Name)
	return sd
}
