// Package model builds the validated, immutable shader model for one
// shader set: the ordered structures, reachable functions and bound
// resources that every backend generates from.
package model

import (
	"fmt"

	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
)

// FieldDefinition is a structure field with its layout.
type FieldDefinition struct {
	Name         string
	Type         ir.TypeReference
	Semantic     ir.Semantic
	ArrayLength  int
	Alignment    layout.AlignmentInfo
	HostOffset   int
	DeviceOffset int
}

// StructureDefinition is a user structure with its aggregate layout.
type StructureDefinition struct {
	Name      string
	Fields    []FieldDefinition
	Alignment layout.AlignmentInfo
}

// HostMatchesDeviceAlignment reports whether the host and device layouts
// agree. A mismatch is legal; device declarations use the device numbers.
func (s *StructureDefinition) HostMatchesDeviceAlignment() bool {
	return s.Alignment.Matches()
}

// Field returns the named field, or nil.
func (s *StructureDefinition) Field(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldWithSemantic returns the first field tagged sem, or nil.
func (s *StructureDefinition) FieldWithSemantic(sem ir.Semantic) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Semantic == sem {
			return &s.Fields[i]
		}
	}
	return nil
}

// ResourceDefinition is a classified resource with its assigned binding.
// Type is the value type for uniforms and the element type for buffers
// and images.
type ResourceDefinition struct {
	Owner   string
	Name    string
	Set     uint32
	Binding uint32
	Type    ir.TypeReference
	Kind    ResourceKind
}

// String returns "Owner.Name".
func (r *ResourceDefinition) String() string {
	return r.Owner + "." + r.Name
}

// ShaderFunction describes a function signature.
type ShaderFunction struct {
	DeclaringType string
	Name          string
	Return        ir.TypeReference
	Params        []ir.Param
	Kind          ir.FunctionKind
	Workgroup     [3]uint32
}

// ID returns the function identity.
func (f ShaderFunction) ID() ir.FunctionID {
	return ir.FunctionID{Type: f.DeclaringType, Method: f.Name}
}

func (f ShaderFunction) String() string {
	return f.ID().String()
}

// NewShaderFunction copies the signature of a declaration.
func NewShaderFunction(decl *ir.FunctionDecl) ShaderFunction {
	return ShaderFunction{
		DeclaringType: decl.Type,
		Name:          decl.Name,
		Return:        decl.Return,
		Params:        append([]ir.Param(nil), decl.Params...),
		Kind:          decl.Kind,
		Workgroup:     decl.Workgroup,
	}
}

// EntryPoint is everything one stage of a shader set needs.
type EntryPoint struct {
	Function ShaderFunction

	// Functions lists reachable declarations, callees first, entry last.
	Functions []*ir.FunctionDecl

	// Structures lists the structures this stage references, in
	// dependency order.
	Structures []*StructureDefinition

	// Resources lists the resources this stage references, in binding
	// declaration order.
	Resources []*ResourceDefinition

	// Builtins lists the built-in stage variables this stage reads, in
	// first-use order.
	Builtins []string
}

// UsesBuiltin reports whether the stage reads the named built-in variable.
func (e *EntryPoint) UsesBuiltin(name string) bool {
	for _, b := range e.Builtins {
		if b == name {
			return true
		}
	}
	return false
}

// UsesResourceKind reports whether any used resource has one of the kinds.
func (e *EntryPoint) UsesResourceKind(kinds ...ResourceKind) bool {
	for _, r := range e.Resources {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}
	}
	return false
}

// ShaderModel is the immutable aggregate for one shader set.
type ShaderModel struct {
	Name       string
	Structures []*StructureDefinition
	Functions  []ShaderFunction
	Resources  []ResourceDefinition

	Vertex   *EntryPoint
	Fragment *EntryPoint
	Compute  *EntryPoint

	oracle ir.Oracle
	engine *layout.Engine
}

// Oracle returns the program the model was built from.
func (m *ShaderModel) Oracle() ir.Oracle {
	return m.oracle
}

// StructureDefinition returns the named structure.
func (m *ShaderModel) StructureDefinition(name string) (*StructureDefinition, bool) {
	for _, sd := range m.Structures {
		if sd.Name == name {
			return sd, true
		}
	}
	return nil, false
}

// RequiredStructure is StructureDefinition with a typed error.
func (m *ShaderModel) RequiredStructure(name string) (*StructureDefinition, error) {
	sd, ok := m.StructureDefinition(name)
	if !ok {
		return nil, ir.NewError(ir.ErrUnresolvedSymbol, name, "structure is not part of shader set %s", m.Name)
	}
	return sd, nil
}

// Function returns the reachable function with the given identity.
func (m *ShaderModel) Function(id ir.FunctionID) (*ShaderFunction, bool) {
	for i := range m.Functions {
		if m.Functions[i].ID() == id {
			return &m.Functions[i], true
		}
	}
	return nil, false
}

// TypeSize returns the layout of a type referenced by the model.
func (m *ShaderModel) TypeSize(t ir.TypeReference) (layout.AlignmentInfo, error) {
	return m.engine.Layout(t)
}

// Entry returns the entry point for a function kind, or nil.
func (m *ShaderModel) Entry(kind ir.FunctionKind) *EntryPoint {
	switch kind {
	case ir.FunctionVertex:
		return m.Vertex
	case ir.FunctionFragment:
		return m.Fragment
	case ir.FunctionCompute:
		return m.Compute
	default:
		return nil
	}
}

// EntryPoints returns the present entry points in vertex, fragment,
// compute order.
func (m *ShaderModel) EntryPoints() []*EntryPoint {
	var out []*EntryPoint
	for _, e := range []*EntryPoint{m.Vertex, m.Fragment, m.Compute} {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// VertexResources returns the resources used by the vertex stage.
func (m *ShaderModel) VertexResources() []ResourceDefinition {
	return stageResources(m.Vertex)
}

// FragmentResources returns the resources used by the fragment stage.
func (m *ShaderModel) FragmentResources() []ResourceDefinition {
	return stageResources(m.Fragment)
}

// ComputeResources returns the resources used by the compute stage.
func (m *ShaderModel) ComputeResources() []ResourceDefinition {
	return stageResources(m.Compute)
}

func stageResources(e *EntryPoint) []ResourceDefinition {
	if e == nil {
		return nil
	}
	out := make([]ResourceDefinition, len(e.Resources))
	for i, r := range e.Resources {
		out[i] = *r
	}
	return out
}

// Resource returns the resource declared as owner.name.
func (m *ShaderModel) Resource(owner, name string) (*ResourceDefinition, bool) {
	for i := range m.Resources {
		if m.Resources[i].Owner == owner && m.Resources[i].Name == name {
			return &m.Resources[i], true
		}
	}
	return nil, false
}

// MismatchedStructures returns the names of structures whose host and
// device layouts differ.
func (m *ShaderModel) MismatchedStructures() []string {
	var out []string
	for _, sd := range m.Structures {
		if !sd.HostMatchesDeviceAlignment() {
			out = append(out, sd.Name)
		}
	}
	return out
}

func (m *ShaderModel) String() string {
	return fmt.Sprintf("ShaderModel(%s: %d structures, %d functions, %d resources)",
		m.Name, len(m.Structures), len(m.Functions), len(m.Resources))
}
