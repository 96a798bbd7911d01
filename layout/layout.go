// Package layout computes host and device memory layouts for shader types.
//
// Every type referenced by a shader model has two layouts: the host layout
// used by the calling program when it fills buffers, and the device layout
// required by the shading language's buffer rules. The two diverge for
// 3-component vectors, which devices align to 16 bytes.
package layout

import (
	"sync"

	"github.com/gogpu/shadergen/ir"
)

// AlignmentInfo is the paired host/device size and alignment of a type.
// Alignments are powers of two and at least 1.
type AlignmentInfo struct {
	HostSize        int
	DeviceSize      int
	HostAlignment   int
	DeviceAlignment int
}

// Matches reports whether host and device agree on size and alignment.
func (a AlignmentInfo) Matches() bool {
	return a.HostSize == a.DeviceSize && a.HostAlignment == a.DeviceAlignment
}

// HostPacking selects the alignment rules for the host axis.
type HostPacking uint8

const (
	// HostPackingSequential aligns every vector and matrix to its 4-byte
	// scalar, as a sequential host struct layout does.
	HostPackingSequential HostPacking = iota

	// HostPackingNatural aligns vectors to their natural size
	// (vec2 8, vec4 16, mat4 16) and vec3 to its scalar.
	HostPackingNatural
)

func (p HostPacking) String() string {
	if p == HostPackingNatural {
		return "natural"
	}
	return "sequential"
}

// FieldLayout is the placement of one structure field.
type FieldLayout struct {
	Name         string
	HostOffset   int
	DeviceOffset int
	// Info is the layout of the whole field, including its array length.
	Info AlignmentInfo
}

// StructLayout is the layout of a structure and its fields.
type StructLayout struct {
	Name   string
	Fields []FieldLayout
	AlignmentInfo
}

// Engine computes layouts and memoizes them by qualified type name.
// It is safe for concurrent use; concurrent misses recompute the same
// value and the first stored result wins.
type Engine struct {
	oracle  ir.Oracle
	packing HostPacking

	types   sync.Map // string -> AlignmentInfo
	structs sync.Map // string -> *StructLayout
}

// NewEngine creates a layout engine over the given program.
func NewEngine(oracle ir.Oracle, packing HostPacking) *Engine {
	return &Engine{oracle: oracle, packing: packing}
}

// Packing returns the host packing rule in use.
func (e *Engine) Packing() HostPacking {
	return e.packing
}

// Layout returns the layout of a single value of the given type.
func (e *Engine) Layout(t ir.TypeReference) (AlignmentInfo, error) {
	return e.layout(t.Name, nil)
}

// Array returns the layout of a fixed-length array of n elements.
// An n of zero is a scalar field and returns the element layout.
func (e *Engine) Array(t ir.TypeReference, n int) (AlignmentInfo, error) {
	info, err := e.Layout(t)
	if err != nil {
		return AlignmentInfo{}, err
	}
	return arrayOf(info, n), nil
}

// Struct returns the field placement of a user structure.
func (e *Engine) Struct(name string) (*StructLayout, error) {
	return e.structLayout(name, nil)
}

func (e *Engine) layout(name string, visiting map[string]bool) (AlignmentInfo, error) {
	if v, ok := e.types.Load(name); ok {
		return v.(AlignmentInfo), nil
	}

	if info, ok := e.primitive(name); ok {
		v, _ := e.types.LoadOrStore(name, info)
		return v.(AlignmentInfo), nil
	}

	decl, err := e.oracle.Type(name)
	if err != nil {
		if k, ok := ir.KindOf(err); ok && k == ir.ErrUnresolvedSymbol {
			return AlignmentInfo{}, ir.NewError(ir.ErrUnsupportedType, name, "no layout rule for type")
		}
		return AlignmentInfo{}, err
	}
	if decl.Kind != ir.TypeStruct {
		return AlignmentInfo{}, ir.NewError(ir.ErrUnsupportedType, name, "reference types have no layout")
	}

	sl, err := e.structLayout(name, visiting)
	if err != nil {
		return AlignmentInfo{}, err
	}
	v, _ := e.types.LoadOrStore(name, sl.AlignmentInfo)
	return v.(AlignmentInfo), nil
}

func (e *Engine) structLayout(name string, visiting map[string]bool) (*StructLayout, error) {
	if v, ok := e.structs.Load(name); ok {
		return v.(*StructLayout), nil
	}

	decl, err := e.oracle.Type(name)
	if err != nil {
		return nil, err
	}
	if decl.Kind != ir.TypeStruct {
		return nil, ir.NewError(ir.ErrUnsupportedType, name, "reference types have no layout")
	}

	if visiting == nil {
		visiting = make(map[string]bool)
	}
	if visiting[name] {
		return nil, ir.NewError(ir.ErrInvalidProgram, name, "structure embeds itself")
	}
	visiting[name] = true
	defer delete(visiting, name)

	sl := &StructLayout{
		Name:   name,
		Fields: make([]FieldLayout, 0, len(decl.Fields)),
		AlignmentInfo: AlignmentInfo{
			HostAlignment:   1,
			DeviceAlignment: 1,
		},
	}

	hostOffset, deviceOffset := 0, 0
	for _, f := range decl.Fields {
		elem, err := e.layout(f.Type.Name, visiting)
		if err != nil {
			return nil, err
		}
		info := arrayOf(elem, f.ArrayLength)

		hostOffset = Align(hostOffset, info.HostAlignment)
		deviceOffset = Align(deviceOffset, info.DeviceAlignment)
		sl.Fields = append(sl.Fields, FieldLayout{
			Name:         f.Name,
			HostOffset:   hostOffset,
			DeviceOffset: deviceOffset,
			Info:         info,
		})
		hostOffset += info.HostSize
		deviceOffset += info.DeviceSize

		sl.HostAlignment = max(sl.HostAlignment, info.HostAlignment)
		sl.DeviceAlignment = max(sl.DeviceAlignment, info.DeviceAlignment)
	}
	sl.HostSize = hostOffset
	sl.DeviceSize = deviceOffset

	v, _ := e.structs.LoadOrStore(name, sl)
	return v.(*StructLayout), nil
}

// Align rounds offset up to the next multiple of alignment.
// This is offset + (-offset mod alignment).
func Align(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	return offset + (alignment-offset%alignment)%alignment
}

func arrayOf(elem AlignmentInfo, n int) AlignmentInfo {
	if n <= 0 {
		return elem
	}
	return AlignmentInfo{
		HostSize:        elem.HostSize * n,
		DeviceSize:      elem.DeviceSize * n,
		HostAlignment:   elem.HostAlignment,
		DeviceAlignment: elem.DeviceAlignment,
	}
}
