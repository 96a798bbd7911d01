package model

import (
	"fmt"

	"github.com/gogpu/shadergen/ir"
)

// ResourceKind classifies a resource declaration.
type ResourceKind uint8

const (
	ResourceUniform ResourceKind = iota
	ResourceTexture2D
	ResourceTexture2DArray
	ResourceTextureCube
	ResourceTexture2DMS
	ResourceDepthTexture2D
	ResourceDepthTexture2DArray
	ResourceSampler
	ResourceSamplerComparison
	ResourceStructuredBuffer
	ResourceRWStructuredBuffer
	ResourceAtomicBuffer
	ResourceRWTexture2D
)

var resourceKindNames = [...]string{
	ResourceUniform:             "Uniform",
	ResourceTexture2D:           "Texture2D",
	ResourceTexture2DArray:      "Texture2DArray",
	ResourceTextureCube:         "TextureCube",
	ResourceTexture2DMS:         "Texture2DMS",
	ResourceDepthTexture2D:      "DepthTexture2D",
	ResourceDepthTexture2DArray: "DepthTexture2DArray",
	ResourceSampler:             "Sampler",
	ResourceSamplerComparison:   "SamplerComparison",
	ResourceStructuredBuffer:    "StructuredBuffer",
	ResourceRWStructuredBuffer:  "RWStructuredBuffer",
	ResourceAtomicBuffer:        "AtomicBuffer",
	ResourceRWTexture2D:         "RWTexture2D",
}

func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return fmt.Sprintf("ResourceKind(%d)", k)
}

// IsBuffer reports whether the kind is a storage buffer.
func (k ResourceKind) IsBuffer() bool {
	return k == ResourceStructuredBuffer || k == ResourceRWStructuredBuffer || k == ResourceAtomicBuffer
}

// IsTexture reports whether the kind is a sampled texture.
func (k ResourceKind) IsTexture() bool {
	switch k {
	case ResourceTexture2D, ResourceTexture2DArray, ResourceTextureCube, ResourceTexture2DMS,
		ResourceDepthTexture2D, ResourceDepthTexture2DArray:
		return true
	}
	return false
}

// resourceTable maps resource type names to their kinds. Types absent from
// the table are uniform blocks holding a value of that type.
var resourceTable = map[string]ResourceKind{
	ir.TypeTexture2D:           ResourceTexture2D,
	ir.TypeTexture2DArray:      ResourceTexture2DArray,
	ir.TypeTextureCube:         ResourceTextureCube,
	ir.TypeTexture2DMS:         ResourceTexture2DMS,
	ir.TypeDepthTexture2D:      ResourceDepthTexture2D,
	ir.TypeDepthTexture2DArray: ResourceDepthTexture2DArray,
	ir.TypeSampler:             ResourceSampler,
	ir.TypeSamplerComparison:   ResourceSamplerComparison,
	ir.TypeStructuredBuffer:    ResourceStructuredBuffer,
	ir.TypeRWStructuredBuffer:  ResourceRWStructuredBuffer,
	ir.TypeAtomicBufferUInt32:  ResourceAtomicBuffer,
	ir.TypeAtomicBufferInt32:   ResourceAtomicBuffer,
	ir.TypeRWTexture2D:         ResourceRWTexture2D,
}

// ClassifyResource matches a declaration against the resource table and
// returns its kind and value/element type.
func ClassifyResource(decl ir.ResourceDecl) (ResourceKind, ir.TypeReference, error) {
	kind, ok := resourceTable[decl.Type.Name]
	if !ok {
		if decl.Type.IsVoid() {
			return 0, ir.TypeReference{}, ir.NewError(ir.ErrUnsupportedResource, decl.Name, "resource has no type")
		}
		return ResourceUniform, decl.Type, nil
	}

	switch decl.Type.Name {
	case ir.TypeAtomicBufferUInt32:
		return kind, ir.Ref(ir.TypeUint), nil
	case ir.TypeAtomicBufferInt32:
		return kind, ir.Ref(ir.TypeInt), nil
	case ir.TypeStructuredBuffer, ir.TypeRWStructuredBuffer, ir.TypeRWTexture2D:
		if decl.Element.IsZero() {
			return 0, ir.TypeReference{}, ir.NewError(ir.ErrUnsupportedResource, decl.Name,
				"%s declaration needs an element type", decl.Type.Name)
		}
		return kind, decl.Element, nil
	default:
		return kind, decl.Type, nil
	}
}

// BindingAssignor hands out binding slots in declaration order, with an
// independent counter per set starting at 0.
type BindingAssignor struct {
	next map[uint32]uint32
}

// NewBindingAssignor creates an assignor with all counters at zero.
func NewBindingAssignor() *BindingAssignor {
	return &BindingAssignor{next: make(map[uint32]uint32)}
}

// Assign classifies decl and gives it the next binding in its set.
func (a *BindingAssignor) Assign(owner string, decl ir.ResourceDecl) (ResourceDefinition, error) {
	kind, typ, err := ClassifyResource(decl)
	if err != nil {
		return ResourceDefinition{}, err
	}
	binding := a.next[decl.Set]
	a.next[decl.Set] = binding + 1
	return ResourceDefinition{
		Owner:   owner,
		Name:    decl.Name,
		Set:     decl.Set,
		Binding: binding,
		Type:    typ,
		Kind:    kind,
	}, nil
}
