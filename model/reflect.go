package model

import (
	"sort"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shadergen/ir"
)

// BindGroupLayout is the WebGPU view of the resources in one set.
type BindGroupLayout struct {
	Set     uint32
	Entries []gputypes.BindGroupLayoutEntry
}

// BindGroupLayouts reflects the resources used by any stage into WebGPU
// bind group layout entries, grouped by set and ordered by binding.
// Visibility is the union of the stages that use each resource.
func (m *ShaderModel) BindGroupLayouts() ([]BindGroupLayout, error) {
	bySet := make(map[uint32]*BindGroupLayout)
	var sets []uint32

	for i := range m.Resources {
		rd := &m.Resources[i]
		entry, used, err := m.layoutEntry(rd)
		if err != nil {
			return nil, err
		}
		if !used {
			continue
		}
		bgl, ok := bySet[rd.Set]
		if !ok {
			bgl = &BindGroupLayout{Set: rd.Set}
			bySet[rd.Set] = bgl
			sets = append(sets, rd.Set)
		}
		bgl.Entries = append(bgl.Entries, entry)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i] < sets[j] })
	out := make([]BindGroupLayout, 0, len(sets))
	for _, s := range sets {
		bgl := bySet[s]
		sort.Slice(bgl.Entries, func(i, j int) bool { return bgl.Entries[i].Binding < bgl.Entries[j].Binding })
		out = append(out, *bgl)
	}
	return out, nil
}

func (m *ShaderModel) layoutEntry(rd *ResourceDefinition) (gputypes.BindGroupLayoutEntry, bool, error) {
	entry := gputypes.BindGroupLayoutEntry{Binding: rd.Binding}
	used := false
	for _, st := range []struct {
		ep    *EntryPoint
		stage gputypes.ShaderStage
	}{
		{m.Vertex, gputypes.ShaderStageVertex},
		{m.Fragment, gputypes.ShaderStageFragment},
		{m.Compute, gputypes.ShaderStageCompute},
	} {
		if st.ep == nil {
			continue
		}
		for _, r := range st.ep.Resources {
			if r == rd {
				entry.Visibility |= st.stage
				used = true
			}
		}
	}
	if !used {
		return entry, false, nil
	}

	switch rd.Kind {
	case ResourceUniform:
		info, err := m.TypeSize(rd.Type)
		if err != nil {
			return entry, false, err
		}
		entry.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: uint64(info.DeviceSize),
		}
	case ResourceStructuredBuffer:
		entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}
	case ResourceRWStructuredBuffer, ResourceAtomicBuffer:
		entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
	case ResourceTexture2D:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	case ResourceTexture2DArray:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2DArray,
		}
	case ResourceTextureCube:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimensionCube,
		}
	case ResourceTexture2DMS:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
			Multisampled:  true,
		}
	case ResourceDepthTexture2D:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeDepth,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	case ResourceDepthTexture2DArray:
		entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeDepth,
			ViewDimension: gputypes.TextureViewDimension2DArray,
		}
	case ResourceSampler:
		entry.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case ResourceSamplerComparison:
		entry.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeComparison}
	case ResourceRWTexture2D:
		format := gputypes.TextureFormatRGBA32Float
		if rd.Type.Name == ir.TypeFloat {
			format = gputypes.TextureFormatR32Float
		}
		entry.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessReadWrite,
			Format:        format,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	default:
		return entry, false, ir.NewError(ir.ErrUnsupportedResource, rd.String(), "no bind group mapping for %s", rd.Kind)
	}
	return entry, true, nil
}
