package model_test

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/hlsl"
	"github.com/gogpu/shadergen/internal/testprog"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
	"github.com/gogpu/shadergen/model"
)

func build(t *testing.T, name, set string, packing layout.HostPacking) (*model.ShaderModel, error) {
	t.Helper()
	doc := testprog.MustLoad(t, name)
	b := model.NewBuilder(doc.Program, layout.NewEngine(doc.Program, packing))
	return b.Build(testprog.Set(t, doc, set))
}

func mustBuild(t *testing.T, name, set string) *model.ShaderModel {
	t.Helper()
	m, err := build(t, name, set, layout.HostPackingSequential)
	require.NoError(t, err)
	return m
}

func resourceNames(rs []model.ResourceDefinition) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestBuildQuad(t *testing.T) {
	m := mustBuild(t, testprog.Quad, "Quad")

	assert.Equal(t, "Quad", m.Name)
	require.NotNil(t, m.Vertex)
	require.NotNil(t, m.Fragment)
	assert.Nil(t, m.Compute)
	assert.Len(t, m.EntryPoints(), 2)

	require.Len(t, m.Resources, 4)
	for i, want := range []struct {
		name string
		kind model.ResourceKind
	}{
		{"Globals", model.ResourceUniform},
		{"Tex", model.ResourceTexture2D},
		{"Samp", model.ResourceSampler},
		{"Unused", model.ResourceTexture2D},
	} {
		r := m.Resources[i]
		assert.Equal(t, want.name, r.Name)
		assert.Equal(t, want.kind, r.Kind)
		assert.Equal(t, uint32(0), r.Set)
		assert.Equal(t, uint32(i), r.Binding)
		assert.Equal(t, "Quad.Shaders", r.Owner)
	}

	assert.Equal(t, []string{"Globals"}, resourceNames(m.VertexResources()))
	assert.Equal(t, []string{"Globals", "Tex", "Samp"}, resourceNames(m.FragmentResources()))
	assert.Empty(t, m.ComputeResources())

	fnNames := make([]string, len(m.Functions))
	for i, fn := range m.Functions {
		fnNames[i] = fn.Name
	}
	assert.Equal(t, []string{"VS", "Shade", "FS"}, fnNames)

	fs := m.Fragment.Functions
	require.Len(t, fs, 2)
	assert.Equal(t, "Shade", fs[0].Name)
	assert.Equal(t, "FS", fs[1].Name)

	structNames := make([]string, len(m.Structures))
	for i, sd := range m.Structures {
		structNames[i] = sd.Name
	}
	assert.ElementsMatch(t, []string{"Quad.VertexInput", "Quad.FragmentInput", "Quad.Globals"}, structNames)
}

func TestUnusedResourceIsNotInAnyStage(t *testing.T) {
	m := mustBuild(t, testprog.Quad, "Quad")

	unused, ok := m.Resource("Quad.Shaders", "Unused")
	require.True(t, ok)
	for _, ep := range m.EntryPoints() {
		for _, r := range ep.Resources {
			assert.NotSame(t, unused, r)
		}
	}
}

func TestBindingsIncreasePerSet(t *testing.T) {
	m := mustBuild(t, testprog.Particles, "Particles")

	next := make(map[uint32]uint32)
	for _, r := range m.Resources {
		assert.Equal(t, next[r.Set], r.Binding, "%s", r.String())
		next[r.Set]++
	}

	velocities, ok := m.Resource("Particles.Update", "Velocities")
	require.True(t, ok)
	assert.Equal(t, uint32(1), velocities.Set)
	assert.Equal(t, uint32(0), velocities.Binding)
	assert.Equal(t, ir.TypeVector4, velocities.Type.Name)

	counter, ok := m.Resource("Particles.Update", "Counter")
	require.True(t, ok)
	assert.Equal(t, model.ResourceAtomicBuffer, counter.Kind)
	assert.Equal(t, ir.TypeUint, counter.Type.Name)

	require.NotNil(t, m.Compute)
	assert.Equal(t, []string{"Params", "Source", "Target", "Counter"}, resourceNames(m.ComputeResources()))
	assert.Equal(t, []string{ir.BuiltinDispatchThreadID}, m.Compute.Builtins)
	assert.True(t, m.Compute.UsesBuiltin(ir.BuiltinDispatchThreadID))
	assert.True(t, m.Compute.UsesResourceKind(model.ResourceAtomicBuffer))
	assert.False(t, m.Compute.UsesResourceKind(model.ResourceSampler))
	assert.Equal(t, [3]uint32{64, 1, 1}, m.Compute.Function.Workgroup)
}

func TestBuiltinsPerStage(t *testing.T) {
	m := mustBuild(t, testprog.MRT, "MRT")

	assert.Equal(t, []string{ir.BuiltinVertexID, ir.BuiltinInstanceID}, m.Vertex.Builtins)
	assert.Equal(t, []string{ir.BuiltinIsFrontFace}, m.Fragment.Builtins)
	assert.Empty(t, m.Resources)

	for _, ep := range m.EntryPoints() {
		_, err := model.ValidateSemantics(m, ep)
		assert.NoError(t, err, ep.Function.String())
	}
}

func TestMismatchedStructures(t *testing.T) {
	m := mustBuild(t, testprog.Quad, "Quad")
	assert.ElementsMatch(t, []string{"Quad.VertexInput", "Quad.FragmentInput", "Quad.Globals"}, m.MismatchedStructures())

	natural, err := build(t, testprog.Quad, "Quad", layout.HostPackingNatural)
	require.NoError(t, err)
	assert.Empty(t, natural.MismatchedStructures())

	globals, ok := natural.StructureDefinition("Quad.Globals")
	require.True(t, ok)
	assert.True(t, globals.HostMatchesDeviceAlignment())
	assert.Equal(t, 64, globals.Field("Tint").DeviceOffset)
}

func TestBindGroupLayouts(t *testing.T) {
	m := mustBuild(t, testprog.Quad, "Quad")

	layouts, err := m.BindGroupLayouts()
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, uint32(0), layouts[0].Set)

	entries := layouts[0].Entries
	require.Len(t, entries, 3)

	globals := entries[0]
	assert.Equal(t, uint32(0), globals.Binding)
	assert.Equal(t, gputypes.ShaderStageVertex|gputypes.ShaderStageFragment, globals.Visibility)
	require.NotNil(t, globals.Buffer)
	assert.Equal(t, gputypes.BufferBindingTypeUniform, globals.Buffer.Type)
	assert.Equal(t, uint64(80), globals.Buffer.MinBindingSize)

	tex := entries[1]
	assert.Equal(t, gputypes.ShaderStageFragment, tex.Visibility)
	require.NotNil(t, tex.Texture)
	assert.Equal(t, gputypes.TextureViewDimension2D, tex.Texture.ViewDimension)

	samp := entries[2]
	require.NotNil(t, samp.Sampler)
	assert.Equal(t, gputypes.SamplerBindingTypeFiltering, samp.Sampler.Type)
}

func TestBindGroupLayoutsCompute(t *testing.T) {
	m := mustBuild(t, testprog.Particles, "Particles")

	layouts, err := m.BindGroupLayouts()
	require.NoError(t, err)
	require.Len(t, layouts, 1, "set 1 holds only an unused buffer")

	entries := layouts[0].Entries
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, gputypes.ShaderStageCompute, e.Visibility)
		require.NotNil(t, e.Buffer)
	}
	assert.Equal(t, gputypes.BufferBindingTypeReadOnlyStorage, entries[1].Buffer.Type)
	assert.Equal(t, gputypes.BufferBindingTypeStorage, entries[2].Buffer.Type)
	assert.Equal(t, gputypes.BufferBindingTypeStorage, entries[3].Buffer.Type)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		set  string
		want ir.ErrorKind
	}{
		{"Recursive", ir.ErrRecursiveCall},
		{"Cyclic", ir.ErrCyclicCallGraph},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			_, err := build(t, testprog.Invalid, tt.set, layout.HostPackingSequential)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMissingSystemPosition(t *testing.T) {
	m := mustBuild(t, testprog.Invalid, "NoPosition")
	require.NotNil(t, m.Vertex)

	_, err := model.ValidateSemantics(m, m.Vertex)
	assert.ErrorIs(t, err, ir.ErrMissingSemantic)
}

func TestBuildSetErrors(t *testing.T) {
	doc := testprog.MustLoad(t, testprog.Quad)
	b := model.NewBuilder(doc.Program, layout.NewEngine(doc.Program, layout.HostPackingSequential))

	_, err := b.Build(ir.ShaderSetInfo{Name: "Empty"})
	assert.ErrorIs(t, err, ir.ErrInvalidShaderSet)

	missing := ir.FunctionID{Type: "Quad.Shaders", Method: "Nope"}
	_, err = b.Build(ir.ShaderSetInfo{Name: "Missing", Vertex: &missing})
	assert.ErrorIs(t, err, ir.ErrEntryPointNotFound)

	fs := ir.FunctionID{Type: "Quad.Shaders", Method: "FS"}
	_, err = b.Build(ir.ShaderSetInfo{Name: "WrongStage", Vertex: &fs})
	assert.ErrorIs(t, err, ir.ErrEntryPointNotFound)
}

func TestDuplicateResourceNames(t *testing.T) {
	p, err := ir.NewProgram([]ir.TypeDecl{
		{
			Name:      "Other",
			Kind:      ir.TypeClass,
			Resources: []ir.ResourceDecl{{Name: "Tex", Type: ir.Ref(ir.TypeTexture2D)}},
		},
		{
			Name:      "Main",
			Kind:      ir.TypeClass,
			Resources: []ir.ResourceDecl{{Name: "Tex", Type: ir.Ref(ir.TypeTexture2D)}},
			Methods: []ir.FunctionDecl{{
				Name:      "CS",
				Kind:      ir.FunctionCompute,
				Return:    ir.Ref(ir.TypeVoid),
				Workgroup: [3]uint32{1, 1, 1},
				Body: ir.Block{ir.Stmt(ir.StmtVar{
					Name: "t",
					Type: ir.Ref(ir.TypeTexture2D),
					Init: ir.ExprResource{Owner: "Other", Name: "Tex", Type: ir.Ref(ir.TypeTexture2D)},
				})},
			}},
		},
	})
	require.NoError(t, err)

	cs := ir.FunctionID{Type: "Main", Method: "CS"}
	b := model.NewBuilder(p, layout.NewEngine(p, layout.HostPackingSequential))
	_, err = b.Build(ir.ShaderSetInfo{Name: "Dup", Compute: &cs})
	assert.ErrorIs(t, err, ir.ErrInvalidShaderSet)
}

func TestClassifyResource(t *testing.T) {
	tests := []struct {
		decl    ir.ResourceDecl
		kind    model.ResourceKind
		elem    string
		wantErr bool
	}{
		{decl: ir.ResourceDecl{Name: "U", Type: ir.Ref("Globals")}, kind: model.ResourceUniform, elem: "Globals"},
		{decl: ir.ResourceDecl{Name: "T", Type: ir.Ref(ir.TypeTextureCube)}, kind: model.ResourceTextureCube, elem: ir.TypeTextureCube},
		{decl: ir.ResourceDecl{Name: "A", Type: ir.Ref(ir.TypeAtomicBufferInt32)}, kind: model.ResourceAtomicBuffer, elem: ir.TypeInt},
		{decl: ir.ResourceDecl{Name: "I", Type: ir.Ref(ir.TypeRWTexture2D), Element: ir.Ref(ir.TypeFloat)}, kind: model.ResourceRWTexture2D, elem: ir.TypeFloat},
		{decl: ir.ResourceDecl{Name: "B", Type: ir.Ref(ir.TypeStructuredBuffer)}, wantErr: true},
		{decl: ir.ResourceDecl{Name: "V"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.decl.Name, func(t *testing.T) {
			kind, elem, err := model.ClassifyResource(tt.decl)
			if tt.wantErr {
				assert.ErrorIs(t, err, ir.ErrUnsupportedResource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.elem, elem.Name)
		})
	}

	assert.True(t, model.ResourceRWStructuredBuffer.IsBuffer())
	assert.False(t, model.ResourceRWTexture2D.IsTexture())
	assert.True(t, model.ResourceDepthTexture2DArray.IsTexture())
}

func buildSource(t *testing.T, src, set string) *model.ShaderModel {
	t.Helper()
	doc, err := ir.LoadProgram([]byte(src))
	require.NoError(t, err)
	b := model.NewBuilder(doc.Program, layout.NewEngine(doc.Program, layout.HostPackingSequential))
	m, err := b.Build(testprog.Set(t, doc, set))
	require.NoError(t, err)
	return m
}

const arityProgram = `
types:
  - name: Arity.Data
    fields:
      - {name: Position, type: Vector4, semantic: system_position}
  - name: Arity.Shaders
    kind: class
    functions:
      - name: CS
        kind: compute
        workgroup: [1, 1, 1]
        params:
          - {name: d, type: Arity.Data}
      - name: VS
        kind: vertex
        return: Arity.Data
        params:
          - {name: a, type: Arity.Data}
          - {name: b, type: Arity.Data}
        body:
          - return: {local: a, type: Arity.Data}
      - name: FS
        kind: fragment
        return: Vector4
        params:
          - {name: a, type: Arity.Data}
          - {name: b, type: Arity.Data}
        body:
          - return: {member: Position, type: Vector4, of: {local: b, type: Arity.Data}}
sets:
  - {name: Compute, compute: Arity.Shaders.CS}
  - {name: Vertex, vertex: Arity.Shaders.VS}
  - {name: Fragment, fragment: Arity.Shaders.FS}
`

func TestEntryPointArity(t *testing.T) {
	tests := []struct {
		set  string
		kind ir.FunctionKind
		want string
	}{
		{"Compute", ir.FunctionCompute, "compute entry point cannot take parameters"},
		{"Vertex", ir.FunctionVertex, "vertex entry point takes at most one parameter, has 2"},
		{"Fragment", ir.FunctionFragment, "fragment entry point takes at most one parameter, has 2"},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			m := buildSource(t, arityProgram, tt.set)
			ep := m.Entry(tt.kind)
			require.NotNil(t, ep)

			_, err := model.ValidateSemantics(m, ep)
			assert.ErrorIs(t, err, ir.ErrInvalidProgram)
			assert.ErrorContains(t, err, tt.want)

			_, err = backend.NewDriver(hlsl.New(), m).Generate(tt.kind)
			assert.ErrorIs(t, err, ir.ErrInvalidProgram)
		})
	}
}

const nestedProgram = `
types:
  - name: Nest.Inner
    fields:
      - {name: Color, type: Vector4}
  - name: Nest.Outer
    fields:
      - {name: Scale, type: float32}
      - {name: Inner, type: Nest.Inner}
  - name: Nest.Shaders
    kind: class
    resources:
      - {name: Params, type: Nest.Outer}
    functions:
      - name: CS
        kind: compute
        workgroup: [1, 1, 1]
        body:
          - var:
              name: o
              type: Nest.Outer
              init: {resource: Params, type: Nest.Outer}
sets:
  - {name: Nest, compute: Nest.Shaders.CS}
`

func TestStructuresFollowTheirEmbeddedStructures(t *testing.T) {
	m := buildSource(t, nestedProgram, "Nest")

	names := make([]string, len(m.Structures))
	for i, sd := range m.Structures {
		names[i] = sd.Name
	}
	assert.Equal(t, []string{"Nest.Inner", "Nest.Outer"}, names)

	src, err := backend.NewDriver(hlsl.New(), m).Generate(ir.FunctionCompute)
	require.NoError(t, err)
	inner := strings.Index(src, "struct Nest_Inner\n")
	outer := strings.Index(src, "struct Nest_Outer\n")
	require.GreaterOrEqual(t, inner, 0)
	require.GreaterOrEqual(t, outer, 0)
	assert.Less(t, inner, outer)
	assert.Contains(t, src, "    Nest_Inner Inner;\n")
}

func TestOrderStructures(t *testing.T) {
	embeds := func(name string, deps ...string) *model.StructureDefinition {
		sd := &model.StructureDefinition{Name: name}
		for _, d := range deps {
			sd.Fields = append(sd.Fields, model.FieldDefinition{Name: "f" + d, Type: ir.Ref(d)})
		}
		sd.Fields = append(sd.Fields, model.FieldDefinition{Name: "v", Type: ir.Ref(ir.TypeVector4)})
		return sd
	}
	names := func(defs []*model.StructureDefinition) []string {
		out := make([]string, len(defs))
		for i, sd := range defs {
			out[i] = sd.Name
		}
		return out
	}

	ordered, err := model.OrderStructures([]*model.StructureDefinition{
		embeds("Outer", "Middle"),
		embeds("Lone"),
		embeds("Middle", "Inner"),
		embeds("Inner"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Inner", "Middle", "Outer", "Lone"}, names(ordered))

	_, err = model.OrderStructures([]*model.StructureDefinition{embeds("Self", "Self")})
	assert.ErrorIs(t, err, ir.ErrInvalidProgram)

	_, err = model.OrderStructures([]*model.StructureDefinition{embeds("A", "B"), embeds("B", "A")})
	assert.ErrorIs(t, err, ir.ErrInvalidProgram)
}
