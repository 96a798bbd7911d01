package ir_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen/internal/testprog"
	"github.com/gogpu/shadergen/ir"
)

func TestParseFunctionID(t *testing.T) {
	tests := []struct {
		in      string
		want    ir.FunctionID
		wantErr bool
	}{
		{in: "Quad.Shaders.VS", want: ir.FunctionID{Type: "Quad.Shaders", Method: "VS"}},
		{in: "Shaders.Main", want: ir.FunctionID{Type: "Shaders", Method: "Main"}},
		{in: "Main", wantErr: true},
		{in: ".Main", wantErr: true},
		{in: "Shaders.", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ir.ParseFunctionID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestLoadProgram(t *testing.T) {
	doc := testprog.MustLoad(t, testprog.Quad)

	shaders, err := doc.Program.Type("Quad.Shaders")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeClass, shaders.Kind)
	require.Len(t, shaders.Resources, 4)
	assert.Equal(t, "Globals", shaders.Resources[0].Name)
	assert.Equal(t, ir.TypeTexture2D, shaders.Resources[1].Type.Name)

	vs, err := doc.Program.Function(ir.FunctionID{Type: "Quad.Shaders", Method: "VS"})
	require.NoError(t, err)
	assert.Equal(t, ir.FunctionVertex, vs.Kind)
	assert.Equal(t, "Quad.FragmentInput", vs.Return.Name)
	require.Len(t, vs.Params, 1)
	assert.Equal(t, ir.DirIn, vs.Params[0].Direction)
	require.Len(t, vs.Body, 4)
	assert.IsType(t, ir.StmtVar{}, vs.Body[0].Kind)
	assert.IsType(t, ir.StmtReturn{}, vs.Body[3].Kind)

	input, err := doc.Program.Type("Quad.FragmentInput")
	require.NoError(t, err)
	assert.Equal(t, ir.SemanticSystemPosition, input.Fields[0].Semantic)
	assert.Equal(t, ir.SemanticTextureCoordinate, input.Fields[1].Semantic)

	require.Len(t, doc.Sets, 1)
	set := doc.Sets[0]
	assert.Equal(t, "Quad", set.Name)
	assert.Nil(t, set.Compute)
	assert.Equal(t, []ir.FunctionID{
		{Type: "Quad.Shaders", Method: "VS"},
		{Type: "Quad.Shaders", Method: "FS"},
	}, set.Stages())
}

func TestLoadProgramConstants(t *testing.T) {
	doc := testprog.MustLoad(t, testprog.Particles)

	v, err := doc.Program.Constant("Particles.Update", "Increment")
	require.NoError(t, err)
	assert.Equal(t, ir.LiteralU32(1), v)

	_, err = doc.Program.Constant("Particles.Update", "Missing")
	assert.ErrorIs(t, err, ir.ErrUnresolvedSymbol)

	cs, err := doc.Program.Function(ir.FunctionID{Type: "Particles.Update", Method: "CS"})
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{64, 1, 1}, cs.Workgroup)
}

func TestLoadProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad yaml", "types: [\n"},
		{"unknown semantic", `
types:
  - name: S
    fields:
      - {name: A, type: Vector4, semantic: sparkle}
`},
		{"bad set entry", `
sets:
  - name: S
    vertex: Main
`},
		{"duplicate type", `
types:
  - name: S
  - name: S
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ir.LoadProgram([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestNewProgramRejectsDuplicates(t *testing.T) {
	_, err := ir.NewProgram([]ir.TypeDecl{{Name: "A"}, {Name: "A"}})
	assert.ErrorIs(t, err, ir.ErrInvalidProgram)

	_, err = ir.NewProgram([]ir.TypeDecl{{
		Name:    "A",
		Kind:    ir.TypeClass,
		Methods: []ir.FunctionDecl{{Name: "F"}, {Name: "F"}},
	}})
	assert.ErrorIs(t, err, ir.ErrInvalidProgram)

	_, err = ir.NewProgram([]ir.TypeDecl{{Name: ir.TypeVector4}})
	assert.ErrorIs(t, err, ir.ErrInvalidProgram)
}

func TestProgramUnresolved(t *testing.T) {
	p, err := ir.NewProgram(nil)
	require.NoError(t, err)

	_, err = p.Type("Missing")
	assert.ErrorIs(t, err, ir.ErrUnresolvedSymbol)

	_, err = p.Function(ir.FunctionID{Type: "Missing", Method: "F"})
	assert.ErrorIs(t, err, ir.ErrUnresolvedSymbol)
}

func TestErrorIs(t *testing.T) {
	err := ir.NewError(ir.ErrRecursiveCall, "A.F", "calls itself")
	wrapped := errors.Join(errors.New("context"), err)

	assert.ErrorIs(t, wrapped, ir.ErrRecursiveCall)
	assert.NotErrorIs(t, wrapped, ir.ErrCyclicCallGraph)
	assert.ErrorIs(t, wrapped, &ir.Error{Kind: ir.ErrRecursiveCall, Identifier: "A.F"})
	assert.NotErrorIs(t, wrapped, &ir.Error{Kind: ir.ErrRecursiveCall, Identifier: "B.G"})

	kind, ok := ir.KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ir.ErrRecursiveCall, kind)

	_, ok = ir.KindOf(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, `shadergen recursive call "A.F": calls itself`, err.Error())
}

func TestValidateFixtures(t *testing.T) {
	for _, name := range []string{testprog.Quad, testprog.Particles, testprog.MRT, testprog.Invalid} {
		t.Run(name, func(t *testing.T) {
			doc := testprog.MustLoad(t, name)
			errs, err := ir.Validate(doc.Program)
			require.NoError(t, err)
			assert.Empty(t, errs)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		decl ir.TypeDecl
		want string
	}{
		{
			name: "resource on struct",
			decl: ir.TypeDecl{
				Name:      "S",
				Kind:      ir.TypeStruct,
				Resources: []ir.ResourceDecl{{Name: "T", Type: ir.Ref(ir.TypeTexture2D)}},
			},
			want: "struct types cannot declare resources",
		},
		{
			name: "buffer without element",
			decl: ir.TypeDecl{
				Name:      "C",
				Kind:      ir.TypeClass,
				Resources: []ir.ResourceDecl{{Name: "B", Type: ir.Ref(ir.TypeStructuredBuffer)}},
			},
			want: "needs an element type",
		},
		{
			name: "break outside loop",
			decl: ir.TypeDecl{
				Name: "C",
				Kind: ir.TypeClass,
				Methods: []ir.FunctionDecl{{
					Name: "F",
					Body: ir.Block{ir.Stmt(ir.StmtBreak{})},
				}},
			},
			want: "break outside of loop or switch",
		},
		{
			name: "undeclared local",
			decl: ir.TypeDecl{
				Name: "C",
				Kind: ir.TypeClass,
				Methods: []ir.FunctionDecl{{
					Name:   "F",
					Return: ir.Ref(ir.TypeFloat),
					Body: ir.Block{ir.Stmt(ir.StmtReturn{
						Value: ir.ExprLocal{Name: "x", Type: ir.Ref(ir.TypeFloat)},
					})},
				}},
			},
			want: "undeclared local x",
		},
		{
			name: "compute with parameters",
			decl: ir.TypeDecl{
				Name: "C",
				Kind: ir.TypeClass,
				Methods: []ir.FunctionDecl{{
					Name:      "CS",
					Kind:      ir.FunctionCompute,
					Params:    []ir.Param{{Name: "p", Type: ir.Ref(ir.TypeFloat)}},
					Workgroup: [3]uint32{1, 1, 1},
				}},
			},
			want: "compute entry point cannot take parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ir.NewProgram([]ir.TypeDecl{tt.decl})
			require.NoError(t, err)

			errs, err := ir.Validate(p)
			require.NoError(t, err)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.want)
			assert.ErrorIs(t, errs[0], ir.ErrInvalidProgram)
		})
	}
}

func TestSemanticNames(t *testing.T) {
	for _, s := range []ir.Semantic{
		ir.SemanticNone,
		ir.SemanticPosition,
		ir.SemanticSystemPosition,
		ir.SemanticNormal,
		ir.SemanticTextureCoordinate,
		ir.SemanticColor,
		ir.SemanticTangent,
		ir.SemanticColorTarget,
	} {
		got, err := ir.ParseSemantic(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ir.ParseSemantic("sparkle")
	assert.Error(t, err)
}
