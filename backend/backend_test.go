package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen/internal/testprog"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
	"github.com/gogpu/shadergen/model"
)

// testBackend spells everything in a neutral C dialect.
type testBackend struct{}

func (testBackend) Target() Target                { return TargetHLSL }
func (testBackend) Profile(ir.FunctionKind) string { return "test" }

func (testBackend) TypeName(t ir.TypeReference) (string, error) {
	if t.IsVoid() {
		return "void", nil
	}
	return MangleName(t.Name), nil
}

func (testBackend) IdentifierName(owner ir.TypeReference, member string) string {
	if c, ok := ComponentName(owner, member); ok {
		return c
	}
	return member
}

func (testBackend) CorrectIdentifier(name string) string { return name }
func (testBackend) FunctionName(id ir.FunctionID) string { return MangleFunction(id) }

func (testBackend) FormatInvocation(ctx *Context, inv Invocation) (string, error) {
	return Call(strings.ToLower(inv.ID.Method))(ctx, inv)
}

func (b testBackend) FormatConstruction(_ *Context, t ir.TypeReference, args []Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	return name + "(" + JoinOperands(args) + ")", nil
}

func (b testBackend) FormatCast(t ir.TypeReference, value Operand) (string, error) {
	name, err := b.TypeName(t)
	if err != nil {
		return "", err
	}
	return name + "(" + value.Code + ")", nil
}

func (testBackend) FormatBinary(op ir.BinaryOperator, left, right Operand) string {
	return InfixBinary(op, left, right)
}

func (testBackend) FormatLiteral(v ir.LiteralValue) string { return FormatLiteralC(v, "u") }

func (b testBackend) FormatParameter(p ir.Param) (string, error) {
	t, err := b.TypeName(p.Type)
	if err != nil {
		return "", err
	}
	switch p.Direction {
	case ir.DirOut:
		t = "out " + t
	case ir.DirInOut:
		t = "inout " + t
	}
	return t + " " + p.Name, nil
}

func (testBackend) DiscardStatement() string { return "discard" }

func (testBackend) ResourceAccess(_ *Context, r *model.ResourceDefinition) string { return r.Name }

func (testBackend) BuiltinAccess(_ *Context, name string) (string, error) {
	return "builtin_" + name, nil
}

func (testBackend) WriteStructure(w *Writer, _ *Context, sd *model.StructureDefinition) error {
	w.WriteLine("struct %s;", MangleName(sd.Name))
	return nil
}

func (testBackend) WriteResource(w *Writer, _ *Context, r *model.ResourceDefinition) error {
	w.WriteLine("resource %s;", r.Name)
	return nil
}

func (testBackend) WriteBuiltins(*Writer, *Context) error { return nil }

func (testBackend) WriteEntryPoint(w *Writer, ctx *Context) error {
	w.WriteLine("entry %s", MangleFunction(ctx.Entry.Function.ID()))
	return nil
}

func (testBackend) Header(*Context) (string, error) { return "// header\n", nil }

type scopedBackend struct {
	testBackend
}

func (scopedBackend) BeginProgramScope(w *Writer, _ *Context) error {
	w.WriteLine("scope")
	w.WriteLine("{")
	w.PushIndent()
	return nil
}

func (scopedBackend) EndProgramScope(w *Writer, _ *Context) error {
	w.PopIndent()
	w.WriteLine("}")
	return nil
}

func buildModel(t *testing.T, doc *ir.Document, set ir.ShaderSetInfo) *model.ShaderModel {
	t.Helper()
	b := model.NewBuilder(doc.Program, layout.NewEngine(doc.Program, layout.HostPackingSequential))
	m, err := b.Build(set)
	require.NoError(t, err)
	return m
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"hlsl", TargetHLSL},
		{"GLSL330", TargetGLSL330},
		{" glsles300 ", TargetGLSLES300},
		{"glsl450", TargetGLSL450},
		{"metal", TargetMetal},
		{"msl", TargetMetal},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTarget("wgsl")
	assert.Error(t, err)
}

func TestParseTargets(t *testing.T) {
	all, err := ParseTargets("")
	require.NoError(t, err)
	assert.Equal(t, AllTargets(), all)

	got, err := ParseTargets("metal,hlsl,msl")
	require.NoError(t, err)
	assert.Equal(t, []Target{TargetMetal, TargetHLSL}, got)

	_, err = ParseTargets("hlsl,nope")
	assert.Error(t, err)
}

func TestTargetNames(t *testing.T) {
	for _, target := range AllTargets() {
		parsed, err := ParseTarget(target.String())
		require.NoError(t, err)
		assert.Equal(t, target, parsed)
		assert.NotEmpty(t, target.Extension())
	}
	assert.Equal(t, "330.glsl", TargetGLSL330.Extension())
	assert.Equal(t, "Target(99)", Target(99).String())
}

func TestWriter(t *testing.T) {
	var w Writer
	w.WriteLine("a")
	w.PushIndent()
	w.WriteLine("b %d", 1)
	w.PushIndent()
	w.WriteLine("100%")
	w.PopIndent()
	w.PopIndent()
	w.PopIndent()
	w.BlankLine()
	w.Write("c")

	assert.Equal(t, "a\n    b 1\n        100%\n\nc", w.String())
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-2, "-2.0"},
		{0.5, "0.5"},
		{1e20, "1e+20"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
}

func TestFormatLiteralC(t *testing.T) {
	assert.Equal(t, "7u", FormatLiteralC(ir.LiteralU32(7), "u"))
	assert.Equal(t, "7", FormatLiteralC(ir.LiteralU32(7), ""))
	assert.Equal(t, "-3", FormatLiteralC(ir.LiteralI32(-3), "u"))
	assert.Equal(t, "true", FormatLiteralC(ir.LiteralBool(true), "u"))
	assert.Equal(t, "2.0", FormatLiteralC(ir.LiteralF32(2), "u"))
}

func TestMangle(t *testing.T) {
	assert.Equal(t, "Quad_VertexInput", MangleName("Quad.VertexInput"))
	assert.Equal(t, "Quad_Shaders_VS", MangleFunction(ir.FunctionID{Type: "Quad.Shaders", Method: "VS"}))
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		owner, member string
		want          string
		ok            bool
	}{
		{ir.TypeVector4, "X", "x", true},
		{ir.TypeUInt3, "Z", "z", true},
		{ir.TypeMatrix4x4, "M11", "[0][0]", true},
		{ir.TypeMatrix4x4, "M12", "[0][1]", true},
		{ir.TypeMatrix4x4, "M43", "[3][2]", true},
		{ir.TypeMatrix4x4, "M51", "", false},
		{ir.TypeVector4, "Length", "", false},
		{"Quad.Globals", "X", "", false},
	}
	for _, tt := range tests {
		got, ok := ComponentName(ir.Ref(tt.owner), tt.member)
		assert.Equal(t, tt.ok, ok, "%s.%s", tt.owner, tt.member)
		assert.Equal(t, tt.want, got, "%s.%s", tt.owner, tt.member)
	}
}

func TestInvocationTable(t *testing.T) {
	table := InvocationTable{}
	table.AddLowercase(ir.TypeBuiltins, MathFunctions)
	table.Add(ir.TypeBuiltins, 2, Infix("*"), "Mul")

	arg := Operand{Code: "x", Type: ir.Ref(ir.TypeFloat)}
	got, err := table.Format(nil, Invocation{
		ID:   ir.FunctionID{Type: ir.TypeBuiltins, Method: "Clamp"},
		Args: []Operand{arg, {Code: "0.0"}, {Code: "1.0"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "clamp(x, 0.0, 1.0)", got)

	got, err = table.Format(nil, Invocation{
		ID:   ir.FunctionID{Type: ir.TypeBuiltins, Method: "Mul"},
		Args: []Operand{{Code: "m"}, {Code: "v"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "(m * v)", got)

	_, err = table.Format(nil, Invocation{
		ID:   ir.FunctionID{Type: ir.TypeBuiltins, Method: "Sqrt"},
		Args: []Operand{arg, arg},
	})
	assert.ErrorIs(t, err, ir.ErrUnsupportedFeature)

	_, err = table.Format(nil, Invocation{ID: ir.FunctionID{Type: ir.TypeBuiltins, Method: "Teleport"}})
	assert.ErrorIs(t, err, ir.ErrUnsupportedFeature)
}

func TestTransform(t *testing.T) {
	mul := func(m, v string) string { return "mul(" + m + ", " + v + ")" }

	got, err := Transform(ir.TypeVector3, "float4", mul)(nil, Invocation{Args: []Operand{
		{Code: "p", Type: ir.Ref(ir.TypeVector3)},
		{Code: "m", Type: ir.Ref(ir.TypeMatrix4x4)},
	}})
	require.NoError(t, err)
	assert.Equal(t, "mul(m, float4(p, 1.0)).xyz", got)

	got, err = Transform(ir.TypeVector2, "vec4", mul)(nil, Invocation{Args: []Operand{
		{Code: "p", Type: ir.Ref(ir.TypeVector2)},
		{Code: "m", Type: ir.Ref(ir.TypeMatrix4x4)},
	}})
	require.NoError(t, err)
	assert.Equal(t, "mul(m, vec4(p, 0.0, 1.0)).xy", got)
}

func TestCheckImageElement(t *testing.T) {
	assert.NoError(t, CheckImageElement("Img", ir.Ref(ir.TypeFloat)))
	assert.NoError(t, CheckImageElement("Img", ir.Ref(ir.TypeVector4)))
	assert.ErrorIs(t, CheckImageElement("Img", ir.Ref(ir.TypeVector3)), ir.ErrUnsupportedResource)
}

const flowProgram = `
types:
  - name: Flow.Kernel
    kind: class
    constants:
      - {name: Limit, value: {int: 4}}
    functions:
      - name: Step
        return: float32
        params:
          - {name: v, type: float32}
          - {name: acc, type: float32, direction: inout}
        body:
          - return: {op: "-", operand: {local: v, type: float32}, type: float32}

      - name: CS
        kind: compute
        workgroup: [1, 1, 1]
        body:
          - var: {name: x, type: float32, init: {float: 1.5}}
          - var: {name: n, type: float32, init: {op: "-", operand: {float: -0.5}, type: float32}}
          - for:
              init:
                - var: {name: i, type: int32, init: {int: 0}}
              cond: {op: "<", type: bool, left: {local: i, type: int32}, right: {constant: Limit, type: int32}}
              update:
                - assign: {target: {local: i, type: int32}, value: {int: 1}, op: "+"}
              body:
                - if:
                    cond: {op: "==", type: bool, left: {local: i, type: int32}, right: {int: 2}}
                    then:
                      - continue: true
          - while:
              do: true
              cond: {op: ">", type: bool, left: {local: x, type: float32}, right: {float: 0}}
              body:
                - assign:
                    target: {local: x, type: float32}
                    value:
                      call: Flow.Kernel.Step
                      type: float32
                      args: [{local: x, type: float32}, {local: x, type: float32}]
                - break: true
          - switch:
              selector: {cast: int32, value: {local: x, type: float32}}
              cases:
                - values: [0, 1]
                  body:
                    - break: true
                - default: true
                  body:
                    - discard: true
          - if:
              cond: {select: {bool: true}, then: {bool: false}, else: {bool: true}, type: bool}
              then:
                - expr: {call: ShaderBuiltins.Sqrt, type: float32, args: [{local: x, type: float32}]}
              else:
                - if:
                    cond: {op: "!", operand: {bool: false}, type: bool}
                    then:
                      - return: {}
                    else:
                      - block:
                          - var: {name: y, type: float32}

sets:
  - name: Flow
    compute: Flow.Kernel.CS
`

func TestWriteFunction(t *testing.T) {
	doc, err := ir.LoadProgram([]byte(flowProgram))
	require.NoError(t, err)
	m := buildModel(t, doc, doc.Sets[0])
	ctx := NewContext(m, m.Compute, model.StageIO{})

	require.Len(t, m.Compute.Functions, 2)

	var w Writer
	for _, fn := range m.Compute.Functions {
		require.NoError(t, WriteFunction(&w, testBackend{}, ctx, fn))
	}

	want := `float32 Flow_Kernel_Step(float32 v, inout float32 acc)
{
    return (-v);
}

void Flow_Kernel_CS()
{
    float32 x = 1.5;
    float32 n = (-(-0.5));
    for (int32 i = 0; (i < 4); i += 1)
    {
        if ((i == 2))
        {
            continue;
        }
    }
    do
    {
        x = Flow_Kernel_Step(x, x);
        break;
    }
    while ((x > 0.0));
    switch (int32(x))
    {
    case 0:
    case 1:
        {
            break;
        }
    default:
        {
            discard;
        }
    }
    if ((true ? false : true))
    {
        sqrt(x);
    }
    else if ((!false))
    {
        return;
    }
    else
    {
        {
            float32 y;
        }
    }
}

`
	assert.Equal(t, want, w.String())
}

func TestWriteFunctionRejectsUpdateDeclaration(t *testing.T) {
	p, err := ir.NewProgram([]ir.TypeDecl{{
		Name: "K",
		Kind: ir.TypeClass,
		Methods: []ir.FunctionDecl{{
			Name:      "CS",
			Kind:      ir.FunctionCompute,
			Return:    ir.Ref(ir.TypeVoid),
			Workgroup: [3]uint32{1, 1, 1},
			Body: ir.Block{ir.Stmt(ir.StmtFor{
				Update: ir.Block{ir.Stmt(ir.StmtVar{Name: "j", Type: ir.Ref(ir.TypeInt)})},
			})},
		}},
	}})
	require.NoError(t, err)
	cs := ir.FunctionID{Type: "K", Method: "CS"}
	m := buildModel(t, &ir.Document{Program: p}, ir.ShaderSetInfo{Name: "K", Compute: &cs})

	var w Writer
	err = WriteFunction(&w, testBackend{}, NewContext(m, m.Compute, model.StageIO{}), m.Compute.Functions[0])
	assert.ErrorIs(t, err, ir.ErrUnsupportedFeature)
}

func TestDriverGenerate(t *testing.T) {
	doc := testprog.MustLoad(t, testprog.Quad)
	m := buildModel(t, doc, testprog.Set(t, doc, "Quad"))

	src, err := NewDriver(testBackend{}, m).Generate(ir.FunctionVertex)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// header\n"))
	assert.Contains(t, src, "struct Quad_FragmentInput;\n")
	assert.Contains(t, src, "resource Globals;\n")
	assert.NotContains(t, src, "resource Tex;")
	assert.Contains(t, src, "    result.Position = mul(Globals.Transform, Vector4(vin.Position, 0.0, 1.0));\n")
	assert.True(t, strings.HasSuffix(src, "entry Quad_Shaders_VS\n"))

	structAt := strings.Index(src, "struct ")
	resourceAt := strings.Index(src, "resource ")
	functionAt := strings.Index(src, "Quad_Shaders_VS(")
	entryAt := strings.Index(src, "entry ")
	assert.Less(t, structAt, resourceAt)
	assert.Less(t, resourceAt, functionAt)
	assert.Less(t, functionAt, entryAt)

	frag, err := NewDriver(testBackend{}, m).Generate(ir.FunctionFragment)
	require.NoError(t, err)
	assert.Contains(t, frag, "resource Tex;\n")
	assert.Less(t, strings.Index(frag, "Quad_Shaders_Shade("), strings.Index(frag, "Quad_Shaders_FS("))
}

func TestDriverProgramScope(t *testing.T) {
	doc := testprog.MustLoad(t, testprog.Quad)
	m := buildModel(t, doc, testprog.Set(t, doc, "Quad"))

	src, err := NewDriver(scopedBackend{}, m).Generate(ir.FunctionFragment)
	require.NoError(t, err)

	assert.Contains(t, src, "scope\n{\n    resource Globals;\n")
	assert.Contains(t, src, "    Vector4 Quad_Shaders_Shade(Vector2 uv)\n")
	assert.Contains(t, src, "}\nentry Quad_Shaders_FS\n")
	assert.Less(t, strings.Index(src, "struct "), strings.Index(src, "scope"))
}

func TestDriverErrors(t *testing.T) {
	quad := testprog.MustLoad(t, testprog.Quad)
	m := buildModel(t, quad, testprog.Set(t, quad, "Quad"))
	_, err := NewDriver(testBackend{}, m).Generate(ir.FunctionCompute)
	assert.ErrorIs(t, err, ir.ErrEntryPointNotFound)

	invalid := testprog.MustLoad(t, testprog.Invalid)
	bad := buildModel(t, invalid, testprog.Set(t, invalid, "NoPosition"))
	_, err = NewDriver(testBackend{}, bad).Generate(ir.FunctionVertex)
	assert.ErrorIs(t, err, ir.ErrMissingSemantic)
}
