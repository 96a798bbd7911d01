package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen/ir"
)

const owner = "Test.Shaders"

func call(method string) ir.Statement {
	return ir.Stmt(ir.StmtExpr{Expr: ir.ExprCall{
		Callee: ir.FunctionID{Type: owner, Method: method},
		Type:   ir.Ref(ir.TypeVoid),
	}})
}

func intrinsic(method string) ir.Statement {
	return ir.Stmt(ir.StmtExpr{Expr: ir.ExprCall{
		Callee: ir.FunctionID{Type: ir.TypeBuiltins, Method: method},
		Type:   ir.Ref(ir.TypeVoid),
	}})
}

func fn(name string, body ...ir.Statement) ir.FunctionDecl {
	return ir.FunctionDecl{Name: name, Return: ir.Ref(ir.TypeVoid), Body: body}
}

func discover(t *testing.T, root string, fns ...ir.FunctionDecl) (*Graph, error) {
	t.Helper()
	p, err := ir.NewProgram([]ir.TypeDecl{{Name: owner, Kind: ir.TypeClass, Methods: fns}})
	require.NoError(t, err)
	return Discover(p, ir.FunctionID{Type: owner, Method: root})
}

func names(decls []*ir.FunctionDecl) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Name
	}
	return out
}

func TestDiscoverSingle(t *testing.T) {
	g, err := discover(t, "Main", fn("Main", intrinsic("GroupMemoryBarrierWithGroupSync")))
	require.NoError(t, err)

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "Main", g.Root().Decl.Name)
	assert.Equal(t, []string{"Main"}, names(g.Ordered()))
}

func TestDiscoverDiamond(t *testing.T) {
	g, err := discover(t, "Main",
		fn("Main", call("A"), call("B"), call("A")),
		fn("A", call("C")),
		fn("B", call("C")),
		fn("C"),
		fn("Unreachable"),
	)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"C", "A", "B", "Main"}, names(g.Ordered()))

	c, ok := g.Lookup(ir.FunctionID{Type: owner, Method: "C"})
	require.True(t, ok)
	assert.Len(t, c.Parents, 2)
	assert.Len(t, g.Root().Children, 2)

	_, ok = g.Lookup(ir.FunctionID{Type: owner, Method: "Unreachable"})
	assert.False(t, ok)
}

func TestDiscoverCalleesPrecedeCallers(t *testing.T) {
	g, err := discover(t, "Main",
		fn("Main", call("Leaf"), call("Mid")),
		fn("Mid", call("Leaf"), call("Deep")),
		fn("Deep", call("Leaf")),
		fn("Leaf"),
	)
	require.NoError(t, err)

	ordered := names(g.Ordered())
	pos := make(map[string]int, len(ordered))
	for i, n := range ordered {
		pos[n] = i
	}
	for i := 0; i < g.Len(); i++ {
		n := g.Node(i)
		for _, c := range n.Children {
			assert.Less(t, pos[g.Node(c).Decl.Name], pos[n.Decl.Name],
				"%s must precede %s", g.Node(c).Decl.Name, n.Decl.Name)
		}
	}
	assert.Equal(t, "Main", ordered[len(ordered)-1])
}

func TestDiscoverRecursion(t *testing.T) {
	_, err := discover(t, "Main",
		fn("Main", call("Self")),
		fn("Self", call("Self")),
	)
	assert.ErrorIs(t, err, ir.ErrRecursiveCall)
}

func TestDiscoverCycle(t *testing.T) {
	_, err := discover(t, "Main",
		fn("Main", call("Ping")),
		fn("Ping", call("Pong")),
		fn("Pong", call("Ping")),
	)
	assert.ErrorIs(t, err, ir.ErrCyclicCallGraph)
}

func TestDiscoverConstructor(t *testing.T) {
	p, err := ir.NewProgram([]ir.TypeDecl{
		{
			Name:    "Test.Value",
			Fields:  []ir.FieldDecl{{Name: "X", Type: ir.Ref(ir.TypeFloat)}},
			Methods: []ir.FunctionDecl{fn(ir.CtorName)},
		},
		{Name: "Test.Plain", Fields: []ir.FieldDecl{{Name: "X", Type: ir.Ref(ir.TypeFloat)}}},
		{
			Name: owner,
			Kind: ir.TypeClass,
			Methods: []ir.FunctionDecl{fn("Main",
				ir.Stmt(ir.StmtExpr{Expr: ir.ExprNew{Type: ir.Ref("Test.Value")}}),
				ir.Stmt(ir.StmtExpr{Expr: ir.ExprNew{Type: ir.Ref("Test.Plain")}}),
				ir.Stmt(ir.StmtExpr{Expr: ir.ExprNew{Type: ir.Ref(ir.TypeVector4)}}),
			)},
		},
	})
	require.NoError(t, err)

	g, err := Discover(p, ir.FunctionID{Type: owner, Method: "Main"})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	_, ok := g.Lookup(ir.FunctionID{Type: "Test.Value", Method: ir.CtorName})
	assert.True(t, ok)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := discover(t, "Missing", fn("Main"))
	assert.ErrorIs(t, err, ir.ErrUnresolvedSymbol)

	_, err = discover(t, "Main", fn("Main",
		ir.Stmt(ir.StmtExpr{Expr: ir.ExprCall{Callee: ir.FunctionID{Method: "F"}}}),
	))
	assert.ErrorIs(t, err, ir.ErrUnresolvedReference)
}
