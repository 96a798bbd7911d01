// Package callgraph discovers the functions reachable from a shader entry
// point and orders them so that every callee precedes its callers.
//
// Nodes live in an arena and refer to each other by index. A Graph is built
// once per entry point and is read-only afterwards.
package callgraph

import (
	"github.com/gogpu/shadergen/ir"
)

// Node is one user function in the graph.
type Node struct {
	ID       ir.FunctionID
	Decl     *ir.FunctionDecl
	Parents  []int
	Children []int
}

// Graph is the call graph rooted at one entry function.
type Graph struct {
	nodes   []Node
	index   map[ir.FunctionID]int
	ordered []int
}

// Discover builds the call graph rooted at root.
//
// Calls to functions the oracle does not declare are intrinsics and end the
// traversal without adding a node. Self-recursion fails with
// ir.ErrRecursiveCall and cycles through other functions with
// ir.ErrCyclicCallGraph.
func Discover(oracle ir.Oracle, root ir.FunctionID) (*Graph, error) {
	decl, err := oracle.Function(root)
	if err != nil {
		return nil, err
	}

	g := &Graph{index: make(map[ir.FunctionID]int)}
	g.add(root, decl)

	// Nodes are appended as they are discovered, so the arena doubles as
	// the frontier.
	for i := 0; i < len(g.nodes); i++ {
		callees, err := callSites(oracle, g.nodes[i].Decl)
		if err != nil {
			return nil, err
		}
		for _, callee := range callees {
			if callee == g.nodes[i].ID {
				return nil, ir.NewError(ir.ErrRecursiveCall, callee.String(),
					"function calls itself; recursion has no shading language equivalent")
			}

			child, ok := g.index[callee]
			if !ok {
				calleeDecl, err := oracle.Function(callee)
				if err != nil {
					if k, isIR := ir.KindOf(err); isIR && k == ir.ErrUnresolvedSymbol {
						continue // intrinsic
					}
					return nil, err
				}
				child = g.add(callee, calleeDecl)
			}
			g.link(i, child)
		}
	}

	if err := g.flatten(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) add(id ir.FunctionID, decl *ir.FunctionDecl) int {
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Decl: decl})
	g.index[id] = i
	return i
}

func (g *Graph) link(parent, child int) {
	for _, c := range g.nodes[parent].Children {
		if c == child {
			return
		}
	}
	g.nodes[parent].Children = append(g.nodes[parent].Children, child)
	g.nodes[child].Parents = append(g.nodes[child].Parents, parent)
}

// flatten computes the post-order emission list. A child that is still on
// the traversal stack is an ancestor of the node being placed.
func (g *Graph) flatten() error {
	const (
		unvisited = iota
		onStack
		placed
	)
	state := make([]uint8, len(g.nodes))
	g.ordered = make([]int, 0, len(g.nodes))

	var visit func(n int) error
	visit = func(n int) error {
		state[n] = onStack
		for _, c := range g.nodes[n].Children {
			switch state[c] {
			case onStack:
				return ir.NewError(ir.ErrCyclicCallGraph, g.nodes[n].ID.String(),
					"call cycle between %s and %s", g.nodes[n].ID, g.nodes[c].ID)
			case unvisited:
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		state[n] = placed
		g.ordered = append(g.ordered, n)
		return nil
	}
	return visit(0)
}

// Root returns the entry function node.
func (g *Graph) Root() *Node {
	return &g.nodes[0]
}

// Len returns the number of user functions in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given arena index.
func (g *Graph) Node(i int) *Node {
	return &g.nodes[i]
}

// Lookup returns the node for a function identity.
func (g *Graph) Lookup(id ir.FunctionID) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// Ordered returns the reachable declarations, callees before callers.
// The root is always last.
func (g *Graph) Ordered() []*ir.FunctionDecl {
	out := make([]*ir.FunctionDecl, len(g.ordered))
	for i, n := range g.ordered {
		out[i] = g.nodes[n].Decl
	}
	return out
}

// callSites returns the distinct invocation and construction targets in
// fn's body, in source order. Constructions of user structures only count
// when the structure declares a constructor.
func callSites(oracle ir.Oracle, fn *ir.FunctionDecl) ([]ir.FunctionID, error) {
	var (
		out  []ir.FunctionID
		seen = make(map[ir.FunctionID]bool)
		err  error
	)
	ir.WalkBlock(fn.Body, func(e ir.Expression) {
		if err != nil {
			return
		}
		var id ir.FunctionID
		switch x := e.(type) {
		case ir.ExprCall:
			if x.Callee.Type == "" || x.Callee.Method == "" {
				err = ir.NewError(ir.ErrUnresolvedReference, fn.ID().String(),
					"call site %q has no resolvable target", x.Callee.String())
				return
			}
			id = x.Callee
		case ir.ExprNew:
			if x.Type.IsVoid() {
				err = ir.NewError(ir.ErrUnresolvedReference, fn.ID().String(),
					"construction site has no resolvable type")
				return
			}
			if ir.IsBuiltinType(x.Type.Name) {
				return
			}
			t, lookupErr := oracle.Type(x.Type.Name)
			if lookupErr != nil {
				err = ir.NewError(ir.ErrUnresolvedReference, x.Type.Name,
					"constructed type is not declared")
				return
			}
			if t.Method(ir.CtorName) == nil {
				return
			}
			id = ir.FunctionID{Type: x.Type.Name, Method: ir.CtorName}
		default:
			return
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	})
	return out, err
}
