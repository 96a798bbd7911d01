package model

import (
	"github.com/gogpu/shadergen/callgraph"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
)

// Builder constructs shader models. A Builder caches structure
// definitions and is meant to be owned by a single generation job; the
// layout engine may be shared.
type Builder struct {
	oracle  ir.Oracle
	engine  *layout.Engine
	structs map[string]*StructureDefinition
}

// NewBuilder creates a model builder.
func NewBuilder(oracle ir.Oracle, engine *layout.Engine) *Builder {
	return &Builder{
		oracle:  oracle,
		engine:  engine,
		structs: make(map[string]*StructureDefinition),
	}
}

type stage struct {
	id   *ir.FunctionID
	kind ir.FunctionKind
	dst  **EntryPoint
}

// Build resolves the entry points of set, discovers their call graphs and
// assigns resource bindings.
func (b *Builder) Build(set ir.ShaderSetInfo) (*ShaderModel, error) {
	m := &ShaderModel{Name: set.Name, oracle: b.oracle, engine: b.engine}

	stages := []stage{
		{set.Vertex, ir.FunctionVertex, &m.Vertex},
		{set.Fragment, ir.FunctionFragment, &m.Fragment},
		{set.Compute, ir.FunctionCompute, &m.Compute},
	}

	graphs := make([]*callgraph.Graph, len(stages))
	present := 0
	for i, st := range stages {
		if st.id == nil {
			continue
		}
		present++
		decl, err := b.oracle.Function(*st.id)
		if err != nil {
			return nil, ir.NewError(ir.ErrEntryPointNotFound, st.id.String(),
				"shader set %s: %v", set.Name, err)
		}
		if decl.Kind != st.kind {
			return nil, ir.NewError(ir.ErrEntryPointNotFound, st.id.String(),
				"shader set %s: function is a %s function, not a %s entry point", set.Name, decl.Kind, st.kind)
		}
		g, err := callgraph.Discover(b.oracle, *st.id)
		if err != nil {
			return nil, err
		}
		graphs[i] = g
	}
	if present == 0 {
		return nil, ir.NewError(ir.ErrInvalidShaderSet, set.Name, "no shader specified")
	}

	if err := b.assignResources(m, graphs); err != nil {
		return nil, err
	}

	var (
		allStructs []*StructureDefinition
		seenStruct = make(map[string]bool)
		seenFunc   = make(map[ir.FunctionID]bool)
	)
	for i, st := range stages {
		g := graphs[i]
		if g == nil {
			continue
		}
		ep, err := b.entryPoint(m, g)
		if err != nil {
			return nil, err
		}
		*st.dst = ep

		for _, fn := range ep.Functions {
			if !seenFunc[fn.ID()] {
				seenFunc[fn.ID()] = true
				m.Functions = append(m.Functions, NewShaderFunction(fn))
			}
		}
		for _, sd := range ep.Structures {
			if !seenStruct[sd.Name] {
				seenStruct[sd.Name] = true
				allStructs = append(allStructs, sd)
			}
		}
	}

	ordered, err := OrderStructures(allStructs)
	if err != nil {
		return nil, err
	}
	m.Structures = ordered
	return m, nil
}

// assignResources binds every resource declared on the entry points'
// declaring types, then on any other type whose resources the reachable
// functions reference, each in declaration order.
func (b *Builder) assignResources(m *ShaderModel, graphs []*callgraph.Graph) error {
	var owners []string
	seen := make(map[string]bool)
	addOwner := func(name string) {
		if !seen[name] {
			seen[name] = true
			owners = append(owners, name)
		}
	}
	for _, g := range graphs {
		if g != nil {
			addOwner(g.Root().Decl.Type)
		}
	}
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, fn := range g.Ordered() {
			ir.WalkBlock(fn.Body, func(e ir.Expression) {
				if r, ok := e.(ir.ExprResource); ok && r.Owner != "" {
					addOwner(r.Owner)
				}
			})
		}
	}

	assignor := NewBindingAssignor()
	declaredBy := make(map[string]string)
	for _, owner := range owners {
		t, err := b.oracle.Type(owner)
		if err != nil {
			return err
		}
		for _, decl := range t.Resources {
			if prev, dup := declaredBy[decl.Name]; dup {
				return ir.NewError(ir.ErrInvalidShaderSet, decl.Name,
					"resource name declared by both %s and %s", prev, owner)
			}
			declaredBy[decl.Name] = owner
			rd, err := assignor.Assign(owner, decl)
			if err != nil {
				return err
			}
			if rd.Kind == ResourceUniform || rd.Kind.IsBuffer() {
				if _, err := b.engine.Layout(rd.Type); err != nil {
					return err
				}
			}
			m.Resources = append(m.Resources, rd)
		}
	}
	return nil
}

func (b *Builder) entryPoint(m *ShaderModel, g *callgraph.Graph) (*EntryPoint, error) {
	ep := &EntryPoint{
		Function:  NewShaderFunction(g.Root().Decl),
		Functions: g.Ordered(),
	}

	used := make(map[*ResourceDefinition]bool)
	seenBuiltin := make(map[string]bool)
	var structNames []string
	seenType := make(map[string]bool)
	addType := func(t ir.TypeReference) {
		if t.IsVoid() || seenType[t.Name] {
			return
		}
		seenType[t.Name] = true
		if ir.IsStruct(b.oracle, t.Name) {
			structNames = append(structNames, t.Name)
		}
	}

	for _, fn := range ep.Functions {
		addType(fn.Return)
		for _, p := range fn.Params {
			addType(p.Type)
		}
		ir.WalkStatements(fn.Body, func(s ir.StatementKind) {
			if v, ok := s.(ir.StmtVar); ok {
				addType(v.Type)
			}
		})

		var walkErr error
		ir.WalkBlock(fn.Body, func(e ir.Expression) {
			addType(e.ResultType())
			switch x := e.(type) {
			case ir.ExprResource:
				owner := x.Owner
				if owner == "" {
					owner = fn.Type
				}
				rd, ok := m.Resource(owner, x.Name)
				if !ok {
					if walkErr == nil {
						walkErr = ir.NewError(ir.ErrUnresolvedReference, owner+"."+x.Name,
							"resource referenced by %s is not declared", fn.ID())
					}
					return
				}
				used[rd] = true
			case ir.ExprStatic:
				if x.Owner == ir.TypeBuiltins && !seenBuiltin[x.Member] {
					seenBuiltin[x.Member] = true
					ep.Builtins = append(ep.Builtins, x.Member)
				}
			case ir.ExprNew:
				addType(x.Type)
			case ir.ExprCast:
				addType(x.Type)
			}
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	for i := range m.Resources {
		rd := &m.Resources[i]
		if used[rd] {
			ep.Resources = append(ep.Resources, rd)
			if rd.Kind == ResourceUniform || rd.Kind.IsBuffer() {
				addType(rd.Type)
			}
		}
	}

	defs, err := b.closeStructures(structNames)
	if err != nil {
		return nil, err
	}
	ep.Structures, err = OrderStructures(defs)
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// closeStructures resolves the named structures and every structure they
// embed, in first-seen order.
func (b *Builder) closeStructures(names []string) ([]*StructureDefinition, error) {
	var out []*StructureDefinition
	seen := make(map[string]bool)
	queue := append([]string(nil), names...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		sd, err := b.structure(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sd)
		for _, f := range sd.Fields {
			if !seen[f.Type.Name] && ir.IsStruct(b.oracle, f.Type.Name) {
				queue = append(queue, f.Type.Name)
			}
		}
	}
	return out, nil
}

func (b *Builder) structure(name string) (*StructureDefinition, error) {
	if sd, ok := b.structs[name]; ok {
		return sd, nil
	}
	decl, err := b.oracle.Type(name)
	if err != nil {
		return nil, err
	}
	sl, err := b.engine.Struct(name)
	if err != nil {
		return nil, err
	}

	sd := &StructureDefinition{
		Name:      name,
		Fields:    make([]FieldDefinition, len(decl.Fields)),
		Alignment: sl.AlignmentInfo,
	}
	for i, f := range decl.Fields {
		sd.Fields[i] = FieldDefinition{
			Name:         f.Name,
			Type:         f.Type,
			Semantic:     f.Semantic,
			ArrayLength:  f.ArrayLength,
			Alignment:    sl.Fields[i].Info,
			HostOffset:   sl.Fields[i].HostOffset,
			DeviceOffset: sl.Fields[i].DeviceOffset,
		}
	}
	b.structs[name] = sd
	return sd, nil
}
