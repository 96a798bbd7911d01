package ir

// Oracle answers questions about a typed program. Implementations must be
// safe for concurrent reads and must return an *Error of kind
// ErrUnresolvedSymbol, never a nil result with a nil error, for unknown
// symbols.
type Oracle interface {
	// Type resolves a user-declared type by qualified name.
	Type(name string) (*TypeDecl, error)

	// Function resolves a method declaration by identity.
	Function(id FunctionID) (*FunctionDecl, error)

	// Constant evaluates a named constant declared on owner.
	Constant(owner, name string) (LiteralValue, error)
}

// Program is an indexed, immutable set of type declarations.
// It implements Oracle.
type Program struct {
	types     []TypeDecl
	typeIndex map[string]int
	funcIndex map[FunctionID]funcRef
}

type funcRef struct {
	typ, method int
}

// NewProgram indexes the given declarations. Duplicate type names and
// duplicate method names within a type are rejected.
func NewProgram(types []TypeDecl) (*Program, error) {
	p := &Program{
		types:     make([]TypeDecl, len(types)),
		typeIndex: make(map[string]int, len(types)),
		funcIndex: make(map[FunctionID]funcRef),
	}
	copy(p.types, types)

	for ti := range p.types {
		t := &p.types[ti]
		if t.Name == "" {
			return nil, NewError(ErrInvalidProgram, "", "type %d has no name", ti)
		}
		if IsBuiltinType(t.Name) {
			return nil, NewError(ErrInvalidProgram, t.Name, "type name shadows a built-in type")
		}
		if _, dup := p.typeIndex[t.Name]; dup {
			return nil, NewError(ErrInvalidProgram, t.Name, "duplicate type declaration")
		}
		p.typeIndex[t.Name] = ti

		methods := make([]FunctionDecl, len(t.Methods))
		copy(methods, t.Methods)
		t.Methods = methods
		for mi := range t.Methods {
			m := &t.Methods[mi]
			m.Type = t.Name
			id := m.ID()
			if _, dup := p.funcIndex[id]; dup {
				return nil, NewError(ErrInvalidProgram, id.String(), "duplicate method declaration")
			}
			p.funcIndex[id] = funcRef{typ: ti, method: mi}
		}
	}
	return p, nil
}

// Types returns the declarations in declaration order.
func (p *Program) Types() []TypeDecl {
	return p.types
}

// Type implements Oracle.
func (p *Program) Type(name string) (*TypeDecl, error) {
	i, ok := p.typeIndex[name]
	if !ok {
		return nil, NewError(ErrUnresolvedSymbol, name, "no such type")
	}
	return &p.types[i], nil
}

// Function implements Oracle.
func (p *Program) Function(id FunctionID) (*FunctionDecl, error) {
	ref, ok := p.funcIndex[id]
	if !ok {
		return nil, NewError(ErrUnresolvedSymbol, id.String(), "no such function")
	}
	return &p.types[ref.typ].Methods[ref.method], nil
}

// Constant implements Oracle.
func (p *Program) Constant(owner, name string) (LiteralValue, error) {
	t, err := p.Type(owner)
	if err != nil {
		return nil, err
	}
	for _, c := range t.Constants {
		if c.Name == name {
			return c.Value, nil
		}
	}
	return nil, NewError(ErrUnresolvedSymbol, owner+"."+name, "no such constant")
}

// IsStruct reports whether name resolves to a user-declared struct type.
func IsStruct(o Oracle, name string) bool {
	t, err := o.Type(name)
	return err == nil && t.Kind == TypeStruct
}
