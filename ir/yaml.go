package ir

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a program plus the shader sets to generate from it, as read
// from a YAML program document.
type Document struct {
	Program *Program
	Sets    []ShaderSetInfo
}

// LoadProgramFile reads and decodes a YAML program document.
func LoadProgramFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := LoadProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadProgram decodes a YAML program document.
func LoadProgram(data []byte) (*Document, error) {
	var raw documentYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	types := make([]TypeDecl, 0, len(raw.Types))
	for _, t := range raw.Types {
		decl, err := t.decode()
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		types = append(types, decl)
	}

	program, err := NewProgram(types)
	if err != nil {
		return nil, err
	}

	sets := make([]ShaderSetInfo, 0, len(raw.Sets))
	for _, s := range raw.Sets {
		info := ShaderSetInfo{Name: s.Name}
		for _, st := range []struct {
			name string
			dst  **FunctionID
		}{
			{s.Vertex, &info.Vertex},
			{s.Fragment, &info.Fragment},
			{s.Compute, &info.Compute},
		} {
			if st.name == "" {
				continue
			}
			id, err := ParseFunctionID(st.name)
			if err != nil {
				return nil, fmt.Errorf("set %s: %w", s.Name, err)
			}
			*st.dst = &id
		}
		sets = append(sets, info)
	}

	return &Document{Program: program, Sets: sets}, nil
}

type documentYAML struct {
	Types []typeYAML `yaml:"types"`
	Sets  []setYAML  `yaml:"sets"`
}

type setYAML struct {
	Name     string `yaml:"name"`
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Compute  string `yaml:"compute"`
}

type typeYAML struct {
	Name      string         `yaml:"name"`
	Kind      string         `yaml:"kind"`
	Fields    []fieldYAML    `yaml:"fields"`
	Resources []resourceYAML `yaml:"resources"`
	Constants []constantYAML `yaml:"constants"`
	Functions []functionYAML `yaml:"functions"`
}

type fieldYAML struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Semantic string `yaml:"semantic"`
	Array    int    `yaml:"array"`
}

type resourceYAML struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Element string `yaml:"element"`
	Set     uint32 `yaml:"set"`
}

type constantYAML struct {
	Name  string   `yaml:"name"`
	Value exprYAML `yaml:"value"`
}

type paramYAML struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
}

type functionYAML struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	Return    string      `yaml:"return"`
	Params    []paramYAML `yaml:"params"`
	Workgroup []uint32    `yaml:"workgroup"`
	Body      []stmtYAML  `yaml:"body"`
}

func (t typeYAML) decode() (TypeDecl, error) {
	decl := TypeDecl{Name: t.Name}
	switch t.Kind {
	case "", "struct":
		decl.Kind = TypeStruct
	case "class":
		decl.Kind = TypeClass
	default:
		return decl, fmt.Errorf("unknown type kind %q", t.Kind)
	}

	for _, f := range t.Fields {
		sem, err := ParseSemantic(f.Semantic)
		if err != nil {
			return decl, fmt.Errorf("field %s: %w", f.Name, err)
		}
		decl.Fields = append(decl.Fields, FieldDecl{
			Name:        f.Name,
			Type:        Ref(f.Type),
			Semantic:    sem,
			ArrayLength: f.Array,
		})
	}
	for _, r := range t.Resources {
		rd := ResourceDecl{Name: r.Name, Type: Ref(r.Type), Set: r.Set}
		if r.Element != "" {
			rd.Element = Ref(r.Element)
		}
		decl.Resources = append(decl.Resources, rd)
	}
	for _, c := range t.Constants {
		lit, ok := c.Value.literal()
		if !ok {
			return decl, fmt.Errorf("constant %s: value must be a literal", c.Name)
		}
		decl.Constants = append(decl.Constants, ConstantDecl{Name: c.Name, Value: lit})
	}
	for _, f := range t.Functions {
		fn, err := f.decode()
		if err != nil {
			return decl, fmt.Errorf("function %s: %w", f.Name, err)
		}
		decl.Methods = append(decl.Methods, fn)
	}
	return decl, nil
}

func (f functionYAML) decode() (FunctionDecl, error) {
	fn := FunctionDecl{Name: f.Name, Return: Ref(f.Return)}
	if f.Return == "" {
		fn.Return = Ref(TypeVoid)
	}

	switch f.Kind {
	case "", "normal":
		fn.Kind = FunctionNormal
	case "vertex":
		fn.Kind = FunctionVertex
	case "fragment":
		fn.Kind = FunctionFragment
	case "compute":
		fn.Kind = FunctionCompute
	default:
		return fn, fmt.Errorf("unknown function kind %q", f.Kind)
	}

	if len(f.Workgroup) > 0 {
		if len(f.Workgroup) != 3 {
			return fn, fmt.Errorf("workgroup needs 3 components, has %d", len(f.Workgroup))
		}
		copy(fn.Workgroup[:], f.Workgroup)
	}

	for _, p := range f.Params {
		param := Param{Name: p.Name, Type: Ref(p.Type)}
		switch p.Direction {
		case "", "in":
			param.Direction = DirIn
		case "out":
			param.Direction = DirOut
		case "inout":
			param.Direction = DirInOut
		default:
			return fn, fmt.Errorf("parameter %s: unknown direction %q", p.Name, p.Direction)
		}
		fn.Params = append(fn.Params, param)
	}

	body, err := decodeBlock(f.Body)
	if err != nil {
		return fn, err
	}
	fn.Body = body
	return fn, nil
}

// stmtYAML is a statement; exactly one key is set.
type stmtYAML struct {
	Var      *varYAML    `yaml:"var"`
	Assign   *assignYAML `yaml:"assign"`
	Expr     *exprYAML   `yaml:"expr"`
	Return   *exprYAML   `yaml:"return"`
	If       *ifYAML     `yaml:"if"`
	For      *forYAML    `yaml:"for"`
	While    *whileYAML  `yaml:"while"`
	Switch   *switchYAML `yaml:"switch"`
	Block    []stmtYAML  `yaml:"block"`
	Break    bool        `yaml:"break"`
	Continue bool        `yaml:"continue"`
	Discard  bool        `yaml:"discard"`
}

type varYAML struct {
	Name string    `yaml:"name"`
	Type string    `yaml:"type"`
	Init *exprYAML `yaml:"init"`
}

type assignYAML struct {
	Target exprYAML `yaml:"target"`
	Value  exprYAML `yaml:"value"`
	Op     string   `yaml:"op"`
}

type ifYAML struct {
	Cond exprYAML   `yaml:"cond"`
	Then []stmtYAML `yaml:"then"`
	Else []stmtYAML `yaml:"else"`
}

type forYAML struct {
	Init   []stmtYAML `yaml:"init"`
	Cond   *exprYAML  `yaml:"cond"`
	Update []stmtYAML `yaml:"update"`
	Body   []stmtYAML `yaml:"body"`
}

type whileYAML struct {
	Cond exprYAML   `yaml:"cond"`
	Body []stmtYAML `yaml:"body"`
	Do   bool       `yaml:"do"`
}

type switchYAML struct {
	Selector exprYAML   `yaml:"selector"`
	Cases    []caseYAML `yaml:"cases"`
}

type caseYAML struct {
	Values  []int32    `yaml:"values"`
	Default bool       `yaml:"default"`
	Body    []stmtYAML `yaml:"body"`
}

func decodeBlock(stmts []stmtYAML) (Block, error) {
	if len(stmts) == 0 {
		return nil, nil
	}
	block := make(Block, 0, len(stmts))
	for i, s := range stmts {
		kind, err := s.decode()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		block = append(block, Stmt(kind))
	}
	return block, nil
}

func (s stmtYAML) decode() (StatementKind, error) {
	switch {
	case s.Var != nil:
		init, err := s.Var.Init.decodeOptional()
		if err != nil {
			return nil, err
		}
		return StmtVar{Name: s.Var.Name, Type: Ref(s.Var.Type), Init: init}, nil

	case s.Assign != nil:
		target, err := s.Assign.Target.decode()
		if err != nil {
			return nil, err
		}
		value, err := s.Assign.Value.decode()
		if err != nil {
			return nil, err
		}
		st := StmtAssign{Target: target, Value: value}
		if s.Assign.Op != "" {
			op, ok := ParseBinaryOperator(s.Assign.Op)
			if !ok {
				return nil, fmt.Errorf("unknown assignment operator %q", s.Assign.Op)
			}
			st.Op, st.Compound = op, true
		}
		return st, nil

	case s.Expr != nil:
		e, err := s.Expr.decode()
		if err != nil {
			return nil, err
		}
		return StmtExpr{Expr: e}, nil

	case s.Return != nil:
		value, err := s.Return.decodeOptional()
		if err != nil {
			return nil, err
		}
		return StmtReturn{Value: value}, nil

	case s.If != nil:
		cond, err := s.If.Cond.decode()
		if err != nil {
			return nil, err
		}
		accept, err := decodeBlock(s.If.Then)
		if err != nil {
			return nil, err
		}
		reject, err := decodeBlock(s.If.Else)
		if err != nil {
			return nil, err
		}
		return StmtIf{Condition: cond, Accept: accept, Reject: reject}, nil

	case s.For != nil:
		init, err := decodeBlock(s.For.Init)
		if err != nil {
			return nil, err
		}
		cond, err := s.For.Cond.decodeOptional()
		if err != nil {
			return nil, err
		}
		update, err := decodeBlock(s.For.Update)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(s.For.Body)
		if err != nil {
			return nil, err
		}
		return StmtFor{Init: init, Condition: cond, Update: update, Body: body}, nil

	case s.While != nil:
		cond, err := s.While.Cond.decode()
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(s.While.Body)
		if err != nil {
			return nil, err
		}
		return StmtWhile{Condition: cond, Body: body, DoWhile: s.While.Do}, nil

	case s.Switch != nil:
		sel, err := s.Switch.Selector.decode()
		if err != nil {
			return nil, err
		}
		st := StmtSwitch{Selector: sel}
		for _, c := range s.Switch.Cases {
			body, err := decodeBlock(c.Body)
			if err != nil {
				return nil, err
			}
			sc := SwitchCase{Default: c.Default, Body: body}
			for _, v := range c.Values {
				sc.Values = append(sc.Values, LiteralI32(v))
			}
			st.Cases = append(st.Cases, sc)
		}
		return st, nil

	case s.Block != nil:
		body, err := decodeBlock(s.Block)
		if err != nil {
			return nil, err
		}
		return StmtBlock{Block: body}, nil

	case s.Break:
		return StmtBreak{}, nil
	case s.Continue:
		return StmtContinue{}, nil
	case s.Discard:
		return StmtDiscard{}, nil
	}
	return nil, fmt.Errorf("empty statement")
}

// exprYAML is an expression; the set keys select the node kind.
type exprYAML struct {
	Float *float32 `yaml:"float"`
	Int   *int32   `yaml:"int"`
	Uint  *uint32  `yaml:"uint"`
	Bool  *bool    `yaml:"bool"`

	Local    string `yaml:"local"`
	Resource string `yaml:"resource"`
	Constant string `yaml:"constant"`
	Static   string `yaml:"static"`
	Owner    string `yaml:"owner"`

	Member string    `yaml:"member"`
	Index  *exprYAML `yaml:"index"`
	Of     *exprYAML `yaml:"of"`

	Call string     `yaml:"call"`
	New  string     `yaml:"new"`
	Args []exprYAML `yaml:"args"`

	Op      string    `yaml:"op"`
	Left    *exprYAML `yaml:"left"`
	Right   *exprYAML `yaml:"right"`
	Operand *exprYAML `yaml:"operand"`

	Select *exprYAML `yaml:"select"`
	Then   *exprYAML `yaml:"then"`
	Else   *exprYAML `yaml:"else"`

	Cast  string    `yaml:"cast"`
	Value *exprYAML `yaml:"value"`

	Type string `yaml:"type"`
}

func (e *exprYAML) literal() (LiteralValue, bool) {
	switch {
	case e.Float != nil:
		return LiteralF32(*e.Float), true
	case e.Int != nil:
		return LiteralI32(*e.Int), true
	case e.Uint != nil:
		return LiteralU32(*e.Uint), true
	case e.Bool != nil:
		return LiteralBool(*e.Bool), true
	}
	return nil, false
}

// decodeOptional returns nil for a missing or empty expression.
func (e *exprYAML) decodeOptional() (Expression, error) {
	if e == nil || e.isEmpty() {
		return nil, nil
	}
	return e.decode()
}

func (e *exprYAML) isEmpty() bool {
	_, lit := e.literal()
	return !lit && e.Local == "" && e.Resource == "" && e.Constant == "" &&
		e.Static == "" && e.Member == "" && e.Index == nil && e.Call == "" &&
		e.New == "" && e.Op == "" && e.Select == nil && e.Cast == ""
}

func decodeAll(list []exprYAML) ([]Expression, error) {
	out := make([]Expression, 0, len(list))
	for i := range list {
		a, err := list[i].decode()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (e *exprYAML) child(c *exprYAML, what string) (Expression, error) {
	if c == nil {
		return nil, fmt.Errorf("expression is missing %s", what)
	}
	return c.decode()
}

func (e *exprYAML) decode() (Expression, error) {
	typ := Ref(e.Type)
	if lit, ok := e.literal(); ok {
		return Literal{Value: lit}, nil
	}

	switch {
	case e.Local != "":
		return ExprLocal{Name: e.Local, Type: typ}, nil

	case e.Resource != "":
		return ExprResource{Owner: e.Owner, Name: e.Resource, Type: typ}, nil

	case e.Constant != "":
		return ExprConstant{Owner: e.Owner, Name: e.Constant, Type: typ}, nil

	case e.Static != "":
		id, err := ParseFunctionID(e.Static)
		if err != nil {
			return nil, err
		}
		return ExprStatic{Owner: id.Type, Member: id.Method, Type: typ}, nil

	case e.Member != "":
		base, err := e.child(e.Of, "of")
		if err != nil {
			return nil, err
		}
		return ExprMember{Base: base, Member: e.Member, Type: typ}, nil

	case e.Index != nil:
		base, err := e.child(e.Of, "of")
		if err != nil {
			return nil, err
		}
		index, err := e.Index.decode()
		if err != nil {
			return nil, err
		}
		return ExprIndex{Base: base, Index: index, Type: typ}, nil

	case e.Call != "":
		id, err := ParseFunctionID(e.Call)
		if err != nil {
			return nil, err
		}
		args, err := decodeAll(e.Args)
		if err != nil {
			return nil, err
		}
		return ExprCall{Callee: id, Args: args, Type: typ}, nil

	case e.New != "":
		args, err := decodeAll(e.Args)
		if err != nil {
			return nil, err
		}
		return ExprNew{Type: Ref(e.New), Args: args}, nil

	case e.Select != nil:
		cond, err := e.Select.decode()
		if err != nil {
			return nil, err
		}
		accept, err := e.child(e.Then, "then")
		if err != nil {
			return nil, err
		}
		reject, err := e.child(e.Else, "else")
		if err != nil {
			return nil, err
		}
		return ExprSelect{Condition: cond, Accept: accept, Reject: reject, Type: typ}, nil

	case e.Cast != "":
		value, err := e.child(e.Value, "value")
		if err != nil {
			return nil, err
		}
		return ExprCast{Type: Ref(e.Cast), Value: value}, nil

	case e.Op != "" && e.Operand != nil:
		op, ok := ParseUnaryOperator(e.Op)
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", e.Op)
		}
		operand, err := e.Operand.decode()
		if err != nil {
			return nil, err
		}
		return ExprUnary{Op: op, Operand: operand, Type: typ}, nil

	case e.Op != "":
		op, ok := ParseBinaryOperator(e.Op)
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", e.Op)
		}
		left, err := e.child(e.Left, "left")
		if err != nil {
			return nil, err
		}
		right, err := e.child(e.Right, "right")
		if err != nil {
			return nil, err
		}
		return ExprBinary{Op: op, Left: left, Right: right, Type: typ}, nil
	}
	return nil, fmt.Errorf("empty expression")
}
