package backend

import (
	"strings"

	"github.com/gogpu/shadergen/ir"
)

// emitter writes one user function in C-family syntax, asking the
// backend for every target-specific spelling.
type emitter struct {
	b   LanguageBackend
	ctx *Context
	fn  *ir.FunctionDecl
	w   *Writer
}

// WriteFunction writes fn as a plain target function.
func WriteFunction(w *Writer, b LanguageBackend, ctx *Context, fn *ir.FunctionDecl) error {
	ret, err := b.TypeName(fn.Return)
	if err != nil {
		return err
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if params[i], err = b.FormatParameter(p); err != nil {
			return err
		}
	}

	e := &emitter{b: b, ctx: ctx, fn: fn, w: w}
	w.WriteLine("%s %s(%s)", ret, b.FunctionName(fn.ID()), strings.Join(params, ", "))
	w.WriteLine("{")
	w.PushIndent()
	if err := e.block(fn.Body); err != nil {
		return err
	}
	w.PopIndent()
	w.WriteLine("}")
	w.BlankLine()
	return nil
}

func (e *emitter) block(b ir.Block) error {
	for _, s := range b {
		if err := e.statement(s.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) statement(s ir.StatementKind) error {
	switch x := s.(type) {
	case ir.StmtVar, ir.StmtAssign, ir.StmtExpr:
		line, err := e.simple(x)
		if err != nil {
			return err
		}
		e.w.WriteLine("%s;", line)

	case ir.StmtReturn:
		if x.Value == nil {
			e.w.WriteLine("return;")
			return nil
		}
		v, err := e.expr(x.Value)
		if err != nil {
			return err
		}
		e.w.WriteLine("return %s;", v)

	case ir.StmtIf:
		cond, err := e.expr(x.Condition)
		if err != nil {
			return err
		}
		e.w.WriteLine("if (%s)", cond)
		return e.ifTail(x)

	case ir.StmtFor:
		return e.forLoop(x)

	case ir.StmtWhile:
		cond, err := e.expr(x.Condition)
		if err != nil {
			return err
		}
		if x.DoWhile {
			e.w.WriteLine("do")
			if err := e.braced(x.Body); err != nil {
				return err
			}
			e.w.WriteLine("while (%s);", cond)
			return nil
		}
		e.w.WriteLine("while (%s)", cond)
		return e.braced(x.Body)

	case ir.StmtSwitch:
		return e.switchStatement(x)

	case ir.StmtBlock:
		return e.braced(x.Block)

	case ir.StmtBreak:
		e.w.WriteLine("break;")
	case ir.StmtContinue:
		e.w.WriteLine("continue;")
	case ir.StmtDiscard:
		e.w.WriteLine("%s;", e.b.DiscardStatement())

	default:
		return ir.NewError(ir.ErrUnsupportedFeature, e.fn.ID().String(), "unsupported statement %T", s)
	}
	return nil
}

func (e *emitter) braced(b ir.Block) error {
	e.w.WriteLine("{")
	e.w.PushIndent()
	if err := e.block(b); err != nil {
		return err
	}
	e.w.PopIndent()
	e.w.WriteLine("}")
	return nil
}

// ifTail writes the branches of x after its condition line, folding a
// lone nested if in the else branch into "else if".
func (e *emitter) ifTail(x ir.StmtIf) error {
	if err := e.braced(x.Accept); err != nil {
		return err
	}
	if len(x.Reject) == 0 {
		return nil
	}
	if len(x.Reject) == 1 {
		if nested, ok := x.Reject[0].Kind.(ir.StmtIf); ok {
			cond, err := e.expr(nested.Condition)
			if err != nil {
				return err
			}
			e.w.WriteLine("else if (%s)", cond)
			return e.ifTail(nested)
		}
	}
	e.w.WriteLine("else")
	return e.braced(x.Reject)
}

// simple formats a declaration, assignment or expression statement
// without the trailing semicolon.
func (e *emitter) simple(s ir.StatementKind) (string, error) {
	switch x := s.(type) {
	case ir.StmtVar:
		t, err := e.b.TypeName(x.Type)
		if err != nil {
			return "", err
		}
		name := e.b.CorrectIdentifier(x.Name)
		if x.Init == nil {
			return t + " " + name, nil
		}
		init, err := e.expr(x.Init)
		if err != nil {
			return "", err
		}
		return t + " " + name + " = " + init, nil

	case ir.StmtAssign:
		target, err := e.expr(x.Target)
		if err != nil {
			return "", err
		}
		value, err := e.expr(x.Value)
		if err != nil {
			return "", err
		}
		if !x.Compound {
			return target + " = " + value, nil
		}
		l := Operand{Code: target, Type: x.Target.ResultType()}
		r := Operand{Code: value, Type: x.Value.ResultType()}
		if formatted := e.b.FormatBinary(x.Op, l, r); formatted != InfixBinary(x.Op, l, r) {
			return target + " = " + formatted, nil
		}
		return target + " " + x.Op.Symbol() + "= " + value, nil

	case ir.StmtExpr:
		return e.expr(x.Expr)
	}
	return "", ir.NewError(ir.ErrUnsupportedFeature, e.fn.ID().String(),
		"%T cannot appear in a for-loop header", s)
}

func (e *emitter) forLoop(x ir.StmtFor) error {
	var init string
	wrapped := len(x.Init) > 1
	if wrapped {
		e.w.WriteLine("{")
		e.w.PushIndent()
		if err := e.block(x.Init); err != nil {
			return err
		}
	} else if len(x.Init) == 1 {
		var err error
		if init, err = e.simple(x.Init[0].Kind); err != nil {
			return err
		}
	}

	var cond string
	if x.Condition != nil {
		var err error
		if cond, err = e.expr(x.Condition); err != nil {
			return err
		}
	}

	updates := make([]string, len(x.Update))
	for i, u := range x.Update {
		if _, ok := u.Kind.(ir.StmtVar); ok {
			return ir.NewError(ir.ErrUnsupportedFeature, e.fn.ID().String(), "declaration in for-loop update")
		}
		var err error
		if updates[i], err = e.simple(u.Kind); err != nil {
			return err
		}
	}

	e.w.WriteLine("for (%s; %s; %s)", init, cond, strings.Join(updates, ", "))
	if err := e.braced(x.Body); err != nil {
		return err
	}
	if wrapped {
		e.w.PopIndent()
		e.w.WriteLine("}")
	}
	return nil
}

func (e *emitter) switchStatement(x ir.StmtSwitch) error {
	sel, err := e.expr(x.Selector)
	if err != nil {
		return err
	}
	e.w.WriteLine("switch (%s)", sel)
	e.w.WriteLine("{")
	for _, c := range x.Cases {
		for _, v := range c.Values {
			e.w.WriteLine("case %s:", e.b.FormatLiteral(v))
		}
		if c.Default {
			e.w.WriteLine("default:")
		}
		e.w.PushIndent()
		if err := e.braced(c.Body); err != nil {
			return err
		}
		e.w.PopIndent()
	}
	e.w.WriteLine("}")
	return nil
}

func (e *emitter) operands(args []ir.Expression) ([]Operand, error) {
	out := make([]Operand, len(args))
	for i, a := range args {
		code, err := e.expr(a)
		if err != nil {
			return nil, err
		}
		out[i] = Operand{Code: code, Type: a.ResultType()}
	}
	return out, nil
}

func (e *emitter) expr(x ir.Expression) (string, error) {
	switch x := x.(type) {
	case ir.Literal:
		return e.b.FormatLiteral(x.Value), nil

	case ir.ExprLocal:
		return e.b.CorrectIdentifier(x.Name), nil

	case ir.ExprResource:
		owner := x.Owner
		if owner == "" {
			owner = e.fn.Type
		}
		rd, ok := e.ctx.Model.Resource(owner, x.Name)
		if !ok {
			return "", ir.NewError(ir.ErrUnresolvedReference, owner+"."+x.Name, "resource is not declared")
		}
		return e.b.ResourceAccess(e.ctx, rd), nil

	case ir.ExprConstant:
		owner := x.Owner
		if owner == "" {
			owner = e.fn.Type
		}
		v, err := e.ctx.Model.Oracle().Constant(owner, x.Name)
		if err != nil {
			return "", err
		}
		return e.b.FormatLiteral(v), nil

	case ir.ExprMember:
		base, err := e.expr(x.Base)
		if err != nil {
			return "", err
		}
		member := e.b.IdentifierName(x.Base.ResultType(), x.Member)
		if strings.HasPrefix(member, "[") {
			return base + member, nil
		}
		return base + "." + member, nil

	case ir.ExprStatic:
		if x.Owner != ir.TypeBuiltins {
			return "", ir.NewError(ir.ErrUnsupportedFeature, x.Owner+"."+x.Member,
				"static members are only supported on %s", ir.TypeBuiltins)
		}
		return e.b.BuiltinAccess(e.ctx, x.Member)

	case ir.ExprIndex:
		base, err := e.expr(x.Base)
		if err != nil {
			return "", err
		}
		idx, err := e.expr(x.Index)
		if err != nil {
			return "", err
		}
		return base + "[" + idx + "]", nil

	case ir.ExprCall:
		args, err := e.operands(x.Args)
		if err != nil {
			return "", err
		}
		if _, err := e.ctx.Model.Oracle().Function(x.Callee); err == nil {
			return e.b.FunctionName(x.Callee) + "(" + JoinOperands(args) + ")", nil
		}
		return e.b.FormatInvocation(e.ctx, Invocation{ID: x.Callee, Args: args, Result: x.Type})

	case ir.ExprNew:
		args, err := e.operands(x.Args)
		if err != nil {
			return "", err
		}
		if t, err := e.ctx.Model.Oracle().Type(x.Type.Name); err == nil && t.Method(ir.CtorName) != nil {
			ctor := ir.FunctionID{Type: x.Type.Name, Method: ir.CtorName}
			return e.b.FunctionName(ctor) + "(" + JoinOperands(args) + ")", nil
		}
		return e.b.FormatConstruction(e.ctx, x.Type, args)

	case ir.ExprUnary:
		v, err := e.expr(x.Operand)
		if err != nil {
			return "", err
		}
		// Negative literals would otherwise read as a decrement.
		if strings.HasPrefix(v, "-") {
			v = "(" + v + ")"
		}
		return "(" + x.Op.Symbol() + v + ")", nil

	case ir.ExprBinary:
		l, err := e.expr(x.Left)
		if err != nil {
			return "", err
		}
		r, err := e.expr(x.Right)
		if err != nil {
			return "", err
		}
		return e.b.FormatBinary(x.Op,
			Operand{Code: l, Type: x.Left.ResultType()},
			Operand{Code: r, Type: x.Right.ResultType()}), nil

	case ir.ExprSelect:
		c, err := e.expr(x.Condition)
		if err != nil {
			return "", err
		}
		a, err := e.expr(x.Accept)
		if err != nil {
			return "", err
		}
		r, err := e.expr(x.Reject)
		if err != nil {
			return "", err
		}
		return "(" + c + " ? " + a + " : " + r + ")", nil

	case ir.ExprCast:
		v, err := e.expr(x.Value)
		if err != nil {
			return "", err
		}
		return e.b.FormatCast(x.Type, Operand{Code: v, Type: x.Value.ResultType()})

	case nil:
		return "", ir.NewError(ir.ErrInvalidProgram, e.fn.ID().String(), "missing expression")
	}
	return "", ir.NewError(ir.ErrUnsupportedFeature, e.fn.ID().String(), "unsupported expression %T", x)
}
