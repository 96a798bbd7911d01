package ir

// WalkBlock calls visit for every expression in block, parents before
// children, in source order.
func WalkBlock(block Block, visit func(Expression)) {
	for _, stmt := range block {
		walkStatement(stmt.Kind, visit)
	}
}

func walkStatement(kind StatementKind, visit func(Expression)) {
	switch s := kind.(type) {
	case StmtVar:
		WalkExpression(s.Init, visit)
	case StmtAssign:
		WalkExpression(s.Target, visit)
		WalkExpression(s.Value, visit)
	case StmtExpr:
		WalkExpression(s.Expr, visit)
	case StmtReturn:
		WalkExpression(s.Value, visit)
	case StmtIf:
		WalkExpression(s.Condition, visit)
		WalkBlock(s.Accept, visit)
		WalkBlock(s.Reject, visit)
	case StmtFor:
		WalkBlock(s.Init, visit)
		WalkExpression(s.Condition, visit)
		WalkBlock(s.Update, visit)
		WalkBlock(s.Body, visit)
	case StmtWhile:
		WalkExpression(s.Condition, visit)
		WalkBlock(s.Body, visit)
	case StmtSwitch:
		WalkExpression(s.Selector, visit)
		for _, c := range s.Cases {
			WalkBlock(c.Body, visit)
		}
	case StmtBlock:
		WalkBlock(s.Block, visit)
	}
}

// WalkExpression calls visit for expr and every expression nested in it.
// A nil expression is ignored.
func WalkExpression(expr Expression, visit func(Expression)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch e := expr.(type) {
	case ExprMember:
		WalkExpression(e.Base, visit)
	case ExprIndex:
		WalkExpression(e.Base, visit)
		WalkExpression(e.Index, visit)
	case ExprCall:
		for _, a := range e.Args {
			WalkExpression(a, visit)
		}
	case ExprNew:
		for _, a := range e.Args {
			WalkExpression(a, visit)
		}
	case ExprUnary:
		WalkExpression(e.Operand, visit)
	case ExprBinary:
		WalkExpression(e.Left, visit)
		WalkExpression(e.Right, visit)
	case ExprSelect:
		WalkExpression(e.Condition, visit)
		WalkExpression(e.Accept, visit)
		WalkExpression(e.Reject, visit)
	case ExprCast:
		WalkExpression(e.Value, visit)
	}
}

// WalkStatements calls visit for every statement in block, including
// statements nested in control flow.
func WalkStatements(block Block, visit func(StatementKind)) {
	for _, stmt := range block {
		visit(stmt.Kind)
		switch s := stmt.Kind.(type) {
		case StmtIf:
			WalkStatements(s.Accept, visit)
			WalkStatements(s.Reject, visit)
		case StmtFor:
			WalkStatements(s.Init, visit)
			WalkStatements(s.Update, visit)
			WalkStatements(s.Body, visit)
		case StmtWhile:
			WalkStatements(s.Body, visit)
		case StmtSwitch:
			for _, c := range s.Cases {
				WalkStatements(c.Body, visit)
			}
		case StmtBlock:
			WalkStatements(s.Block, visit)
		}
	}
}
