package ir

// Statement represents a statement in a function body.
type Statement struct {
	Kind StatementKind
}

// StatementKind represents the different kinds of statements.
type StatementKind interface {
	statementKind()
}

// Block is a sequence of statements.
type Block []Statement

// Stmt wraps a statement kind.
func Stmt(kind StatementKind) Statement {
	return Statement{Kind: kind}
}

// StmtVar declares a local variable with an optional initializer.
type StmtVar struct {
	Name string
	Type TypeReference
	Init Expression
}

func (StmtVar) statementKind() {}

// StmtAssign stores Value into Target. When Compound is set the statement
// is "Target Op= Value".
type StmtAssign struct {
	Target   Expression
	Value    Expression
	Op       BinaryOperator
	Compound bool
}

func (StmtAssign) statementKind() {}

// StmtExpr evaluates an expression for its side effects.
type StmtExpr struct {
	Expr Expression
}

func (StmtExpr) statementKind() {}

// StmtReturn returns from the function. Value is nil for void functions.
type StmtReturn struct {
	Value Expression
}

func (StmtReturn) statementKind() {}

// StmtIf represents an if-else statement.
type StmtIf struct {
	Condition Expression
	Accept    Block
	Reject    Block
}

func (StmtIf) statementKind() {}

// StmtFor represents a C-style for loop.
type StmtFor struct {
	Init      Block
	Condition Expression
	Update    Block
	Body      Block
}

func (StmtFor) statementKind() {}

// StmtWhile represents a while or do-while loop.
type StmtWhile struct {
	Condition Expression
	Body      Block
	DoWhile   bool
}

func (StmtWhile) statementKind() {}

// StmtSwitch represents a switch statement.
type StmtSwitch struct {
	Selector Expression
	Cases    []SwitchCase
}

func (StmtSwitch) statementKind() {}

// SwitchCase is one case of a switch. Default cases have no values.
type SwitchCase struct {
	Values  []LiteralValue
	Default bool
	Body    Block
}

// StmtBlock is a nested scope.
type StmtBlock struct {
	Block Block
}

func (StmtBlock) statementKind() {}

// StmtBreak exits the innermost loop or switch.
type StmtBreak struct{}

func (StmtBreak) statementKind() {}

// StmtContinue skips to the next loop iteration.
type StmtContinue struct{}

func (StmtContinue) statementKind() {}

// StmtDiscard discards the current fragment.
type StmtDiscard struct{}

func (StmtDiscard) statementKind() {}
