package ir

import (
	"fmt"
)

// ValidationError represents a structural error in a program.
type ValidationError struct {
	Message string
	// Optional context
	Type     string
	Function string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch {
	case e.Function != "":
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	case e.Type != "":
		return fmt.Sprintf("in type %s: %s", e.Type, e.Message)
	default:
		return e.Message
	}
}

// Is reports ValidationError as ErrInvalidProgram.
func (e ValidationError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == ErrInvalidProgram
}

// Validator checks a program for structural errors before generation.
type Validator struct {
	program *Program
	errors  []ValidationError

	// Current context
	typeName     string
	functionName string
	loopDepth    int
	switchDepth  int
	locals       map[string]bool
	returnsValue bool
}

// Validate checks the program for correctness.
// Returns validation errors if any, or nil if the program is valid.
func Validate(program *Program) ([]ValidationError, error) {
	if program == nil {
		return nil, fmt.Errorf("program is nil")
	}

	v := &Validator{program: program}
	v.ValidateProgram()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateProgram validates every declaration.
func (v *Validator) ValidateProgram() {
	for i := range v.program.types {
		v.validateType(&v.program.types[i])
	}
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Type:     v.typeName,
		Function: v.functionName,
	})
}

func (v *Validator) validateType(t *TypeDecl) {
	v.typeName = t.Name
	v.functionName = ""
	defer func() { v.typeName = "" }()

	if t.Kind == TypeStruct && len(t.Resources) > 0 {
		v.addError("struct types cannot declare resources")
	}

	seen := make(map[string]bool, len(t.Fields)+len(t.Resources))
	for _, f := range t.Fields {
		v.validateField(f, seen)
	}
	for _, r := range t.Resources {
		v.validateResource(r, seen)
	}
	for _, c := range t.Constants {
		if c.Value == nil {
			v.addError("constant %s has no value", c.Name)
		}
	}
	for i := range t.Methods {
		v.validateFunction(&t.Methods[i])
	}
}

func (v *Validator) validateField(f FieldDecl, seen map[string]bool) {
	switch {
	case f.Name == "":
		v.addError("field with empty name")
		return
	case seen[f.Name]:
		v.addError("duplicate member %s", f.Name)
	}
	seen[f.Name] = true

	if f.Type.IsVoid() {
		v.addError("field %s has no type", f.Name)
	} else if IsResourceType(f.Type.Name) {
		v.addError("field %s cannot hold resource type %s", f.Name, f.Type.Name)
	}
	if f.ArrayLength < 0 {
		v.addError("field %s has negative array length %d", f.Name, f.ArrayLength)
	}
}

func (v *Validator) validateResource(r ResourceDecl, seen map[string]bool) {
	switch {
	case r.Name == "":
		v.addError("resource with empty name")
		return
	case seen[r.Name]:
		v.addError("duplicate member %s", r.Name)
	}
	seen[r.Name] = true

	if r.Type.IsVoid() {
		v.addError("resource %s has no type", r.Name)
		return
	}
	switch r.Type.Name {
	case TypeStructuredBuffer, TypeRWStructuredBuffer, TypeRWTexture2D:
		if r.Element.IsZero() {
			v.addError("resource %s of type %s needs an element type", r.Name, r.Type.Name)
		}
	}
}

func (v *Validator) validateFunction(fn *FunctionDecl) {
	v.functionName = fn.ID().String()
	v.loopDepth = 0
	v.switchDepth = 0
	v.locals = make(map[string]bool, len(fn.Params))
	v.returnsValue = !fn.Return.IsVoid()
	defer func() { v.functionName = "" }()

	for _, p := range fn.Params {
		if p.Name == "" {
			v.addError("parameter with empty name")
			continue
		}
		if v.locals[p.Name] {
			v.addError("duplicate parameter %s", p.Name)
		}
		v.locals[p.Name] = true
		if p.Type.IsVoid() {
			v.addError("parameter %s has no type", p.Name)
		}
	}

	switch fn.Kind {
	case FunctionVertex, FunctionFragment:
		if len(fn.Params) > 1 {
			v.addError("%s entry point takes at most one parameter, has %d", fn.Kind, len(fn.Params))
		}
	case FunctionCompute:
		if len(fn.Params) > 0 {
			v.addError("compute entry point cannot take parameters")
		}
		for i, n := range fn.Workgroup {
			if n == 0 {
				v.addError("workgroup size component %d is zero", i)
			}
		}
	}

	v.validateBlock(fn.Body)
}

func (v *Validator) validateBlock(block Block) {
	for _, stmt := range block {
		v.validateStatement(stmt.Kind)
	}
}

func (v *Validator) validateStatement(kind StatementKind) {
	switch s := kind.(type) {
	case StmtVar:
		if s.Type.IsVoid() {
			v.addError("local %s has no type", s.Name)
		}
		v.validateExpression(s.Init)
		v.locals[s.Name] = true
	case StmtAssign:
		if s.Target == nil || s.Value == nil {
			v.addError("assignment needs a target and a value")
			return
		}
		v.validateExpression(s.Target)
		v.validateExpression(s.Value)
	case StmtExpr:
		v.validateExpression(s.Expr)
	case StmtReturn:
		if v.returnsValue && s.Value == nil {
			v.addError("missing return value")
		}
		if !v.returnsValue && s.Value != nil {
			v.addError("void function returns a value")
		}
		v.validateExpression(s.Value)
	case StmtIf:
		v.validateExpression(s.Condition)
		v.validateBlock(s.Accept)
		v.validateBlock(s.Reject)
	case StmtFor:
		v.validateBlock(s.Init)
		v.validateExpression(s.Condition)
		v.loopDepth++
		v.validateBlock(s.Update)
		v.validateBlock(s.Body)
		v.loopDepth--
	case StmtWhile:
		if s.Condition == nil {
			v.addError("loop without condition")
		}
		v.validateExpression(s.Condition)
		v.loopDepth++
		v.validateBlock(s.Body)
		v.loopDepth--
	case StmtSwitch:
		v.validateExpression(s.Selector)
		defaults := 0
		v.switchDepth++
		for _, c := range s.Cases {
			if c.Default {
				defaults++
			} else if len(c.Values) == 0 {
				v.addError("switch case without values")
			}
			v.validateBlock(c.Body)
		}
		v.switchDepth--
		if defaults > 1 {
			v.addError("switch has %d default cases", defaults)
		}
	case StmtBlock:
		v.validateBlock(s.Block)
	case StmtBreak:
		if v.loopDepth == 0 && v.switchDepth == 0 {
			v.addError("break outside of loop or switch")
		}
	case StmtContinue:
		if v.loopDepth == 0 {
			v.addError("continue outside of loop")
		}
	case StmtDiscard:
	case nil:
		v.addError("empty statement")
	default:
		v.addError("unsupported statement %T", kind)
	}
}

func (v *Validator) validateExpression(expr Expression) {
	WalkExpression(expr, func(e Expression) {
		switch x := e.(type) {
		case ExprLocal:
			if !v.locals[x.Name] {
				v.addError("undeclared local %s", x.Name)
			}
		case ExprCall:
			if x.Callee.Type == "" || x.Callee.Method == "" {
				v.addError("call site with unresolved callee %q", x.Callee.String())
			}
		case ExprNew:
			if x.Type.IsVoid() {
				v.addError("construction of an untyped value")
			}
		case ExprResource:
			if x.Name == "" {
				v.addError("resource reference without a name")
			}
		}
	})
}
