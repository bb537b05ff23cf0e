// Package evaluator tree-walks a checked ast.Program, grounded on
// original_source/src/core/interpreter/interpreter.cpp. Every interpret*
// method mirrors the donor's Interpreter::interpret* method of the same
// name, over internal/values.Value instead of the donor's shared_ptr
// Values::ValuePtr.
//
// Unlike the donor, which throws a RuntimeException caught at the stage
// boundary, every method here returns a plain Go error alongside its
// value and propagates it up explicitly — idiomatic Go favors explicit
// error returns over control-flow-via-panic for an expected failure
// path like a fatal runtime error. A top-level recover() remains only in
// cmd/bnt/main.go, as a last-resort guard against a genuine
// implementation bug, not as how RuntimeError is supposed to travel.
package evaluator

import (
	"fmt"
	"io"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/builtins"
	"github.com/funvibe/bnt/internal/config"
	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/typesystem"
	"github.com/funvibe/bnt/internal/values"

	"github.com/google/uuid"
)

// CallFrame is one entry of the call stack, pushed on every function
// Application whose callee is a direct name reference and never popped —
// on a fatal error the accumulated stack is read back to front to print a
// trace, exactly like the donor's own callStack, which carries the same
// quirk (see StackTraceString). ID distinguishes two on-stack frames that
// share the same callee name, e.g. two live recursive calls to the same
// function, in StackTraceString's output.
type CallFrame struct {
	ID   uuid.UUID
	Name string
	Tok  token.Token
}

// RuntimeError is a fatal evaluation condition, returned like any other
// Go error and carrying the position/stack-trace detail the CLI prints
// at the stage boundary.
type RuntimeError struct {
	Message    string
	Token      token.Token
	StackTrace []CallFrame
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Line: %d, Column: %d\n%s\n%s", e.Token.Position.Line, e.Token.Position.Column, e.Message, e.Token.Position.LineText)
}

// StackTraceString renders e's stack trace top-of-stack first, matching
// the donor's getStackTraceString format. When the same callee name
// appears more than once on the stack — a live recursive call — each of
// its frames is suffixed with a short disambiguator drawn from that
// frame's ID, so e.g. two on-stack calls to `fact` don't print as two
// indistinguishable `at 'fact'` lines.
func (e *RuntimeError) StackTraceString() string {
	seen := make(map[string]int, len(e.StackTrace))
	for _, f := range e.StackTrace {
		seen[f.Name]++
	}

	s := "Fatal error occurred:\n"
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		f := e.StackTrace[i]
		if seen[f.Name] > 1 {
			s += fmt.Sprintf("\tat '%s' #%s (Line: %d)\n", f.Name, f.ID.String()[:8], f.Tok.Position.Line)
		} else {
			s += fmt.Sprintf("\tat '%s' (Line: %d)\n", f.Name, f.Tok.Position.Line)
		}
	}
	return s
}

// Evaluator walks one checked Program's tree, accumulating a call stack
// as it goes and writing built-in output to Stdout.
type Evaluator struct {
	Stdout    io.Writer
	callStack []CallFrame
}

// New constructs an Evaluator that writes built-in output to out.
func New(out io.Writer) *Evaluator {
	return &Evaluator{Stdout: out}
}

// CallStack returns the accumulated, never-popped call stack so far.
func (e *Evaluator) CallStack() []CallFrame { return e.callStack }

// Run interprets program to completion, returning a *RuntimeError
// (wrapped as error) on the first fatal condition encountered.
func (e *Evaluator) Run(program *ast.Program) (values.Value, error) {
	return e.interpret(program, values.NewEnvironment())
}

func (e *Evaluator) fatal(tok token.Token, format string, args ...any) (values.Value, error) {
	re := &RuntimeError{Message: fmt.Sprintf(format, args...), Token: tok, StackTrace: e.callStack}
	return values.NewError(), re
}

func (e *Evaluator) interpret(expr ast.Expression, env *values.Environment) (values.Value, error) {
	switch node := expr.(type) {
	case *ast.Program:
		return e.interpretProgram(node, env)
	case *ast.Literal:
		return e.interpretLiteral(node)
	case *ast.Primitive:
		return e.interpretPrimitive(node, env)
	case *ast.Let:
		return e.interpretLet(node, env)
	case *ast.Reference:
		return e.interpretReference(node, env)
	case *ast.Branch:
		return e.interpretBranch(node, env)
	case *ast.TypeclassDecl:
		return e.interpretTypeclassDecl(node, env)
	case *ast.Application:
		return e.interpretApplication(node, env)
	case *ast.ListDefinition:
		return e.interpretListDefinition(node, env)
	case *ast.TupleDefinition:
		return e.interpretTupleDefinition(node, env)
	case *ast.Match:
		return e.interpretMatch(node, env)
	case *ast.End:
		return values.NewNull(), nil
	default:
		return e.fatal(expr.Token(), "Error: Unknown expression type")
	}
}

// interpretProgram binds every top-level function's FunctionValue into one
// shared environment, then interprets the trailing body under it. Unlike
// the donor (which snapshots each function's own closure environment
// incrementally as it processes the function list, so a function can only
// see functions declared before it in its own closure capture), every
// function's closure snapshot here is taken from the *complete* program
// environment — consistent with the checker's own two-pass forward
// reference support (checker.evalProgram), avoiding an asymmetry where the
// checker accepts a forward call the interpreter then couldn't resolve.
func (e *Evaluator) interpretProgram(p *ast.Program, env *values.Environment) (values.Value, error) {
	for _, fn := range p.Functions {
		funcType, _ := fn.GetReturnType().(*typesystem.FuncType)
		fv := &values.FunctionValue{
			T:          fn.GetReturnType(),
			ParamNames: argNames(fn),
			Body:       fn.Body,
			IsBuiltin:  funcType != nil && funcType.IsBuiltin,
		}
		if fv.IsBuiltin {
			fv.BuiltinName = fn.Name
		}
		env.AddName(fn.Name, fv)
	}

	for _, fn := range p.Functions {
		fv, _ := env.GetName(fn.Name)
		functionValue := fv.(*values.FunctionValue)
		if functionValue.IsBuiltin {
			continue
		}
		closure := env.Clone()
		closure.Remove(fn.Name)
		functionValue.ClosureEnv = closure
	}

	return e.interpret(p.Body, env)
}

func argNames(fn *ast.Function) []string {
	names := make([]string, len(fn.Arguments))
	for i, a := range fn.Arguments {
		names[i] = a.Name
	}
	return names
}

func (e *Evaluator) interpretLiteral(lit *ast.Literal) (values.Value, error) {
	switch lit.LitKind {
	case ast.LitInt:
		return values.NewInt(lit.IntVal), nil
	case ast.LitChar:
		return values.NewChar(lit.CharVal), nil
	case ast.LitString:
		return values.NewString(lit.StrVal), nil
	case ast.LitBool:
		return values.NewBool(lit.BoolVal), nil
	case ast.LitNull:
		// §9 resolved decision: a bare null evaluates to NullValue even
		// though its static type stayed Unknown through the checker.
		return values.NewNull(), nil
	default:
		return e.fatal(lit.Token(), "Error: Unknown literal type")
	}
}

func (e *Evaluator) interpretPrimitive(p *ast.Primitive, env *values.Environment) (values.Value, error) {
	left, err := e.interpret(p.Left, env)
	if err != nil {
		return left, err
	}
	right, err := e.interpret(p.Right, env)
	if err != nil {
		return right, err
	}
	return e.doOperation(p.Token(), p.Op, left, right)
}

func (e *Evaluator) interpretLet(let *ast.Let, env *values.Environment) (values.Value, error) {
	v, err := e.interpret(let.Value, env)
	if err != nil {
		return v, err
	}
	afterEnv := env.Clone()
	afterEnv.AddName(let.Ident, v)
	return e.interpret(let.After, afterEnv)
}

func (e *Evaluator) interpretReference(ref *ast.Reference, env *values.Environment) (values.Value, error) {
	v, err := e.getName(ref.Token(), env, ref.Ident)
	if err != nil {
		return v, err
	}

	if ref.HasField {
		switch val := v.(type) {
		case *values.TupleValue:
			idx, convErr := parseTupleIndex(ref.FieldIdent)
			if convErr != nil || idx < 0 || idx >= len(val.Data) {
				return e.fatal(ref.Token(), "Error: Tuple requires valid index: %s", ref.FieldIdent)
			}
			return val.Data[idx], nil
		case *values.TypeclassValue:
			fieldVal, ok := val.Fields.GetName(ref.FieldIdent)
			if !ok {
				return e.fatal(ref.Token(), "Error: typeclass %s has no field %s", ref.Ident, ref.FieldIdent)
			}
			return fieldVal, nil
		}
	}

	return v, nil
}

func (e *Evaluator) interpretBranch(b *ast.Branch, env *values.Environment) (values.Value, error) {
	cond, err := e.interpret(b.Condition, env)
	if err != nil {
		return cond, err
	}
	boolVal, ok := cond.(*values.BoolValue)
	if !ok {
		return e.fatal(b.Token(), "Error: Branch condition must be boolean")
	}
	if boolVal.Data {
		return e.interpret(b.Then, env)
	}
	return e.interpret(b.Else, env)
}

func (e *Evaluator) interpretTypeclassDecl(t *ast.TypeclassDecl, env *values.Environment) (values.Value, error) {
	fields := values.NewEnvironment()
	for _, f := range t.Fields {
		fields.AddName(f.Name, values.NewNull())
	}
	tv := &values.TypeclassValue{T: t.GetReturnType(), Fields: fields}
	env.AddName(t.Ident, tv)
	return tv, nil
}

func (e *Evaluator) interpretApplication(app *ast.Application, env *values.Environment) (values.Value, error) {
	callee, err := e.interpret(app.Callee, env)
	if err != nil {
		return callee, err
	}

	switch calleeVal := callee.(type) {
	case *values.TypeclassValue:
		return e.interpretConstruct(app, calleeVal, env)
	case *values.ListValue:
		return e.interpretIndex(app, calleeVal, env)
	case *values.FunctionValue:
		return e.interpretCall(app, calleeVal, env)
	default:
		return e.fatal(app.Token(), "Error: Bad function or typeclass application")
	}
}

func (e *Evaluator) interpretConstruct(app *ast.Application, tv *values.TypeclassValue, env *values.Environment) (values.Value, error) {
	tcType, ok := tv.T.(*typesystem.TypeclassType)
	if !ok {
		return e.fatal(app.Token(), "Error: Bad typeclass construction")
	}
	fields := tv.Fields.Clone()
	for i, argExpr := range app.Args {
		if i >= len(tcType.Fields) {
			break
		}
		argVal, err := e.interpret(argExpr, env)
		if err != nil {
			return argVal, err
		}
		fields.AddName(tcType.Fields[i].Name, argVal)
	}
	return &values.TypeclassValue{T: tv.T, Fields: fields}, nil
}

func (e *Evaluator) interpretIndex(app *ast.Application, lv *values.ListValue, env *values.Environment) (values.Value, error) {
	if len(app.Args) == 0 {
		return e.fatal(app.Token(), "Error: List access needs integer argument")
	}
	idx, err := e.interpret(app.Args[0], env)
	if err != nil {
		return idx, err
	}
	idxVal, ok := idx.(*values.IntValue)
	if !ok {
		return e.fatal(app.Token(), "Error: List access needs integer argument")
	}
	// The donor relies on unsigned wraparound for its negative-index
	// bounds check; Go must not replicate that, so this checks < 0
	// explicitly instead.
	if idxVal.Data < 0 || idxVal.Data >= len(lv.Data) {
		return e.fatal(app.Token(), "Error: Out of bounds list access")
	}
	return lv.Data[idxVal.Data], nil
}

func (e *Evaluator) interpretCall(app *ast.Application, fv *values.FunctionValue, env *values.Environment) (values.Value, error) {
	if ref, ok := app.Callee.(*ast.Reference); ok {
		e.callStack = append(e.callStack, CallFrame{ID: uuid.New(), Name: ref.Ident, Tok: ref.Token()})
	}

	callEnv := env.Clone()

	// Closure captures are overlaid BEFORE argument bindings, the reverse
	// of the donor's literal ordering (which overlays functionBodyEnvironment
	// after parameters, so a same-named captured variable would silently
	// shadow a parameter) — per §8.5, parameters must win over a same-named
	// enclosing variable.
	if fv.ClosureEnv != nil {
		for name, v := range fv.ClosureEnv.Entries() {
			if config.IsBuiltinName(name) {
				continue
			}
			callEnv.AddName(name, v)
		}
	}

	for i, argExpr := range app.Args {
		if i >= len(fv.ParamNames) {
			break
		}
		argVal, err := e.interpret(argExpr, env)
		if err != nil {
			return argVal, err
		}
		callEnv.AddName(fv.ParamNames[i], argVal)
	}

	if fv.IsBuiltin {
		return e.runBuiltin(app.Token(), fv, callEnv)
	}

	body, ok := fv.Body.(ast.Expression)
	if !ok {
		return e.fatal(app.Token(), "Error: function has no body")
	}
	return e.interpret(body, callEnv)
}

func (e *Evaluator) runBuiltin(tok token.Token, fv *values.FunctionValue, callEnv *values.Environment) (values.Value, error) {
	fn, ok := builtins.Funcs[fv.BuiltinName]
	if !ok {
		return e.fatal(tok, "Error: Unknown built-in '%s'", fv.BuiltinName)
	}
	args := make([]values.Value, len(fv.ParamNames))
	for i, name := range fv.ParamNames {
		v, _ := callEnv.GetName(name)
		args[i] = v
	}
	result, err := fn(e.Stdout, args)
	if err != nil {
		return e.fatal(tok, "%s", err.Error())
	}
	return result, nil
}

func (e *Evaluator) interpretListDefinition(l *ast.ListDefinition, env *values.Environment) (values.Value, error) {
	data := make([]values.Value, len(l.Elements))
	for i, elemExpr := range l.Elements {
		v, err := e.interpret(elemExpr, env)
		if err != nil {
			return v, err
		}
		data[i] = v
	}
	lt, ok := l.GetReturnType().(*typesystem.ListType)
	var elem typesystem.Type = typesystem.NewUnknownType()
	if ok && lt.Elem != nil {
		elem = lt.Elem
	}
	return values.NewList(elem, data), nil
}

func (e *Evaluator) interpretTupleDefinition(t *ast.TupleDefinition, env *values.Environment) (values.Value, error) {
	data := make([]values.Value, len(t.Elements))
	for i, elemExpr := range t.Elements {
		v, err := e.interpret(elemExpr, env)
		if err != nil {
			return v, err
		}
		data[i] = v
	}
	return values.NewTuple(t.GetReturnType(), data), nil
}

func (e *Evaluator) interpretMatch(m *ast.Match, env *values.Environment) (values.Value, error) {
	matchVal, err := e.getName(m.Token(), env, m.ScrutineeIdent)
	if err != nil {
		return matchVal, err
	}

	for _, cs := range m.Cases {
		if cs.IsAny {
			return e.interpret(cs.Body, env)
		}
		caseVal, err := e.interpret(cs.Pattern, env)
		if err != nil {
			return caseVal, err
		}
		eq, err := e.valuesEqual(m.Token(), matchVal, caseVal)
		if err != nil {
			return values.NewError(), err
		}
		if eq {
			return e.interpret(cs.Body, env)
		}
	}

	return values.NewNull(), nil
}

func (e *Evaluator) getName(tok token.Token, env *values.Environment, name string) (values.Value, error) {
	v, ok := env.GetName(name)
	if !ok {
		return e.fatal(tok, "Error: %s does not exist in this scope", name)
	}
	return v, nil
}

func parseTupleIndex(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty tuple index")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid tuple index %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
