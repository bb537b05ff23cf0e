// Package checker implements bnt's bidirectional type checker/inferencer
// (§4.2), grounded on original_source/src/core/typeChecker/typeChecker.cpp.
// Every eval* method below mirrors the donor's TypeChecker::eval* method
// of the same name; the donor's "compare" free function (which swapped a
// raw Unknown TypePtr wholesale) is subsumed here by typesystem.Type's own
// mutating Compare, since bnt's Type representation carries that mutation
// internally rather than through reference reassignment.
package checker

import (
	"fmt"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/config"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/typesystem"
)

// Checker walks one Program, filling in every node's ReturnType and
// reporting every mismatch it finds into report. It never aborts early:
// a later error does not suppress earlier ones.
type Checker struct {
	report *diagnostics.Report
}

// New constructs a Checker reporting into report.
func New(report *diagnostics.Report) *Checker {
	return &Checker{report: report}
}

// Check type-checks/infers the whole program in place.
func (c *Checker) Check(program *ast.Program) {
	expected := typesystem.Type(typesystem.NewUnknownType())
	c.eval(program, typesystem.NewEnv(), &expected)
}

func (c *Checker) errorfTok(expr ast.Expression, format string, args ...any) {
	tok := expr.Token()
	msg := fmt.Sprintf(format, args...)
	c.report.Add(diagnostics.Check, tok.Position.Line, tok.Position.Column, msg, tok.Position.LineText)
}

func (c *Checker) mismatch(expr ast.Expression, got, expected typesystem.Type) {
	c.errorfTok(expr, "Mismatched type: %s, Expected: %s", got.String(), expected.String())
}

// eval dispatches on node kind, exactly like TypeChecker::eval's if/else
// chain on expType.
func (c *Checker) eval(expr ast.Expression, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	switch e := expr.(type) {
	case *ast.Program:
		return c.evalProgram(e, env, expected)
	case *ast.Literal:
		return c.evalLiteral(e, env, expected)
	case *ast.Primitive:
		return c.evalPrimitive(e, env, expected)
	case *ast.Let:
		return c.evalLet(e, env, expected)
	case *ast.Reference:
		return c.evalReference(e, env, expected)
	case *ast.Branch:
		return c.evalBranch(e, env, expected)
	case *ast.TypeclassDecl:
		return c.evalTypeclassDecl(e, env, expected)
	case *ast.Application:
		return c.evalApplication(e, env, expected)
	case *ast.ListDefinition:
		return c.evalListDefinition(e, env, expected)
	case *ast.TupleDefinition:
		return c.evalTupleDefinition(e, env, expected)
	case *ast.Match:
		return c.evalMatch(e, env, expected)
	case *ast.End:
		return e
	default:
		c.errorfTok(expr, "Error: Unknown expression type")
		return expr
	}
}

func (c *Checker) evalProgram(p *ast.Program, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	for _, fn := range p.Functions {
		env.AddName(fn.Name, fn.GetReturnType())
	}

	for _, fn := range p.Functions {
		funcType, ok := fn.GetReturnType().(*typesystem.FuncType)
		if !ok {
			c.errorfTok(fn, "Error: Function declaration did not produce a function type")
			continue
		}

		if isBuiltinName(fn.Name) {
			funcType.IsBuiltin = true
			continue
		}

		innerEnv := env.Clone()
		innerEnv.Remove(fn.Name)

		for _, g := range funcType.Generics {
			if _, exists := innerEnv.GetName(g.Identifier); !exists {
				innerEnv.AddName(g.Identifier, g)
			}
		}

		for i, arg := range fn.Arguments {
			if gen, ok := arg.DeclaredType.(*typesystem.GenType); ok {
				if real, exists := innerEnv.GetName(gen.Identifier); exists {
					innerEnv.AddName(arg.Name, real)
					continue
				}
			}
			innerEnv.AddName(arg.Name, funcType.ArgTypes[i])
		}

		funcType.InnerEnv = innerEnv
	}

	return c.eval(p.Body, env, expected)
}

func (c *Checker) evalLiteral(lit *ast.Literal, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	if !lit.GetReturnType().Compare(*expected) {
		c.mismatch(lit, lit.GetReturnType(), *expected)
	}
	return lit
}

func (c *Checker) evalPrimitive(p *ast.Primitive, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	switch {
	case isBooleanOperator(p.Op):
		boolTemp := typesystem.Type(typesystem.NewBoolType())
		c.eval(p.Left, env, &boolTemp)
		c.eval(p.Right, env, &boolTemp)
		p.SetReturnType(typesystem.NewBoolType())

	case isArithmeticOperator(p.Op):
		intTemp := typesystem.Type(typesystem.NewIntType())
		c.eval(p.Left, env, &intTemp)
		c.eval(p.Right, env, &intTemp)
		p.SetReturnType(typesystem.NewIntType())

	case isComparisonOperator(p.Op):
		temp := typesystem.Type(typesystem.NewUnknownType())
		c.eval(p.Left, env, &temp)
		if !typesystem.IsPrimitive(p.Left.GetReturnType()) {
			c.errorfTok(p, "Error: Binary operators can only be used on primitive types")
		}
		c.eval(p.Right, env, &temp)
		p.SetReturnType(typesystem.NewBoolType())

	default:
		c.errorfTok(p, "Error: Unknown operator '%s'", p.Op)
	}
	return p
}

func (c *Checker) evalLet(let *ast.Let, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	valueType := let.DeclaredType
	c.eval(let.Value, env, &valueType)
	let.DeclaredType = valueType

	afterEnv := env.Clone()
	afterEnv.AddName(let.Ident, let.DeclaredType)

	return c.eval(let.After, afterEnv, expected)
}

func (c *Checker) evalReference(ref *ast.Reference, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	refType, ok := env.GetName(ref.Ident)
	if !ok {
		c.errorfTok(ref, "Error: %s does not exist in this scope", ref.Ident)
		refType = typesystem.NewUnknownType()
	}
	ref.SetReturnType(refType)

	switch {
	case refType.Kind() == typesystem.Tuple && ref.HasField:
		tupleType := refType.(*typesystem.TupleType)
		index, convErr := parseTupleIndex(ref.FieldIdent)
		if convErr != nil || index < 0 || index >= len(tupleType.Elems) {
			c.errorfTok(ref, "Error: Tuple requires valid index: %s", ref.FieldIdent)
			return ref
		}
		elemType := tupleType.Elems[index]
		if !elemType.Compare(*expected) {
			c.mismatch(ref, elemType, *expected)
		}
		ref.SetReturnType(elemType)

	case refType.Kind() == typesystem.Typeclass && ref.HasField:
		tc := refType.(*typesystem.TypeclassType)
		decl, ok := env.GetName(tc.Ident)
		declTC, declOK := decl.(*typesystem.TypeclassType)
		if !ok || !declOK {
			c.errorfTok(ref, "Error: typeclass %s has no field %s", tc.Ident, ref.FieldIdent)
			return ref
		}
		fieldType, found := declTC.FieldByName(ref.FieldIdent)
		if !found {
			c.errorfTok(ref, "Error: typeclass %s has no field %s", declTC.Ident, ref.FieldIdent)
			return ref
		}
		if !fieldType.Compare(*expected) {
			c.mismatch(ref, fieldType, *expected)
		}
		ref.SetReturnType(fieldType)

	case ref.HasField:
		c.errorfTok(ref, "Error: Field given for non-typeclass or tuple type")
	}

	resolvedReturn := typesystem.Resolve(ref.GetReturnType(), env)
	resolvedExpected := typesystem.Resolve(*expected, env)
	if !resolvedReturn.Compare(resolvedExpected) {
		c.mismatch(ref, refType, *expected)
	}
	return ref
}

func (c *Checker) evalBranch(b *ast.Branch, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	boolTemp := typesystem.Type(typesystem.NewBoolType())
	c.eval(b.Condition, env, &boolTemp)

	elseExpr := c.eval(b.Else, env, expected)
	elseType := elseExpr.GetReturnType()
	c.eval(b.Then, env, &elseType)
	return b
}

func (c *Checker) evalTypeclassDecl(t *ast.TypeclassDecl, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	fields := make([]typesystem.TypeclassField, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = typesystem.TypeclassField{Name: f.Name, Type: f.DeclaredType}
	}
	tcType := typesystem.NewTypeclassType(t.Ident, fields)
	t.SetReturnType(tcType)

	if !tcType.Compare(*expected) {
		c.mismatch(t, tcType, *expected)
		return t
	}

	env.AddName(t.Ident, tcType)
	return t
}

func (c *Checker) evalApplication(app *ast.Application, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	calleeExpected := typesystem.Type(typesystem.NewUnknownType())
	callee := c.eval(app.Callee, env, &calleeExpected)

	switch callee.GetReturnType().Kind() {
	case typesystem.Func:
		return c.evalCallApplication(app, callee, env, expected)
	case typesystem.Typeclass:
		return c.evalConstructApplication(app, callee, env, expected)
	case typesystem.List:
		return c.evalIndexApplication(app, callee, env, expected)
	default:
		c.errorfTok(app, "Error: Bad function or typeclass application")
		return app
	}
}

func (c *Checker) evalCallApplication(app *ast.Application, callee ast.Expression, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	funcType := callee.GetReturnType().(*typesystem.FuncType)

	if inner, ok := callee.(*ast.Application); ok {
		app.GenericInstants = append(app.GenericInstants, inner.GenericInstants...)
	}

	if len(app.Args) != len(funcType.ArgTypes) {
		c.errorfTok(app, "Error: Function application does not match signature")
	}
	if len(funcType.Generics) == 0 && len(app.GenericInstants) != 0 {
		c.errorfTok(app, "Error: Types provided for non-templated function")
	}

	if funcType.InnerEnv == nil {
		funcType.InnerEnv = typesystem.NewEnv()
	}
	innerEnv := funcType.InnerEnv.Clone()

	for i, g := range app.GenericInstants {
		if i < len(funcType.Generics) {
			innerEnv.AddName(funcType.Generics[i].Identifier, g)
		}
	}

	// A call with no bracket instantiation infers each generic parameter
	// structurally from the argument expressions' own types, so e.g.
	// `pushBack(xs, 4)` need not spell out `pushBack[int](xs, 4)`.
	if len(funcType.Generics) != 0 && len(app.GenericInstants) == 0 {
		// The stored inner env binds each generic name to its own Gen
		// placeholder; drop those so inference can bind the real types.
		for _, g := range funcType.Generics {
			innerEnv.Remove(g.Identifier)
		}
		c.inferGenerics(app, funcType, env, innerEnv)
		for _, g := range funcType.Generics {
			if _, ok := innerEnv.GetName(g.Identifier); !ok {
				c.errorfTok(app, "Error: Could not infer type for generic parameter '%s'", g.Identifier)
			}
		}
	}

	for i, argExpr := range app.Args {
		if i >= len(funcType.ArgTypes) {
			break
		}
		argType := typesystem.Copy(funcType.ArgTypes[i])
		argType = typesystem.Resolve(argType, innerEnv)
		c.eval(argExpr, env, &argType)

		if len(funcType.ArgNames) > i {
			innerEnv.AddName(funcType.ArgNames[i], argType)
		}
	}

	resolvedReturn := typesystem.Resolve(typesystem.Copy(funcType.Return), innerEnv)

	if !app.GetReturnType().Resolved() && !funcType.IsBuiltin && len(funcType.Generics) != 0 && funcType.Body != nil {
		if body, ok := funcType.Body.(ast.Expression); ok {
			// The stored inner env omits the function's own name, so bind
			// it here for a recursive call in the body; marking this node
			// resolved before the body check keeps a recursive call node
			// from re-checking the body without end.
			if ref, isRef := callee.(*ast.Reference); isRef {
				if _, exists := innerEnv.GetName(ref.Ident); !exists {
					innerEnv.AddName(ref.Ident, funcType)
				}
			}
			app.GetReturnType().SetResolved(true)
			c.eval(body, innerEnv, &resolvedReturn)
		}
	}

	if !resolvedReturn.Compare(*expected) {
		c.mismatch(app, funcType.Return, *expected)
	}

	app.SetReturnType(resolvedReturn)
	app.GetReturnType().SetResolved(true)
	return app
}

func (c *Checker) evalConstructApplication(app *ast.Application, callee ast.Expression, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	tcType := callee.GetReturnType().(*typesystem.TypeclassType)

	if (*expected).Kind() != typesystem.Typeclass {
		c.mismatch(app, tcType, *expected)
	} else if otherTC, ok := (*expected).(*typesystem.TypeclassType); ok && otherTC.Ident != tcType.Ident {
		c.mismatch(app, tcType, *expected)
	}

	if len(app.Args) != len(tcType.Fields) {
		c.errorfTok(app, "Error: Typeclass construction does not match signature")
	}

	for i, argExpr := range app.Args {
		if i >= len(tcType.Fields) {
			break
		}
		fieldType := tcType.Fields[i].Type
		c.eval(argExpr, env, &fieldType)
	}

	app.SetReturnType(tcType)
	return app
}

func (c *Checker) evalIndexApplication(app *ast.Application, callee ast.Expression, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	listType := callee.GetReturnType().(*typesystem.ListType)

	if len(app.Args) == 0 {
		c.errorfTok(app, "Error: List access needs integer argument")
		return app
	}

	intTemp := typesystem.Type(typesystem.NewIntType())
	c.eval(app.Args[0], env, &intTemp)

	elemExpected := typesystem.Type(typesystem.NewListType(*expected))
	c.eval(app.Callee, env, &elemExpected)

	elemType := listType.Elem
	if elemType == nil {
		elemType = *expected
	}
	app.SetReturnType(elemType)
	return app
}

func (c *Checker) evalListDefinition(l *ast.ListDefinition, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	var elemExpected typesystem.Type
	if lt, ok := (*expected).(*typesystem.ListType); ok {
		elemExpected = lt.Elem
		if elemExpected == nil {
			elemExpected = typesystem.NewUnknownType()
		}
	} else {
		elemExpected = *expected
	}

	// §9 resolved decision: unlike the donor (which only re-compared
	// already-set returnType fields without re-visiting the element
	// subexpressions), every element is fully type-checked here so a
	// nested application or reference inside a list literal gets the
	// same treatment as everywhere else.
	for _, elemExpr := range l.Elements {
		elemTemp := elemExpected
		c.eval(elemExpr, env, &elemTemp)
	}

	listType := typesystem.NewListType(elemExpected)
	l.SetReturnType(listType)
	if !listType.Compare(*expected) {
		c.mismatch(l, listType, *expected)
	}
	return l
}

func (c *Checker) evalTupleDefinition(tup *ast.TupleDefinition, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	elemTypes := make([]typesystem.Type, len(tup.Elements))
	for i, elemExpr := range tup.Elements {
		elemTemp := typesystem.Type(typesystem.NewUnknownType())
		c.eval(elemExpr, env, &elemTemp)
		elemTypes[i] = elemExpr.GetReturnType()
	}

	tupleType := typesystem.NewTupleType(elemTypes)
	tup.SetReturnType(tupleType)
	if !tupleType.Compare(*expected) {
		c.mismatch(tup, tupleType, *expected)
	}
	return tup
}

func (c *Checker) evalMatch(m *ast.Match, env *typesystem.Env, expected *typesystem.Type) ast.Expression {
	caseType, ok := env.GetName(m.ScrutineeIdent)
	if !ok {
		c.errorfTok(m, "Error: %s does not exist in this scope", m.ScrutineeIdent)
		caseType = typesystem.NewUnknownType()
	}

	anyOccurred := false
	for _, cs := range m.Cases {
		if anyOccurred {
			c.errorfTok(cs, "Warning: case statement below 'any' is always ignored")
		}

		if cs.IsAny {
			anyOccurred = true
			c.eval(cs.Body, env, expected)
			continue
		}

		patternExpected := caseType
		c.eval(cs.Pattern, env, &patternExpected)
		c.eval(cs.Body, env, expected)
	}

	return m
}

// inferGenerics binds funcType's generic parameters into innerEnv by
// structurally matching each declared argument type against the actual
// type of the corresponding call argument, for calls that supply no
// bracket instantiation (§4.2's lazy monomorphisation still applies —
// this only learns the substitution, it does not itself check the
// argument against its resolved type; the caller's own per-argument
// loop does that once innerEnv is complete).
func (c *Checker) inferGenerics(app *ast.Application, funcType *typesystem.FuncType, env, innerEnv *typesystem.Env) {
	for i, argExpr := range app.Args {
		if i >= len(funcType.ArgTypes) {
			break
		}
		declared := funcType.ArgTypes[i]
		if !containsGen(declared) {
			continue
		}
		probe := typesystem.Type(typesystem.NewUnknownType())
		checked := c.eval(argExpr, env, &probe)
		bindGen(declared, checked.GetReturnType(), innerEnv)
	}
}

// containsGen reports whether t mentions a Gen type anywhere in its
// structure, walking List/Tuple/Func the same way Resolve does.
func containsGen(t typesystem.Type) bool {
	switch v := t.(type) {
	case *typesystem.GenType:
		return true
	case *typesystem.ListType:
		return v.Elem != nil && containsGen(v.Elem)
	case *typesystem.TupleType:
		for _, e := range v.Elems {
			if containsGen(e) {
				return true
			}
		}
		return false
	case *typesystem.FuncType:
		for _, a := range v.ArgTypes {
			if containsGen(a) {
				return true
			}
		}
		return v.Return != nil && containsGen(v.Return)
	default:
		return false
	}
}

// bindGen walks declared and actual in lockstep, binding every Gen
// identifier it finds in declared to the corresponding concrete type
// from actual. A generic identifier used in more than one argument
// position is unified against its prior binding rather than silently
// overwritten, so e.g. pushBack's shared T is enforced consistently
// between the list's element type and the pushed element.
func bindGen(declared, actual typesystem.Type, innerEnv *typesystem.Env) {
	if actual == nil {
		return
	}
	switch d := declared.(type) {
	case *typesystem.GenType:
		if bound, ok := innerEnv.GetName(d.Identifier); ok {
			bound.Compare(actual)
			return
		}
		innerEnv.AddName(d.Identifier, actual)
	case *typesystem.ListType:
		al, ok := actual.(*typesystem.ListType)
		if !ok || d.Elem == nil || al.Elem == nil {
			return
		}
		bindGen(d.Elem, al.Elem, innerEnv)
	case *typesystem.TupleType:
		at, ok := actual.(*typesystem.TupleType)
		if !ok || len(d.Elems) != len(at.Elems) {
			return
		}
		for i := range d.Elems {
			bindGen(d.Elems[i], at.Elems[i], innerEnv)
		}
	case *typesystem.FuncType:
		af, ok := actual.(*typesystem.FuncType)
		if !ok {
			return
		}
		for i := range d.ArgTypes {
			if i < len(af.ArgTypes) {
				bindGen(d.ArgTypes[i], af.ArgTypes[i], innerEnv)
			}
		}
		if d.Return != nil && af.Return != nil {
			bindGen(d.Return, af.Return, innerEnv)
		}
	}
}

func isBuiltinName(name string) bool {
	return config.IsBuiltinName(name)
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
