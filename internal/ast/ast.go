// Package ast defines the bnt abstract syntax tree (§3.2). Every node
// kind is its own struct implementing Expression; the checker and
// evaluator dispatch on concrete type via a type switch, mirroring the
// donor's own one-struct-per-node-kind layout (internal/ast) though
// bnt's node set is far smaller than funxy's.
package ast

import (
	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/typesystem"
)

// Expression is satisfied by every AST node kind. ReturnType is
// populated by the checker before the interpreter ever sees the node
// (§3.2 invariant); it starts out Unknown, except for int, char, string
// and bool literals, which start with their own concrete type.
type Expression interface {
	Token() token.Token
	GetReturnType() typesystem.Type
	SetReturnType(typesystem.Type)
}

type base struct {
	Tok        token.Token
	ReturnType typesystem.Type
}

func (b *base) Token() token.Token                     { return b.Tok }
func (b *base) GetReturnType() typesystem.Type          { return b.ReturnType }
func (b *base) SetReturnType(t typesystem.Type)         { b.ReturnType = t }

// End is the sentinel returned when parsing reaches end of input, or
// an atom production matches nothing recognizable.
type End struct{ base }

func NewEnd(tok token.Token) *End {
	return &End{base{Tok: tok, ReturnType: typesystem.NewUnknownType()}}
}

// Program is the root node: every top-level function declaration plus
// the single trailing body expression.
type Program struct {
	base
	Functions []*Function
	Body      Expression
}

// Function is a top-level (or nested, via "func" as a SimpleExpr)
// declaration.
type Function struct {
	base
	Name         string
	Generics     []string
	Arguments    []*Argument
	DeclaredType typesystem.Type // declared return type
	Body         Expression
}

// Literal carries exactly one of {int, char, string, bool, null}.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitChar
	LitString
	LitBool
	LitNull
)

type Literal struct {
	base
	LitKind LiteralKind
	IntVal  int
	CharVal rune
	StrVal  string
	BoolVal bool
}

// Primitive is a unary or binary operator application. Left is nil for
// a unary operator.
type Primitive struct {
	base
	Op    string
	Left  Expression
	Right Expression
}

// Let binds Ident to Value (checked/evaluated under DeclaredType) then
// evaluates After under the extended environment.
type Let struct {
	base
	Ident        string
	DeclaredType typesystem.Type
	Value        Expression
	After        Expression
}

// Reference looks up Ident, optionally followed by a .Field access
// (tuple index or typeclass field name).
type Reference struct {
	base
	Ident      string
	HasField   bool
	FieldIdent string
}

// Branch is `if (Condition) Then [else Else]`.
type Branch struct {
	base
	Condition Expression
	Then      Expression
	Else      Expression
}

// Argument names one parameter binder (used both by Function
// parameter lists and by TypeclassDecl field lists).
type Argument struct {
	base
	Name         string
	DeclaredType typesystem.Type
}

// TypeclassDecl declares a nominal record type.
type TypeclassDecl struct {
	base
	Ident  string
	Fields []*Argument
}

// Application is a call: Callee(Args...), optionally with an explicit
// generic instantiation list.
type Application struct {
	base
	Callee          Expression
	Args            []Expression
	GenericInstants []typesystem.Type
}

// ListDefinition is `List{e1, e2, ...}`.
type ListDefinition struct {
	base
	Elements []Expression
}

// TupleDefinition is `Tuple{e1, e2, ...}`.
type TupleDefinition struct {
	base
	Elements []Expression
}

// AnyPattern is the special wildcard pattern `$any` used in Case.
const AnyPattern = "$any"

// Case is one arm of a Match: either a literal pattern or AnyPattern.
type Case struct {
	base
	IsAny   bool
	Pattern Expression
	Body    Expression
}

// Match dispatches on the named scrutinee's value.
type Match struct {
	base
	ScrutineeIdent string
	Cases          []*Case
}

func newBase(tok token.Token) base {
	return base{Tok: tok, ReturnType: typesystem.NewUnknownType()}
}

func NewProgram(tok token.Token, functions []*Function, body Expression) *Program {
	return &Program{base: newBase(tok), Functions: functions, Body: body}
}

func NewFunction(tok token.Token, name string, generics []string, args []*Argument, declaredType typesystem.Type, body Expression) *Function {
	return &Function{base: newBase(tok), Name: name, Generics: generics, Arguments: args, DeclaredType: declaredType, Body: body}
}

func NewPrimitive(tok token.Token, op string, left, right Expression) *Primitive {
	return &Primitive{base: newBase(tok), Op: op, Left: left, Right: right}
}

func NewLet(tok token.Token, ident string, declaredType typesystem.Type, value, after Expression) *Let {
	return &Let{base: newBase(tok), Ident: ident, DeclaredType: declaredType, Value: value, After: after}
}

func NewReference(tok token.Token, ident string, hasField bool, fieldIdent string) *Reference {
	return &Reference{base: newBase(tok), Ident: ident, HasField: hasField, FieldIdent: fieldIdent}
}

func NewBranch(tok token.Token, cond, then, els Expression) *Branch {
	return &Branch{base: newBase(tok), Condition: cond, Then: then, Else: els}
}

func NewArgument(tok token.Token, name string, declaredType typesystem.Type) *Argument {
	return &Argument{base: newBase(tok), Name: name, DeclaredType: declaredType}
}

func NewTypeclassDecl(tok token.Token, ident string, fields []*Argument) *TypeclassDecl {
	return &TypeclassDecl{base: newBase(tok), Ident: ident, Fields: fields}
}

func NewApplication(tok token.Token, callee Expression, args []Expression, generics []typesystem.Type) *Application {
	return &Application{base: newBase(tok), Callee: callee, Args: args, GenericInstants: generics}
}

func NewListDefinition(tok token.Token, elements []Expression) *ListDefinition {
	return &ListDefinition{base: newBase(tok), Elements: elements}
}

func NewTupleDefinition(tok token.Token, elements []Expression) *TupleDefinition {
	return &TupleDefinition{base: newBase(tok), Elements: elements}
}

func NewCase(tok token.Token, isAny bool, pattern, body Expression) *Case {
	return &Case{base: newBase(tok), IsAny: isAny, Pattern: pattern, Body: body}
}

func NewMatch(tok token.Token, scrutinee string, cases []*Case) *Match {
	return &Match{base: newBase(tok), ScrutineeIdent: scrutinee, Cases: cases}
}

// NewLiteralInt/Char/String/Bool all carry their concrete type from
// construction onward (the parser always knows an int/char/string/bool
// literal's type outright) — only a bare null literal stays Unknown,
// below.
func NewLiteralInt(tok token.Token, v int) *Literal {
	return &Literal{base: base{Tok: tok, ReturnType: typesystem.NewIntType()}, LitKind: LitInt, IntVal: v}
}
func NewLiteralChar(tok token.Token, v rune) *Literal {
	return &Literal{base: base{Tok: tok, ReturnType: typesystem.NewCharType()}, LitKind: LitChar, CharVal: v}
}
func NewLiteralString(tok token.Token, v string) *Literal {
	return &Literal{base: base{Tok: tok, ReturnType: typesystem.NewStringType()}, LitKind: LitString, StrVal: v}
}
func NewLiteralBool(tok token.Token, v bool) *Literal {
	return &Literal{base: base{Tok: tok, ReturnType: typesystem.NewBoolType()}, LitKind: LitBool, BoolVal: v}
}
func NewLiteralNull(tok token.Token) *Literal {
	// §9: a bare null's ReturnType starts Unknown — unlike the other
	// literal kinds, not eagerly NullType. Preserved per the open
	// question in SPEC_FULL.md §9, not silently "fixed".
	return &Literal{base: base{Tok: tok, ReturnType: typesystem.NewUnknownType()}, LitKind: LitNull}
}
