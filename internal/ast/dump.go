package ast

import (
	"fmt"
	"strings"

	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/typesystem"
)

// DumpNode is a minimal, cycle-safe projection of one AST node, used by
// -d debug mode's typed AST dump. It carries only scalar fields (node
// kind, source position, the resolved type rendered as a string, and a
// short node-specific detail) plus child nodes — never the raw
// typesystem.Type or typesystem.Env a checked node holds. A mutually
// recursive function's FuncType.InnerEnv can reference another
// function's FuncType which in turn references the first (§4.2's
// lazy-monomorphisation env cloning wires exactly that), so dumping
// InnerEnv directly would walk forever; Type.String() never descends
// into it, so rendering types as strings sidesteps the cycle entirely.
type DumpNode struct {
	Kind     string      `yaml:"kind"`
	Line     int         `yaml:"line"`
	Column   int         `yaml:"column"`
	Type     string      `yaml:"type,omitempty"`
	Detail   string      `yaml:"detail,omitempty"`
	Children []*DumpNode `yaml:"children,omitempty"`
}

func typeString(t typesystem.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func newDumpNode(tok token.Token, kind, detail string, rt typesystem.Type, children ...*DumpNode) *DumpNode {
	return &DumpNode{
		Kind:     kind,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
		Type:     typeString(rt),
		Detail:   detail,
		Children: children,
	}
}

// Dump renders the whole program as a DumpNode tree for -d debug mode.
func (p *Program) Dump() *DumpNode {
	n := newDumpNode(p.Tok, "Program", "", p.ReturnType)
	for _, fn := range p.Functions {
		n.Children = append(n.Children, fn.Dump())
	}
	if p.Body != nil {
		n.Children = append(n.Children, DumpExpr(p.Body))
	}
	return n
}

// Dump renders one top-level function declaration, its parameters and
// its body.
func (f *Function) Dump() *DumpNode {
	detail := f.Name
	if len(f.Generics) > 0 {
		detail += "[" + strings.Join(f.Generics, ", ") + "]"
	}
	n := newDumpNode(f.Tok, "Function", detail, f.GetReturnType())
	for _, arg := range f.Arguments {
		n.Children = append(n.Children, arg.Dump())
	}
	if f.Body != nil {
		n.Children = append(n.Children, DumpExpr(f.Body))
	}
	return n
}

// Dump renders one parameter or typeclass field binder.
func (a *Argument) Dump() *DumpNode {
	return newDumpNode(a.Tok, "Argument", a.Name, a.DeclaredType)
}

// Dump renders one match arm.
func (c *Case) Dump() *DumpNode {
	var children []*DumpNode
	detail := ""
	if c.IsAny {
		detail = "any"
	} else if c.Pattern != nil {
		children = append(children, DumpExpr(c.Pattern))
	}
	children = append(children, DumpExpr(c.Body))
	return newDumpNode(c.Tok, "Case", detail, c.GetReturnType(), children...)
}

// DumpExpr renders any Expression node as a DumpNode, dispatching on
// concrete type the same way the checker and evaluator do.
func DumpExpr(e Expression) *DumpNode {
	switch v := e.(type) {
	case *Literal:
		return newDumpNode(v.Tok, "Literal", literalDetail(v), v.GetReturnType())
	case *Primitive:
		var children []*DumpNode
		if v.Left != nil {
			children = append(children, DumpExpr(v.Left))
		}
		if v.Right != nil {
			children = append(children, DumpExpr(v.Right))
		}
		return newDumpNode(v.Tok, "Primitive", v.Op, v.GetReturnType(), children...)
	case *Let:
		children := []*DumpNode{DumpExpr(v.Value)}
		if v.After != nil {
			children = append(children, DumpExpr(v.After))
		}
		return newDumpNode(v.Tok, "Let", v.Ident, v.GetReturnType(), children...)
	case *Reference:
		detail := v.Ident
		if v.HasField {
			detail += "." + v.FieldIdent
		}
		return newDumpNode(v.Tok, "Reference", detail, v.GetReturnType())
	case *Branch:
		children := []*DumpNode{DumpExpr(v.Condition), DumpExpr(v.Then)}
		if v.Else != nil {
			children = append(children, DumpExpr(v.Else))
		}
		return newDumpNode(v.Tok, "Branch", "", v.GetReturnType(), children...)
	case *TypeclassDecl:
		n := newDumpNode(v.Tok, "TypeclassDecl", v.Ident, v.GetReturnType())
		for _, field := range v.Fields {
			n.Children = append(n.Children, field.Dump())
		}
		return n
	case *Application:
		n := newDumpNode(v.Tok, "Application", "", v.GetReturnType(), DumpExpr(v.Callee))
		for _, a := range v.Args {
			n.Children = append(n.Children, DumpExpr(a))
		}
		return n
	case *ListDefinition:
		n := newDumpNode(v.Tok, "ListDefinition", "", v.GetReturnType())
		for _, el := range v.Elements {
			n.Children = append(n.Children, DumpExpr(el))
		}
		return n
	case *TupleDefinition:
		n := newDumpNode(v.Tok, "TupleDefinition", "", v.GetReturnType())
		for _, el := range v.Elements {
			n.Children = append(n.Children, DumpExpr(el))
		}
		return n
	case *Match:
		n := newDumpNode(v.Tok, "Match", v.ScrutineeIdent, v.GetReturnType())
		for _, c := range v.Cases {
			n.Children = append(n.Children, c.Dump())
		}
		return n
	case *End:
		return newDumpNode(v.Tok, "End", "", v.GetReturnType())
	default:
		return newDumpNode(e.Token(), "Unknown", fmt.Sprintf("%T", e), e.GetReturnType())
	}
}

func literalDetail(l *Literal) string {
	switch l.LitKind {
	case LitInt:
		return fmt.Sprintf("%d", l.IntVal)
	case LitChar:
		return string(l.CharVal)
	case LitString:
		return l.StrVal
	case LitBool:
		return fmt.Sprintf("%t", l.BoolVal)
	default:
		return "null"
	}
}
