package parser

import (
	"strconv"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/typesystem"
)

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func (p *Parser) expectIdent() string {
	if p.cur().Kind != token.IDENT {
		p.errorf(p.cur(), "Error: Unexpected token '%s', expected identifier", p.cur().Literal)
	}
	return p.advance().Literal
}

// --- Expression / SimpleExpr ---------------------------------------

func (p *Parser) parseExpression() ast.Expression {
	if p.isKeyword("val") {
		tok := p.advance()
		ident := p.expectIdent()
		p.match(token.DELIMITER, ":")
		declared := p.parseType()
		p.match(token.OPERATOR, "=")
		value := p.parseSimpleExpr()
		p.match(token.DELIMITER, ";")
		var after ast.Expression = ast.NewEnd(p.cur())
		if !p.atEnd() {
			after = p.parseExpression()
		}
		return ast.NewLet(tok, ident, declared, value, after)
	}

	e1 := p.parseSimpleExpr()
	if p.isDelim(";") {
		tok := p.advance()
		var after ast.Expression = ast.NewEnd(p.cur())
		if !p.atEnd() {
			after = p.parseExpression()
		}
		return ast.NewLet(tok, p.dummy(), typesystem.NewUnknownType(), e1, after)
	}
	return e1
}

func (p *Parser) parseSimpleExpr() ast.Expression {
	switch {
	case p.isKeyword("if"):
		return p.parseBranch()
	case p.isKeyword("List"):
		return p.parseListLiteral()
	case p.isKeyword("Tuple"):
		return p.parseTupleLiteral()
	case p.isKeyword("match"):
		return p.parseMatch()
	case p.isKeyword("type"):
		return p.parseTypeclassDecl()
	case p.isKeyword("func"):
		return p.parseFuncLiteral()
	default:
		return p.parseUtight()
	}
}

func (p *Parser) parseBranch() ast.Expression {
	tok := p.match(token.KEYWORD, "if")
	p.match(token.DELIMITER, "(")
	cond := p.parseSimpleExpr()
	p.match(token.DELIMITER, ")")
	then := p.parseSimpleExpr()
	var els ast.Expression
	if p.isKeyword("else") {
		p.advance()
		els = p.parseSimpleExpr()
	} else {
		els = ast.NewLiteralNull(p.cur())
	}
	return ast.NewBranch(tok, cond, then, els)
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.match(token.KEYWORD, "List")
	p.match(token.DELIMITER, "{")
	var elems []ast.Expression
	if !p.isDelim("}") {
		elems = append(elems, p.parseSimpleExpr())
		for p.isDelim(",") {
			p.advance()
			elems = append(elems, p.parseSimpleExpr())
		}
	}
	p.match(token.DELIMITER, "}")
	return ast.NewListDefinition(tok, elems)
}

func (p *Parser) parseTupleLiteral() ast.Expression {
	tok := p.match(token.KEYWORD, "Tuple")
	p.match(token.DELIMITER, "{")
	var elems []ast.Expression
	if !p.isDelim("}") {
		elems = append(elems, p.parseSimpleExpr())
		for p.isDelim(",") {
			p.advance()
			elems = append(elems, p.parseSimpleExpr())
		}
	}
	p.match(token.DELIMITER, "}")
	return ast.NewTupleDefinition(tok, elems)
}

func (p *Parser) parseMatch() ast.Expression {
	tok := p.match(token.KEYWORD, "match")
	p.match(token.DELIMITER, "(")
	scrutinee := p.expectIdent()
	p.match(token.DELIMITER, ")")
	p.match(token.DELIMITER, "{")
	var cases []*ast.Case
	for p.isKeyword("case") {
		cases = append(cases, p.parseCase())
	}
	p.match(token.DELIMITER, "}")
	return ast.NewMatch(tok, scrutinee, cases)
}

func (p *Parser) parseCase() *ast.Case {
	tok := p.match(token.KEYWORD, "case")
	var isAny bool
	var pattern ast.Expression
	if p.isKeyword("any") {
		p.advance()
		isAny = true
		pattern = ast.NewEnd(tok)
	} else {
		pattern = p.parseAtom()
	}
	p.match(token.OPERATOR, "=")
	p.match(token.DELIMITER, "{")
	body := p.parseSimpleExpr()
	p.match(token.DELIMITER, "}")
	if p.isDelim(";") {
		p.advance()
	}
	return ast.NewCase(tok, isAny, pattern, body)
}

func (p *Parser) parseTypeclassDecl() ast.Expression {
	tok := p.match(token.KEYWORD, "type")
	ident := p.expectIdent()
	p.match(token.DELIMITER, "{")
	var fields []*ast.Argument
	seen := map[string]bool{}
	addField := func() {
		f := p.parseArg()
		if seen[f.Name] {
			p.errorf(f.Token(), "Error: Duplicate typeclass field '%s'", f.Name)
		}
		seen[f.Name] = true
		fields = append(fields, f)
	}
	if !p.isDelim("}") {
		addField()
		for p.isDelim(",") {
			p.advance()
			addField()
		}
	}
	p.match(token.DELIMITER, "}")
	return ast.NewTypeclassDecl(tok, ident, fields)
}

// --- Precedence-climbing operator expressions ------------------------

func (p *Parser) parseUtight() ast.Expression {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnaryTight()
	for {
		if p.cur().Kind != token.OPERATOR {
			break
		}
		prec, ok := binaryPrecedence[p.cur().Literal]
		if !ok || prec < minPrec {
			break
		}
		tok := p.advance()
		right := p.parseBinary(prec + 1)
		left = ast.NewPrimitive(tok, tok.Literal, left, right)
	}
	return left
}

func (p *Parser) parseUnaryTight() ast.Expression {
	switch {
	case p.isOperator("+"):
		tok := p.advance()
		operand := p.parseUnaryTight()
		return ast.NewPrimitive(tok, "+", ast.NewLiteralInt(tok, 0), operand)
	case p.isOperator("-"):
		tok := p.advance()
		operand := p.parseUnaryTight()
		return ast.NewPrimitive(tok, "-", ast.NewLiteralInt(tok, 0), operand)
	case p.isOperator("!"):
		tok := p.advance()
		operand := p.parseUnaryTight()
		return ast.NewPrimitive(tok, "==", ast.NewLiteralBool(tok, false), operand)
	default:
		return p.parseTight()
	}
}

func (p *Parser) parseTight() ast.Expression {
	if p.isDelim("{") {
		p.advance()
		e := p.parseExpression()
		p.match(token.DELIMITER, "}")
		return e
	}
	return p.parseApplication()
}

func (p *Parser) parseApplication() ast.Expression {
	tok := p.cur()
	expr := p.parseAtom()

	var generics []typesystem.Type
	if p.isDelim("[") {
		p.advance()
		generics = append(generics, p.parseType())
		for p.isDelim(",") {
			p.advance()
			generics = append(generics, p.parseType())
		}
		p.match(token.DELIMITER, "]")
	}

	first := true
	for p.isDelim("(") {
		args := p.parseCallArgs()
		var g []typesystem.Type
		if first {
			g = generics
		}
		expr = ast.NewApplication(tok, expr, args, g)
		first = false
	}
	return expr
}

func (p *Parser) parseCallArgs() []ast.Expression {
	p.match(token.DELIMITER, "(")
	var args []ast.Expression
	if !p.isDelim(")") {
		args = append(args, p.parseSimpleExpr())
		for p.isDelim(",") {
			p.advance()
			args = append(args, p.parseSimpleExpr())
		}
	}
	p.match(token.DELIMITER, ")")
	return args
}

func (p *Parser) parseAtom() ast.Expression {
	tok := p.cur()
	switch {
	case p.isDelim("("):
		p.advance()
		e := p.parseSimpleExpr()
		p.match(token.DELIMITER, ")")
		return e

	case tok.Kind == token.IDENT:
		p.advance()
		if p.isDelim(".") {
			p.advance()
			field := p.advance().Literal
			return ast.NewReference(tok, tok.Literal, true, field)
		}
		return ast.NewReference(tok, tok.Literal, false, "")

	case tok.Kind == token.INT:
		p.advance()
		v, err := strconv.Atoi(tok.Literal)
		if err != nil {
			p.errorf(tok, "Error: Invalid integer literal '%s'", tok.Literal)
		}
		return ast.NewLiteralInt(tok, v)

	case tok.Kind == token.CHAR:
		p.advance()
		var r rune
		if rs := []rune(tok.Literal); len(rs) > 0 {
			r = rs[0]
		}
		return ast.NewLiteralChar(tok, r)

	case tok.Kind == token.STRING:
		p.advance()
		return ast.NewLiteralString(tok, tok.Literal)

	case p.isKeyword("true"):
		p.advance()
		return ast.NewLiteralBool(tok, true)

	case p.isKeyword("false"):
		p.advance()
		return ast.NewLiteralBool(tok, false)

	case p.isKeyword("null"):
		p.advance()
		return ast.NewLiteralNull(tok)

	default:
		p.errorf(tok, "Error: Unexpected token '%s'", tok.Literal)
		p.advance()
		return ast.NewEnd(tok)
	}
}

// --- Types -----------------------------------------------------------

func (p *Parser) parseType() typesystem.Type {
	switch {
	case p.isKeyword("int"):
		p.advance()
		return typesystem.NewIntType()
	case p.isKeyword("bool"):
		p.advance()
		return typesystem.NewBoolType()
	case p.isKeyword("char"):
		p.advance()
		return typesystem.NewCharType()
	case p.isKeyword("string"):
		p.advance()
		return typesystem.NewStringType()
	case p.isKeyword("null"):
		p.advance()
		return typesystem.NewNullType()
	case p.isKeyword("type"):
		p.advance()
		name := p.expectIdent()
		return typesystem.NewTypeclassType(name, nil)
	case p.isKeyword("List"):
		p.advance()
		p.match(token.DELIMITER, "[")
		elem := p.parseType()
		p.match(token.DELIMITER, "]")
		return typesystem.NewListType(elem)
	case p.isKeyword("Tuple"):
		p.advance()
		p.match(token.DELIMITER, "[")
		elems := []typesystem.Type{p.parseType()}
		for p.isDelim(",") {
			p.advance()
			elems = append(elems, p.parseType())
		}
		p.match(token.DELIMITER, "]")
		return typesystem.NewTupleType(elems)
	case p.isDelim("("):
		p.advance()
		var args []typesystem.Type
		if !p.isDelim(")") {
			args = append(args, p.parseType())
			for p.isDelim(",") {
				p.advance()
				args = append(args, p.parseType())
			}
		}
		p.match(token.DELIMITER, ")")
		p.match(token.OPERATOR, "->")
		ret := p.parseType()
		return typesystem.NewFuncType(nil, args, ret)
	case p.cur().Kind == token.IDENT:
		name := p.advance().Literal
		return typesystem.NewGenType(name)
	default:
		p.errorf(p.cur(), "Error: Unexpected token '%s', expected a type", p.cur().Literal)
		p.advance()
		return typesystem.NewUnknownType()
	}
}

func (p *Parser) parseArg() *ast.Argument {
	tok := p.cur()
	name := p.expectIdent()
	p.match(token.DELIMITER, ":")
	declared := p.parseType()
	return ast.NewArgument(tok, name, declared)
}

// --- Function declarations / literals --------------------------------

func (p *Parser) parseFuncDecl() *ast.Function {
	tok := p.match(token.KEYWORD, "func")
	name := p.expectIdent()
	return p.finishFunc(tok, name, true)
}

func (p *Parser) parseFuncLiteral() ast.Expression {
	tok := p.match(token.KEYWORD, "func")
	name := p.dummy()
	if p.cur().Kind == token.IDENT {
		name = p.advance().Literal
	}
	return p.finishFunc(tok, name, false)
}

func (p *Parser) finishFunc(tok token.Token, name string, topLevel bool) *ast.Function {
	var generics []string
	if p.isDelim("[") {
		p.advance()
		generics = append(generics, p.expectIdent())
		for p.isDelim(",") {
			p.advance()
			generics = append(generics, p.expectIdent())
		}
		p.match(token.DELIMITER, "]")
	}

	p.match(token.DELIMITER, "(")
	var args []*ast.Argument
	if !p.isDelim(")") {
		args = append(args, p.parseArg())
		for p.isDelim(",") {
			p.advance()
			args = append(args, p.parseArg())
		}
	}
	p.match(token.DELIMITER, ")")
	p.match(token.OPERATOR, "->")
	retType := p.parseType()
	p.match(token.OPERATOR, "=")
	body := p.parseSimpleExpr()
	if topLevel {
		p.match(token.DELIMITER, ";")
	} else if p.isDelim(";") {
		p.advance()
	}

	fn := ast.NewFunction(tok, name, generics, args, retType, body)

	genTypes := make([]*typesystem.GenType, len(generics))
	for i, g := range generics {
		genTypes[i] = typesystem.NewGenType(g)
	}
	argTypes := make([]typesystem.Type, len(args))
	argNames := make([]string, len(args))
	for i, a := range args {
		argTypes[i] = a.DeclaredType
		argNames[i] = a.Name
	}
	funcType := typesystem.NewFuncType(genTypes, argTypes, retType)
	funcType.ArgNames = argNames
	funcType.Body = ast.Expression(body)
	fn.SetReturnType(funcType)

	return fn
}
