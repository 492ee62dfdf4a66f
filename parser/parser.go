/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package parser turns source text into an untyped ast.Module.
//
// Parse expects text that has already been through StripExtra, so token
// positions refer to the pre-processed source.
package parser

import (
	"fmt"
	"strconv"

	"bennypowers.dev/gleam/ast"
)

// Error is a parse failure at a token position.
type Error struct {
	Meta    ast.Meta
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d", e.Message, e.Meta.Start)
}

func metaAt(start, end int) ast.Meta {
	return ast.Meta{Start: start, End: end}
}

type parser struct {
	tokens []token
	pos    int
}

// Parse parses a whole module. The module's Name is left empty; the
// compilation driver assigns it from the file path.
func Parse(src string) (*ast.Module, *Error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	statements := []ast.Statement{}
	for p.peek().kind != tokenEOF {
		statement, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
	return &ast.Module{Statements: statements}, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, *Error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.unexpected(t, kind.String())
	}
	return p.next(), nil
}

func (p *parser) unexpected(t token, expected string) *Error {
	return &Error{
		Meta:    metaAt(t.start, t.end),
		Message: fmt.Sprintf("expected %s, found %s", expected, t.kind),
	}
}

func (p *parser) statement() (ast.Statement, *Error) {
	t := p.peek()
	if t.kind == tokenName {
		switch t.value {
		case "import":
			return p.importStatement()
		case "pub":
			p.next()
			return p.declaration(true, t)
		case "fn", "enum", "struct", "external":
			return p.declaration(false, t)
		}
	}
	return nil, p.unexpected(t, "a definition or import")
}

func (p *parser) declaration(public bool, start token) (ast.Statement, *Error) {
	t := p.peek()
	if t.kind != tokenName {
		return nil, p.unexpected(t, "fn, enum, struct or external")
	}
	switch t.value {
	case "fn":
		return p.fn(public, start)
	case "enum":
		return p.enum(public, start)
	case "struct":
		return p.structDefinition(public, start)
	case "external":
		return p.external(public, start)
	}
	return nil, p.unexpected(t, "fn, enum, struct or external")
}

// importStatement parses `import a/b`, `import a/b as c` and
// `import a.{One, two}`. The statement's Meta covers the module path so
// that dependency errors point at the imported name.
func (p *parser) importStatement() (ast.Statement, *Error) {
	p.next() // import keyword
	first, err := p.expect(tokenName)
	if err != nil {
		return nil, err
	}
	segments := []string{first.value}
	start, end := first.start, first.end
	for p.peek().kind == tokenSlash {
		p.next()
		segment, err := p.expect(tokenName)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment.value)
		end = segment.end
	}

	unqualified := []ast.UnqualifiedImport{}
	if p.peek().kind == tokenDot {
		p.next()
		if _, err := p.expect(tokenLeftBrace); err != nil {
			return nil, err
		}
		for {
			t := p.next()
			if t.kind != tokenName && t.kind != tokenUpName {
				return nil, p.unexpected(t, "an importable name")
			}
			unqualified = append(unqualified, ast.UnqualifiedImport{
				Meta: metaAt(t.start, t.end),
				Name: t.value,
			})
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokenRightBrace); err != nil {
			return nil, err
		}
	}

	alias := ""
	if p.peek().kind == tokenName && p.peek().value == "as" {
		p.next()
		name, err := p.expect(tokenName)
		if err != nil {
			return nil, err
		}
		alias = name.value
	}

	return &ast.Import{
		Meta:        metaAt(start, end),
		Module:      segments,
		Alias:       alias,
		Unqualified: unqualified,
	}, nil
}

func (p *parser) fn(public bool, start token) (ast.Statement, *Error) {
	p.next() // fn keyword
	name, err := p.expect(tokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}
	args := []ast.Arg{}
	for p.peek().kind == tokenName {
		arg := p.next()
		args = append(args, ast.Arg{Meta: metaAt(arg.start, arg.end), Name: arg.value})
		if p.peek().kind != tokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLeftBrace); err != nil {
		return nil, err
	}
	body := []ast.Expr{}
	for p.peek().kind != tokenRightBrace {
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}
	end, err := p.expect(tokenRightBrace)
	if err != nil {
		return nil, err
	}
	return &ast.Fn{
		Meta:   metaAt(start.start, end.end),
		Public: public,
		Name:   name.value,
		Args:   args,
		Body:   body,
	}, nil
}

func (p *parser) enum(public bool, start token) (ast.Statement, *Error) {
	p.next() // enum keyword
	name, err := p.expect(tokenUpName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLeftBrace); err != nil {
		return nil, err
	}
	constructors := []ast.EnumConstructor{}
	for p.peek().kind == tokenUpName {
		ctor := p.next()
		args := []*ast.TypeRef{}
		ctorEnd := ctor.end
		if p.peek().kind == tokenLeftParen {
			p.next()
			for p.peek().kind != tokenRightParen {
				arg, err := p.typeRef()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.peek().kind != tokenComma {
					break
				}
				p.next()
			}
			close, err := p.expect(tokenRightParen)
			if err != nil {
				return nil, err
			}
			ctorEnd = close.end
		}
		constructors = append(constructors, ast.EnumConstructor{
			Meta: metaAt(ctor.start, ctorEnd),
			Name: ctor.value,
			Args: args,
		})
	}
	end, err := p.expect(tokenRightBrace)
	if err != nil {
		return nil, err
	}
	if len(constructors) == 0 {
		return nil, &Error{
			Meta:    metaAt(end.start, end.end),
			Message: "enum definitions must have at least one constructor",
		}
	}
	return &ast.Enum{
		Meta:         metaAt(start.start, end.end),
		Public:       public,
		Name:         name.value,
		Constructors: constructors,
	}, nil
}

func (p *parser) structDefinition(public bool, start token) (ast.Statement, *Error) {
	p.next() // struct keyword
	name, err := p.expect(tokenUpName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLeftBrace); err != nil {
		return nil, err
	}
	fields := []ast.StructField{}
	for p.peek().kind == tokenName {
		field := p.next()
		if _, err := p.expect(tokenColon); err != nil {
			return nil, err
		}
		fieldType, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructField{
			Meta: metaAt(field.start, field.end),
			Name: field.value,
			Type: fieldType,
		})
	}
	end, err := p.expect(tokenRightBrace)
	if err != nil {
		return nil, err
	}
	return &ast.Struct{
		Meta:   metaAt(start.start, end.end),
		Public: public,
		Name:   name.value,
		Fields: fields,
	}, nil
}

func (p *parser) external(public bool, start token) (ast.Statement, *Error) {
	p.next() // external keyword
	t := p.peek()
	if t.kind == tokenName && t.value == "fn" {
		return p.externalFn(public, start)
	}
	if t.kind == tokenName && t.value == "type" {
		p.next()
		name, err := p.expect(tokenUpName)
		if err != nil {
			return nil, err
		}
		return &ast.ExternalType{
			Meta:   metaAt(start.start, name.end),
			Public: public,
			Name:   name.value,
		}, nil
	}
	return nil, p.unexpected(t, "fn or type")
}

func (p *parser) externalFn(public bool, start token) (ast.Statement, *Error) {
	p.next() // fn keyword
	name, err := p.expect(tokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}
	args := []*ast.TypeRef{}
	for p.peek().kind != tokenRightParen {
		arg, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenArrow); err != nil {
		return nil, err
	}
	retrn, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenEquals); err != nil {
		return nil, err
	}
	module, err := p.expect(tokenString)
	if err != nil {
		return nil, err
	}
	fun, err := p.expect(tokenString)
	if err != nil {
		return nil, err
	}
	return &ast.ExternalFn{
		Meta:   metaAt(start.start, fun.end),
		Public: public,
		Name:   name.value,
		Args:   args,
		Retrn:  retrn,
		Module: module.value,
		Fun:    fun.value,
	}, nil
}

// typeRef parses Int, one.Thing, or a parameterised reference like
// List(Int). Lowercase type variables are not accepted.
func (p *parser) typeRef() (*ast.TypeRef, *Error) {
	t := p.next()
	module := ""
	name := t
	switch t.kind {
	case tokenUpName:
	case tokenName:
		if _, err := p.expect(tokenDot); err != nil {
			return nil, err
		}
		module = t.value
		upname, err := p.expect(tokenUpName)
		if err != nil {
			return nil, err
		}
		name = upname
	default:
		return nil, p.unexpected(t, "a type")
	}
	args := []*ast.TypeRef{}
	end := name.end
	if p.peek().kind == tokenLeftParen {
		p.next()
		for p.peek().kind != tokenRightParen {
			arg, err := p.typeRef()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
		close, err := p.expect(tokenRightParen)
		if err != nil {
			return nil, err
		}
		end = close.end
	}
	return &ast.TypeRef{
		Meta:   metaAt(t.start, end),
		Module: module,
		Name:   name.value,
		Args:   args,
	}, nil
}

func (p *parser) expr() (ast.Expr, *Error) {
	t := p.peek()
	if t.kind == tokenName && t.value == "let" {
		return p.let()
	}
	return p.callable()
}

func (p *parser) let() (ast.Expr, *Error) {
	start := p.next() // let keyword
	pattern, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenEquals); err != nil {
		return nil, err
	}
	value, err := p.callable()
	if err != nil {
		return nil, err
	}
	return &ast.LetExpr{
		Meta:    metaAt(start.start, value.Location().End),
		Pattern: pattern,
		Value:   value,
	}, nil
}

// callable parses a primary expression with any trailing call parens.
func (p *parser) callable() (ast.Expr, *Error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenLeftParen {
		p.next()
		args := []ast.Expr{}
		for p.peek().kind != tokenRightParen {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
		close, err := p.expect(tokenRightParen)
		if err != nil {
			return nil, err
		}
		expr = &ast.CallExpr{
			Meta: metaAt(expr.Location().Start, close.end),
			Fun:  expr,
			Args: args,
		}
	}
	return expr, nil
}

func (p *parser) primary() (ast.Expr, *Error) {
	t := p.next()
	switch t.kind {
	case tokenInt:
		value, err := strconv.ParseInt(t.value, 10, 64)
		if err != nil {
			return nil, &Error{Meta: metaAt(t.start, t.end), Message: "invalid integer literal"}
		}
		return &ast.IntExpr{Meta: metaAt(t.start, t.end), Value: value}, nil
	case tokenFloat:
		value, err := strconv.ParseFloat(t.value, 64)
		if err != nil {
			return nil, &Error{Meta: metaAt(t.start, t.end), Message: "invalid float literal"}
		}
		return &ast.FloatExpr{Meta: metaAt(t.start, t.end), Value: value}, nil
	case tokenString:
		return &ast.StringExpr{Meta: metaAt(t.start, t.end), Value: t.value}, nil
	case tokenUpName:
		return &ast.VarExpr{Meta: metaAt(t.start, t.end), Name: t.value}, nil
	case tokenName:
		if p.peek().kind == tokenDot {
			p.next()
			label := p.next()
			if label.kind != tokenName && label.kind != tokenUpName {
				return nil, p.unexpected(label, "a field name")
			}
			return &ast.FieldAccessExpr{
				Meta:      metaAt(t.start, label.end),
				Container: t.value,
				Label:     label.value,
			}, nil
		}
		return &ast.VarExpr{Meta: metaAt(t.start, t.end), Name: t.value}, nil
	}
	return nil, p.unexpected(t, "an expression")
}

func (p *parser) pattern() (ast.Pattern, *Error) {
	t := p.next()
	switch t.kind {
	case tokenDiscard:
		return &ast.DiscardPattern{Meta: metaAt(t.start, t.end)}, nil
	case tokenUpName:
		return p.constructorPattern("", t, t.start)
	case tokenName:
		if p.peek().kind == tokenDot {
			p.next()
			ctor, err := p.expect(tokenUpName)
			if err != nil {
				return nil, err
			}
			return p.constructorPattern(t.value, ctor, t.start)
		}
		return &ast.VarPattern{Meta: metaAt(t.start, t.end), Name: t.value}, nil
	}
	return nil, p.unexpected(t, "a pattern")
}

func (p *parser) constructorPattern(module string, ctor token, start int) (ast.Pattern, *Error) {
	args := []ast.Pattern{}
	end := ctor.end
	if p.peek().kind == tokenLeftParen {
		p.next()
		for p.peek().kind != tokenRightParen {
			arg, err := p.pattern()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
		close, err := p.expect(tokenRightParen)
		if err != nil {
			return nil, err
		}
		end = close.end
	}
	return &ast.ConstructorPattern{
		Meta:   metaAt(start, end),
		Module: module,
		Name:   ctor.value,
		Args:   args,
	}, nil
}
