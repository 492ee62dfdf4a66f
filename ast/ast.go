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

// Package ast defines the syntax tree produced by the parser.
//
// A Module is untyped as parsed; the typ package checks it and derives the
// signature other modules compile against. Node positions are byte offsets
// into the pre-processed source, carried on every node as a Meta.
package ast

import "strings"

// Meta is a half-open byte range [Start, End) into the source text.
type Meta struct {
	Start int
	End   int
}

// Node is implemented by every syntax tree node.
type Node interface {
	Location() Meta
}

// Module is one parsed source file. Name is assigned by the compilation
// driver after parsing, derived from the file path relative to its source
// root, so the tree's view of its identity always matches the path.
type Module struct {
	Name       []string
	Statements []Statement
}

// NameString returns the canonical module name, segments joined with "/".
func (m *Module) NameString() string {
	return strings.Join(m.Name, "/")
}

// Dependency is one import declared by a module: the canonical name of the
// imported module and the location of the import statement.
type Dependency struct {
	Name string
	Meta Meta
}

// Dependencies lists every module this module imports, in declaration order.
func (m *Module) Dependencies() []Dependency {
	deps := []Dependency{}
	for _, statement := range m.Statements {
		if imp, ok := statement.(*Import); ok {
			deps = append(deps, Dependency{
				Name: strings.Join(imp.Module, "/"),
				Meta: imp.Meta,
			})
		}
	}
	return deps
}

// Statement is a top level declaration in a module.
type Statement interface {
	Node
	statementNode()
}

// UnqualifiedImport names a single value or type pulled into local scope by
// an import, e.g. the Empty and id in `import one.{Empty, id}`.
type UnqualifiedImport struct {
	Meta Meta
	Name string
}

// Import brings another module into scope, optionally under an alias and
// optionally exposing some of its values unqualified.
type Import struct {
	Meta        Meta
	Module      []string
	Alias       string
	Unqualified []UnqualifiedImport
}

// Variable returns the name the imported module is referred to by in the
// importing module: the alias if one was given, the final path segment
// otherwise.
func (i *Import) Variable() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Module[len(i.Module)-1]
}

// Arg is a function parameter.
type Arg struct {
	Meta Meta
	Name string
}

// Fn is a function definition.
type Fn struct {
	Meta   Meta
	Public bool
	Name   string
	Args   []Arg
	Body   []Expr
}

// EnumConstructor is one variant of an enum definition.
type EnumConstructor struct {
	Meta Meta
	Name string
	Args []*TypeRef
}

// Enum defines a tagged union type.
type Enum struct {
	Meta         Meta
	Public       bool
	Name         string
	Constructors []EnumConstructor
}

// StructField is one named field of a struct definition.
type StructField struct {
	Meta Meta
	Name string
	Type *TypeRef
}

// Struct defines a record type with a single unlabelled runtime shape.
type Struct struct {
	Meta   Meta
	Public bool
	Name   string
	Fields []StructField
}

// ExternalFn declares a function implemented in the target language. Module
// and Fun name the implementation to call.
type ExternalFn struct {
	Meta   Meta
	Public bool
	Name   string
	Args   []*TypeRef
	Retrn  *TypeRef
	Module string
	Fun    string
}

// ExternalType declares an opaque type implemented in the target language.
type ExternalType struct {
	Meta   Meta
	Public bool
	Name   string
}

func (*Import) statementNode()       {}
func (*Fn) statementNode()           {}
func (*Enum) statementNode()         {}
func (*Struct) statementNode()       {}
func (*ExternalFn) statementNode()   {}
func (*ExternalType) statementNode() {}

func (i *Import) Location() Meta       { return i.Meta }
func (f *Fn) Location() Meta           { return f.Meta }
func (e *Enum) Location() Meta         { return e.Meta }
func (s *Struct) Location() Meta       { return s.Meta }
func (e *ExternalFn) Location() Meta   { return e.Meta }
func (e *ExternalType) Location() Meta { return e.Meta }

// TypeRef is a type written in source, e.g. Int or one.Thing. Module is the
// import variable qualifying the type, empty for unqualified references.
type TypeRef struct {
	Meta   Meta
	Module string
	Name   string
	Args   []*TypeRef
}

func (t *TypeRef) Location() Meta { return t.Meta }

// Expr is an expression node. Function bodies are sequences of expressions;
// the value of the final expression is the value of the body.
type Expr interface {
	Node
	exprNode()
}

// IntExpr is an integer literal.
type IntExpr struct {
	Meta  Meta
	Value int64
}

// FloatExpr is a float literal.
type FloatExpr struct {
	Meta  Meta
	Value float64
}

// StringExpr is a string literal.
type StringExpr struct {
	Meta  Meta
	Value string
}

// VarExpr references a name in scope: a local variable, a function, or an
// unqualified imported value or constructor.
type VarExpr struct {
	Meta Meta
	Name string
}

// FieldAccessExpr is a qualified reference to a value in another module,
// e.g. one.go or thingy.Box.
type FieldAccessExpr struct {
	Meta      Meta
	Container string
	Label     string
}

// CallExpr applies a function or constructor to arguments.
type CallExpr struct {
	Meta Meta
	Fun  Expr
	Args []Expr
}

// LetExpr binds the value of an expression to a pattern for the remainder of
// the enclosing body.
type LetExpr struct {
	Meta    Meta
	Pattern Pattern
	Value   Expr
}

func (*IntExpr) exprNode()         {}
func (*FloatExpr) exprNode()       {}
func (*StringExpr) exprNode()      {}
func (*VarExpr) exprNode()         {}
func (*FieldAccessExpr) exprNode() {}
func (*CallExpr) exprNode()        {}
func (*LetExpr) exprNode()         {}

func (e *IntExpr) Location() Meta         { return e.Meta }
func (e *FloatExpr) Location() Meta       { return e.Meta }
func (e *StringExpr) Location() Meta      { return e.Meta }
func (e *VarExpr) Location() Meta         { return e.Meta }
func (e *FieldAccessExpr) Location() Meta { return e.Meta }
func (e *CallExpr) Location() Meta        { return e.Meta }
func (e *LetExpr) Location() Meta         { return e.Meta }

// Pattern is the left hand side of a let binding.
type Pattern interface {
	Node
	patternNode()
}

// VarPattern binds the matched value to a name.
type VarPattern struct {
	Meta Meta
	Name string
}

// DiscardPattern matches anything and binds nothing.
type DiscardPattern struct {
	Meta Meta
}

// ConstructorPattern destructures an enum or struct constructor. Module is
// the import variable qualifying the constructor, empty when it is in local
// scope.
type ConstructorPattern struct {
	Meta   Meta
	Module string
	Name   string
	Args   []Pattern
}

func (*VarPattern) patternNode()         {}
func (*DiscardPattern) patternNode()     {}
func (*ConstructorPattern) patternNode() {}

func (p *VarPattern) Location() Meta         { return p.Meta }
func (p *DiscardPattern) Location() Meta     { return p.Meta }
func (p *ConstructorPattern) Location() Meta { return p.Meta }
