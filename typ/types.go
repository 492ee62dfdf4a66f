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

// Package typ type checks untyped modules using unification based
// Hindley-Milner style inference, and derives the ModuleTypeInfo signature
// that later modules in the same batch compile against.
package typ

import (
	"fmt"
	"strings"

	"bennypowers.dev/gleam/ast"
)

// Type is the representation of an inferred type.
type Type interface {
	typeNode()
}

// TypeVar is an unknown being solved for. Instance is nil while unbound and
// points at the bound type once unified.
type TypeVar struct {
	Instance Type
	id       int
}

// TypeApp is a named type, possibly parameterised: Int, Box(Int). Module
// holds the name segments of the defining module, nil for builtins.
type TypeApp struct {
	Module []string
	Name   string
	Args   []Type
}

// TypeFn is a function type.
type TypeFn struct {
	Args  []Type
	Retrn Type
}

func (*TypeVar) typeNode() {}
func (*TypeApp) typeNode() {}
func (*TypeFn) typeNode()  {}

var (
	intType    = &TypeApp{Name: "Int"}
	floatType  = &TypeApp{Name: "Float"}
	stringType = &TypeApp{Name: "String"}
	boolType   = &TypeApp{Name: "Bool"}
	nilType    = &TypeApp{Name: "Nil"}
)

// resolve follows bound type variables to the type they stand for.
func resolve(t Type) Type {
	for {
		v, ok := t.(*TypeVar)
		if !ok || v.Instance == nil {
			return t
		}
		t = v.Instance
	}
}

// TypeString renders a type for error messages. Unbound variables are
// lettered in order of first appearance.
func TypeString(t Type) string {
	names := map[*TypeVar]string{}
	return typeString(t, names)
}

func typeString(t Type, names map[*TypeVar]string) string {
	switch t := resolve(t).(type) {
	case *TypeVar:
		name, ok := names[t]
		if !ok {
			name = string(rune('a' + len(names)))
			names[t] = name
		}
		return name
	case *TypeFn:
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = typeString(arg, names)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(args, ", "), typeString(t.Retrn, names))
	case *TypeApp:
		name := t.Name
		if len(t.Module) > 0 {
			name = strings.Join(t.Module, "/") + "." + name
		}
		if len(t.Args) == 0 {
			return name
		}
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = typeString(arg, names)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	}
	return "?"
}

// ValueKind classifies a module scope value.
type ValueKind int

const (
	ValueFn ValueKind = iota
	ValueEnumConstructor
	ValueStructConstructor
	ValueExternalFn
	ValueLocalVariable
)

// Value is the signature of one value in module scope: functions,
// constructors, externals, and (during inference only) local variables.
type Value struct {
	Kind  ValueKind
	Type  Type
	Arity int
	// Module names the defining module. Nil for local variables.
	Module []string
	// ErlModule and ErlFun locate the implementation of an external fn.
	ErlModule string
	ErlFun    string
}

// ModuleTypeInfo is the exported signature of a type checked module. It is
// what dependent modules see during their own inference.
type ModuleTypeInfo struct {
	Name   []string
	Values map[string]Value
	Types  map[string]bool
}

// Clone returns a deep enough copy that callers may hold the signature
// beyond the lifetime of the compile loop's accumulator.
func (m ModuleTypeInfo) Clone() ModuleTypeInfo {
	values := make(map[string]Value, len(m.Values))
	for name, value := range m.Values {
		values[name] = value
	}
	types := make(map[string]bool, len(m.Types))
	for name := range m.Types {
		types[name] = true
	}
	return ModuleTypeInfo{Name: m.Name, Values: values, Types: types}
}

// Resolution records what a name in the syntax tree resolved to. The code
// generator uses these to decide between local calls, remote calls, and
// constructor data.
type Resolution struct {
	Kind ValueKind
	// Module is the owning module's name segments, nil when the target is
	// defined in the module being compiled.
	Module    []string
	Name      string
	Arity     int
	ErlModule string
	ErlFun    string
}

// Module is a type checked module: the syntax tree it was checked from, its
// exported signature, and the name resolutions made during checking.
type Module struct {
	AST      *ast.Module
	TypeInfo ModuleTypeInfo

	refs map[ast.Node]Resolution
}

// Resolution looks up what the checker resolved a node to. The second return
// is false for nodes that are plain local variables.
func (m *Module) Resolution(node ast.Node) (Resolution, bool) {
	r, ok := m.refs[node]
	return r, ok
}
