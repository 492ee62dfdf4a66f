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
package typ

import (
	"strings"

	"bennypowers.dev/gleam/ast"
)

// InferModule type checks one module. signatures maps canonical module name
// strings to the signatures of every module compiled so far in the batch;
// the compilation driver guarantees that all of this module's imports are
// present. The map is read but never written.
func InferModule(module *ast.Module, signatures map[string]ModuleTypeInfo) (*Module, Error) {
	inf := &inferencer{
		module:  module,
		modules: map[string]ModuleTypeInfo{},
		types:   map[string]*TypeApp{},
		env:     map[string]Value{},
		refs:    map[ast.Node]Resolution{},
		info: ModuleTypeInfo{
			Name:   module.Name,
			Values: map[string]Value{},
			Types:  map[string]bool{},
		},
	}

	if err := inf.registerImports(signatures); err != nil {
		return nil, err
	}
	inf.registerTypeNames()
	if err := inf.registerConstructors(); err != nil {
		return nil, err
	}
	if err := inf.registerExternalFns(); err != nil {
		return nil, err
	}
	if err := inf.inferFns(); err != nil {
		return nil, err
	}

	return &Module{AST: module, TypeInfo: inf.info, refs: inf.refs}, nil
}

type inferencer struct {
	module  *ast.Module
	modules map[string]ModuleTypeInfo
	types   map[string]*TypeApp
	env     map[string]Value
	refs    map[ast.Node]Resolution
	info    ModuleTypeInfo
	nextVar int
}

func (inf *inferencer) newVar() *TypeVar {
	inf.nextVar++
	return &TypeVar{id: inf.nextVar}
}

func meta(m ast.Meta) Meta {
	return Meta{Start: m.Start, End: m.End}
}

func (inf *inferencer) registerImports(signatures map[string]ModuleTypeInfo) Error {
	for _, statement := range inf.module.Statements {
		imp, ok := statement.(*ast.Import)
		if !ok {
			continue
		}
		name := strings.Join(imp.Module, "/")
		sig, ok := signatures[name]
		if !ok {
			return &UnknownModuleError{Meta: meta(imp.Meta), Name: name}
		}
		inf.modules[imp.Variable()] = sig
		for _, unqualified := range imp.Unqualified {
			value, ok := sig.Values[unqualified.Name]
			if !ok {
				return &NoSuchModuleValueError{
					Meta:   meta(unqualified.Meta),
					Module: sig.Name,
					Name:   unqualified.Name,
				}
			}
			inf.env[unqualified.Name] = value
		}
	}
	return nil
}

// registerTypeNames records every type defined in this module before any
// reference to one is resolved, so definition order does not matter.
func (inf *inferencer) registerTypeNames() {
	for _, statement := range inf.module.Statements {
		var name string
		var public bool
		switch s := statement.(type) {
		case *ast.Enum:
			name, public = s.Name, s.Public
		case *ast.Struct:
			name, public = s.Name, s.Public
		case *ast.ExternalType:
			name, public = s.Name, s.Public
		default:
			continue
		}
		inf.types[name] = &TypeApp{Module: inf.module.Name, Name: name}
		if public {
			inf.info.Types[name] = true
		}
	}
}

func (inf *inferencer) registerConstructors() Error {
	for _, statement := range inf.module.Statements {
		switch s := statement.(type) {
		case *ast.Enum:
			retrn := inf.types[s.Name]
			for _, ctor := range s.Constructors {
				args := make([]Type, len(ctor.Args))
				for i, ref := range ctor.Args {
					t, err := inf.resolveTypeRef(ref)
					if err != nil {
						return err
					}
					args[i] = t
				}
				value := Value{
					Kind:   ValueEnumConstructor,
					Type:   constructorType(args, retrn),
					Arity:  len(args),
					Module: inf.module.Name,
				}
				inf.env[ctor.Name] = value
				if s.Public {
					inf.info.Values[ctor.Name] = value
				}
			}
		case *ast.Struct:
			retrn := inf.types[s.Name]
			args := make([]Type, len(s.Fields))
			for i, field := range s.Fields {
				t, err := inf.resolveTypeRef(field.Type)
				if err != nil {
					return err
				}
				args[i] = t
			}
			value := Value{
				Kind:   ValueStructConstructor,
				Type:   constructorType(args, retrn),
				Arity:  len(args),
				Module: inf.module.Name,
			}
			inf.env[s.Name] = value
			if s.Public {
				inf.info.Values[s.Name] = value
			}
		}
	}
	return nil
}

// constructorType gives a constructor its scope type: a fn for constructors
// with arguments, the constructed type itself for those without.
func constructorType(args []Type, retrn Type) Type {
	if len(args) == 0 {
		return retrn
	}
	return &TypeFn{Args: args, Retrn: retrn}
}

func (inf *inferencer) registerExternalFns() Error {
	for _, statement := range inf.module.Statements {
		s, ok := statement.(*ast.ExternalFn)
		if !ok {
			continue
		}
		args := make([]Type, len(s.Args))
		for i, ref := range s.Args {
			t, err := inf.resolveTypeRef(ref)
			if err != nil {
				return err
			}
			args[i] = t
		}
		retrn, err := inf.resolveTypeRef(s.Retrn)
		if err != nil {
			return err
		}
		value := Value{
			Kind:      ValueExternalFn,
			Type:      &TypeFn{Args: args, Retrn: retrn},
			Arity:     len(args),
			Module:    inf.module.Name,
			ErlModule: s.Module,
			ErlFun:    s.Fun,
		}
		inf.env[s.Name] = value
		if s.Public {
			inf.info.Values[s.Name] = value
		}
	}
	return nil
}

func (inf *inferencer) inferFns() Error {
	// Pre-register every fn with an unknown type so that bodies may call
	// themselves and fns defined later in the module.
	for _, statement := range inf.module.Statements {
		if s, ok := statement.(*ast.Fn); ok {
			inf.env[s.Name] = Value{
				Kind:   ValueFn,
				Type:   inf.newVar(),
				Arity:  len(s.Args),
				Module: inf.module.Name,
			}
		}
	}
	for _, statement := range inf.module.Statements {
		s, ok := statement.(*ast.Fn)
		if !ok {
			continue
		}
		local := make(map[string]Value, len(inf.env)+len(s.Args))
		for name, value := range inf.env {
			local[name] = value
		}
		args := make([]Type, len(s.Args))
		for i, arg := range s.Args {
			v := inf.newVar()
			args[i] = v
			local[arg.Name] = Value{Kind: ValueLocalVariable, Type: v}
		}
		retrn := Type(nilType)
		for _, expr := range s.Body {
			t, err := inf.inferExpr(expr, local)
			if err != nil {
				return err
			}
			retrn = t
		}
		fnType := &TypeFn{Args: args, Retrn: retrn}
		if err := inf.unify(inf.env[s.Name].Type, fnType, meta(s.Meta)); err != nil {
			return err
		}
		value := Value{
			Kind:   ValueFn,
			Type:   fnType,
			Arity:  len(s.Args),
			Module: inf.module.Name,
		}
		inf.env[s.Name] = value
		if s.Public {
			inf.info.Values[s.Name] = value
		}
	}
	return nil
}

func (inf *inferencer) resolveTypeRef(ref *ast.TypeRef) (Type, Error) {
	args := make([]Type, len(ref.Args))
	for i, arg := range ref.Args {
		t, err := inf.resolveTypeRef(arg)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	if ref.Module != "" {
		sig, ok := inf.modules[ref.Module]
		if !ok {
			return nil, &UnknownModuleError{Meta: meta(ref.Meta), Name: ref.Module}
		}
		if !sig.Types[ref.Name] {
			return nil, &UnknownTypeError{Meta: meta(ref.Meta), Name: ref.Module + "." + ref.Name}
		}
		return &TypeApp{Module: sig.Name, Name: ref.Name, Args: args}, nil
	}
	switch ref.Name {
	case "Int":
		return intType, nil
	case "Float":
		return floatType, nil
	case "String":
		return stringType, nil
	case "Bool":
		return boolType, nil
	case "Nil":
		return nilType, nil
	}
	if t, ok := inf.types[ref.Name]; ok {
		if len(args) == 0 {
			return t, nil
		}
		return &TypeApp{Module: t.Module, Name: t.Name, Args: args}, nil
	}
	return nil, &UnknownTypeError{Meta: meta(ref.Meta), Name: ref.Name}
}

// lookupValue resolves a name in scope and records the resolution for the
// code generator. Local variables are monomorphic; everything else is
// instantiated fresh at each use.
func (inf *inferencer) lookupValue(node ast.Node, name string, value Value) Type {
	if value.Kind == ValueLocalVariable {
		return value.Type
	}
	resolution := Resolution{
		Kind:      value.Kind,
		Name:      name,
		Arity:     value.Arity,
		ErlModule: value.ErlModule,
		ErlFun:    value.ErlFun,
	}
	if strings.Join(value.Module, "/") != inf.module.NameString() {
		resolution.Module = value.Module
	}
	inf.refs[node] = resolution
	// A still unknown fn type is a pre-registered placeholder: recursive and
	// forward calls must constrain the placeholder itself.
	if v, ok := resolve(value.Type).(*TypeVar); ok {
		return v
	}
	return inf.instantiate(value.Type, map[*TypeVar]*TypeVar{})
}

// instantiate copies a module scope type, replacing each unbound variable
// with a fresh one so that separate uses unify independently.
func (inf *inferencer) instantiate(t Type, fresh map[*TypeVar]*TypeVar) Type {
	switch t := resolve(t).(type) {
	case *TypeVar:
		v, ok := fresh[t]
		if !ok {
			v = inf.newVar()
			fresh[t] = v
		}
		return v
	case *TypeFn:
		args := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = inf.instantiate(arg, fresh)
		}
		return &TypeFn{Args: args, Retrn: inf.instantiate(t.Retrn, fresh)}
	case *TypeApp:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = inf.instantiate(arg, fresh)
		}
		return &TypeApp{Module: t.Module, Name: t.Name, Args: args}
	}
	return t
}

func (inf *inferencer) inferExpr(expr ast.Expr, env map[string]Value) (Type, Error) {
	switch e := expr.(type) {
	case *ast.IntExpr:
		return intType, nil
	case *ast.FloatExpr:
		return floatType, nil
	case *ast.StringExpr:
		return stringType, nil

	case *ast.VarExpr:
		value, ok := env[e.Name]
		if !ok {
			return nil, &UnknownVariableError{Meta: meta(e.Meta), Name: e.Name}
		}
		return inf.lookupValue(e, e.Name, value), nil

	case *ast.FieldAccessExpr:
		sig, ok := inf.modules[e.Container]
		if !ok {
			return nil, &UnknownModuleError{Meta: meta(e.Meta), Name: e.Container}
		}
		value, ok := sig.Values[e.Label]
		if !ok {
			return nil, &NoSuchModuleValueError{
				Meta:   meta(e.Meta),
				Module: sig.Name,
				Name:   e.Label,
			}
		}
		return inf.lookupValue(e, e.Label, value), nil

	case *ast.CallExpr:
		funType, err := inf.inferExpr(e.Fun, env)
		if err != nil {
			return nil, err
		}
		if fn, ok := resolve(funType).(*TypeFn); ok && len(fn.Args) != len(e.Args) {
			return nil, &IncorrectArityError{
				Meta:     meta(e.Meta),
				Expected: len(fn.Args),
				Got:      len(e.Args),
			}
		}
		args := make([]Type, len(e.Args))
		for i, arg := range e.Args {
			t, err := inf.inferExpr(arg, env)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		retrn := inf.newVar()
		expected := &TypeFn{Args: args, Retrn: retrn}
		if err := inf.unify(funType, expected, meta(e.Meta)); err != nil {
			return nil, err
		}
		return retrn, nil

	case *ast.LetExpr:
		value, err := inf.inferExpr(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := inf.inferPattern(e.Pattern, value, env); err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, &UnknownVariableError{Meta: meta(expr.Location()), Name: "?"}
}

func (inf *inferencer) inferPattern(pattern ast.Pattern, matched Type, env map[string]Value) Error {
	switch p := pattern.(type) {
	case *ast.DiscardPattern:
		return nil

	case *ast.VarPattern:
		env[p.Name] = Value{Kind: ValueLocalVariable, Type: matched}
		return nil

	case *ast.ConstructorPattern:
		var value Value
		if p.Module != "" {
			sig, ok := inf.modules[p.Module]
			if !ok {
				return &UnknownModuleError{Meta: meta(p.Meta), Name: p.Module}
			}
			value, ok = sig.Values[p.Name]
			if !ok {
				return &NoSuchModuleValueError{
					Meta:   meta(p.Meta),
					Module: sig.Name,
					Name:   p.Name,
				}
			}
		} else {
			var ok bool
			value, ok = env[p.Name]
			if !ok {
				return &UnknownVariableError{Meta: meta(p.Meta), Name: p.Name}
			}
		}
		if value.Kind != ValueEnumConstructor && value.Kind != ValueStructConstructor {
			return &NotAConstructorError{Meta: meta(p.Meta), Name: p.Name}
		}
		ctorType := resolve(inf.lookupValue(p, p.Name, value))
		ctor, ok := ctorType.(*TypeFn)
		if !ok {
			// A constructor without arguments matches the value directly.
			if len(p.Args) != 0 {
				return &IncorrectArityError{
					Meta:     meta(p.Meta),
					Expected: 0,
					Got:      len(p.Args),
				}
			}
			return inf.unify(ctorType, matched, meta(p.Meta))
		}
		if len(ctor.Args) != len(p.Args) {
			return &IncorrectArityError{
				Meta:     meta(p.Meta),
				Expected: len(ctor.Args),
				Got:      len(p.Args),
			}
		}
		if err := inf.unify(ctor.Retrn, matched, meta(p.Meta)); err != nil {
			return err
		}
		for i, arg := range p.Args {
			if err := inf.inferPattern(arg, ctor.Args[i], env); err != nil {
				return err
			}
		}
		return nil
	}
	return &NotAConstructorError{Meta: meta(pattern.Location()), Name: "?"}
}

func (inf *inferencer) unify(a, b Type, at Meta) Error {
	a = resolve(a)
	b = resolve(b)
	if a == b {
		return nil
	}
	if v, ok := a.(*TypeVar); ok {
		if occurs(v, b) {
			return &CouldNotUnifyError{Meta: at, Expected: a, Got: b}
		}
		v.Instance = b
		return nil
	}
	if _, ok := b.(*TypeVar); ok {
		return inf.unify(b, a, at)
	}
	switch a := a.(type) {
	case *TypeApp:
		b, ok := b.(*TypeApp)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) ||
			strings.Join(a.Module, "/") != strings.Join(b.Module, "/") {
			break
		}
		for i := range a.Args {
			if err := inf.unify(a.Args[i], b.Args[i], at); err != nil {
				return err
			}
		}
		return nil
	case *TypeFn:
		b, ok := b.(*TypeFn)
		if !ok || len(a.Args) != len(b.Args) {
			break
		}
		for i := range a.Args {
			if err := inf.unify(a.Args[i], b.Args[i], at); err != nil {
				return err
			}
		}
		return inf.unify(a.Retrn, b.Retrn, at)
	}
	return &CouldNotUnifyError{Meta: at, Expected: a, Got: b}
}

func occurs(v *TypeVar, t Type) bool {
	switch t := resolve(t).(type) {
	case *TypeVar:
		return t == v
	case *TypeFn:
		for _, arg := range t.Args {
			if occurs(v, arg) {
				return true
			}
		}
		return occurs(v, t.Retrn)
	case *TypeApp:
		for _, arg := range t.Args {
			if occurs(v, arg) {
				return true
			}
		}
	}
	return false
}
