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

// Package erl renders type checked modules as Erlang source text.
//
// Nested module names are flattened with "@" because the target namespace is
// flat: the module a/b/c becomes a@b@c. Enum constructors become atoms or
// tagged tuples, struct constructors become bare tuples.
package erl

import (
	"fmt"
	"strconv"
	"strings"

	"bennypowers.dev/gleam/ast"
	"bennypowers.dev/gleam/typ"
)

// Module renders a complete Erlang source file for a type checked module.
func Module(m *typ.Module) string {
	g := &generator{module: m}
	header := fmt.Sprintf("-module(%s).\n-compile(no_auto_import).\n", strings.Join(m.AST.Name, "@"))

	exports := []string{}
	for _, statement := range m.AST.Statements {
		switch s := statement.(type) {
		case *ast.Fn:
			if s.Public {
				exports = append(exports, fmt.Sprintf("%s/%d", s.Name, len(s.Args)))
			}
		case *ast.ExternalFn:
			if s.Public {
				exports = append(exports, fmt.Sprintf("%s/%d", s.Name, len(s.Args)))
			}
		}
	}

	statements := []string{}
	if len(exports) > 0 {
		statements = append(statements, fmt.Sprintf("-export([%s]).", strings.Join(exports, ", ")))
	}
	for _, statement := range m.AST.Statements {
		switch s := statement.(type) {
		case *ast.Fn:
			statements = append(statements, g.fn(s))
		case *ast.ExternalFn:
			statements = append(statements, g.externalFn(s))
		}
	}

	return header + "\n" + strings.Join(statements, "\n\n") + "\n"
}

type generator struct {
	module *typ.Module
}

func (g *generator) fn(fn *ast.Fn) string {
	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		args[i] = variable(arg.Name)
	}
	body := make([]string, len(fn.Body))
	for i, expr := range fn.Body {
		body[i] = g.expr(expr)
	}
	return fmt.Sprintf("%s(%s) ->\n    %s.", fn.Name, strings.Join(args, ", "), strings.Join(body, ",\n    "))
}

// externalFn renders the exportable wrapper around an external
// implementation.
func (g *generator) externalFn(fn *ast.ExternalFn) string {
	args := make([]string, len(fn.Args))
	for i := range fn.Args {
		args[i] = generatedVariable(i)
	}
	joined := strings.Join(args, ", ")
	return fmt.Sprintf("%s(%s) ->\n    %s:%s(%s).", fn.Name, joined, fn.Module, fn.Fun, joined)
}

func (g *generator) expr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.IntExpr:
		return strconv.FormatInt(e.Value, 10)
	case *ast.FloatExpr:
		return float(e.Value)
	case *ast.StringExpr:
		return fmt.Sprintf("<<%q>>", e.Value)
	case *ast.VarExpr:
		if resolution, ok := g.module.Resolution(e); ok {
			return g.valueReference(resolution)
		}
		return variable(e.Name)
	case *ast.FieldAccessExpr:
		if resolution, ok := g.module.Resolution(e); ok {
			return g.valueReference(resolution)
		}
		return variable(e.Label)
	case *ast.CallExpr:
		return g.call(e)
	case *ast.LetExpr:
		return fmt.Sprintf("%s = %s", g.pattern(e.Pattern), g.expr(e.Value))
	}
	return ""
}

func (g *generator) call(call *ast.CallExpr) string {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.expr(arg)
	}
	joined := strings.Join(args, ", ")

	if resolution, ok := g.module.Resolution(call.Fun); ok {
		switch resolution.Kind {
		case typ.ValueEnumConstructor:
			if len(args) == 0 {
				return atom(resolution.Name)
			}
			return fmt.Sprintf("{%s, %s}", atom(resolution.Name), joined)
		case typ.ValueStructConstructor:
			return fmt.Sprintf("{%s}", joined)
		case typ.ValueExternalFn:
			return fmt.Sprintf("%s:%s(%s)", resolution.ErlModule, resolution.ErlFun, joined)
		case typ.ValueFn:
			if len(resolution.Module) == 0 {
				return fmt.Sprintf("%s(%s)", resolution.Name, joined)
			}
			return fmt.Sprintf("%s:%s(%s)", strings.Join(resolution.Module, "@"), resolution.Name, joined)
		}
	}
	return fmt.Sprintf("%s(%s)", g.expr(call.Fun), joined)
}

// valueReference renders a module scope value used without being called.
func (g *generator) valueReference(resolution typ.Resolution) string {
	switch resolution.Kind {
	case typ.ValueEnumConstructor:
		if resolution.Arity == 0 {
			return atom(resolution.Name)
		}
		return constructorFun(resolution.Arity, func(args string) string {
			return fmt.Sprintf("{%s, %s}", atom(resolution.Name), args)
		})
	case typ.ValueStructConstructor:
		if resolution.Arity == 0 {
			return "{}"
		}
		return constructorFun(resolution.Arity, func(args string) string {
			return fmt.Sprintf("{%s}", args)
		})
	case typ.ValueExternalFn:
		return fmt.Sprintf("fun %s:%s/%d", resolution.ErlModule, resolution.ErlFun, resolution.Arity)
	case typ.ValueFn:
		if len(resolution.Module) == 0 {
			return fmt.Sprintf("fun %s/%d", resolution.Name, resolution.Arity)
		}
		return fmt.Sprintf("fun %s:%s/%d", strings.Join(resolution.Module, "@"), resolution.Name, resolution.Arity)
	}
	return ""
}

// constructorFun wraps a constructor used as a value in a fun so it can be
// passed around first class.
func constructorFun(arity int, build func(args string) string) string {
	args := make([]string, arity)
	for i := range args {
		args[i] = generatedVariable(i)
	}
	joined := strings.Join(args, ", ")
	return fmt.Sprintf("fun(%s) -> %s end", joined, build(joined))
}

func (g *generator) pattern(pattern ast.Pattern) string {
	switch p := pattern.(type) {
	case *ast.VarPattern:
		return variable(p.Name)
	case *ast.DiscardPattern:
		return "_"
	case *ast.ConstructorPattern:
		args := make([]string, len(p.Args))
		for i, arg := range p.Args {
			args[i] = g.pattern(arg)
		}
		joined := strings.Join(args, ", ")
		if resolution, ok := g.module.Resolution(p); ok && resolution.Kind == typ.ValueEnumConstructor {
			if len(args) == 0 {
				return atom(p.Name)
			}
			return fmt.Sprintf("{%s, %s}", atom(p.Name), joined)
		}
		return fmt.Sprintf("{%s}", joined)
	}
	return "_"
}

// float renders a float literal, always with a decimal point so the result
// is a valid Erlang float.
func float(value float64) string {
	out := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	return out
}

// variable converts a source variable name to an Erlang variable:
// some_name becomes SomeName.
func variable(name string) string {
	parts := strings.Split(name, "_")
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		out += strings.ToUpper(part[:1]) + part[1:]
	}
	return out
}

// generatedVariable names positional arguments for generated wrappers.
func generatedVariable(i int) string {
	return fmt.Sprintf("Gen%d", i)
}

// atom converts a constructor name to an Erlang atom: MyBox becomes my_box.
func atom(name string) string {
	out := []byte{}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, c-'A'+'a')
		} else {
			out = append(out, c)
		}
	}
	return string(out)
}
