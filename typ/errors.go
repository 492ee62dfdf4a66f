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
	"fmt"
	"strings"
)

// Error is implemented by every inference failure. Location reports the
// offending range in the pre-processed source.
type Error interface {
	error
	Location() Meta
}

// Meta mirrors ast.Meta so error consumers need not import the ast package.
type Meta struct {
	Start int
	End   int
}

// UnknownVariableError reports a reference to a name not in scope.
type UnknownVariableError struct {
	Meta Meta
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %s", e.Name)
}

func (e *UnknownVariableError) Location() Meta { return e.Meta }

// UnknownModuleError reports a qualified reference whose qualifier is not an
// imported module.
type UnknownModuleError struct {
	Meta Meta
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %s", e.Name)
}

func (e *UnknownModuleError) Location() Meta { return e.Meta }

// NoSuchModuleValueError reports access to a value an imported module does
// not export.
type NoSuchModuleValueError struct {
	Meta   Meta
	Module []string
	Name   string
}

func (e *NoSuchModuleValueError) Error() string {
	return fmt.Sprintf("module %s has no public value %s", strings.Join(e.Module, "/"), e.Name)
}

func (e *NoSuchModuleValueError) Location() Meta { return e.Meta }

// UnknownTypeError reports a type annotation naming an unknown type.
type UnknownTypeError struct {
	Meta Meta
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %s", e.Name)
}

func (e *UnknownTypeError) Location() Meta { return e.Meta }

// CouldNotUnifyError reports a mismatch between an expected and an inferred
// type.
type CouldNotUnifyError struct {
	Meta     Meta
	Expected Type
	Got      Type
}

func (e *CouldNotUnifyError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", TypeString(e.Expected), TypeString(e.Got))
}

func (e *CouldNotUnifyError) Location() Meta { return e.Meta }

// IncorrectArityError reports a call or pattern with the wrong number of
// arguments.
type IncorrectArityError struct {
	Meta     Meta
	Expected int
	Got      int
}

func (e *IncorrectArityError) Error() string {
	return fmt.Sprintf("incorrect arity: expected %d arguments, got %d", e.Expected, e.Got)
}

func (e *IncorrectArityError) Location() Meta { return e.Meta }

// NotAConstructorError reports a pattern matching against a name that is not
// an enum or struct constructor.
type NotAConstructorError struct {
	Meta Meta
	Name string
}

func (e *NotAConstructorError) Error() string {
	return fmt.Sprintf("%s is not a constructor", e.Name)
}

func (e *NotAConstructorError) Location() Meta { return e.Meta }
