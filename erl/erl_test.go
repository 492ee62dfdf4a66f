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
package erl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/gleam/parser"
	"bennypowers.dev/gleam/typ"
)

// render type checks src against the given dependency sources and renders
// the module under test.
func render(t *testing.T, name, src string, deps map[string]string) string {
	t.Helper()
	signatures := map[string]typ.ModuleTypeInfo{}
	for depName, depSrc := range deps {
		signatures[depName] = check(t, depName, depSrc, signatures).TypeInfo
	}
	return Module(check(t, name, src, signatures))
}

func check(t *testing.T, name, src string, signatures map[string]typ.ModuleTypeInfo) *typ.Module {
	t.Helper()
	module, parseErr := parser.Parse(parser.StripExtra(src))
	require.Nil(t, parseErr)
	module.Name = strings.Split(name, "/")
	typed, err := typ.InferModule(module, signatures)
	require.Nil(t, err)
	return typed
}

func TestModuleEmpty(t *testing.T) {
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n\n",
		render(t, "one", "", nil))
}

func TestModuleNestedName(t *testing.T) {
	assert.Equal(t,
		"-module(one@two).\n-compile(no_auto_import).\n\n\n",
		render(t, "one/two", "pub enum Box { Box }", nil))
}

func TestModulePublicFn(t *testing.T) {
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([go/0]).\n\ngo() ->\n    1.\n",
		render(t, "one", "pub fn go() { 1 }", nil))
}

func TestModulePrivateFnIsNotExported(t *testing.T) {
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\ngo() ->\n    1.\n",
		render(t, "one", "fn go() { 1 }", nil))
}

func TestModuleVariablesAreCapitalised(t *testing.T) {
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([id/1]).\n\nid(SomeValue) ->\n    SomeValue.\n",
		render(t, "one", "pub fn id(some_value) { some_value }", nil))
}

func TestModuleLetPatterns(t *testing.T) {
	src := "pub enum Box { Box(Int) } pub fn unbox(x) { let Box(i) = x i }"
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([unbox/1]).\n\nunbox(X) ->\n    {box, I} = X,\n    I.\n",
		render(t, "one", src, nil))
}

func TestModuleRemoteCalls(t *testing.T) {
	out := render(t, "two", "import nested/one\npub fn go() { one.go() }",
		map[string]string{"nested/one": "pub fn go() { 1 }"})
	assert.Equal(t,
		"-module(two).\n-compile(no_auto_import).\n\n-export([go/0]).\n\ngo() ->\n    nested@one:go().\n",
		out)
}

func TestModuleEnumConstructors(t *testing.T) {
	out := render(t, "two", "import one pub fn box(x) { one.Box(x) } pub fn empty() { one.Nothing }",
		map[string]string{"one": "pub enum Box { Box(Int) Nothing }"})
	assert.Equal(t,
		"-module(two).\n-compile(no_auto_import).\n\n-export([box/1, empty/0]).\n\nbox(X) ->\n    {box, X}.\n\nempty() ->\n    nothing.\n",
		out)
}

func TestModuleStructConstructors(t *testing.T) {
	out := render(t, "two", "import one\nfn make() { one.Point(1, 4) }\nfn x(p) { let one.Point(x, _) = p x }",
		map[string]string{"one": "pub struct Point { x: Int y: Int }"})
	assert.Equal(t,
		"-module(two).\n-compile(no_auto_import).\n\nmake() ->\n    {1, 4}.\n\nx(P) ->\n    {X, _} = P,\n    X.\n",
		out)
}

func TestModuleExternalFnWrapper(t *testing.T) {
	out := render(t, "one", `pub external type Map pub external fn new() -> Map = "maps" "new"`, nil)
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([new/0]).\n\nnew() ->\n    maps:new().\n",
		out)
}

func TestModuleExternalFnWrapperWithArgs(t *testing.T) {
	src := `pub external fn pow(Float, Float) -> Float = "math" "pow"`
	out := render(t, "one", src, nil)
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([pow/2]).\n\npow(Gen0, Gen1) ->\n    math:pow(Gen0, Gen1).\n",
		out)
}

func TestModuleExternalFnCallsGoStraightToTheTarget(t *testing.T) {
	src := `external fn new() -> Int = "maps" "new" pub fn go() { new() }`
	out := render(t, "one", src, nil)
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([go/0]).\n\nnew() ->\n    maps:new().\n\ngo() ->\n    maps:new().\n",
		out)
}

func TestModuleUnqualifiedImports(t *testing.T) {
	out := render(t, "two", "import one.{Empty, id} fn make() { id(Empty) }",
		map[string]string{"one": "pub fn id(x) { x } pub struct Empty {}"})
	assert.Equal(t,
		"-module(two).\n-compile(no_auto_import).\n\nmake() ->\n    one:id({}).\n",
		out)
}

func TestModuleLiterals(t *testing.T) {
	out := render(t, "one", `pub fn go() { let x = 1.5 "hello" }`, nil)
	assert.Equal(t,
		"-module(one).\n-compile(no_auto_import).\n\n-export([go/0]).\n\ngo() ->\n    X = 1.5,\n    <<\"hello\">>.\n",
		out)
}

func TestAtom(t *testing.T) {
	assert.Equal(t, "box", atom("Box"))
	assert.Equal(t, "my_box", atom("MyBox"))
	assert.Equal(t, "nothing", atom("Nothing"))
}

func TestVariable(t *testing.T) {
	assert.Equal(t, "X", variable("x"))
	assert.Equal(t, "SomeValue", variable("some_value"))
}
