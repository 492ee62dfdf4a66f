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
package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/gleam/parser"
	"bennypowers.dev/gleam/typ"
)

func TestRender(t *testing.T) {
	module, parseErr := parser.Parse("pub fn id(x) { x } pub fn go() { 1 }")
	require.Nil(t, parseErr)
	module.Name = []string{"one", "two"}
	typed, err := typ.InferModule(module, map[string]typ.ModuleTypeInfo{})
	require.Nil(t, err)

	out := Render(typed)
	assert.Equal(t, "# one/two\n\n## Public values\n\n- go\n- id\n", out)
}

func TestRenderEmptyModule(t *testing.T) {
	module, parseErr := parser.Parse("")
	require.Nil(t, parseErr)
	module.Name = []string{"one"}
	typed, err := typ.InferModule(module, map[string]typ.ModuleTypeInfo{})
	require.Nil(t, err)

	assert.Equal(t, "# one\n", Render(typed))
}
