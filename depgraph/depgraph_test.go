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
package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(g *Graph, order []NodeIndex) []string {
	out := make([]string, len(order))
	for i, index := range order {
		out[i] = g.Label(index)
	}
	return out
}

func TestToposortEmpty(t *testing.T) {
	g := &Graph{}
	order, err := g.Toposort()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestToposortKeepsInsertionOrderForUnrelatedNodes(t *testing.T) {
	g := &Graph{}
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	order, err := g.Toposort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, labels(g, order))
}

func TestToposortDependenciesFirst(t *testing.T) {
	g := &Graph{}
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	// c depends on nothing, a depends on b and c, b depends on c.
	g.AddEdge(b, a)
	g.AddEdge(c, a)
	g.AddEdge(c, b)
	order, err := g.Toposort()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, labels(g, order))
}

func TestToposortReleasedNodesKeepIndexOrder(t *testing.T) {
	g := &Graph{}
	root := g.AddNode("root")
	z := g.AddNode("z")
	a := g.AddNode("a")
	g.AddEdge(root, z)
	g.AddEdge(root, a)
	order, err := g.Toposort()
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "z", "a"}, labels(g, order))
}

func TestToposortParallelEdges(t *testing.T) {
	g := &Graph{}
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b)
	g.AddEdge(a, b)
	order, err := g.Toposort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels(g, order))
}

func TestToposortCycle(t *testing.T) {
	g := &Graph{}
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	_, err := g.Toposort()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestToposortSelfEdgeIsACycle(t *testing.T) {
	g := &Graph{}
	a := g.AddNode("a")
	g.AddEdge(a, a)
	_, err := g.Toposort()
	assert.ErrorIs(t, err, ErrCycle)
}
