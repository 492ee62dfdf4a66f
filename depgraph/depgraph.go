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

// Package depgraph is a small directed graph used to order modules for
// compilation. Edges point dependency to dependent, so a topological sort
// of the graph is a valid compile order.
package depgraph

import "errors"

// ErrCycle is returned by Toposort when the graph contains a cycle.
var ErrCycle = errors.New("dependency cycle")

// NodeIndex identifies a node. Indices are stable for the life of the graph.
type NodeIndex int

// Graph is a directed graph with string labelled nodes. The zero value is
// ready to use.
type Graph struct {
	labels []string
	// out[i] lists the nodes reachable by one edge from i.
	out map[NodeIndex][]NodeIndex
}

// AddNode adds a node and returns its index. Labels are not deduplicated;
// callers maintain their own label to index lookup.
func (g *Graph) AddNode(label string) NodeIndex {
	g.labels = append(g.labels, label)
	return NodeIndex(len(g.labels) - 1)
}

// Label returns the label the node was added with.
func (g *Graph) Label(i NodeIndex) string {
	return g.labels[i]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// AddEdge adds a directed edge. Parallel edges are allowed and do not
// affect the sort beyond their degree contribution.
func (g *Graph) AddEdge(from, to NodeIndex) {
	if g.out == nil {
		g.out = map[NodeIndex][]NodeIndex{}
	}
	g.out[from] = append(g.out[from], to)
}

// Toposort returns the node indices in an order where every edge's source
// precedes its target. Ties are broken by node insertion order, which keeps
// batches deterministic. Returns ErrCycle if no such order exists.
//
// Kahn's algorithm with an index ordered ready list.
func (g *Graph) Toposort() ([]NodeIndex, error) {
	inDegree := make([]int, len(g.labels))
	for _, targets := range g.out {
		for _, to := range targets {
			inDegree[to]++
		}
	}

	ready := []NodeIndex{}
	for i := range g.labels {
		if inDegree[i] == 0 {
			ready = append(ready, NodeIndex(i))
		}
	}

	sorted := make([]NodeIndex, 0, len(g.labels))
	for len(ready) > 0 {
		// ready is kept sorted by construction: initial nodes are appended
		// in index order and merge inserts each released node in place.
		next := ready[0]
		ready = ready[1:]
		sorted = append(sorted, next)

		released := []NodeIndex{}
		for _, to := range g.out[next] {
			inDegree[to]--
			if inDegree[to] == 0 {
				released = append(released, to)
			}
		}
		ready = merge(ready, released)
	}

	if len(sorted) != len(g.labels) {
		return nil, ErrCycle
	}
	return sorted, nil
}

// merge inserts released nodes into the ready list keeping index order.
func merge(ready, released []NodeIndex) []NodeIndex {
	for _, node := range released {
		inserted := false
		for i, existing := range ready {
			if node < existing {
				ready = append(ready[:i], append([]NodeIndex{node}, ready[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			ready = append(ready, node)
		}
	}
	return ready
}
