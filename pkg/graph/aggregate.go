package graph

import (
	"github.com/ritzau/mindmap/pkg/model"
)

// EdgeKey identifies an undirected edge. A is always the lexicographically
// smaller label, so NewEdgeKey(a, b) == NewEdgeKey(b, a).
type EdgeKey struct {
	A string
	B string
}

// NewEdgeKey returns the canonical key for the pair (a, b)
func NewEdgeKey(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// String joins the endpoints with "|"
func (k EdgeKey) String() string {
	return k.A + "|" + k.B
}

// NodeAggregate maps node labels to the contributors that listed them,
// iterating in order of first appearance.
type NodeAggregate struct {
	order []string
	names map[string][]string
}

// EdgeAggregate maps edge keys to the contributors that listed them,
// iterating in order of first appearance.
type EdgeAggregate struct {
	order []EdgeKey
	names map[EdgeKey][]string
}

// Aggregates is the output of Aggregate
type Aggregates struct {
	Nodes *NodeAggregate
	Edges *EdgeAggregate

	// Connections holds every raw connection in dataset order, duplicates included
	Connections []model.Connection
}

// Aggregate builds node and edge aggregates from contributor records.
// Connections that reference nodes missing from every node list are kept;
// they simply never get a position.
func Aggregate(records model.Dataset) *Aggregates {
	nodes := &NodeAggregate{names: make(map[string][]string)}
	edges := &EdgeAggregate{names: make(map[EdgeKey][]string)}
	var conns []model.Connection

	for _, rec := range records {
		for _, label := range rec.Nodes {
			if _, seen := nodes.names[label]; !seen {
				nodes.order = append(nodes.order, label)
			}
			nodes.names[label] = append(nodes.names[label], rec.Name)
		}

		for _, conn := range rec.Connections {
			key := NewEdgeKey(conn[0], conn[1])
			if _, seen := edges.names[key]; !seen {
				edges.order = append(edges.order, key)
			}
			edges.names[key] = append(edges.names[key], rec.Name)
			conns = append(conns, conn)
		}
	}

	return &Aggregates{Nodes: nodes, Edges: edges, Connections: conns}
}

// Labels returns node labels in insertion order
func (a *NodeAggregate) Labels() []string {
	return append([]string(nil), a.order...)
}

// Contributors returns the contributors that listed label
func (a *NodeAggregate) Contributors(label string) []string {
	return a.names[label]
}

// Has reports whether label was listed by anyone
func (a *NodeAggregate) Has(label string) bool {
	_, ok := a.names[label]
	return ok
}

// Len returns the number of distinct nodes
func (a *NodeAggregate) Len() int {
	return len(a.order)
}

// Keys returns edge keys in insertion order
func (a *EdgeAggregate) Keys() []EdgeKey {
	return append([]EdgeKey(nil), a.order...)
}

// Contributors returns the contributors that listed the edge
func (a *EdgeAggregate) Contributors(key EdgeKey) []string {
	return a.names[key]
}

// Len returns the number of distinct edges
func (a *EdgeAggregate) Len() int {
	return len(a.order)
}
