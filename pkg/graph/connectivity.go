package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Connectivity summarizes the structure of the aggregated mind map
type Connectivity struct {
	Components [][]string     `json:"components"` // Largest first, labels in insertion order
	Isolated   []string       `json:"isolated"`   // Nodes without any edge
	Degree     map[string]int `json:"degree"`     // Distinct neighbours per node
}

// undirected wraps a gonum graph with label <-> ID bookkeeping
type undirected struct {
	graph  *simple.UndirectedGraph
	ids    map[string]int64
	labels map[int64]string
	nextID int64
}

func newUndirected() *undirected {
	return &undirected{
		graph:  simple.NewUndirectedGraph(),
		ids:    make(map[string]int64),
		labels: make(map[int64]string),
	}
}

func (u *undirected) addNode(label string) int64 {
	if id, exists := u.ids[label]; exists {
		return id
	}

	id := u.nextID
	u.ids[label] = id
	u.labels[id] = label
	u.graph.AddNode(simple.Node(id))
	u.nextID++
	return id
}

func (u *undirected) addEdge(a, b string) {
	from := u.addNode(a)
	to := u.addNode(b)

	// gonum panics on self edges
	if from == to || u.graph.HasEdgeBetween(from, to) {
		return
	}
	u.graph.SetEdge(u.graph.NewEdge(u.graph.Node(from), u.graph.Node(to)))
}

// Connectivity computes connected components over nodes and edges.
// Edge endpoints that no contributor listed as a node still take part.
func (a *Aggregates) Connectivity() *Connectivity {
	u := newUndirected()
	for _, label := range a.Nodes.order {
		u.addNode(label)
	}
	for _, key := range a.Edges.order {
		u.addEdge(key.A, key.B)
	}

	result := &Connectivity{
		Components: make([][]string, 0),
		Isolated:   make([]string, 0),
		Degree:     make(map[string]int, len(u.ids)),
	}

	for _, comp := range topo.ConnectedComponents(u.graph) {
		ids := make([]int64, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, n.ID())
		}
		// IDs follow insertion order
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		labels := make([]string, 0, len(ids))
		for _, id := range ids {
			labels = append(labels, u.labels[id])
		}
		result.Components = append(result.Components, labels)
	}

	sort.SliceStable(result.Components, func(i, j int) bool {
		ci, cj := result.Components[i], result.Components[j]
		if len(ci) != len(cj) {
			return len(ci) > len(cj)
		}
		return u.ids[ci[0]] < u.ids[cj[0]]
	})

	for id := int64(0); id < u.nextID; id++ {
		label := u.labels[id]
		degree := u.graph.From(id).Len()
		result.Degree[label] = degree
		if degree == 0 {
			result.Isolated = append(result.Isolated, label)
		}
	}

	return result
}
