package scene

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
)

// Diff describes how a reloaded scene differs from the previous one
type Diff struct {
	AddedNodes    []NodeView `json:"addedNodes"`
	RemovedNodes  []string   `json:"removedNodes"`  // Labels
	ModifiedNodes []NodeView `json:"modifiedNodes"` // Contributors or shape changed
	MovedNodes    []NodeView `json:"movedNodes"`    // Only the position changed
	AddedEdges    []EdgeView `json:"addedEdges"`
	RemovedEdges  []string   `json:"removedEdges"`  // Edge keys
	ModifiedEdges []EdgeView `json:"modifiedEdges"` // Contributors changed, so opacity and width did
	FullScene     bool       `json:"fullScene"`     // True on the first load
	Hash          string     `json:"hash"`
}

// Snapshot is a cached scene view for diffing
type Snapshot struct {
	Hash  string
	Nodes map[string]NodeView
	Edges map[string]EdgeView
}

// Empty reports whether nothing changed
func (d *Diff) Empty() bool {
	return !d.FullScene &&
		len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.ModifiedNodes) == 0 && len(d.MovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0 && len(d.ModifiedEdges) == 0
}

// NewSnapshot indexes a view by node label and edge key
func NewSnapshot(v *View) *Snapshot {
	snap := &Snapshot{
		Nodes: make(map[string]NodeView, len(v.Nodes)),
		Edges: make(map[string]EdgeView, len(v.Edges)),
		Hash:  hashView(v),
	}
	for _, n := range v.Nodes {
		snap.Nodes[n.Label] = n
	}
	for _, e := range v.Edges {
		snap.Edges[e.Key] = e
	}
	return snap
}

// ComputeDiff compares a new view to an old snapshot. Without a snapshot the
// whole view is reported as added.
func ComputeDiff(old *Snapshot, v *View) *Diff {
	if old == nil {
		return &Diff{
			AddedNodes: v.Nodes,
			AddedEdges: v.Edges,
			FullScene:  true,
			Hash:       hashView(v),
		}
	}

	diff := &Diff{
		AddedNodes:    make([]NodeView, 0),
		RemovedNodes:  make([]string, 0),
		ModifiedNodes: make([]NodeView, 0),
		MovedNodes:    make([]NodeView, 0),
		AddedEdges:    make([]EdgeView, 0),
		RemovedEdges:  make([]string, 0),
		ModifiedEdges: make([]EdgeView, 0),
		Hash:          hashView(v),
	}

	seenNodes := make(map[string]bool, len(v.Nodes))
	for _, n := range v.Nodes {
		seenNodes[n.Label] = true
		prev, exists := old.Nodes[n.Label]
		switch {
		case !exists:
			diff.AddedNodes = append(diff.AddedNodes, n)
		case !nodesEqual(prev, n):
			diff.ModifiedNodes = append(diff.ModifiedNodes, n)
		case prev.Position != n.Position:
			diff.MovedNodes = append(diff.MovedNodes, n)
		}
	}
	for label := range old.Nodes {
		if !seenNodes[label] {
			diff.RemovedNodes = append(diff.RemovedNodes, label)
		}
	}

	seenEdges := make(map[string]bool, len(v.Edges))
	for _, e := range v.Edges {
		seenEdges[e.Key] = true
		prev, exists := old.Edges[e.Key]
		switch {
		case !exists:
			diff.AddedEdges = append(diff.AddedEdges, e)
		case !slices.Equal(prev.Contributors, e.Contributors):
			diff.ModifiedEdges = append(diff.ModifiedEdges, e)
		}
	}
	for key := range old.Edges {
		if !seenEdges[key] {
			diff.RemovedEdges = append(diff.RemovedEdges, key)
		}
	}

	slices.Sort(diff.RemovedNodes)
	slices.Sort(diff.RemovedEdges)
	return diff
}

// nodesEqual ignores position; moves are reported separately
func nodesEqual(a, b NodeView) bool {
	return a.Label == b.Label &&
		a.Shape == b.Shape &&
		slices.Equal(a.Contributors, b.Contributors)
}

func hashView(v *View) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
