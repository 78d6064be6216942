// Package stats computes the figures shown in the statistics panel:
// totals, a per-word table and per-contributor breakdowns.
package stats

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ritzau/mindmap/pkg/graph"
	"github.com/ritzau/mindmap/pkg/model"
)

// ErrUnknownContributor is returned for names not present in the dataset
var ErrUnknownContributor = errors.New("unknown contributor")

// Totals are the headline numbers
type Totals struct {
	Contributors      int `json:"contributors"`
	UniqueWords       int `json:"uniqueWords"`
	UniqueConnections int `json:"uniqueConnections"`
}

// Row is one word in the node table
type Row struct {
	Word        string `json:"word"`
	Appearances int    `json:"appearances"` // Times listed, across all contributors
	Connections int    `json:"connections"` // Raw connections touching the word
}

// Table is the node table, initially in order of first appearance
type Table []Row

// Summary is everything the statistics panel shows for the whole dataset
type Summary struct {
	Totals       Totals              `json:"totals"`
	Words        Table               `json:"words"`
	Contributors []string            `json:"contributors"`
	Connectivity *graph.Connectivity `json:"connectivity"`
}

// Individual is the breakdown for one contributor
type Individual struct {
	Name        string             `json:"name"`
	Nodes       int                `json:"nodes"`
	Connections int                `json:"connections"`
	List        []model.Connection `json:"list"`
}

// SortKey selects a node table ordering
type SortKey string

const (
	SortNone        SortKey = ""
	SortWord        SortKey = "word"        // Case-insensitive, ascending
	SortAppearances SortKey = "appearances" // Descending
	SortConnections SortKey = "connections" // Descending
)

// ParseSortKey validates a sort key from user input
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortNone, SortWord, SortAppearances, SortConnections:
		return key, nil
	}
	return SortNone, fmt.Errorf("invalid sort key %q (want word, appearances or connections)", s)
}

// Summarize computes totals, the word table and connectivity
func Summarize(records model.Dataset, agg *graph.Aggregates) *Summary {
	touching := make(map[string]int)
	for _, conn := range agg.Connections {
		touching[conn[0]]++
		if conn[1] != conn[0] {
			touching[conn[1]]++
		}
	}

	words := make(Table, 0, agg.Nodes.Len())
	for _, label := range agg.Nodes.Labels() {
		words = append(words, Row{
			Word:        label,
			Appearances: len(agg.Nodes.Contributors(label)),
			Connections: touching[label],
		})
	}

	return &Summary{
		Totals: Totals{
			Contributors:      len(records),
			UniqueWords:       agg.Nodes.Len(),
			UniqueConnections: agg.Edges.Len(),
		},
		Words:        words,
		Contributors: records.Names(),
		Connectivity: agg.Connectivity(),
	}
}

// Sorted returns a sorted copy of t. Ties keep their original order.
func (t Table) Sorted(key SortKey) Table {
	out := slices.Clone(t)

	switch key {
	case SortWord:
		col := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b Row) int {
			return col.CompareString(a.Word, b.Word)
		})
	case SortAppearances:
		slices.SortStableFunc(out, func(a, b Row) int {
			return b.Appearances - a.Appearances
		})
	case SortConnections:
		slices.SortStableFunc(out, func(a, b Row) int {
			return b.Connections - a.Connections
		})
	}

	return out
}

// ForContributor returns the breakdown for name
func ForContributor(records model.Dataset, name string) (*Individual, error) {
	person, ok := records.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContributor, name)
	}

	list := person.Connections
	if list == nil {
		list = []model.Connection{}
	}

	return &Individual{
		Name:        person.Name,
		Nodes:       len(person.Nodes),
		Connections: len(person.Connections),
		List:        list,
	}, nil
}
