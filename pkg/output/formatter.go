// Package output prints console reports.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/mindmap/pkg/dataset"
	"github.com/ritzau/mindmap/pkg/stats"
)

// maxTableRows caps the word table in the console report
const maxTableRows = 25

// PrintSummary writes the dataset statistics report
func PrintSummary(w io.Writer, source string, s *stats.Summary, sortKey stats.SortKey) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	bold.Fprintln(w, "Mind Map Statistics")
	bold.Fprintln(w, "===================")
	fmt.Fprintf(w, "Dataset: %s\n", source)
	fmt.Fprintf(w, "Contributors: %d\n", s.Totals.Contributors)
	fmt.Fprintf(w, "Unique words: %d\n", s.Totals.UniqueWords)
	fmt.Fprintf(w, "Unique connections: %d\n", s.Totals.UniqueConnections)
	fmt.Fprintln(w)

	rows := s.Words.Sorted(sortKey)
	if len(rows) > 0 {
		width := len("Word")
		for _, r := range rows {
			width = max(width, len(r.Word))
		}

		cyan.Fprintf(w, "%-*s  %11s  %11s\n", width, "Word", "Appearances", "Connections")
		for i, r := range rows {
			if i == maxTableRows {
				fmt.Fprintf(w, "... %d more\n", len(rows)-maxTableRows)
				break
			}
			fmt.Fprintf(w, "%-*s  %11d  %11d\n", width, r.Word, r.Appearances, r.Connections)
		}
		fmt.Fprintln(w)
	}

	if c := s.Connectivity; c != nil {
		if len(c.Components) <= 1 {
			green.Fprintf(w, "Connected: %d component(s)\n", len(c.Components))
		} else {
			yellow.Fprintf(w, "Disconnected: %d components\n", len(c.Components))
			for _, comp := range c.Components[1:] {
				fmt.Fprintf(w, "  %s\n", strings.Join(comp, ", "))
			}
		}
		if len(c.Isolated) > 0 {
			yellow.Fprintf(w, "Isolated words: %s\n", strings.Join(c.Isolated, ", "))
		}
	}
}

// PrintMergeReport lists the files a merge added and skipped
func PrintMergeReport(w io.Writer, dir, target string, report *dataset.MergeReport) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, name := range report.Added {
		green.Fprintf(w, "Added: %s\n", name)
	}
	for _, s := range report.Skipped {
		red.Fprintf(w, "Skipped %s: %s\n", s.File, s.Reason)
	}
	fmt.Fprintf(w, "\nCombined %d contributor(s) from %s into %s\n", len(report.Added), dir, target)
}
