package watcher

import (
	"path/filepath"
)

// ChangeAnalysis summarises a debounced event for the reload pipeline.
// The layout is global, so any relevant change means a full rebuild.
type ChangeAnalysis struct {
	NeedReload   bool
	Reason       string
	ChangedFiles []string
	RemovedFiles []string
}

// AnalyzeChanges decides whether event requires reloading the dataset
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
		RemovedFiles: event.Removed,
		NeedReload:   len(event.Paths) > 0,
	}

	switch {
	case !analysis.NeedReload:
		analysis.Reason = "no changes"
	case event.Type == ChangeTypeDataset && len(event.Removed) > 0:
		analysis.Reason = "dataset file replaced"
	case event.Type == ChangeTypeDataset:
		analysis.Reason = "dataset file modified"
	case len(event.Removed) == len(event.Paths):
		analysis.Reason = "contributor files removed: " + baseNames(event.Removed)
	default:
		analysis.Reason = "contributor files changed: " + baseNames(event.Paths)
	}

	return analysis
}

func baseNames(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += ", "
		}
		out += filepath.Base(p)
	}
	return out
}
