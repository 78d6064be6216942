package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/mindmap/pkg/model"
)

// ErrInvalidRecord marks a per-contributor file with the wrong shape
var ErrInvalidRecord = errors.New("invalid contributor record")

// Skipped is a file Merge left out
type Skipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// MergeReport lists what Merge did per file
type MergeReport struct {
	Added   []string  `json:"added"` // Contributor names
	Skipped []Skipped `json:"skipped"`
}

// rawContributor keeps nodes and connections as pointers so that missing
// arrays can be told apart from empty ones
type rawContributor struct {
	Name        string              `json:"name"`
	Nodes       *[]string           `json:"nodes"`
	Connections *[]model.Connection `json:"connections"`
}

// Merge combines every *.json file in dir, in lexical order. Files that
// cannot be read or that lack a name, a nodes array or a connections array
// are skipped and logged.
func Merge(dir string) (model.Dataset, *MergeReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	if len(files) == 0 {
		log.Warn("no JSON files found", "dir", dir)
	}

	records := model.Dataset{}
	report := &MergeReport{Added: []string{}, Skipped: []Skipped{}}

	for _, name := range files {
		rec, err := readContributor(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipped file", "file", name, "error", err)
			report.Skipped = append(report.Skipped, Skipped{File: name, Reason: err.Error()})
			continue
		}

		log.Debug("added contributor", "file", name, "name", rec.Name)
		records = append(records, rec)
		report.Added = append(report.Added, rec.Name)
	}

	return records, report, nil
}

func readContributor(path string) (model.Contributor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Contributor{}, err
	}

	var raw rawContributor
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Contributor{}, err
	}

	switch {
	case raw.Name == "":
		return model.Contributor{}, fmt.Errorf("%w: missing name", ErrInvalidRecord)
	case raw.Nodes == nil:
		return model.Contributor{}, fmt.Errorf("%w: missing nodes array", ErrInvalidRecord)
	case raw.Connections == nil:
		return model.Contributor{}, fmt.Errorf("%w: missing connections array", ErrInvalidRecord)
	}

	return model.Contributor{
		Name:        raw.Name,
		Nodes:       *raw.Nodes,
		Connections: *raw.Connections,
	}, nil
}
