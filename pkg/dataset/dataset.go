// Package dataset loads contributor records from a consolidated JSON file,
// a "window.mapData = [...];" script, or a directory of per-contributor
// JSON files.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ritzau/mindmap/pkg/logging"
	"github.com/ritzau/mindmap/pkg/model"
)

var log = logging.New("dataset")

const (
	scriptPrefix = "window.mapData ="
	scriptSuffix = ";"
)

// Format is an on-disk dataset encoding
type Format string

const (
	FormatJSON   Format = "json"
	FormatScript Format = "js"
)

// FormatForPath picks a format from the file extension
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".js") {
		return FormatScript
	}
	return FormatJSON
}

// Load reads a dataset from path. Directories are merged with Merge.
func Load(path string) (model.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset: %w", err)
	}

	if info.IsDir() {
		records, report, err := Merge(path)
		if err != nil {
			return nil, err
		}
		log.Info("merged dataset directory", "path", path, "added", len(report.Added), "skipped", len(report.Skipped))
		return records, nil
	}

	return LoadFile(path)
}

// LoadFile reads a consolidated dataset file in either format
func LoadFile(path string) (model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	log.Debug("loaded dataset file", "path", path, "records", len(records))
	return records, nil
}

// Decode parses a JSON array of contributors, optionally wrapped in the
// script assignment the merge tool writes
func Decode(data []byte) (model.Dataset, error) {
	data = bytes.TrimSpace(data)
	if body, ok := bytes.CutPrefix(data, []byte(scriptPrefix)); ok {
		data = bytes.TrimSpace(body)
		data = bytes.TrimSpace(bytes.TrimSuffix(data, []byte(scriptSuffix)))
	}

	var records model.Dataset
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = model.Dataset{}
	}
	return records, nil
}

// Encode serialises records in the given format with two-space indentation
func Encode(records model.Dataset, format Format) ([]byte, error) {
	if records == nil {
		records = model.Dataset{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}

	if format == FormatScript {
		out := make([]byte, 0, len(data)+len(scriptPrefix)+3)
		out = append(out, scriptPrefix+" "...)
		out = append(out, data...)
		out = append(out, scriptSuffix+"\n"...)
		return out, nil
	}
	return append(data, '\n'), nil
}

// Write saves records to path, choosing the format from its extension
func Write(path string, records model.Dataset) error {
	data, err := Encode(records, FormatForPath(path))
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	log.Info("wrote dataset", "path", path, "records", len(records))
	return nil
}
