package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ritzau/mindmap/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

var sample = model.Dataset{
	{Name: "Ada", Nodes: []string{"Astronomy", "Stars"}, Connections: []model.Connection{{"Astronomy", "Stars"}}},
	{Name: "Bo", Nodes: []string{"Comets"}, Connections: []model.Connection{}},
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"json", `[{"name":"Ada","nodes":["Astronomy","Stars"],"connections":[["Astronomy","Stars"]]},{"name":"Bo","nodes":["Comets"],"connections":[]}]`},
		{"script", "window.mapData = [\n{\"name\":\"Ada\",\"nodes\":[\"Astronomy\",\"Stars\"],\"connections\":[[\"Astronomy\",\"Stars\"]]},\n{\"name\":\"Bo\",\"nodes\":[\"Comets\"],\"connections\":[]}\n];\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, sample) {
				t.Errorf("Decode = %+v, want %+v", got, sample)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"name": "not an array"}`)); err == nil {
		t.Error("Expected error for non-array dataset")
	}
	got, err := Decode([]byte(`[]`))
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Decode([]) = %#v, %v; want empty dataset", got, err)
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"data.json", "mapData.js"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Write(path, sample); err != nil {
				t.Fatalf("Write: %v", err)
			}

			raw, _ := os.ReadFile(path)
			if strings.HasSuffix(name, ".js") && !strings.HasPrefix(string(raw), "window.mapData = [") {
				t.Errorf("Script output has wrong prefix: %q", raw[:20])
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, sample) {
				t.Errorf("Load = %+v, want %+v", got, sample)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-bo.json", `{"name":"Bo","nodes":["Comets"],"connections":[]}`)
	writeFile(t, dir, "a-ada.json", `{"name":"Ada","nodes":["Astronomy","Stars"],"connections":[["Astronomy","Stars"]]}`)
	writeFile(t, dir, "c-noname.json", `{"nodes":[],"connections":[]}`)
	writeFile(t, dir, "d-nonodes.json", `{"name":"Cy","connections":[]}`)
	writeFile(t, dir, "e-broken.json", `{"name":`)
	writeFile(t, dir, "notes.txt", `ignored`)
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, report, err := Merge(dir)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if !reflect.DeepEqual(records, sample) {
		t.Errorf("Records = %+v, want %+v", records, sample)
	}
	if !reflect.DeepEqual(report.Added, []string{"Ada", "Bo"}) {
		t.Errorf("Added = %v", report.Added)
	}

	var skipped []string
	for _, s := range report.Skipped {
		skipped = append(skipped, s.File)
	}
	if !reflect.DeepEqual(skipped, []string{"c-noname.json", "d-nonodes.json", "e-broken.json"}) {
		t.Errorf("Skipped = %v", skipped)
	}
}

func TestReadContributorValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.json", `{"name":"X","nodes":["A"],"connections":null}`)

	_, err := readContributor(path)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ada.json", `{"name":"Ada","nodes":["Astronomy"],"connections":[]}`)

	records, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Ada" {
		t.Errorf("Load = %+v", records)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
