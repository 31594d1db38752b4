package cli

import (
	"os"
	"path/filepath"
	"testing"
)

type fileDoc struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		filename string
		data     string
	}{
		{"a.yaml", "name: n\ncount: 2\n"},
		{"a.yml", "name: n\ncount: 2\n"},
		{"a.json", `{"name": "n", "count": 2}`},
		{"a", `{"name": "n", "count": 2}`},
		{"a.txt", "name: n\ncount: 2\n"},
	}
	for _, tt := range tests {
		var got fileDoc
		if err := ParseFile([]byte(tt.data), tt.filename, &got); err != nil {
			t.Fatalf("ParseFile(%s): %v", tt.filename, err)
		}
		if got != (fileDoc{"n", 2}) {
			t.Errorf("ParseFile(%s) = %+v", tt.filename, got)
		}
	}

	var v fileDoc
	if err := ParseFile([]byte("{not json"), "a.json", &v); err == nil {
		t.Error("broken JSON should fail")
	}
	if err := ParseFile([]byte("name: [unclosed"), "a.yaml", &v); err == nil {
		t.Error("broken YAML should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	os.WriteFile(path, []byte(`{"name": "loaded", "count": 7}`), 0644)

	var got map[string]any
	if err := LoadFile(path, &got); err != nil {
		t.Fatal(err)
	}
	if got["name"] != "loaded" || got["count"] != 7.0 {
		t.Errorf("LoadFile = %v", got)
	}
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), &got); err == nil {
		t.Error("missing file should fail")
	}
}
