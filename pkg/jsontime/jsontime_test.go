package jsontime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func TestMilli_MarshalJSON(t *testing.T) {
	tm := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	data, err := json.Marshal(Milli(tm))
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(data) != "1705314600000" {
		t.Errorf("MarshalJSON = %s, want 1705314600000", data)
	}
}

func TestMilli_UnmarshalJSON(t *testing.T) {
	var ep Milli
	if err := json.Unmarshal([]byte("1705315800000"), &ep); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}
	if !ep.Time().Equal(time.UnixMilli(1705315800000)) {
		t.Errorf("UnmarshalJSON = %v", ep)
	}
}

func TestMilli_Msgpack(t *testing.T) {
	original := NowEpochMilli()
	data, err := msgpack.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	var restored Milli
	if err := msgpack.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}
	if !restored.Equal(original) {
		t.Errorf("msgpack: original=%v, restored=%v", original, restored)
	}
}

func TestMilli_Comparisons(t *testing.T) {
	a := Milli(time.UnixMilli(1000))
	b := Milli(time.UnixMilli(2000))
	if !a.Before(b) || b.Before(a) {
		t.Error("Before")
	}
	if !a.Equal(Milli(time.UnixMilli(1000))) || a.Equal(b) {
		t.Error("Equal")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"3m12s", 192 * time.Second},
		{"1h", time.Hour},
		{"0", 0},
		{"192", 192 * time.Second},
		{"0.25", 250 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tt.in, err)
		}
		if got.Duration() != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "soon", "1y", "NaN", "1e300"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Errorf("ParseDuration(%q) should fail", bad)
		}
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1m30s"` {
		t.Errorf("MarshalJSON = %s, want \"1m30s\"", data)
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{`"2m"`, 2 * time.Minute},
		{`120`, 2 * time.Minute},
		{`1.5`, 1500 * time.Millisecond},
		{`null`, 0},
	}
	for _, tt := range tests {
		var d Duration
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if d.Duration() != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, d, tt.want)
		}
	}
	var d Duration
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Error("Unmarshal(true) should fail")
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var doc struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
		C Duration `yaml:"c"`
	}
	src := "a: 3m12s\nb: 192.5\nc: \"45s\"\n"
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.A.Duration() != 192*time.Second {
		t.Errorf("a = %v", doc.A)
	}
	if doc.B.Duration() != 192500*time.Millisecond {
		t.Errorf("b = %v", doc.B)
	}
	if doc.C.Duration() != 45*time.Second {
		t.Errorf("c = %v", doc.C)
	}

	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &doc); err == nil {
		t.Error("sequence should not decode as a duration")
	}
}

func TestDuration_Msgpack(t *testing.T) {
	in := struct {
		D Duration `msgpack:"d"`
	}{Duration(1234567 * time.Microsecond)}
	data, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		D Duration `msgpack:"d"`
	}
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.D != in.D {
		t.Errorf("msgpack = %v, want %v", out.D, in.D)
	}
}

func TestDuration_NilPointer(t *testing.T) {
	var d *Duration
	if d.Duration() != 0 {
		t.Error("nil Duration() should be 0")
	}
}
