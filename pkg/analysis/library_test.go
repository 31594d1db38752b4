package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func newBadgerLibrary(t *testing.T) Library {
	t.Helper()
	lib, err := OpenBadger(BadgerOptions{
		InMemory: true,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func libraries(t *testing.T) map[string]Library {
	return map[string]Library{
		"memory": NewMemoryLibrary(),
		"badger": newBadgerLibrary(t),
	}
}

func sampleDoc() *Document {
	return &Document{
		Name:        "doc-name",
		SampleRate:  48000,
		BPM:         95.5,
		Length:      3e9,
		Beats:       []int64{0, 24000, 48000},
		Intensities: []Intensity{{0, 0.1}, {48000, 0.9}},
	}
}

func TestLibraryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, lib := range libraries(t) {
		t.Run(name, func(t *testing.T) {
			r := NewRecord(sampleDoc(), "")
			if r.Name != "doc-name" {
				t.Fatalf("Name = %q, want document name", r.Name)
			}
			if err := lib.Put(ctx, r); err != nil {
				t.Fatal(err)
			}

			got, err := lib.Get(ctx, r.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.ID != r.ID || got.Name != r.Name || !got.ImportedAt.Equal(r.ImportedAt) {
				t.Fatalf("Get = %+v, want %+v", got, r)
			}
			d := got.Document
			if d.BPM != 95.5 || d.Length != 3e9 || len(d.Beats) != 3 || d.Intensities[1].Value != 0.9 {
				t.Fatalf("document = %+v", d)
			}

			// Returned records are copies.
			got.Document.Beats[0] = 99
			again, _ := lib.Get(ctx, r.ID)
			if again.Document.Beats[0] != 0 {
				t.Fatal("mutating a returned record changed the library")
			}

			if err := lib.Delete(ctx, r.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := lib.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
			}
			if err := lib.Delete(ctx, r.ID); err != nil {
				t.Fatalf("second Delete = %v", err)
			}
		})
	}
}

func TestLibraryList(t *testing.T) {
	ctx := context.Background()
	for name, lib := range libraries(t) {
		t.Run(name, func(t *testing.T) {
			ids := []string{"c", "a", "b"}
			for _, id := range ids {
				r := NewRecord(sampleDoc(), "track "+id)
				r.ID = id
				if err := lib.Put(ctx, r); err != nil {
					t.Fatal(err)
				}
			}
			var got []string
			for r, err := range lib.List(ctx) {
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, r.ID)
			}
			if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
				t.Fatalf("List = %v, want [a b c]", got)
			}

			// Early break.
			n := 0
			for range lib.List(ctx) {
				n++
				break
			}
			if n != 1 {
				t.Fatalf("break after %d records", n)
			}
		})
	}
}

func TestLibraryRejects(t *testing.T) {
	ctx := context.Background()
	for name, lib := range libraries(t) {
		t.Run(name, func(t *testing.T) {
			if err := lib.Put(ctx, &Record{ID: "x"}); err == nil {
				t.Error("record without document accepted")
			}
			if err := lib.Put(ctx, &Record{Document: sampleDoc()}); err == nil {
				t.Error("record without ID accepted")
			}
			if err := lib.Put(ctx, nil); err == nil {
				t.Error("nil record accepted")
			}
			if _, err := lib.Get(ctx, "a:b"); err == nil || errors.Is(err, ErrNotFound) {
				t.Errorf("Get(a:b) = %v, want invalid id", err)
			}
		})
	}
}

func TestOpenBadgerDirRequired(t *testing.T) {
	if _, err := OpenBadger(BadgerOptions{}); err == nil {
		t.Fatal("expected error without Dir")
	}
}

func TestBadgerLibraryPersists(t *testing.T) {
	dir := t.TempDir()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	lib, err := OpenBadger(BadgerOptions{Dir: dir, Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRecord(sampleDoc(), "kept")
	if err := lib.Put(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}

	lib, err = OpenBadger(BadgerOptions{Dir: dir, Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()
	got, err := lib.Get(context.Background(), r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "kept" {
		t.Fatalf("Name = %q", got.Name)
	}
}
