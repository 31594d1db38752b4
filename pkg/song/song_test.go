package song

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/haivivi/beatsmith/pkg/level"
	"github.com/haivivi/beatsmith/pkg/rhythm"
	"github.com/haivivi/beatsmith/pkg/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// steadyTrack is 60 seconds at 120 bpm with a beat every half second and a
// slowly rising intensity.
func steadyTrack() *rhythm.AudioMetadata {
	meta := &rhythm.AudioMetadata{
		SampleRate:     44100,
		BeatsPerMinute: 120,
		BeatsPerBar:    4,
		Length:         60e9,
	}
	for i := range 120 {
		meta.Beats = append(meta.Beats, rhythm.Beat{SamplePosition: int64(i) * 22050})
	}
	for i := range 61 {
		meta.IntensitySamples = append(meta.IntensitySamples, rhythm.IntensitySample{
			SamplePosition: int64(i) * 44100,
			Value:          float64(i) / 60,
		})
	}
	return meta
}

func newGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	opts.Logger = quietLogger()
	g, err := NewGenerator(opts)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestGenerate(t *testing.T) {
	g := newGenerator(t, Options{SkillLevel: 0.5})
	seed := uint64(7)
	s, err := g.Generate(context.Background(), Request{
		Name:     "Steady",
		Author:   "tester",
		Metadata: steadyTrack(),
		Seed:     &seed,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Seed != seed {
		t.Fatalf("Seed = %d, want %d", s.Seed, seed)
	}

	info := s.Info
	if info.SongName != "Steady" || info.AuthorName != "tester" || info.SongSubName != "" {
		t.Fatalf("info names = %+v", info)
	}
	if info.BeatsPerMinute != 120 || info.EnvironmentName != DefaultEnvironment {
		t.Fatalf("info = %+v", info)
	}
	if info.CoverImagePath != "cover.jpg" {
		t.Fatalf("CoverImagePath = %q", info.CoverImagePath)
	}
	if len(info.DifficultyLevels) != len(rhythm.Difficulties) {
		t.Fatalf("%d difficulty levels", len(info.DifficultyLevels))
	}
	for i, dl := range info.DifficultyLevels {
		d := rhythm.Difficulties[i]
		want := DifficultyLevel{Difficulty: d, AudioPath: "song.ogg", JSONPath: d.String() + ".json"}
		if dl != want {
			t.Errorf("DifficultyLevels[%d] = %+v, want %+v", i, dl, want)
		}
	}

	prev := -1
	for _, d := range rhythm.Difficulties {
		l := s.Level(d)
		if l == nil {
			t.Fatalf("missing %s level", d)
		}
		if len(l.Events) != 0 || len(l.Obstacles) != 0 {
			t.Fatalf("%s: events=%d obstacles=%d", d, len(l.Events), len(l.Obstacles))
		}
		if len(l.Notes) < prev {
			t.Fatalf("%s has %d notes, fewer than the easier tier's %d", d, len(l.Notes), prev)
		}
		prev = len(l.Notes)
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	seed := uint64(12345)
	req := Request{Name: "x", Metadata: steadyTrack(), Seed: &seed}

	seq, err := newGenerator(t, Options{SkillLevel: 0.8}).Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	par, err := newGenerator(t, Options{SkillLevel: 0.8, Parallel: true}).Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seq.Levels, par.Levels) {
		t.Fatal("parallel levels differ from sequential")
	}
	if !reflect.DeepEqual(seq.Info, par.Info) {
		t.Fatal("parallel manifest differs from sequential")
	}
	if seq.ID == par.ID {
		t.Fatal("songs share an ID")
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, parallel := range []bool{false, true} {
		g := newGenerator(t, Options{Parallel: parallel})
		_, err := g.Generate(ctx, Request{Metadata: steadyTrack()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("parallel=%v: err = %v, want context.Canceled", parallel, err)
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	if _, err := NewGenerator(Options{SkillLevel: 2}); !errors.Is(err, rhythm.ErrInvalidArgument) {
		t.Fatalf("NewGenerator(skill 2): %v", err)
	}
	g := newGenerator(t, Options{})
	if _, err := g.Generate(context.Background(), Request{}); !errors.Is(err, rhythm.ErrInvalidArgument) {
		t.Fatalf("nil metadata: %v", err)
	}
	bad := steadyTrack()
	bad.SampleRate = 0
	if _, err := g.Generate(context.Background(), Request{Metadata: bad}); !errors.Is(err, rhythm.ErrInvalidArgument) {
		t.Fatalf("zero sample rate: %v", err)
	}
}

func TestGenerateEmptyBeats(t *testing.T) {
	g := newGenerator(t, Options{SkillLevel: 0.3})
	meta := &rhythm.AudioMetadata{SampleRate: 48000, BeatsPerMinute: 90, BeatsPerBar: 4}
	s, err := g.Generate(context.Background(), Request{Metadata: meta})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range rhythm.Difficulties {
		if n := len(s.Level(d).Notes); n != 0 {
			t.Fatalf("%s: %d notes from no beats", d, n)
		}
	}
}

func TestLayoutFor(t *testing.T) {
	l := LayoutFor("/music/track.EGG", "art/cover.png")
	if l.AudioPath() != "song.egg" || l.CoverImagePath() != "cover.png" {
		t.Fatalf("layout = %q %q", l.AudioPath(), l.CoverImagePath())
	}
	if got := l.LevelPath(rhythm.Hard); got != "Hard.json" {
		t.Fatalf("LevelPath = %q", got)
	}
	def := LayoutFor("", "")
	if def.AudioPath() != "song.ogg" || def.CoverImagePath() != "cover.jpg" {
		t.Fatalf("default layout = %q %q", def.AudioPath(), def.CoverImagePath())
	}
}

type prefixedLayout struct{ Layout }

func (p prefixedLayout) LevelPath(d rhythm.Difficulty) string {
	return "levels/" + p.Layout.LevelPath(d)
}

func TestSongPaths(t *testing.T) {
	custom := prefixedLayout{LayoutFor("", "")}
	g := newGenerator(t, Options{SkillLevel: 0.5})
	s, err := g.Generate(context.Background(), Request{Name: "Pack", Metadata: steadyTrack(), Paths: custom})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Paths().LevelPath(rhythm.Easy); got != "levels/Easy.json" {
		t.Fatalf("LevelPath = %q, want levels/Easy.json", got)
	}
	if got := s.Info.DifficultyLevels[0].JSONPath; got != "levels/Easy.json" {
		t.Fatalf("manifest jsonPath = %q", got)
	}

	bare := &Song{AudioFile: "/music/take.wav"}
	if got := bare.Paths().AudioPath(); got != "song.wav" {
		t.Fatalf("fallback AudioPath = %q, want song.wav", got)
	}
}

func TestSave(t *testing.T) {
	assets := t.TempDir()
	audio := filepath.Join(assets, "track.ogg")
	cover := filepath.Join(assets, "art.jpg")
	os.WriteFile(audio, []byte("OggS"), 0o644)
	os.WriteFile(cover, []byte{0xff, 0xd8, 0xff}, 0o644)

	g := newGenerator(t, Options{SkillLevel: 0.5})
	s, err := g.Generate(context.Background(), Request{
		Name:      "Pack",
		Metadata:  steadyTrack(),
		AudioFile: audio,
		CoverFile: cover,
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	written, err := s.Save(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Easy.json", "Normal.json", "Hard.json", "Expert.json", "song.ogg", "cover.jpg", "info.json"}
	if !reflect.DeepEqual(written, want) {
		t.Fatalf("written = %v, want %v", written, want)
	}

	data, err := storage.ReadFile(context.Background(), out, "info.json")
	if err != nil {
		t.Fatal(err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&info, s.Info) {
		t.Fatalf("manifest round trip = %+v, want %+v", info, s.Info)
	}

	data, err = storage.ReadFile(context.Background(), out, "Expert.json")
	if err != nil {
		t.Fatal(err)
	}
	var expert level.Instructions
	if err := json.Unmarshal(data, &expert); err != nil {
		t.Fatal(err)
	}
	if len(expert.Notes) != len(s.Level(rhythm.Expert).Notes) {
		t.Fatalf("saved %d expert notes, want %d", len(expert.Notes), len(s.Level(rhythm.Expert).Notes))
	}
}

func TestSaveMissingAsset(t *testing.T) {
	g := newGenerator(t, Options{})
	s, err := g.Generate(context.Background(), Request{
		Metadata:  steadyTrack(),
		AudioFile: filepath.Join(t.TempDir(), "gone.ogg"),
	})
	if err != nil {
		t.Fatal(err)
	}
	out, _ := storage.NewLocal(t.TempDir())
	if _, err := s.Save(context.Background(), out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Save = %v, want not-exist", err)
	}
	if ok, _ := out.Exists(context.Background(), InfoPath); ok {
		t.Fatal("manifest written for an incomplete pack")
	}
}
