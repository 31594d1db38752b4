// Package song generates a complete level pack for a track: one level per
// difficulty plus the manifest that references them.
package song

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/haivivi/beatsmith/pkg/level"
	"github.com/haivivi/beatsmith/pkg/rhythm"
)

// DefaultEnvironment is the environment named in generated manifests.
const DefaultEnvironment = "DefaultEnvironment"

// InfoPath is the manifest file name inside a pack.
const InfoPath = "info.json"

// Info is the song manifest.
type Info struct {
	SongName         string            `json:"songName"`
	SongSubName      string            `json:"songSubName"`
	AuthorName       string            `json:"authorName"`
	BeatsPerMinute   float64           `json:"beatsPerMinute"`
	PreviewStartTime float64           `json:"previewStartTime"`
	PreviewDuration  float64           `json:"previewDuration"`
	CoverImagePath   string            `json:"coverImagePath"`
	EnvironmentName  string            `json:"environmentName"`
	DifficultyLevels []DifficultyLevel `json:"difficultyLevels"`
}

// DifficultyLevel points the manifest at one level file.
type DifficultyLevel struct {
	Difficulty rhythm.Difficulty `json:"difficulty"`
	AudioPath  string            `json:"audioPath"`
	JSONPath   string            `json:"jsonPath"`
	Offset     int               `json:"offset"`
	OldOffset  int               `json:"oldOffset"`
}

// Song is a generated pack, ready to be saved.
type Song struct {
	ID     uuid.UUID
	Seed   uint64
	Info   *Info
	Levels map[rhythm.Difficulty]*level.Instructions

	// Local asset files copied into the pack on Save. Optional.
	AudioFile string
	CoverFile string

	paths PathNamer
}

// Level returns the level for d, or nil.
func (s *Song) Level(d rhythm.Difficulty) *level.Instructions {
	return s.Levels[d]
}

// Paths returns the naming scheme the manifest was built with. Songs not
// built by a Generator fall back to LayoutFor their assets.
func (s *Song) Paths() PathNamer {
	if s.paths == nil {
		return LayoutFor(s.AudioFile, s.CoverFile)
	}
	return s.paths
}

// PathNamer names the files of a pack. Paths are relative to the pack root.
type PathNamer interface {
	AudioPath() string
	CoverImagePath() string
	LevelPath(d rhythm.Difficulty) string
}

// Layout is the default PathNamer.
type Layout struct {
	Audio string // default "song.ogg"
	Cover string // default "cover.jpg"
}

// LayoutFor keeps the extensions of the given asset files.
func LayoutFor(audioFile, coverFile string) Layout {
	var l Layout
	if ext := strings.ToLower(path.Ext(audioFile)); ext != "" {
		l.Audio = "song" + ext
	}
	if ext := strings.ToLower(path.Ext(coverFile)); ext != "" {
		l.Cover = "cover" + ext
	}
	return l
}

func (l Layout) AudioPath() string {
	if l.Audio == "" {
		return "song.ogg"
	}
	return l.Audio
}

func (l Layout) CoverImagePath() string {
	if l.Cover == "" {
		return "cover.jpg"
	}
	return l.Cover
}

func (l Layout) LevelPath(d rhythm.Difficulty) string {
	return d.String() + ".json"
}
