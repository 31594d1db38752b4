// Package level packs a generated note sequence into a per-difficulty level
// record. JSON field names follow the classic level file format.
package level

import (
	"github.com/haivivi/beatsmith/pkg/rhythm"
)

// Fixed level constants.
const (
	FormatVersion = "1.5.0"
	NoteJumpSpeed = 10
	Shuffle       = 0
	ShufflePeriod = 0.5
)

// Instructions is one playable level for a single difficulty.
type Instructions struct {
	Version        string     `json:"_version"`
	BeatsPerMinute float64    `json:"_beatsPerMinute"`
	BeatsPerBar    int        `json:"_beatsPerBar"`
	NoteJumpSpeed  float64    `json:"_noteJumpSpeed"`
	Shuffle        float64    `json:"_shuffle"`
	ShufflePeriod  float64    `json:"_shufflePeriod"`
	Events         []Event    `json:"_events"`
	Notes          []Note     `json:"_notes"`
	Obstacles      []Obstacle `json:"_obstacles"`
}

// Event is a lighting event. None are generated.
type Event struct {
	Time  float64 `json:"_time"`
	Type  int     `json:"_type"`
	Value int     `json:"_value"`
}

// Obstacle is a wall. None are generated; the field is reserved.
type Obstacle struct {
	Time      float64 `json:"_time"`
	LineIndex int     `json:"_lineIndex"`
	Type      int     `json:"_type"`
	Duration  float64 `json:"_duration"`
	Width     int     `json:"_width"`
}

// Note is the file representation of a rhythm.Note.
type Note struct {
	Time         float64 `json:"_time"`
	LineIndex    int     `json:"_lineIndex"`
	LineLayer    int     `json:"_lineLayer"`
	Type         int     `json:"_type"`
	CutDirection int     `json:"_cutDirection"`
}

// FromNote converts a scheduled note to its file representation.
func FromNote(n rhythm.Note) Note {
	return Note{
		Time:         n.Time,
		LineIndex:    int(n.Lane),
		LineLayer:    int(n.Row),
		Type:         int(n.Hand),
		CutDirection: int(n.CutDirection),
	}
}

// ToNote converts a file note back to a rhythm.Note.
func (n Note) ToNote() rhythm.Note {
	return rhythm.Note{
		Time:         n.Time,
		CutDirection: rhythm.CutDirection(n.CutDirection),
		Hand:         rhythm.Hand(n.Type),
		Lane:         rhythm.Lane(n.LineIndex),
		Row:          rhythm.Row(n.LineLayer),
	}
}

// Assemble builds the level record for a note sequence. Tempo and meter
// come from meta; events and obstacles are always empty.
func Assemble(meta *rhythm.AudioMetadata, notes []rhythm.Note) *Instructions {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = FromNote(n)
	}
	return &Instructions{
		Version:        FormatVersion,
		BeatsPerMinute: meta.BeatsPerMinute,
		BeatsPerBar:    meta.BeatsPerBar,
		NoteJumpSpeed:  NoteJumpSpeed,
		Shuffle:        Shuffle,
		ShufflePeriod:  ShufflePeriod,
		Events:         []Event{},
		Notes:          out,
		Obstacles:      []Obstacle{},
	}
}

// Stats summarizes a level.
type Stats struct {
	Notes       int     `json:"notes" yaml:"notes"`
	FirstBeat   float64 `json:"first_beat" yaml:"first_beat"`
	LastBeat    float64 `json:"last_beat" yaml:"last_beat"`
	LeftHand    int     `json:"left_hand" yaml:"left_hand"`
	RightHand   int     `json:"right_hand" yaml:"right_hand"`
	NotesPerBar float64 `json:"notes_per_bar" yaml:"notes_per_bar"`
}

// Stats computes summary figures for the level.
func (l *Instructions) Stats() Stats {
	var s Stats
	s.Notes = len(l.Notes)
	if s.Notes == 0 {
		return s
	}
	s.FirstBeat = l.Notes[0].Time
	s.LastBeat = l.Notes[s.Notes-1].Time
	for _, n := range l.Notes {
		if rhythm.Hand(n.Type) == rhythm.LeftHand {
			s.LeftHand++
		} else {
			s.RightHand++
		}
	}
	if span := s.LastBeat - s.FirstBeat; span > 0 && l.BeatsPerBar > 0 {
		s.NotesPerBar = float64(s.Notes) / (span / float64(l.BeatsPerBar))
	}
	return s
}
