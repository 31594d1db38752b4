// Package analysis reads beat detector output and keeps a library of
// imported tracks.
//
// A detector document looks like:
//
//	name: my-track
//	sample_rate: 44100
//	bpm: 120
//	beats_per_bar: 4
//	length: 3m12s
//	beats: [0, 11025, 22050]
//	intensities:
//	  - {position: 0, value: 0.5}
//	  - {position: 22050, value: 0.8}
//
// The same fields are accepted as JSON.
package analysis

import (
	"fmt"

	"github.com/haivivi/beatsmith/pkg/jsontime"
	"github.com/haivivi/beatsmith/pkg/rhythm"
)

// DefaultBeatsPerBar is used when a document leaves beats_per_bar unset.
const DefaultBeatsPerBar = 4

// Document is the detector result for one track.
type Document struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty" jsonschema:"display name of the track"`
	SampleRate  int               `json:"sample_rate" yaml:"sample_rate" msgpack:"sample_rate" jsonschema:"audio sample rate in Hz"`
	BPM         float64           `json:"bpm" yaml:"bpm" msgpack:"bpm" jsonschema:"estimated tempo in beats per minute"`
	BeatsPerBar int               `json:"beats_per_bar,omitempty" yaml:"beats_per_bar,omitempty" msgpack:"beats_per_bar,omitempty" jsonschema:"meter, default 4"`
	Length      jsontime.Duration `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty" jsonschema:"track length as a duration string or seconds"`
	Beats       []int64           `json:"beats" yaml:"beats" msgpack:"beats" jsonschema:"beat onsets as sample positions, strictly increasing"`
	Intensities []Intensity       `json:"intensities,omitempty" yaml:"intensities,omitempty" msgpack:"intensities,omitempty" jsonschema:"intensity samples, strictly increasing by position"`
}

// Intensity is one loudness sample.
type Intensity struct {
	Position int64   `json:"position" yaml:"position" msgpack:"p" jsonschema:"sample position"`
	Value    float64 `json:"value" yaml:"value" msgpack:"v" jsonschema:"normalized intensity in [0,1]"`
}

// Metadata validates the document and converts it for the scheduler.
// Errors wrap rhythm.ErrInvalidArgument.
func (d *Document) Metadata() (*rhythm.AudioMetadata, error) {
	if d == nil {
		return nil, fmt.Errorf("analysis: %w: nil document", rhythm.ErrInvalidArgument)
	}
	meta := &rhythm.AudioMetadata{
		SampleRate:       d.SampleRate,
		BeatsPerMinute:   d.BPM,
		BeatsPerBar:      d.BeatsPerBar,
		Length:           d.Length.Duration(),
		Beats:            make([]rhythm.Beat, len(d.Beats)),
		IntensitySamples: make([]rhythm.IntensitySample, len(d.Intensities)),
	}
	if meta.BeatsPerBar == 0 {
		meta.BeatsPerBar = DefaultBeatsPerBar
	}
	for i, pos := range d.Beats {
		meta.Beats[i] = rhythm.Beat{SamplePosition: pos}
	}
	for i, s := range d.Intensities {
		meta.IntensitySamples[i] = rhythm.IntensitySample{SamplePosition: s.Position, Value: s.Value}
	}
	if meta.Length < 0 {
		return nil, fmt.Errorf("analysis: %w: negative length %v", rhythm.ErrInvalidArgument, meta.Length)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	return meta, nil
}

// FromMetadata converts scheduler input back to a document.
func FromMetadata(name string, meta *rhythm.AudioMetadata) *Document {
	d := &Document{
		Name:        name,
		SampleRate:  meta.SampleRate,
		BPM:         meta.BeatsPerMinute,
		BeatsPerBar: meta.BeatsPerBar,
		Length:      jsontime.Duration(meta.Length),
		Beats:       make([]int64, len(meta.Beats)),
	}
	for i, b := range meta.Beats {
		d.Beats[i] = b.SamplePosition
	}
	for _, s := range meta.IntensitySamples {
		d.Intensities = append(d.Intensities, Intensity{Position: s.SamplePosition, Value: s.Value})
	}
	return d
}
