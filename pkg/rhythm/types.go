package rhythm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument is wrapped by every contract violation reported by this
// package.
var ErrInvalidArgument = errors.New("rhythm: invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Beat is a detected rhythmic pulse.
type Beat struct {
	SamplePosition int64
}

// IntensitySample is a normalized energy estimate at a sample position.
type IntensitySample struct {
	SamplePosition int64
	Value          float64 // 0..1
}

// AudioMetadata is the output of the external beat/intensity detector.
// It is shared read-only by every difficulty generation.
type AudioMetadata struct {
	SampleRate       int
	BeatsPerMinute   float64
	BeatsPerBar      int
	Length           time.Duration
	Beats            []Beat
	IntensitySamples []IntensitySample
}

// ========== Difficulty ==========

// Difficulty is a level tier, ordered by increasing note density.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Expert
)

// Difficulties lists every tier in generation order.
var Difficulties = []Difficulty{Easy, Normal, Hard, Expert}

var difficultyNames = [...]string{
	Easy:   "Easy",
	Normal: "Normal",
	Hard:   "Hard",
	Expert: "Expert",
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Expert
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty parses a tier name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, invalidf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, invalidf("unknown difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ========== Note attributes ==========

// CutDirection is the swing direction required to strike a note.
// The numeric codes are the level file codes.
type CutDirection int

const (
	CutUp CutDirection = iota
	CutDown
	CutLeft
	CutRight
	CutUpLeft
	CutUpRight
	CutDownLeft
	CutDownRight
	CutAny
)

// CutDirections is the closed set of cut directions.
var CutDirections = []CutDirection{
	CutUp, CutDown, CutLeft, CutRight,
	CutUpLeft, CutUpRight, CutDownLeft, CutDownRight,
	CutAny,
}

func (c CutDirection) String() string {
	switch c {
	case CutUp:
		return "up"
	case CutDown:
		return "down"
	case CutLeft:
		return "left"
	case CutRight:
		return "right"
	case CutUpLeft:
		return "up-left"
	case CutUpRight:
		return "up-right"
	case CutDownLeft:
		return "down-left"
	case CutDownRight:
		return "down-right"
	case CutAny:
		return "any"
	}
	return fmt.Sprintf("CutDirection(%d)", int(c))
}

// Hand selects the controller that must strike a note.
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

// Hands is the closed set of hands.
var Hands = []Hand{LeftHand, RightHand}

func (h Hand) String() string {
	switch h {
	case LeftHand:
		return "left"
	case RightHand:
		return "right"
	}
	return fmt.Sprintf("Hand(%d)", int(h))
}

// Lane is a horizontal column, 0 is leftmost.
type Lane int

const (
	LaneLeft Lane = iota
	LaneCenterLeft
	LaneCenterRight
	LaneRight
)

// Lanes is the closed set of horizontal lanes.
var Lanes = []Lane{LaneLeft, LaneCenterLeft, LaneCenterRight, LaneRight}

// Row is a vertical layer, 0 is the bottom.
type Row int

const (
	RowBottom Row = iota
	RowMiddle
	RowTop
)

// Note is a single hit target.
type Note struct {
	Time         float64 // beats since song start
	CutDirection CutDirection
	Hand         Hand
	Lane         Lane
	Row          Row
}
