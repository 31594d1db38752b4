package rhythm

import "time"

// Scheduler decides which beats become notes for a difficulty.
//
// It keeps a single piece of state while walking the beats: the last
// accepted beat. The first beat is always accepted; every later beat is
// accepted only when the time since the last accepted beat reaches the
// effective gap evaluated at the later beat's intensity.
//
// A Scheduler holds no per-run state and may be shared across goroutines.
type Scheduler struct {
	spacing *SpacingPolicy
	skill   float64
}

// NewScheduler returns a scheduler for the given skill level in [0, 1].
// A nil spacing uses DefaultSpacing.
func NewScheduler(spacing *SpacingPolicy, skill float64) (*Scheduler, error) {
	if err := ValidateSkillLevel(skill); err != nil {
		return nil, err
	}
	if spacing == nil {
		spacing = DefaultSpacing()
	}
	return &Scheduler{spacing: spacing, skill: skill}, nil
}

// Schedule emits the notes for one difficulty. Note attributes are drawn
// from r in the order cut direction, hand, lane; the accepted beats depend
// only on timing and intensity.
//
// An empty beat list yields an empty, non-nil note list.
func (s *Scheduler) Schedule(meta *AudioMetadata, d Difficulty, r Rand) ([]Note, error) {
	if err := validateMetadata(meta); err != nil {
		return nil, err
	}
	if _, err := s.spacing.Multiplier(d); err != nil {
		return nil, err
	}
	curve, err := NewIntensityCurve(meta.IntensitySamples)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(meta.Beats))
	var last *Beat
	for i := range meta.Beats {
		beat := &meta.Beats[i]
		if last != nil {
			ok, err := s.accept(meta, curve, d, *last, *beat)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		notes = append(notes, Note{
			Time:         SampleBeat(beat.SamplePosition, meta.SampleRate, meta.BeatsPerMinute),
			CutDirection: Choose(r, CutDirections),
			Hand:         Choose(r, Hands),
			Lane:         Choose(r, Lanes),
			Row:          RowBottom,
		})
		last = beat
	}
	return notes, nil
}

// Gap returns the effective gap that applies to a beat at position.
func (s *Scheduler) Gap(curve *IntensityCurve, d Difficulty, position int64) (time.Duration, error) {
	return s.spacing.EffectiveGap(d, s.skill, curve.ValueAt(position))
}

func (s *Scheduler) accept(meta *AudioMetadata, curve *IntensityCurve, d Difficulty, last, cur Beat) (bool, error) {
	elapsed := SampleTime(cur.SamplePosition, meta.SampleRate) - SampleTime(last.SamplePosition, meta.SampleRate)
	gap, err := s.Gap(curve, d, cur.SamplePosition)
	if err != nil {
		return false, err
	}
	return elapsed >= gap, nil
}

func validateMetadata(meta *AudioMetadata) error {
	if meta == nil {
		return invalidf("nil audio metadata")
	}
	if meta.SampleRate <= 0 {
		return invalidf("sample rate %d must be positive", meta.SampleRate)
	}
	if !(meta.BeatsPerMinute > 0) {
		return invalidf("bpm %v must be positive", meta.BeatsPerMinute)
	}
	for i, b := range meta.Beats {
		if b.SamplePosition < 0 {
			return invalidf("beat %d: negative position %d", i, b.SamplePosition)
		}
		if i > 0 && b.SamplePosition <= meta.Beats[i-1].SamplePosition {
			return invalidf("beat %d: position %d not after %d",
				i, b.SamplePosition, meta.Beats[i-1].SamplePosition)
		}
	}
	return nil
}

// Validate checks the detector contract: positive sample rate and tempo,
// strictly increasing non-negative beats and intensity samples.
func (m *AudioMetadata) Validate() error {
	if err := validateMetadata(m); err != nil {
		return err
	}
	if m.BeatsPerBar <= 0 {
		return invalidf("beats per bar %d must be positive", m.BeatsPerBar)
	}
	for i, s := range m.IntensitySamples {
		if s.SamplePosition < 0 {
			return invalidf("intensity sample %d: negative position %d", i, s.SamplePosition)
		}
	}
	_, err := NewIntensityCurve(m.IntensitySamples)
	return err
}
