package rhythm

import (
	"math"
	"time"
)

// DefaultMultipliers maps each difficulty to its base spacing in seconds at
// skill level 0.
var DefaultMultipliers = map[Difficulty]float64{
	Easy:   2.0,
	Normal: 1.0,
	Hard:   0.8,
	Expert: 0.5,
}

// SpacingPolicy decides the minimum time between two accepted notes.
// It is immutable after construction and safe for concurrent use.
type SpacingPolicy struct {
	multipliers [len(difficultyNames)]float64
}

// NewSpacingPolicy validates a multiplier table. The table must cover every
// difficulty exactly and hold finite, non-negative values.
func NewSpacingPolicy(multipliers map[Difficulty]float64) (*SpacingPolicy, error) {
	p := &SpacingPolicy{}
	for d, m := range multipliers {
		if !d.Valid() {
			return nil, invalidf("spacing table: unknown difficulty %d", int(d))
		}
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return nil, invalidf("spacing table: %s multiplier %v", d, m)
		}
		p.multipliers[d] = m
	}
	for _, d := range Difficulties {
		if _, ok := multipliers[d]; !ok {
			return nil, invalidf("spacing table: missing %s", d)
		}
	}
	return p, nil
}

// DefaultSpacing returns the policy built from DefaultMultipliers.
func DefaultSpacing() *SpacingPolicy {
	p, err := NewSpacingPolicy(DefaultMultipliers)
	if err != nil {
		panic(err)
	}
	return p
}

// Multiplier returns the base spacing in seconds for d.
func (p *SpacingPolicy) Multiplier(d Difficulty) (float64, error) {
	if !d.Valid() {
		return 0, invalidf("unsupported difficulty %d", int(d))
	}
	return p.multipliers[d], nil
}

// MinimumGap returns multiplier(d) * (1 - skill).
func (p *SpacingPolicy) MinimumGap(d Difficulty, skill float64) (time.Duration, error) {
	if err := ValidateSkillLevel(skill); err != nil {
		return 0, err
	}
	m, err := p.Multiplier(d)
	if err != nil {
		return 0, err
	}
	return seconds(m * (1 - skill)), nil
}

// EffectiveGap returns MinimumGap plus (1 - intensity) seconds: loud
// passages allow denser notes, quiet ones spread them out.
func (p *SpacingPolicy) EffectiveGap(d Difficulty, skill, intensity float64) (time.Duration, error) {
	base, err := p.MinimumGap(d, skill)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(intensity) {
		intensity = OutOfRangeIntensity
	}
	return base + seconds(1-intensity), nil
}

// ValidateSkillLevel rejects skill levels outside [0, 1].
func ValidateSkillLevel(skill float64) error {
	if math.IsNaN(skill) || skill < 0 || skill > 1 {
		return invalidf("skill level %v outside [0, 1]", skill)
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
