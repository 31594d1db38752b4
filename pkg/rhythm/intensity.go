package rhythm

import (
	"math"
	"sort"
)

// OutOfRangeIntensity is reported for positions the samples do not cover,
// and for curves with fewer than two samples.
const OutOfRangeIntensity = 0.0

// IntensityCurve interpolates linearly between intensity samples.
// The zero value is an empty curve.
type IntensityCurve struct {
	samples []IntensitySample
}

// NewIntensityCurve builds a curve from samples sorted by strictly
// increasing position. Unsorted or duplicate positions, and values that are
// not finite numbers in [0, 1], are rejected with ErrInvalidArgument.
// Empty and single-sample inputs are valid.
func NewIntensityCurve(samples []IntensitySample) (*IntensityCurve, error) {
	for i, s := range samples {
		if math.IsNaN(s.Value) || s.Value < 0 || s.Value > 1 {
			return nil, invalidf("intensity sample %d: value %v outside [0, 1]", i, s.Value)
		}
		if i > 0 && s.SamplePosition <= samples[i-1].SamplePosition {
			return nil, invalidf("intensity sample %d: position %d not after %d",
				i, s.SamplePosition, samples[i-1].SamplePosition)
		}
	}
	cp := make([]IntensitySample, len(samples))
	copy(cp, samples)
	return &IntensityCurve{samples: cp}, nil
}

// ValueAt returns the intensity at position. Positions outside the sampled
// range, or any query against a curve with fewer than two samples, return
// OutOfRangeIntensity. The result is never NaN.
func (c *IntensityCurve) ValueAt(position int64) float64 {
	n := len(c.samples)
	if n < 2 {
		return OutOfRangeIntensity
	}
	if position < c.samples[0].SamplePosition || position > c.samples[n-1].SamplePosition {
		return OutOfRangeIntensity
	}

	// First sample at or after position.
	i := sort.Search(n, func(i int) bool {
		return c.samples[i].SamplePosition >= position
	})
	hi := c.samples[i]
	if hi.SamplePosition == position {
		return hi.Value
	}
	lo := c.samples[i-1]

	t := float64(position-lo.SamplePosition) / float64(hi.SamplePosition-lo.SamplePosition)
	v := lo.Value + t*(hi.Value-lo.Value)
	if math.IsNaN(v) {
		return OutOfRangeIntensity
	}
	return v
}
