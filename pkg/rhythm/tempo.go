package rhythm

import (
	"math"
	"time"
)

// SampleTime converts a sample offset to wall-clock time since song start.
func SampleTime(position int64, sampleRate int) time.Duration {
	return time.Duration(math.Round(float64(position) * float64(time.Second) / float64(sampleRate)))
}

// SampleBeat converts a sample offset to musical beats since song start:
// position * (bpm / 60) / sampleRate.
func SampleBeat(position int64, sampleRate int, bpm float64) float64 {
	beatsPerSecond := bpm / 60
	return float64(position) * beatsPerSecond / float64(sampleRate)
}
