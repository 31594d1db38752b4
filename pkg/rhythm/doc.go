// Package rhythm turns detected beats and an intensity signal into a timed
// sequence of hit targets for one difficulty tier.
//
// The pipeline has three pieces:
//
//   - IntensityCurve: piecewise-linear interpolation over intensity samples
//   - SpacingPolicy: minimum gap between notes per difficulty and skill level
//   - Scheduler: walks the beats and keeps those that respect the gap
//
// All positions share the sample-offset time axis of the decoded audio.
// Note times are expressed in musical beats since the start of the song.
//
// Example usage:
//
//	sched, err := rhythm.NewScheduler(rhythm.DefaultSpacing(), 0.5)
//	if err != nil {
//	    return err
//	}
//	notes, err := sched.Schedule(meta, rhythm.Expert, rhythm.NewRand(seed, rhythm.Expert))
package rhythm
