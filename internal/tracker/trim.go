package tracker

import "github.com/kairichard/SGP-Data-Challenge/internal/model/core"

// TrimToStartFinish restricts a tracked stream to the racing portion: from
// the first leg 0 to 1 transition (the start) through the first sample
// where the boat is finished. Streams without a start transition are
// returned unchanged; streams without a finish run to the end.
func TrimToStartFinish(samples []core.TrackedSample, courseLen int) []core.TrackedSample {
	start := -1
	for i := 1; i < len(samples); i++ {
		if samples[i-1].LegIndex == 0 && samples[i].LegIndex == 1 {
			start = i
			break
		}
	}
	if start < 0 {
		return samples
	}

	for i := start; i < len(samples); i++ {
		if samples[i].LegIndex >= courseLen {
			return samples[start : i+1]
		}
	}
	return samples[start:]
}
