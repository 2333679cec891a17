// Package tracker implements the per-boat mark-progression state machine.
// A Tracker walks one boat's position stream against the course model and
// annotates every sample with the current leg index, the next mark, the
// distance to it and the velocity made good on course.
//
// Trackers are not safe for concurrent use; each boat gets its own
// instance and the worker package fans them out across goroutines.
package tracker

import (
	"log/slog"
	"math"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

const (
	// RoundingZoneMeters is the proximity radius within which a mark
	// counts as rounded without a line crossing.
	RoundingZoneMeters = 100.0

	// MaxPositionJumpMeters guards rounding detection against GPS
	// glitches: a sample further than this from the previous one is
	// excluded from advancement but kept in the output stream.
	MaxPositionJumpMeters = 300.0

	// FinishedMark is reported as the next mark once the course is done.
	FinishedMark = "FINISHED"
)

// ProgressState is the per-boat accumulator. The mark index is
// monotonically non-decreasing and advances by at most 1 per sample.
type ProgressState struct {
	markIndex int
	prevPos   core.LatLon
	hasPrev   bool
}

// MarkIndex returns the 0-based index of the compound mark the boat is
// sailing toward; it equals the course length once the boat has finished.
func (s ProgressState) MarkIndex() int {
	return s.markIndex
}

// Tracker walks one boat's samples through the course.
type Tracker struct {
	course *core.Course
	state  ProgressState
	logger *slog.Logger
}

// New creates a tracker for one boat on the given course.
func New(c *core.Course, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{course: c, logger: logger}
}

// Finished reports whether the boat has rounded the last compound mark.
func (t *Tracker) Finished() bool {
	return t.state.markIndex >= t.course.Len()
}

// State returns a copy of the current progress state.
func (t *Tracker) State() ProgressState {
	return t.state
}

// Track advances the state machine over a whole sample stream. Samples
// must be time-ordered; out-of-order input is undefined behavior for the
// jump guard and the rounding state.
func (t *Tracker) Track(samples []core.PositionSample) []core.TrackedSample {
	out := make([]core.TrackedSample, 0, len(samples))
	for _, s := range samples {
		out = append(out, t.Advance(s))
	}
	return out
}

// Advance consumes one sample, detects a rounding of the current target
// compound mark and returns the annotated sample.
func (t *Tracker) Advance(sample core.PositionSample) core.TrackedSample {
	pos := sample.Position()

	jumpRejected := false
	if t.state.hasPrev && geo.Haversine(t.state.prevPos, pos) > MaxPositionJumpMeters {
		jumpRejected = true
		t.logger.Debug("position jump exceeds threshold, skipping rounding detection",
			"time", sample.Time, "limit", MaxPositionJumpMeters)
	}

	if !jumpRejected && t.state.hasPrev && !t.Finished() {
		if roundedMark(pos, t.state.prevPos, t.course.Marks[t.state.markIndex]) {
			t.state.markIndex++
		}
	}

	t.state.prevPos = pos
	t.state.hasPrev = true

	tracked := core.TrackedSample{
		PositionSample: sample,
		LegIndex:       t.state.markIndex,
		JumpRejected:   jumpRejected,
	}

	if t.Finished() {
		tracked.NextMark = FinishedMark
		tracked.MarkDistance = 0
		tracked.VMC = 0
		return tracked
	}

	next := t.course.Marks[t.state.markIndex].Marks[0]
	tracked.NextMark = next.Name
	tracked.MarkDistance = geo.Haversine(pos, next.Position())
	tracked.VMC = VMC(sample.Speed, sample.Heading, geo.InitialBearing(pos, next.Position()))
	return tracked
}

// roundedMark reports whether the boat's step from prev to pos rounds the
// compound mark: proximity for single marks, proximity to either gate mark
// or a gate-line crossing for gates.
func roundedMark(pos, prev core.LatLon, cm core.CompoundMark) bool {
	if !cm.IsGate() {
		return geo.Haversine(pos, cm.Marks[0].Position()) <= RoundingZoneMeters
	}

	for _, gateMark := range cm.Marks {
		if geo.Haversine(pos, gateMark.Position()) <= RoundingZoneMeters {
			return true
		}
	}
	return crossesGateLine(pos, prev, cm.Marks[0].Position(), cm.Marks[1].Position())
}

// crossesGateLine detects a crossing of the gate segment via the sign flip
// of the 2-D cross product of the gate vector against the vectors from the
// first gate mark to the previous and current position. A zero cross
// product between the gate vector and the boat's displacement means the
// movement is parallel to the gate and cannot cross it.
func crossesGateLine(pos, prev, gate1, gate2 core.LatLon) bool {
	gateLat := gate2.Lat - gate1.Lat
	gateLon := gate2.Lon - gate1.Lon

	boatLat := pos.Lat - prev.Lat
	boatLon := pos.Lon - prev.Lon

	if math.Abs(cross2D(gateLat, gateLon, boatLat, boatLon)) <= 1e-10 {
		return false
	}

	prevSide := cross2D(gateLat, gateLon, prev.Lat-gate1.Lat, prev.Lon-gate1.Lon)
	currSide := cross2D(gateLat, gateLon, pos.Lat-gate1.Lat, pos.Lon-gate1.Lon)

	return sign(prevSide) != sign(currSide)
}

func cross2D(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// VMC is the component of boat speed directed toward the next mark. The
// angular difference between heading and course bearing is folded into
// [0,180] before the cosine.
func VMC(speed, heading, courseBearing float64) float64 {
	angleDiff := math.Abs(heading - courseBearing)
	if angleDiff > 180 {
		angleDiff = 360 - angleDiff
	}
	return speed * math.Cos(angleDiff*math.Pi/180)
}
