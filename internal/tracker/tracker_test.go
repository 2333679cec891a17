package tracker

import (
	"math"
	"testing"
	"time"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

func mark(name string, lat, lon float64) core.Mark {
	return core.Mark{Name: name, Lat: lat, Lon: lon}
}

func single(name string, seqID int, lat, lon float64) core.CompoundMark {
	return core.CompoundMark{
		ID: seqID, Name: name, SeqID: seqID, ZoneSize: 50,
		Marks: []core.Mark{mark(name, lat, lon)},
	}
}

func testCourse(marks ...core.CompoundMark) *core.Course {
	return &core.Course{
		RaceID:    "test",
		StartTime: time.Unix(0, 0).UTC(),
		Marks:     marks,
	}
}

func samplesAlong(positions []core.LatLon) []core.PositionSample {
	out := make([]core.PositionSample, len(positions))
	for i, p := range positions {
		out[i] = core.PositionSample{
			Time: time.Unix(int64(i), 0).UTC(),
			Lat:  p.Lat, Lon: p.Lon,
			Speed: 40, Heading: 0,
		}
	}
	return out
}

func TestTrack_MarkIndexMonotonicSingleStep(t *testing.T) {
	c := testCourse(
		single("M1", 1, 0.001, 0),
		single("M2", 2, 0.002, 0),
		single("M3", 3, 0.003, 0),
	)

	// crawl north through all three marks, ~110m per step
	positions := make([]core.LatLon, 0, 40)
	for i := 0; i < 40; i++ {
		positions = append(positions, core.LatLon{Lat: float64(i) * 0.0001, Lon: 0})
	}

	tracked := New(c, nil).Track(samplesAlong(positions))

	prev := 0
	for i, s := range tracked {
		if s.LegIndex < prev {
			t.Fatalf("sample %d: leg index decreased %d -> %d", i, prev, s.LegIndex)
		}
		if s.LegIndex-prev > 1 {
			t.Fatalf("sample %d: leg index skipped %d -> %d", i, prev, s.LegIndex)
		}
		prev = s.LegIndex
	}
	if last := tracked[len(tracked)-1]; last.LegIndex != 3 || last.NextMark != FinishedMark {
		t.Errorf("expected finished at index 3, got index %d next %q", last.LegIndex, last.NextMark)
	}
}

func TestAdvance_BoatAtMarkRoundsOnNextSample(t *testing.T) {
	c := testCourse(single("M1", 1, 0.5, 0.5), single("M2", 2, 1, 1))
	tr := New(c, nil)

	at := core.PositionSample{Time: time.Unix(0, 0), Lat: 0.5, Lon: 0.5}
	first := tr.Advance(at)
	if first.LegIndex != 0 {
		t.Errorf("first sample must not advance (no previous position), got leg %d", first.LegIndex)
	}

	at.Time = time.Unix(1, 0)
	second := tr.Advance(at)
	if second.LegIndex != 1 {
		t.Errorf("expected advancement on second sample at the mark, got leg %d", second.LegIndex)
	}
}

func TestAdvance_GateLineCrossing(t *testing.T) {
	gate := core.CompoundMark{
		ID: 1, Name: "LG1", SeqID: 1,
		Marks: []core.Mark{
			mark("LG1A", 0, 0),
			mark("LG1B", 0, 0.02), // ~2.2km wide, ends outside the rounding zone
		},
	}
	c := testCourse(gate, single("M2", 2, 1, 1))
	tr := New(c, nil)

	// approach from the south toward the gate middle, then step across
	south := core.PositionSample{Time: time.Unix(0, 0), Lat: -0.001, Lon: 0.01}
	if got := tr.Advance(south); got.LegIndex != 0 {
		t.Fatalf("before crossing: expected leg 0, got %d", got.LegIndex)
	}

	north := core.PositionSample{Time: time.Unix(1, 0), Lat: 0.001, Lon: 0.01}
	if got := tr.Advance(north); got.LegIndex != 1 {
		t.Errorf("after crossing: expected leg 1, got %d", got.LegIndex)
	}

	// only one advancement per detected event
	further := core.PositionSample{Time: time.Unix(2, 0), Lat: 0.002, Lon: 0.01}
	if got := tr.Advance(further); got.LegIndex != 1 {
		t.Errorf("expected leg to stay 1, got %d", got.LegIndex)
	}
}

func TestCrossesGateLine_StraightCrossing(t *testing.T) {
	gate1 := core.LatLon{Lat: 0, Lon: 0}
	gate2 := core.LatLon{Lat: 0, Lon: 1}

	if !crossesGateLine(core.LatLon{Lat: 1, Lon: 0.5}, core.LatLon{Lat: -1, Lon: 0.5}, gate1, gate2) {
		t.Error("expected straight crossing to be detected")
	}
	if crossesGateLine(core.LatLon{Lat: -0.5, Lon: 0.5}, core.LatLon{Lat: -1, Lon: 0.5}, gate1, gate2) {
		t.Error("movement staying on one side must not count as crossing")
	}
	if crossesGateLine(core.LatLon{Lat: 0.5, Lon: 1}, core.LatLon{Lat: 0.5, Lon: 0}, gate1, gate2) {
		t.Error("movement parallel to the gate must not count as crossing")
	}
}

func TestAdvance_JumpGuardBlocksRounding(t *testing.T) {
	c := testCourse(single("M1", 1, 0.5, 0.5), single("M2", 2, 1, 1))
	tr := New(c, nil)

	tr.Advance(core.PositionSample{Time: time.Unix(0, 0), Lat: 0, Lon: 0})
	// glitch: teleport straight onto the mark, > 300m from the previous fix
	glitch := tr.Advance(core.PositionSample{Time: time.Unix(1, 0), Lat: 0.5, Lon: 0.5})

	if !glitch.JumpRejected {
		t.Error("expected sample to be flagged as jump rejected")
	}
	if glitch.LegIndex != 0 {
		t.Errorf("jump-rejected sample must not advance the leg, got %d", glitch.LegIndex)
	}
}

func TestAdvance_FirstSampleSkipsJumpGuard(t *testing.T) {
	c := testCourse(single("M1", 1, 0.5, 0.5))
	got := New(c, nil).Advance(core.PositionSample{Time: time.Unix(0, 0), Lat: 0, Lon: 0})
	if got.JumpRejected {
		t.Error("first sample has no previous position and must not be jump rejected")
	}
}

func TestAdvance_FinishedBoatReportsZeroVMC(t *testing.T) {
	c := testCourse(single("M1", 1, 0.0005, 0))
	tr := New(c, nil)

	tr.Advance(core.PositionSample{Time: time.Unix(0, 0), Lat: 0.0005, Lon: 0, Speed: 40})
	done := tr.Advance(core.PositionSample{Time: time.Unix(1, 0), Lat: 0.0005, Lon: 0, Speed: 40})

	if !tr.Finished() {
		t.Fatal("expected tracker to be finished")
	}
	if done.VMC != 0 || done.MarkDistance != 0 || done.NextMark != FinishedMark {
		t.Errorf("finished sample: got vmc=%f dist=%f next=%q", done.VMC, done.MarkDistance, done.NextMark)
	}
}

func TestVMC_AngleFolding(t *testing.T) {
	cases := []struct {
		speed, heading, bearing, want float64
	}{
		{40, 0, 0, 40},    // dead on course
		{40, 90, 0, 0},    // perpendicular
		{40, 180, 0, -40}, // sailing away
		{40, 350, 10, 40 * math.Cos(20*math.Pi/180)}, // folds across north
	}
	for _, c := range cases {
		got := VMC(c.speed, c.heading, c.bearing)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("VMC(%f,%f,%f) = %f, want %f", c.speed, c.heading, c.bearing, got, c.want)
		}
	}
}

func TestTrimToStartFinish(t *testing.T) {
	mk := func(leg int) core.TrackedSample {
		return core.TrackedSample{LegIndex: leg}
	}
	stream := []core.TrackedSample{mk(0), mk(0), mk(1), mk(1), mk(2), mk(3), mk(3)}

	trimmed := TrimToStartFinish(stream, 3)
	if len(trimmed) != 4 {
		t.Fatalf("expected 4 samples (start 0->1 through first finished), got %d", len(trimmed))
	}
	if trimmed[0].LegIndex != 1 || trimmed[len(trimmed)-1].LegIndex != 3 {
		t.Errorf("wrong trim window: first leg %d, last leg %d",
			trimmed[0].LegIndex, trimmed[len(trimmed)-1].LegIndex)
	}
}

func TestTrimToStartFinish_NoStart(t *testing.T) {
	stream := []core.TrackedSample{{LegIndex: 0}, {LegIndex: 0}}
	trimmed := TrimToStartFinish(stream, 3)
	if len(trimmed) != 2 {
		t.Errorf("stream without start transition must be returned unchanged, got %d samples", len(trimmed))
	}
}
