package race

import (
	"testing"
	"time"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func tracked(t time.Time, lat, lon float64, leg int, markDist float64) core.TrackedSample {
	return core.TrackedSample{
		PositionSample: core.PositionSample{Time: t, Lat: lat, Lon: lon},
		LegIndex:       leg,
		MarkDistance:   markDist,
	}
}

func testCourse() *core.Course {
	return &core.Course{
		RaceID: "test",
		Marks: []core.CompoundMark{
			{ID: 1, Name: "M1", SeqID: 1, Marks: []core.Mark{{Name: "M1", Lat: 0.01, Lon: 0}}},
			{ID: 2, Name: "M2", SeqID: 2, Marks: []core.Mark{{Name: "M2", Lat: 0.02, Lon: 0}}},
			{ID: 3, Name: "M3", SeqID: 3, Marks: []core.Mark{{Name: "M3", Lat: 0.03, Lon: 0}}},
		},
	}
}

func TestIdentifyLeader_DistanceBreaksLegTie(t *testing.T) {
	streams := map[string][]core.TrackedSample{
		"A": {tracked(ts(10), 0.001, 0, 2, 50)},
		"B": {tracked(ts(10), 0.002, 0, 2, 10)},
	}

	records := IdentifyLeader(streams)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].BoatID != "B" {
		t.Errorf("expected B to lead on smaller mark distance, got %s", records[0].BoatID)
	}
}

func TestIdentifyLeader_HigherLegWinsOutright(t *testing.T) {
	streams := map[string][]core.TrackedSample{
		"A": {tracked(ts(10), 0.001, 0, 3, 900)},
		"B": {tracked(ts(10), 0.002, 0, 2, 1)},
	}

	records := IdentifyLeader(streams)
	if records[0].BoatID != "A" {
		t.Errorf("expected A to lead on higher leg index, got %s", records[0].BoatID)
	}
	if records[0].LegIndex != 3 {
		t.Errorf("expected leader leg 3, got %d", records[0].LegIndex)
	}
}

func TestIdentifyLeader_UnionOfTimestampsExactMatchOnly(t *testing.T) {
	// A is sampled at 10 and 20, B only at 15. No interpolation: each
	// timestamp considers only boats with an exact-match sample.
	streams := map[string][]core.TrackedSample{
		"A": {
			tracked(ts(10), 0.001, 0, 1, 100),
			tracked(ts(20), 0.002, 0, 1, 80),
		},
		"B": {tracked(ts(15), 0.003, 0, 2, 500)},
	}

	records := IdentifyLeader(streams)
	if len(records) != 3 {
		t.Fatalf("expected 3 records (union of timestamps), got %d", len(records))
	}

	want := []struct {
		sec    int64
		boatID string
	}{
		{10, "A"}, {15, "B"}, {20, "A"},
	}
	for i, w := range want {
		if !records[i].Time.Equal(ts(w.sec)) {
			t.Errorf("record %d: expected time %d, got %v", i, w.sec, records[i].Time)
		}
		if records[i].BoatID != w.boatID {
			t.Errorf("record %d: expected boat %s, got %s", i, w.boatID, records[i].BoatID)
		}
	}
}

func TestIdentifyLeader_EmptyInput(t *testing.T) {
	if records := IdentifyLeader(nil); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestCalculateDTL_SameLegUsesDirectDistance(t *testing.T) {
	c := testCourse()
	leaders := []core.LeaderRecord{
		{Time: ts(10), BoatID: "L", Position: core.LatLon{Lat: 0.005, Lon: 0}, LegIndex: 1},
	}
	subject := []core.TrackedSample{tracked(ts(10), 0.004, 0, 1, 1800)}

	records := CalculateDTL(subject, leaders, c)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Direct != records[0].CourseAdjusted {
		t.Errorf("same leg: course-adjusted %f must equal direct %f",
			records[0].CourseAdjusted, records[0].Direct)
	}
	if records[0].LegsBehind != 0 {
		t.Errorf("expected 0 legs behind, got %d", records[0].LegsBehind)
	}
}

func TestCalculateDTL_DifferentLegSumsViaSubjectNextMark(t *testing.T) {
	c := testCourse()
	leaderPos := core.LatLon{Lat: 0.025, Lon: 0}
	leaders := []core.LeaderRecord{
		{Time: ts(10), BoatID: "L", Position: leaderPos, LegIndex: 2},
	}
	// subject on leg 1, its next mark is M2 at lat 0.02
	subject := []core.TrackedSample{tracked(ts(10), 0.015, 0, 1, 0)}

	records := CalculateDTL(subject, leaders, c)
	got := records[0]

	if got.LegsBehind != 1 {
		t.Errorf("expected 1 leg behind, got %d", got.LegsBehind)
	}
	// distances: subject->M2 is ~0.005deg, leader->M2 is ~0.005deg
	if got.CourseAdjusted <= got.Direct {
		t.Errorf("course-adjusted %f should exceed direct %f here",
			got.CourseAdjusted, got.Direct)
	}
	wantApprox := 2 * 0.005 * 111195 // both gaps to M2, in meters
	if got.CourseAdjusted < wantApprox*0.98 || got.CourseAdjusted > wantApprox*1.02 {
		t.Errorf("course-adjusted %f not near expected %f", got.CourseAdjusted, wantApprox)
	}
}

func TestCalculateDTL_SelfReferenceZeroed(t *testing.T) {
	c := testCourse()
	pos := core.LatLon{Lat: 0.015, Lon: 0}
	leaders := []core.LeaderRecord{
		// leg index disagrees with the subject's, which would otherwise
		// produce a spurious non-zero gap
		{Time: ts(10), BoatID: "L", Position: pos, LegIndex: 2},
	}
	subject := []core.TrackedSample{tracked(ts(10), pos.Lat, pos.Lon, 1, 500)}

	records := CalculateDTL(subject, leaders, c)
	got := records[0]
	if got.CourseAdjusted != 0 {
		t.Errorf("expected course-adjusted 0 for self reference, got %f", got.CourseAdjusted)
	}
	if got.LegsBehind != 0 {
		t.Errorf("expected 0 legs behind for self reference, got %d", got.LegsBehind)
	}
}

func TestCalculateDTL_NegativeLegsBehindSurfaced(t *testing.T) {
	c := testCourse()
	leaders := []core.LeaderRecord{
		{Time: ts(10), BoatID: "L", Position: core.LatLon{Lat: 0.005, Lon: 0}, LegIndex: 1},
	}
	// subject ahead of the nominal leader: data anomaly, not clamped
	subject := []core.TrackedSample{tracked(ts(12), 0.025, 0, 2, 500)}

	records := CalculateDTL(subject, leaders, c)
	if records[0].LegsBehind != -1 {
		t.Errorf("expected -1 legs behind, got %d", records[0].LegsBehind)
	}
}

func TestCalculateDTL_NearestBelowLeaderLookup(t *testing.T) {
	c := testCourse()
	leaders := []core.LeaderRecord{
		{Time: ts(10), BoatID: "L1", Position: core.LatLon{Lat: 0.005, Lon: 0}, LegIndex: 1},
		{Time: ts(20), BoatID: "L2", Position: core.LatLon{Lat: 0.015, Lon: 0}, LegIndex: 1},
	}
	// sample at t=15 must use the t=10 record, not t=20
	subject := []core.TrackedSample{tracked(ts(15), 0.005, 0, 1, 500)}

	records := CalculateDTL(subject, leaders, c)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Direct != 0 {
		t.Errorf("expected direct 0 against the t=10 leader position, got %f", records[0].Direct)
	}
}

func TestCalculateDTL_SampleBeforeLeaderStreamSkipped(t *testing.T) {
	c := testCourse()
	leaders := []core.LeaderRecord{
		{Time: ts(100), BoatID: "L", Position: core.LatLon{}, LegIndex: 0},
	}
	subject := []core.TrackedSample{tracked(ts(5), 0, 0, 0, 100)}

	if records := CalculateDTL(subject, leaders, c); len(records) != 0 {
		t.Errorf("expected sample before leader stream to be skipped, got %d records", len(records))
	}
}
