package race

import (
	"sort"
	"time"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// selfDistanceMeters is the direct distance below which a subject sharing
// the leader's exact timestamp is treated as being the leader itself.
const selfDistanceMeters = 1.0

// CalculateDTL computes the distance-to-leader series for one boat against
// the fleet leader stream. Both inputs must be sorted by timestamp.
//
// For each subject sample the leader record at or immediately preceding
// the sample's timestamp is used; samples before the first leader record
// are skipped. The course-adjusted distance sums the subject's distance to
// its own next mark and the leader's distance to that same mark. This
// deliberately mirrors the historical model, including its asymmetry:
// the leader's distance is measured to the subject's target, not its own.
// Changing it would be a semantic break for downstream consumers.
func CalculateDTL(subject []core.TrackedSample, leaders []core.LeaderRecord, c *core.Course) []core.DTLRecord {
	records := make([]core.DTLRecord, 0, len(subject))

	for _, s := range subject {
		idx := leaderAtOrBefore(leaders, s.Time)
		if idx < 0 {
			continue
		}
		leader := leaders[idx]

		boatPos := s.Position()
		direct := geo.Haversine(boatPos, leader.Position)

		legsBehind := leader.LegIndex - s.LegIndex
		courseAdjusted := direct
		if s.LegIndex != leader.LegIndex && s.LegIndex < c.Len() {
			nextMark := c.Marks[s.LegIndex].Marks[0].Position()
			distToNext := geo.Haversine(boatPos, nextMark)
			leaderDistToNext := geo.Haversine(leader.Position, nextMark)
			courseAdjusted = distToNext + leaderDistToNext
		}

		// subject effectively is the leader at this instant
		if s.Time.Equal(leader.Time) && direct < selfDistanceMeters {
			courseAdjusted = 0
			legsBehind = 0
		}

		records = append(records, core.DTLRecord{
			Time:           s.Time,
			Direct:         direct,
			CourseAdjusted: courseAdjusted,
			LegsBehind:     legsBehind,
		})
	}
	return records
}

// leaderAtOrBefore returns the index of the last leader record with a
// timestamp <= t, or -1 when t precedes the whole stream.
func leaderAtOrBefore(leaders []core.LeaderRecord, t time.Time) int {
	n := sort.Search(len(leaders), func(i int) bool {
		return leaders[i].Time.After(t)
	})
	return n - 1
}
