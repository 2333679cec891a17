// Package race implements the fleet-wide analysis over already-tracked
// streams: leader identification across the union of all boats' timestamps
// and distance-to-leader calculation per boat.
package race

import (
	"sort"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// IdentifyLeader selects the leading boat at every distinct timestamp in
// the union of all boats' tracked streams.
//
// The join is exact-timestamp only: a boat without a sample at t is
// excluded from consideration at t, never carried forward. Boats sampled
// at different rates therefore thin out the candidate set; resampling onto
// a common clock is the ingestion collaborator's job. Timestamps where no
// boat has a sample produce no record.
//
// At each timestamp the winner is the boat with the highest mark index,
// ties broken by the smaller distance to its next mark, then by boat id
// for determinism. Streams must be time-ordered per boat; the union is
// walked as a multi-way merge.
func IdentifyLeader(streams map[string][]core.TrackedSample) []core.LeaderRecord {
	boatIDs := make([]string, 0, len(streams))
	for id := range streams {
		boatIDs = append(boatIDs, id)
	}
	sort.Strings(boatIDs)

	cursors := make(map[string]int, len(streams))
	var records []core.LeaderRecord

	for {
		// next timestamp across all remaining streams
		var next *core.TrackedSample
		for _, id := range boatIDs {
			i := cursors[id]
			if i >= len(streams[id]) {
				continue
			}
			s := &streams[id][i]
			if next == nil || s.Time.Before(next.Time) {
				next = s
			}
		}
		if next == nil {
			return records
		}

		var leaderID string
		var leader core.TrackedSample
		for _, id := range boatIDs {
			i := cursors[id]
			if i >= len(streams[id]) || !streams[id][i].Time.Equal(next.Time) {
				continue
			}
			candidate := streams[id][i]
			cursors[id] = i + 1

			if leaderID == "" || leads(candidate, leader) {
				leaderID = id
				leader = candidate
			}
		}

		records = append(records, core.LeaderRecord{
			Time:     leader.Time,
			BoatID:   leaderID,
			Position: leader.Position(),
			LegIndex: leader.LegIndex,
		})
	}
}

// leads reports whether candidate a beats current leader b: a higher mark
// index wins outright, a smaller distance to the next mark breaks ties.
func leads(a, b core.TrackedSample) bool {
	if a.LegIndex != b.LegIndex {
		return a.LegIndex > b.LegIndex
	}
	return a.MarkDistance < b.MarkDistance
}
