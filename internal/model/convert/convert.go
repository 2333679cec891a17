// Package convert maps core domain records onto the gorm schema.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// RaceToModel converts a course into the race row, serializing boundary
// polygons as JSON.
func RaceToModel(c *core.Course) (model.Race, error) {
	boundaries, err := json.Marshal(c.Boundaries)
	if err != nil {
		return model.Race{}, fmt.Errorf("failed to serialize boundaries: %w", err)
	}
	return model.Race{
		RaceID:     c.RaceID,
		StartTime:  c.StartTime,
		Boundaries: boundaries,
	}, nil
}

// CourseMarksToModels flattens the compound marks of a course into mark
// rows and gate segment rows, projected to storage coordinates.
func CourseMarksToModels(c *core.Course, raceID uint) ([]model.CourseMark, []model.GateSegment) {
	var marks []model.CourseMark
	var gates []model.GateSegment

	for _, cm := range c.Marks {
		for _, m := range cm.Marks {
			marks = append(marks, model.CourseMark{
				RaceID:     raceID,
				CompoundID: cm.ID,
				Name:       m.Name,
				SeqID:      cm.SeqID,
				Rounding:   string(cm.Rounding),
				ZoneSize:   cm.ZoneSize,
				Gate:       cm.IsGate(),
				Location:   geo.PointToWebMercator(m.Position()),
				TWD:        m.TWD,
				TWS:        m.TWS,
			})
		}
		if cm.IsGate() {
			gates = append(gates, model.GateSegment{
				RaceID:     raceID,
				CompoundID: cm.ID,
				Name:       cm.Name,
				Line:       geo.GateLine(cm.Marks[0], cm.Marks[1]),
			})
		}
	}
	return marks, gates
}

// TrackPointFrom converts one annotated sample of one boat.
func TrackPointFrom(raceID uint, boatID string, s core.TrackedSample) model.TrackPoint {
	return model.TrackPoint{
		Time:         s.Time,
		RaceID:       raceID,
		BoatID:       boatID,
		Location:     geo.PointToWebMercator(s.Position()),
		Speed:        s.Speed,
		Heading:      s.Heading,
		VMC:          s.VMC,
		NextMark:     s.NextMark,
		LegIndex:     s.LegIndex,
		MarkDistance: s.MarkDistance,
		JumpRejected: s.JumpRejected,
	}
}

// LeaderPointFrom converts one leader record.
func LeaderPointFrom(raceID uint, r core.LeaderRecord) model.LeaderPoint {
	return model.LeaderPoint{
		Time:     r.Time,
		RaceID:   raceID,
		BoatID:   r.BoatID,
		Location: geo.PointToWebMercator(r.Position),
		LegIndex: r.LegIndex,
	}
}

// DTLPointFrom converts one distance-to-leader record of one boat.
func DTLPointFrom(raceID uint, boatID string, r core.DTLRecord) model.DTLPoint {
	return model.DTLPoint{
		Time:           r.Time,
		RaceID:         raceID,
		BoatID:         boatID,
		Direct:         r.Direct,
		CourseAdjusted: r.CourseAdjusted,
		LegsBehind:     r.LegsBehind,
	}
}
