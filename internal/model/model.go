// Package model holds the database schema for persisted race analysis
// results. Geometry is stored as EPSG:3857 (see internal/geo); boundary
// polygons travel as JSON payloads so SQLite can hold them too.
package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every struct that represents a table in the schema.
var DatabaseModels = []interface{}{
	&Race{},
	&CourseMark{},
	&GateSegment{},
	&TrackPoint{},
	&LeaderPoint{},
	&DTLPoint{},
}

// Race is one recorded race with its course metadata.
type Race struct {
	gorm.Model
	RaceID     string         `json:"raceID" gorm:"size:64;uniqueIndex"`
	StartTime  time.Time      `json:"startTime" gorm:"type:timestamptz"`
	Boundaries datatypes.JSON `json:"boundaries"`
}

func (*Race) TableName() string {
	return "races"
}

// CourseMark is one physical mark of a course.
type CourseMark struct {
	gorm.Model
	RaceID     uint       `json:"raceID" gorm:"index:idx_coursemark_race_id"`
	Race       Race       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RaceID;"`
	CompoundID int        `json:"compoundID"`
	Name       string     `json:"name" gorm:"size:32"`
	SeqID      int        `json:"seqID"`
	Rounding   string     `json:"rounding" gorm:"size:8"`
	ZoneSize   float64    `json:"zoneSize"`
	Gate       bool       `json:"gate"`
	Location   geom.Point `json:"location"`
	TWD        *float64   `json:"twd"`
	TWS        *float64   `json:"tws"`
}

func (*CourseMark) TableName() string {
	return "course_marks"
}

// GateSegment is the line between the two marks of a gate, stored for map
// rendering.
type GateSegment struct {
	gorm.Model
	RaceID     uint            `json:"raceID" gorm:"index:idx_gatesegment_race_id"`
	Race       Race            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RaceID;"`
	CompoundID int             `json:"compoundID"`
	Name       string          `json:"name" gorm:"size:32"`
	Line       geom.LineString `json:"line"`
}

func (*GateSegment) TableName() string {
	return "gate_segments"
}

// TrackPoint is one annotated position sample of one boat.
type TrackPoint struct {
	Time         time.Time  `json:"time" gorm:"type:timestamptz;index:idx_trackpoint_time"`
	RaceID       uint       `json:"raceID" gorm:"index:idx_trackpoint_race_id"`
	BoatID       string     `json:"boatID" gorm:"size:16;index:idx_trackpoint_boat_id"`
	Location     geom.Point `json:"location"`
	Speed        float64    `json:"speed"`
	Heading      float64    `json:"heading"`
	VMC          float64    `json:"vmc"`
	NextMark     string     `json:"nextMark" gorm:"size:32"`
	LegIndex     int        `json:"legIndex"`
	MarkDistance float64    `json:"markDistance"`
	JumpRejected bool       `json:"jumpRejected"`
}

func (*TrackPoint) TableName() string {
	return "track_points"
}

// LeaderPoint is one fleet-leader record.
type LeaderPoint struct {
	Time     time.Time  `json:"time" gorm:"type:timestamptz;index:idx_leaderpoint_time"`
	RaceID   uint       `json:"raceID" gorm:"index:idx_leaderpoint_race_id"`
	BoatID   string     `json:"boatID" gorm:"size:16"`
	Location geom.Point `json:"location"`
	LegIndex int        `json:"legIndex"`
}

func (*LeaderPoint) TableName() string {
	return "leader_points"
}

// DTLPoint is one distance-to-leader record of one boat.
type DTLPoint struct {
	Time           time.Time `json:"time" gorm:"type:timestamptz;index:idx_dtlpoint_time"`
	RaceID         uint      `json:"raceID" gorm:"index:idx_dtlpoint_race_id"`
	BoatID         string    `json:"boatID" gorm:"size:16;index:idx_dtlpoint_boat_id"`
	Direct         float64   `json:"direct"`
	CourseAdjusted float64   `json:"courseAdjusted"`
	LegsBehind     int       `json:"legsBehind"`
}

func (*DTLPoint) TableName() string {
	return "dtl_points"
}
