// internal/model/core/track.go
package core

import "time"

// PositionSample is one telemetry record of one boat. Samples of a boat
// must be time-ordered and normalized to UTC before they enter the tracker.
type PositionSample struct {
	Time    time.Time `json:"time"`
	Lat     float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64   `json:"lon" validate:"gte=-180,lte=180"`
	Speed   float64   `json:"speed"`   // speed over ground, km/h
	Heading float64   `json:"heading"` // degrees true
}

// Position returns the sample coordinates.
func (s PositionSample) Position() LatLon {
	return LatLon{Lat: s.Lat, Lon: s.Lon}
}

// TrackedSample is a PositionSample annotated by the mark-progression
// tracker. NextMark is "FINISHED" once the boat has rounded the last mark.
type TrackedSample struct {
	PositionSample
	NextMark     string  `json:"nextMark"`
	MarkDistance float64 `json:"markDistance"` // meters to the next target mark
	LegIndex     int     `json:"legIndex"`     // 0-based compound mark index
	VMC          float64 `json:"vmc"`          // velocity made good on course, km/h
	JumpRejected bool    `json:"jumpRejected"` // GPS glitch, excluded from rounding detection
}

// LeaderRecord names the fleet leader at one timestamp.
type LeaderRecord struct {
	Time     time.Time `json:"time"`
	BoatID   string    `json:"boatID"`
	Position LatLon    `json:"position"`
	LegIndex int       `json:"legIndex"`
}

// DTLRecord is one distance-to-leader measurement for one boat.
// LegsBehind may be negative when the subject is ahead of the nominal
// leader; callers must not assume it is clamped.
type DTLRecord struct {
	Time           time.Time `json:"time"`
	Direct         float64   `json:"direct"`         // meters, straight line
	CourseAdjusted float64   `json:"courseAdjusted"` // meters, via the subject's next mark
	LegsBehind     int       `json:"legsBehind"`
}
