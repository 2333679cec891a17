// internal/model/core/course.go
package core

import "time"

// Mark is a single physical mark of the race course. Wind readings are
// attached after course parsing and stay nil when no reading exists.
type Mark struct {
	Name  string   `json:"name" validate:"required"`
	Lat   float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lon   float64  `json:"lon" validate:"gte=-180,lte=180"`
	SeqID int      `json:"seqID"`
	TWD   *float64 `json:"twd,omitempty"` // true wind direction, degrees
	TWS   *float64 `json:"tws,omitempty"` // true wind speed, km/h
}

// Position returns the mark coordinates.
func (m Mark) Position() LatLon {
	return LatLon{Lat: m.Lat, Lon: m.Lon}
}

// CompoundMark is a course waypoint: a single turning mark (one Mark) or
// a gate (exactly two Marks). Immutable once the race starts.
type CompoundMark struct {
	ID       int               `json:"id"`
	Name     string            `json:"name" validate:"required"`
	SeqID    int               `json:"seqID"`
	Rounding RoundingDirection `json:"rounding"`
	ZoneSize float64           `json:"zoneSize"`
	Marks    []Mark            `json:"marks" validate:"min=1,max=2,dive"`
}

// IsGate reports whether the compound mark is a two-mark gate.
func (cm CompoundMark) IsGate() bool {
	return len(cm.Marks) == 2
}

// TWD returns the mean true wind direction over the contained marks.
// The second return is false when no mark carries a reading.
func (cm CompoundMark) TWD() (float64, bool) {
	return meanReading(cm.Marks, func(m Mark) *float64 { return m.TWD })
}

// TWS returns the mean true wind speed over the contained marks.
func (cm CompoundMark) TWS() (float64, bool) {
	return meanReading(cm.Marks, func(m Mark) *float64 { return m.TWS })
}

func meanReading(marks []Mark, get func(Mark) *float64) (float64, bool) {
	var sum float64
	var n int
	for _, m := range marks {
		if v := get(m); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Course is the ordered sequence of compound marks for one race,
// sorted by sequence id. Built once, read-only thereafter.
type Course struct {
	RaceID     string         `json:"raceID"`
	StartTime  time.Time      `json:"startTime"`
	Marks      []CompoundMark `json:"marks"`
	Boundaries []Boundary     `json:"boundaries,omitempty"`
}

// Len returns the number of compound marks on the course.
func (c *Course) Len() int {
	return len(c.Marks)
}
