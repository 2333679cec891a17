// Package course builds and validates the race course model and provides
// the course-level utilities the tracker and route analysis consume:
// next-target selection for gates and leg classification.
package course

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// DefaultZoneSize is the rounding zone radius assigned when the race
// definition does not carry one.
const DefaultZoneSize = 50.0

// ErrMalformedCompoundMark is returned when a compound mark carries other
// than 1 or 2 marks. This is a fatal precondition violation at course
// construction time; the tracker never tolerates it mid-stream.
var ErrMalformedCompoundMark = errors.New("compound mark must contain 1 or 2 marks")

// ErrEmptyCourse is returned when a course has no compound marks.
var ErrEmptyCourse = errors.New("course has no compound marks")

var validate = validator.New()

// New builds a validated, sequence-ordered Course. The input slice is not
// mutated; marks are copied and sorted by sequence id.
func New(raceID string, startTime time.Time, marks []core.CompoundMark, boundaries []core.Boundary) (*core.Course, error) {
	if len(marks) == 0 {
		return nil, ErrEmptyCourse
	}

	ordered := make([]core.CompoundMark, len(marks))
	copy(ordered, marks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SeqID < ordered[j].SeqID
	})

	for i := range ordered {
		if n := len(ordered[i].Marks); n < 1 || n > 2 {
			return nil, fmt.Errorf("compound mark %q has %d marks: %w",
				ordered[i].Name, n, ErrMalformedCompoundMark)
		}
		if ordered[i].ZoneSize <= 0 {
			ordered[i].ZoneSize = DefaultZoneSize
		}
		if err := validate.Struct(ordered[i]); err != nil {
			return nil, fmt.Errorf("compound mark %q failed validation: %w", ordered[i].Name, err)
		}
	}

	return &core.Course{
		RaceID:     raceID,
		StartTime:  startTime,
		Marks:      ordered,
		Boundaries: boundaries,
	}, nil
}

// NextTarget returns the specific mark to aim for within a compound mark.
// For gates the mark with the smaller bearing from the current position is
// chosen; single marks are returned as-is.
func NextTarget(pos core.LatLon, cm core.CompoundMark) core.Mark {
	if !cm.IsGate() {
		return cm.Marks[0]
	}

	bearing1 := geo.InitialBearing(pos, cm.Marks[0].Position())
	bearing2 := geo.InitialBearing(pos, cm.Marks[1].Position())
	if bearing1 < bearing2 {
		return cm.Marks[0]
	}
	return cm.Marks[1]
}
