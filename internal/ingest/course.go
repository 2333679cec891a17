// Package ingest loads race input data: the race-definition XML, wind
// readings, and per-boat position streams. Everything leaves this package
// time-normalized to UTC.
package ingest

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/kairichard/SGP-Data-Challenge/internal/course"
	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// raceXML mirrors the race-definition XML document.
type raceXML struct {
	RaceStartTime struct {
		Start string `xml:"Start,attr"`
	} `xml:"RaceStartTime"`
	RaceID string `xml:"RaceID"`
	Course struct {
		CompoundMarks []compoundMarkXML `xml:"CompoundMark"`
	} `xml:"Course"`
	CompoundMarkSequence struct {
		Corners []cornerXML `xml:"Corner"`
	} `xml:"CompoundMarkSequence"`
	CourseLimits []courseLimitXML `xml:"CourseLimit"`
}

type compoundMarkXML struct {
	CompoundMarkID int       `xml:"CompoundMarkID,attr"`
	Name           string    `xml:"Name,attr"`
	Marks          []markXML `xml:"Mark"`
}

type markXML struct {
	Name      string  `xml:"Name,attr"`
	TargetLat float64 `xml:"TargetLat,attr"`
	TargetLng float64 `xml:"TargetLng,attr"`
	SeqID     int     `xml:"SeqID,attr"`
}

type cornerXML struct {
	CompoundMarkID int    `xml:"CompoundMarkID,attr"`
	Rounding       string `xml:"Rounding,attr"`
	SeqID          int    `xml:"SeqID,attr"`
}

type courseLimitXML struct {
	Name   string     `xml:"name,attr"`
	Colour string     `xml:"colour,attr"`
	Fill   string     `xml:"fill,attr"`
	Limits []limitXML `xml:"Limit"`
}

type limitXML struct {
	Lat float64 `xml:"Lat,attr"`
	Lon float64 `xml:"Lon,attr"`
}

// LoadCourse parses a race-definition XML file into a validated course.
// Only compound marks referenced by the sequence become part of the course.
func LoadCourse(path string) (*core.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read course file: %w", err)
	}
	return ParseCourse(data)
}

// ParseCourse parses race-definition XML bytes into a validated course.
func ParseCourse(data []byte) (*core.Course, error) {
	var doc raceXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse course XML: %w", err)
	}

	startTime, err := time.Parse(time.RFC3339, doc.RaceStartTime.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse race start time %q: %w", doc.RaceStartTime.Start, err)
	}

	byID := make(map[int]compoundMarkXML, len(doc.Course.CompoundMarks))
	for _, cm := range doc.Course.CompoundMarks {
		byID[cm.CompoundMarkID] = cm
	}

	var marks []core.CompoundMark
	for _, corner := range doc.CompoundMarkSequence.Corners {
		cm, ok := byID[corner.CompoundMarkID]
		if !ok {
			return nil, fmt.Errorf("sequence references unknown compound mark %d", corner.CompoundMarkID)
		}

		var cmMarks []core.Mark
		for _, m := range cm.Marks {
			cmMarks = append(cmMarks, core.Mark{
				Name:  m.Name,
				Lat:   m.TargetLat,
				Lon:   m.TargetLng,
				SeqID: m.SeqID,
			})
		}

		marks = append(marks, core.CompoundMark{
			ID:       cm.CompoundMarkID,
			Name:     cm.Name,
			SeqID:    corner.SeqID,
			Rounding: core.RoundingDirection(corner.Rounding),
			Marks:    cmMarks,
		})
	}

	var boundaries []core.Boundary
	for _, limit := range doc.CourseLimits {
		if len(limit.Limits) == 0 {
			continue
		}

		points := make([]core.LatLon, 0, len(limit.Limits))
		for _, p := range limit.Limits {
			points = append(points, core.LatLon{Lat: p.Lat, Lon: p.Lon})
		}

		boundary := core.Boundary{
			Name:    boundaryName(limit.Name),
			Points:  points,
			Color:   boundaryColor(limit.Colour),
			Fill:    limit.Fill != "0",
			Opacity: boundaryOpacity(limit.Fill),
		}
		// reject degenerate rings before they reach the storage layer
		if _, err := geo.BoundaryPolygon(boundary); err != nil {
			return nil, fmt.Errorf("invalid course boundary: %w", err)
		}
		boundaries = append(boundaries, boundary)
	}

	return course.New(doc.RaceID, startTime.UTC(), marks, boundaries)
}

func boundaryName(name string) string {
	if name == "" {
		return "Boundary"
	}
	return name
}

// boundaryColor converts the XML's AARRGGBB colour to an #RRGGBB string,
// dropping the leading alpha byte.
func boundaryColor(colour string) string {
	if len(colour) != 8 {
		colour = "000000FF"
	}
	return "#" + colour[2:]
}

func boundaryOpacity(fill string) float64 {
	if fill == "0" {
		return 0.1
	}
	return 0.4
}
