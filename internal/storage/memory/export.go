package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// RaceExport is the root JSON structure written on EndRace.
type RaceExport struct {
	RaceID    string                 `json:"raceID"`
	StartTime string                 `json:"startTime"`
	Course    []CompoundMarkJSON     `json:"course"`
	Boats     map[string]*BoatRecord `json:"boats"`
	Leaders   []core.LeaderRecord    `json:"leaders"`
}

// CompoundMarkJSON flattens a compound mark for the export payload.
type CompoundMarkJSON struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	SeqID    int         `json:"seqID"`
	Rounding string      `json:"rounding"`
	ZoneSize float64     `json:"zoneSize"`
	Gate     bool        `json:"gate"`
	Marks    []core.Mark `json:"marks"`
}

// exportJSON writes the race data to a JSON file, gzipped when configured.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	raceID := strings.ReplaceAll(export.RaceID, " ", "_")
	raceID = strings.ReplaceAll(raceID, ":", "_")
	timestamp := "00000000_000000"
	if b.course != nil {
		timestamp = b.course.StartTime.Format("20060102_150405")
	}

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("race_%s_%s.json.gz", raceID, timestamp)
	} else {
		filename = fmt.Sprintf("race_%s_%s.json", raceID, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() RaceExport {
	export := RaceExport{
		Course:  make([]CompoundMarkJSON, 0),
		Boats:   b.boats,
		Leaders: b.leaders,
	}
	if export.Boats == nil {
		export.Boats = make(map[string]*BoatRecord)
	}
	if export.Leaders == nil {
		export.Leaders = make([]core.LeaderRecord, 0)
	}

	if b.course != nil {
		export.RaceID = b.course.RaceID
		export.StartTime = b.course.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		for _, cm := range b.course.Marks {
			export.Course = append(export.Course, CompoundMarkJSON{
				ID:       cm.ID,
				Name:     cm.Name,
				SeqID:    cm.SeqID,
				Rounding: string(cm.Rounding),
				ZoneSize: cm.ZoneSize,
				Gate:     cm.IsGate(),
				Marks:    cm.Marks,
			})
		}
	}

	return export
}

func (b *Backend) writeJSON(path string, data RaceExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data RaceExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
