package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// LoadBoatStreams reads every *.jsonl file in dir as one boat's position
// stream. The boat ID is the last underscore-separated part of the file
// name (data_GER.jsonl -> GER). Samples come back time-sorted with
// timestamps normalized to UTC.
func LoadBoatStreams(dir string) (map[string][]core.PositionSample, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list boat files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no boat files found in %s", dir)
	}

	streams := make(map[string][]core.PositionSample, len(paths))
	for _, path := range paths {
		samples, err := LoadBoatStream(path)
		if err != nil {
			return nil, err
		}
		streams[BoatIDFromFilename(path)] = samples
	}
	return streams, nil
}

// LoadBoatStream reads one JSON-lines boat file.
func LoadBoatStream(path string) ([]core.PositionSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boat file: %w", err)
	}
	defer f.Close()

	var samples []core.PositionSample

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var s core.PositionSample
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		s.Time = s.Time.UTC()
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read boat file: %w", err)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	return samples, nil
}

// BoatIDFromFilename extracts the boat identifier from a boat file path:
// the last underscore-separated part of the base name without extension.
func BoatIDFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(base, "_")
	return parts[len(parts)-1]
}
