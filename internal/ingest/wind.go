package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// Wind CSV column names.
const (
	colDateTime = "DATETIME"
	colMark     = "MARK"
	colTWD      = "TWD_deg"
	colTWS      = "TWS_km_h_1"
)

type windReading struct {
	mark string
	twd  float64
	tws  float64
}

// AttachWind reads mark wind readings from a CSV file and attaches the mean
// TWD/TWS per mark to the course. Readings before the race start are
// dropped. Marks without readings get 0.0 for both values. Wind directions
// are averaged circularly.
func AttachWind(c *core.Course, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open wind file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read wind file: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("wind file is empty")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	for _, required := range []string{colDateTime, colMark, colTWD, colTWS} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("wind data missing required column %s", required)
		}
	}

	var readings []windReading
	for i, row := range rows[1:] {
		ts, err := parseWindTime(row[cols[colDateTime]])
		if err != nil {
			return fmt.Errorf("wind row %d: %w", i+1, err)
		}
		if ts.Before(c.StartTime) {
			continue
		}

		twd, err := strconv.ParseFloat(row[cols[colTWD]], 64)
		if err != nil {
			return fmt.Errorf("wind row %d: bad TWD %q", i+1, row[cols[colTWD]])
		}
		tws, err := strconv.ParseFloat(row[cols[colTWS]], 64)
		if err != nil {
			return fmt.Errorf("wind row %d: bad TWS %q", i+1, row[cols[colTWS]])
		}

		readings = append(readings, windReading{
			mark: row[cols[colMark]],
			twd:  twd,
			tws:  tws,
		})
	}

	for ci := range c.Marks {
		for mi := range c.Marks[ci].Marks {
			mark := &c.Marks[ci].Marks[mi]

			var twds, twss []float64
			for _, reading := range readings {
				if reading.mark == mark.Name {
					twds = append(twds, reading.twd)
					twss = append(twss, reading.tws)
				}
			}

			if len(twds) == 0 {
				zero := 0.0
				mark.TWD = &zero
				tws := 0.0
				mark.TWS = &tws
				continue
			}

			twd := geo.CompassAverage(twds, float64(len(twds)), 1)[0]
			mark.TWD = &twd

			var sum float64
			for _, v := range twss {
				sum += v
			}
			tws := sum / float64(len(twss))
			mark.TWS = &tws
		}
	}

	return nil
}

// parseWindTime accepts RFC3339 timestamps or plain "2006-01-02 15:04:05"
// (interpreted as UTC).
func parseWindTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q", s)
	}
	return ts.UTC(), nil
}
