// internal/model/core/types.go
package core

// LatLon is a WGS84 coordinate pair in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoundingDirection tells on which side a compound mark must be left.
// The values come straight from the race definition XML ("Port", "Stbd",
// "SP" for gates that may be taken either way).
type RoundingDirection string

// Boundary is a course limit polygon. Boundaries are presentation data:
// the tracker never consults them, but they are carried through to the
// storage backends so map renderers can draw them.
type Boundary struct {
	Name    string   `json:"name"`
	Points  []LatLon `json:"points"`
	Color   string   `json:"color"`
	Fill    bool     `json:"fill"`
	Opacity float64  `json:"opacity"`
}
