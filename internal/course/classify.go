package course

import (
	"math"
	"strings"

	"github.com/kairichard/SGP-Data-Challenge/internal/geo"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// LegType classifies a leg relative to the wind.
type LegType string

const (
	Upwind   LegType = "upwind"
	Downwind LegType = "downwind"
	Reaching LegType = "reaching"
)

// ClassifyLeg assigns a LegType to the leg from startMark to endMark.
//
// The fixed course template decides first: start line to first mark is
// always upwind, first mark to a leeward gate downwind, leeward to windward
// gate upwind, windward to leeward gate downwind. Legs outside the template
// are classified by the wind angle relative to the leg bearing.
func ClassifyLeg(startMark, endMark core.CompoundMark, windDirection float64) LegType {
	switch {
	case startMark.Name == "SL1" && endMark.Name == "M1":
		return Upwind
	case startMark.Name == "M1" && strings.HasPrefix(endMark.Name, "LG"):
		return Downwind
	case strings.HasPrefix(startMark.Name, "LG") && strings.HasPrefix(endMark.Name, "WG"):
		return Upwind
	case strings.HasPrefix(startMark.Name, "WG") && strings.HasPrefix(endMark.Name, "LG"):
		return Downwind
	}

	legBearing := geo.InitialBearing(startMark.Marks[0].Position(), endMark.Marks[0].Position())
	relativeWind := math.Mod(math.Mod(windDirection-legBearing, 360)+360, 360)

	switch {
	case relativeWind <= 90 || relativeWind >= 270:
		return Upwind
	case relativeWind >= 150 && relativeWind <= 210:
		return Downwind
	default:
		return Reaching
	}
}
