// Package geo provides the geodesy primitives used by the race tracking
// core: great-circle distance and bearing, bearing-ray intersection and
// GPS jump filtering. All angles are degrees, all distances meters.
package geo

import (
	"errors"
	"math"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// EarthRadiusMeters is the mean Earth radius used for all spherical math.
const EarthRadiusMeters = 6371000.0

// ErrNoIntersection is returned when two bearing rays do not meet: the
// origins coincide, the rays are parallel/antiparallel, or the crossing
// point lies behind one of the origins.
var ErrNoIntersection = errors.New("bearing rays do not intersect")

// Haversine returns the great-circle distance between two points in meters.
func Haversine(p1, p2 core.LatLon) float64 {
	lat1 := radians(p1.Lat)
	lat2 := radians(p2.Lat)
	dLat := radians(p2.Lat - p1.Lat)
	dLon := radians(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// InitialBearing returns the forward azimuth from p1 to p2 in degrees
// [0,360). It uses the spherical model; against a WGS84 geodesic the error
// stays below 0.3% at racecourse scales (tens of kilometers).
func InitialBearing(p1, p2 core.LatLon) float64 {
	lat1 := radians(p1.Lat)
	lat2 := radians(p2.Lat)
	dLon := radians(p2.Lon - p1.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// Intersection solves for the point where two bearing rays cross on the
// sphere. It returns ErrNoIntersection for degenerate geometry instead of
// panicking; arccos arguments are clamped against floating error.
func Intersection(p1 core.LatLon, bearing1 float64, p2 core.LatLon, bearing2 float64) (core.LatLon, error) {
	lat1 := radians(p1.Lat)
	lon1 := radians(p1.Lon)
	lat2 := radians(p2.Lat)
	brng1 := radians(bearing1)
	brng2 := radians(bearing2)

	dLat := lat2 - lat1
	dLon := radians(p2.Lon - p1.Lon)

	dist12 := 2 * math.Asin(math.Sqrt(
		math.Sin(dLat/2)*math.Sin(dLat/2)+
			math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)))
	if dist12 == 0 {
		return core.LatLon{}, ErrNoIntersection
	}

	// initial and final bearings between the two origins
	brngA := math.Acos(clamp((math.Sin(lat2) - math.Sin(lat1)*math.Cos(dist12)) /
		(math.Sin(dist12) * math.Cos(lat1))))
	brngB := math.Acos(clamp((math.Sin(lat1) - math.Sin(lat2)*math.Cos(dist12)) /
		(math.Sin(dist12) * math.Cos(lat2))))

	var brng12, brng21 float64
	if math.Sin(dLon) > 0 {
		brng12 = brngA
		brng21 = 2*math.Pi - brngB
	} else {
		brng12 = 2*math.Pi - brngA
		brng21 = brngB
	}

	alpha1 := math.Mod(brng1-brng12+math.Pi, 2*math.Pi) - math.Pi
	alpha2 := math.Mod(brng21-brng2+math.Pi, 2*math.Pi) - math.Pi

	if math.Sin(alpha1) == 0 && math.Sin(alpha2) == 0 {
		// rays are parallel or antiparallel
		return core.LatLon{}, ErrNoIntersection
	}
	if math.Sin(alpha1)*math.Sin(alpha2) < 0 {
		// crossing point lies behind one of the origins
		return core.LatLon{}, ErrNoIntersection
	}

	alpha3 := math.Acos(clamp(-math.Cos(alpha1)*math.Cos(alpha2) +
		math.Sin(alpha1)*math.Sin(alpha2)*math.Cos(dist12)))
	dist13 := math.Atan2(
		math.Sin(dist12)*math.Sin(alpha1)*math.Sin(alpha2),
		math.Cos(alpha2)+math.Cos(alpha1)*math.Cos(alpha3))
	lat3 := math.Asin(clamp(math.Sin(lat1)*math.Cos(dist13) +
		math.Cos(lat1)*math.Sin(dist13)*math.Cos(brng1)))
	dLon13 := math.Atan2(
		math.Sin(brng1)*math.Sin(dist13)*math.Cos(lat1),
		math.Cos(dist13)-math.Sin(lat1)*math.Sin(lat3))

	return core.LatLon{
		Lat: degrees(lat3),
		Lon: degrees(lon1 + dLon13),
	}, nil
}

// FilterJumps drops GPS glitches from a point series. The first point is
// always kept; every later point is kept only when its distance from the
// last kept point stays within maxJumpMeters. The filter is forward-only:
// a rejected point never becomes the jump reference.
func FilterJumps(points []core.LatLon, maxJumpMeters float64) []core.LatLon {
	if len(points) < 2 {
		return points
	}

	kept := make([]core.LatLon, 0, len(points))
	kept = append(kept, points[0])

	for _, p := range points[1:] {
		if Haversine(kept[len(kept)-1], p) <= maxJumpMeters {
			kept = append(kept, p)
		}
	}
	return kept
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// clamp keeps arccos arguments inside [-1,1] against floating error.
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
