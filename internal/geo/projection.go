package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// Stored geometry is always EPSG:3857. SQLite has no spatial awareness, so
// points are kept in a projection map renderers consume directly; the WKB
// representation round-trips through the model layer's Scan/Value.

// PointToWebMercator projects a WGS84 coordinate to an EPSG:3857 point.
func PointToWebMercator(p core.LatLon) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(p.Lon, p.Lat, 0)
	return geom.NewPoint(geom.Coordinates{
		XY: geom.XY{X: x, Y: y},
	})
}

// GateLine builds the EPSG:3857 line segment between the two marks of a
// gate. The caller guarantees the compound mark is a gate.
func GateLine(m1, m2 core.Mark) geom.LineString {
	p1 := PointToWebMercator(m1.Position())
	p2 := PointToWebMercator(m2.Position())
	c1, _ := p1.XY()
	c2, _ := p2.XY()
	seq := geom.NewSequence([]float64{c1.X, c1.Y, c2.X, c2.Y}, geom.DimXY)
	return geom.NewLineString(seq)
}

// BoundaryPolygon projects a course boundary to an EPSG:3857 polygon,
// closing the ring when the source points leave it open.
func BoundaryPolygon(b core.Boundary) (geom.Polygon, error) {
	if len(b.Points) < 3 {
		return geom.Polygon{}, fmt.Errorf("boundary %q needs at least 3 points, got %d", b.Name, len(b.Points))
	}

	points := b.Points
	if points[0] != points[len(points)-1] {
		points = append(append([]core.LatLon{}, points...), points[0])
	}

	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy, ok := PointToWebMercator(p).XY()
		if !ok {
			return geom.Polygon{}, fmt.Errorf("boundary %q has an empty projected point", b.Name)
		}
		flat = append(flat, xy.X, xy.Y)
	}

	ring := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	poly := geom.NewPolygon([]geom.LineString{ring})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, fmt.Errorf("boundary %q is not a valid polygon: %w", b.Name, err)
	}
	return poly, nil
}
