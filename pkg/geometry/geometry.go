package geometry

import (
	"math"
)

// WGS84 ellipsoid constants for the transverse Mercator projection.
const (
	equatorialRadius = 6378137.0
	flattening       = 1 / 298.257223563
	scaleFactor      = 0.9996
	falseEasting     = 500000.0
	falseNorthing    = 10000000.0 // southern hemisphere only
)

// UTMZone returns the UTM zone number for a given longitude in degrees.
func UTMZone(lon float64) int {
	return int(math.Round((lon + 180) / 6))
}

// ReferenceMeridian returns the longitude of the central meridian of the
// UTM zone containing lon, in degrees.
func ReferenceMeridian(lon float64) float64 {
	return float64(UTMZone(lon)-1)*6 - 180 + 3
}

// LatLonToUTM projects WGS84 latitude/longitude (degrees) into UTM
// easting/northing (metres) for the given zone. A zone of 0 or less selects
// the natural zone of the longitude. Uses the truncated Krüger series.
func LatLonToUTM(lat, lon float64, zone int) (easting, northing float64, usedZone int) {
	if zone <= 0 {
		zone = UTMZone(lon)
	}
	lambda0 := (float64(zone-1)*6 - 180 + 3) * math.Pi / 180

	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180

	e2 := flattening * (2 - flattening)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	n := equatorialRadius / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := math.Tan(phi) * math.Tan(phi)
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - lambda0)

	m := equatorialRadius * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	easting = scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + falseEasting
	northing = scaleFactor * (m + n*math.Tan(phi)*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	if lat < 0 {
		northing += falseNorthing
	}
	return easting, northing, zone
}

// Dist returns the Euclidean distance between two projected points in metres.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// IsPointInPolygon reports whether the projected point (x, y) lies inside
// the polygon ring given as (easting, northing) pairs, by ray casting.
func IsPointInPolygon(x, y float64, polygon [][2]float64) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i][0], polygon[i][1]
		xj, yj := polygon[j][0], polygon[j][1]

		if ((yi > y) != (yj > y)) &&
			(x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PolygonArea returns the area enclosed by a ring of (easting, northing)
// pairs via the shoelace formula, in square metres.
func PolygonArea(polygon [][2]float64) float64 {
	if len(polygon) < 3 {
		return 0
	}

	var area float64
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i][0], polygon[i][1]
		xj, yj := polygon[j][0], polygon[j][1]
		area += (xi * yj) - (xj * yi)
		j = i
	}

	return math.Abs(area / 2.0)
}
