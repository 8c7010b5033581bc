// Package geo converts geodetic positions into a local planar frame.
// The equirectangular small-angle approximation is good enough for the
// spatial extent of a single circuit; exact geodesy is out of scope.
package geo

import "math"

// MetersPerDegree is the approximate length of one degree of latitude.
const MetersPerDegree = 111000.0

// Projection maps geodetic coordinates onto a plane anchored at an origin.
type Projection struct {
	originLat float64
	originLon float64
	cosLat    float64
}

// NewProjection anchors a projection at the given origin. The origin itself
// maps to (0, 0).
func NewProjection(originLat, originLon float64) Projection {
	return Projection{
		originLat: originLat,
		originLon: originLon,
		cosLat:    math.Cos(originLat * math.Pi / 180),
	}
}

// ToLocal returns the east-west (x) and north-south (z) offsets in meters
// of the given position relative to the origin.
func (p Projection) ToLocal(lat, lon float64) (x, z float64) {
	z = (lat - p.originLat) * MetersPerDegree
	x = (lon - p.originLon) * MetersPerDegree * p.cosLat
	return x, z
}
