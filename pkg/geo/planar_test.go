package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjection_OriginMapsToZero(t *testing.T) {
	p := NewProjection(35.3606, 138.9273)
	x, z := p.ToLocal(35.3606, 138.9273)
	assert.Zero(t, x)
	assert.Zero(t, z)
}

func TestProjection_MatchesPlanarApproximation(t *testing.T) {
	origLat, origLon := 35.3606, 138.9273
	p := NewProjection(origLat, origLon)

	lat := origLat + 0.001
	lon := origLon - 0.002
	x, z := p.ToLocal(lat, lon)

	wantZ := 0.001 * MetersPerDegree
	wantX := -0.002 * MetersPerDegree * math.Cos(origLat*math.Pi/180)
	assert.InDelta(t, wantX, x, 1e-9)
	assert.InDelta(t, wantZ, z, 1e-9)
}

func TestProjection_SouthWestIsNegative(t *testing.T) {
	p := NewProjection(50.0, 8.0)
	x, z := p.ToLocal(49.999, 7.999)
	assert.Negative(t, x)
	assert.Negative(t, z)
}
