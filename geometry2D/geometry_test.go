package geometry2D

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	a := NewPoint(1, 2)
	b := NewPoint(4, 6)
	assert.InDelta(t, 5., a.DistanceTo(b), 1e-12)
	assert.InDelta(t, 25., a.DistanceSquaredTo(b), 1e-12)
	if diff := cmp.Diff(Point{X: 5, Y: 8}, a.Plus(b)); diff != "" {
		t.Errorf("unexpected sum (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Point{X: 3, Y: 4}, b.Minus(a)); diff != "" {
		t.Errorf("unexpected difference (-want +got):\n%s", diff)
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point{
		{X: -1, Y: 2}, {X: 3, Y: -4}, {X: 0, Y: 5},
	}
	bb := NewBoundingBox(points)
	assert.Equal(t, -1., bb.XMin[0])
	assert.Equal(t, 3., bb.XMax[0])
	assert.Equal(t, -4., bb.XMin[1])
	assert.Equal(t, 5., bb.XMax[1])
	centroid := bb.Centroid()
	assert.InDelta(t, 1., centroid.X, 1e-12)
	assert.InDelta(t, 0.5, centroid.Y, 1e-12)
	assert.InDelta(t, math.Sqrt(16+81), bb.Diagonal(), 1e-12)
	assert.True(t, bb.PointInside(Point{X: 0, Y: 0}))
	assert.False(t, bb.PointInside(Point{X: 10, Y: 0}))

	minX, maxX, minY, maxY := CalculateBounds(points)
	assert.Equal(t, [4]float64{-1, 3, -4, 5}, [4]float64{minX, maxX, minY, maxY})
}

func TestPolygonArea(t *testing.T) {
	square := NewPolygon([]Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	})
	assert.InDelta(t, 4., square.Area(), 1e-12)
	// The area is signed, clockwise winding comes out negative
	reversed := NewPolygon([]Point{
		{X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 0},
	})
	assert.InDelta(t, -4., reversed.Area(), 1e-12)
}

func TestPointInsidePolygon(t *testing.T) {
	square := []Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}
	assert.True(t, PointInsidePolygon(Point{X: 2, Y: 2}, square))
	assert.False(t, PointInsidePolygon(Point{X: 5, Y: 2}, square))
	assert.False(t, PointInsidePolygon(Point{X: -1, Y: -1}, square))

	// Non-convex (L-shaped) boundary: the notch is outside
	lShape := []Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2},
		{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 0, Y: 4},
	}
	assert.True(t, PointInsidePolygon(Point{X: 1, Y: 3}, lShape))
	assert.True(t, PointInsidePolygon(Point{X: 3, Y: 1}, lShape))
	assert.False(t, PointInsidePolygon(Point{X: 3, Y: 3}, lShape))
}
