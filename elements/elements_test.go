package elements

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meshforge/gomesh/geometry2D"
)

func TestCircumcircle(t *testing.T) {
	{ // Every vertex of a triangle lies on its own circumcircle
		points := []geometry2D.Point{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 1, Y: 3},
		}
		tri := NewTriangle([3]int{0, 1, 2}, points)
		radius := math.Sqrt(tri.CircumradiusSq)
		for _, p := range points {
			dist := tri.Circumcenter.DistanceTo(p)
			assert.InDelta(t, radius, dist, 1e-6)
		}
	}
	{ // Right triangle: circumcenter at the hypotenuse midpoint
		points := []geometry2D.Point{
			{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2},
		}
		tri := NewTriangle([3]int{0, 1, 2}, points)
		assert.InDelta(t, 1., tri.Circumcenter.X, 1e-12)
		assert.InDelta(t, 1., tri.Circumcenter.Y, 1e-12)
		assert.InDelta(t, 2., tri.CircumradiusSq, 1e-12)
	}
}

func TestDegenerateTriangle(t *testing.T) {
	// Collinear points have no circumcircle. The radius reads as infinite
	// and no point can test inside it
	points := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2},
	}
	tri := NewTriangle([3]int{0, 1, 2}, points)
	assert.True(t, math.IsInf(tri.CircumradiusSq, 1))
	assert.False(t, tri.ContainsPointInCircumcircle(geometry2D.Point{X: 1, Y: 0}))
	assert.False(t, tri.ContainsPointInCircumcircle(geometry2D.Point{X: 1e6, Y: -1e6}))
	assert.InDelta(t, 0., tri.Area(points), 1e-12)
}

func TestInCircumcircle(t *testing.T) {
	points := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 2},
	}
	tri := NewTriangle([3]int{0, 1, 2}, points)
	assert.True(t, tri.ContainsPointInCircumcircle(geometry2D.Point{X: 1, Y: 0.5}))
	assert.False(t, tri.ContainsPointInCircumcircle(geometry2D.Point{X: 10, Y: 10}))
}

func TestJacobianOrientation(t *testing.T) {
	points := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
	}
	ccw := NewTriangle([3]int{0, 1, 2}, points)
	cw := NewTriangle([3]int{0, 2, 1}, points)
	assert.InDelta(t, 1., ccw.Jacobian(points), 1e-12)
	assert.InDelta(t, -1., cw.Jacobian(points), 1e-12)
	assert.True(t, ccw.IsProperlyOriented(points))
	assert.False(t, cw.IsProperlyOriented(points))
	// Area is orientation independent
	assert.InDelta(t, 0.5, ccw.Area(points), 1e-12)
	assert.InDelta(t, 0.5, cw.Area(points), 1e-12)
}

func TestTriangleAngles(t *testing.T) {
	{ // Equilateral: all angles 60, aspect ratio 1
		points := []geometry2D.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: math.Sqrt(3) / 2},
		}
		tri := NewTriangle([3]int{0, 1, 2}, points)
		for _, angle := range tri.Angles(points) {
			assert.InDelta(t, 60., angle, 1e-9)
		}
		assert.InDelta(t, 60., tri.MinAngle(points), 1e-9)
		assert.InDelta(t, 1., tri.AspectRatio(points), 1e-9)
	}
	{ // Right isoceles: 90/45/45, min angle 45
		points := []geometry2D.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		}
		tri := NewTriangle([3]int{0, 1, 2}, points)
		assert.InDelta(t, 45., tri.MinAngle(points), 1e-9)
	}
	{ // Sliver triangles are penalized by aspect ratio
		points := []geometry2D.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 0.01},
		}
		tri := NewTriangle([3]int{0, 1, 2}, points)
		assert.Greater(t, tri.AspectRatio(points), 100.)
	}
}

func TestEdgeCanonical(t *testing.T) {
	// Edges are order independent so they work as map keys
	assert.Equal(t, NewEdge(3, 7), NewEdge(7, 3))
	counts := make(map[Edge]int)
	counts[NewEdge(1, 2)]++
	counts[NewEdge(2, 1)]++
	assert.Equal(t, 2, counts[NewEdge(1, 2)])
}

func TestQuadJacobian(t *testing.T) {
	points := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 0.3, Y: 0.3}, // a vertex pulled inside makes the quad concave
	}
	unit := NewQuad([4]int{0, 1, 2, 3})
	assert.InDelta(t, 1., unit.Area(points), 1e-12)
	assert.Greater(t, unit.JacobianAtCenter(points), 0.)
	assert.Greater(t, unit.MinJacobian(points), 0.)
	assert.True(t, unit.IsProperlyOriented(points))

	flipped := NewQuad([4]int{0, 3, 2, 1})
	assert.Less(t, flipped.MinJacobian(points), 0.)
	assert.False(t, flipped.IsProperlyOriented(points))

	// Concave quad: the center Jacobian stays positive while the
	// sample near the reflex corner goes negative
	concave := NewQuad([4]int{0, 1, 4, 3})
	assert.Greater(t, concave.JacobianAtCenter(points), 0.)
	assert.Less(t, concave.MinJacobian(points), 0.)
}
