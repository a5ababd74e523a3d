package delaunay

import (
	"math"

	"github.com/meshforge/gomesh/geometry2D"
)

// TargetEdgeLength converts a target element area into the edge length of the
// equilateral triangle with that area
func TargetEdgeLength(targetArea float64) float64 {
	return math.Sqrt(4. * targetArea / math.Sqrt(3.))
}

// SampleBoundaryPoints walks the closed boundary loop and subdivides every
// edge longer than the target length into equal segments, preserving loop
// order so the result traces the same polygon outline more densely
func SampleBoundaryPoints(boundary []geometry2D.Point, targetEdgeLength float64) (samples []geometry2D.Point) {
	for i := range boundary {
		p1 := boundary[i]
		p2 := boundary[(i+1)%len(boundary)]
		samples = append(samples, p1)

		edgeLength := p1.DistanceTo(p2)
		if edgeLength > targetEdgeLength {
			numSubdivisions := int(math.Ceil(edgeLength / targetEdgeLength))
			for j := 1; j < numSubdivisions; j++ {
				t := float64(j) / float64(numSubdivisions)
				samples = append(samples, geometry2D.NewPoint(
					p1.X+t*(p2.X-p1.X),
					p1.Y+t*(p2.Y-p1.Y),
				))
			}
		}
	}
	return
}

// GenerateHexagonalGrid lays out candidate points on a staggered hexagonal
// lattice with spacing derived from the target edge length, keeping only
// lattice points inside the boundary. The refined boundary samples come
// first in the returned slice (boundaryCount of them) so callers can address
// the boundary loop as a leading prefix.
func GenerateHexagonalGrid(boundary []geometry2D.Point, targetEdgeLength float64) (points []geometry2D.Point, boundaryCount int) {
	points = SampleBoundaryPoints(boundary, targetEdgeLength)
	boundaryCount = len(points)

	minX, maxX, minY, maxY := geometry2D.CalculateBounds(boundary)

	// Odd rows shift by half a spacing, rows advance by the hex row height
	hexHeight := targetEdgeLength * math.Sqrt(3.) / 2.
	row := 0
	y := minY
	for y <= maxY {
		var xOffset float64
		if row%2 == 1 {
			xOffset = targetEdgeLength / 2.
		}
		col := 0
		x := minX + xOffset
		for x <= maxX {
			point := geometry2D.NewPoint(x, y)
			if geometry2D.PointInsidePolygon(point, boundary) {
				points = append(points, point)
			}
			col++
			x = minX + float64(col)*targetEdgeLength + xOffset
		}
		row++
		y = minY + float64(row)*hexHeight
	}
	return
}
