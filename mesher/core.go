package mesher

import (
	"math"

	"github.com/james-bowman/sparse"

	"github.com/meshforge/gomesh/delaunay"
	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
)

// Quality metrics accepted by RefineMesh and AverageQuality
const (
	MetricAngle  = "angle"  // minimum interior angle, degrees, bigger is better
	MetricAspect = "aspect" // circumradius/(2*inradius), smaller is better
)

// MeshCore is the incremental working set behind interactive meshing: a
// polygon is loaded once, then densified, triangulated, refined and smoothed
// in place across multiple calls. The leading BoundaryCount points are the
// boundary loop and stay fixed through smoothing.
type MeshCore struct {
	Points        []geometry2D.Point
	Triangles     []elements.Triangle
	BoundaryCount int
}

func NewMeshCore() *MeshCore {
	return &MeshCore{}
}

func (mc *MeshCore) Clear() {
	mc.Points = nil
	mc.Triangles = nil
	mc.BoundaryCount = 0
}

// AddPolygon loads a boundary loop from a flat x,y coordinate array
func (mc *MeshCore) AddPolygon(polygonPoints []float64) {
	mc.Clear()
	for i := 0; i+1 < len(polygonPoints); i += 2 {
		mc.Points = append(mc.Points, geometry2D.NewPoint(polygonPoints[i], polygonPoints[i+1]))
	}
	mc.BoundaryCount = len(mc.Points)
}

func (mc *MeshCore) AddPolygonFromPoints(polygonPoints []geometry2D.Point) {
	mc.Clear()
	mc.Points = append(mc.Points, polygonPoints...)
	mc.BoundaryCount = len(mc.Points)
}

// GenerateMesh densifies the boundary to the given spacing, fills the
// interior with a square point grid and triangulates, discarding triangles
// outside the boundary. Returns false when fewer than 3 boundary points are
// loaded.
func (mc *MeshCore) GenerateMesh(density float64) bool {
	if len(mc.Points) < 3 {
		return false
	}
	polygon := append([]geometry2D.Point{}, mc.Points...)

	mc.Points = delaunay.SampleBoundaryPoints(polygon, density)
	mc.BoundaryCount = len(mc.Points)
	mc.addInteriorPoints(density, polygon)
	mc.triangulate(polygon)
	return true
}

func (mc *MeshCore) addInteriorPoints(density float64, polygon []geometry2D.Point) {
	minX, maxX, minY, maxY := geometry2D.CalculateBounds(polygon)
	for x := minX; x < maxX; x += density {
		for y := minY; y < maxY; y += density {
			point := geometry2D.NewPoint(x, y)
			if geometry2D.PointInsidePolygon(point, polygon) {
				mc.Points = append(mc.Points, point)
			}
		}
	}
}

func (mc *MeshCore) triangulate(polygon []geometry2D.Point) {
	if len(mc.Points) < 3 {
		return
	}
	d := delaunay.NewDelaunayTriangulator(mc.Points)
	m, err := d.Triangulate()
	if err != nil {
		return
	}
	mc.Triangles = mc.Triangles[:0]
	for _, indices := range m.TriangleIndices {
		tri := elements.NewTriangle(indices, mc.Points)
		if geometry2D.PointInsidePolygon(tri.Centroid(mc.Points), polygon) {
			mc.Triangles = append(mc.Triangles, tri)
		}
	}
}

// RefineMesh repeatedly finds the worst triangle under the chosen metric and
// inserts its circumcenter when that falls inside the boundary,
// retriangulating after every insertion. Returns the number of insertions
// performed.
func (mc *MeshCore) RefineMesh(metric string, threshold float64, maxIterations int) (insertions int) {
	polygon := mc.Points[:mc.BoundaryCount]

	for i := 0; i < maxIterations; i++ {
		worst, found := mc.findWorstTriangle(metric, threshold)
		if !found {
			break
		}
		if math.IsInf(worst.CircumradiusSq, 1) {
			// Degenerate triangle, no usable circumcenter
			break
		}
		if !geometry2D.PointInsidePolygon(worst.Circumcenter, polygon) {
			break
		}
		mc.Points = append(mc.Points, worst.Circumcenter)
		mc.triangulate(polygon)
		insertions++
	}
	return
}

func (mc *MeshCore) findWorstTriangle(metric string, threshold float64) (worst elements.Triangle, found bool) {
	worstQuality := 0.
	if metric == MetricAngle {
		worstQuality = 180.
	}
	for _, tri := range mc.Triangles {
		var quality float64
		var isBad, isWorse bool
		switch metric {
		case MetricAngle:
			quality = tri.MinAngle(mc.Points)
			isBad = quality < threshold
			isWorse = quality < worstQuality
		case MetricAspect:
			quality = tri.AspectRatio(mc.Points)
			isBad = quality > threshold
			isWorse = quality > worstQuality
		default:
			continue
		}
		if isBad && isWorse {
			worstQuality = quality
			worst = tri
			found = true
		}
	}
	return
}

/*
	SmoothMesh runs Laplacian smoothing: each interior vertex moves to the
	average position of its adjacent vertices, then the mesh is
	retriangulated. The adjacency is accumulated in a sparse matrix - entry
	(i,j) counts how often vertices i and j share a triangle, so the row sum
	weighted average is the neighbor mean. Stops early when a pass moves
	nothing.
*/
func (mc *MeshCore) SmoothMesh(iterations int) bool {
	polygon := append([]geometry2D.Point{}, mc.Points[:mc.BoundaryCount]...)

	for iter := 0; iter < iterations; iter++ {
		n := len(mc.Points)
		adjacency := sparse.NewDOK(n, n)
		for _, tri := range mc.Triangles {
			for i := 0; i < 3; i++ {
				curr := tri.Vertices[i]
				next1 := tri.Vertices[(i+1)%3]
				next2 := tri.Vertices[(i+2)%3]
				adjacency.Set(curr, next1, adjacency.At(curr, next1)+1)
				adjacency.Set(curr, next2, adjacency.At(curr, next2)+1)
			}
		}

		newPoints := append([]geometry2D.Point{}, mc.Points...)
		movedCount := 0
		csr := adjacency.ToCSR()
		for i := mc.BoundaryCount; i < n; i++ {
			var sumX, sumY, weight float64
			csr.DoRowNonZero(i, func(_, j int, count float64) {
				sumX += count * mc.Points[j].X
				sumY += count * mc.Points[j].Y
				weight += count
			})
			if weight > 0 {
				newPoints[i] = geometry2D.NewPoint(sumX/weight, sumY/weight)
				movedCount++
			}
		}

		mc.Points = newPoints
		mc.triangulate(polygon)
		if movedCount == 0 {
			break
		}
	}
	return true
}

// AverageQuality reports the mean of the chosen metric over all triangles
func (mc *MeshCore) AverageQuality(metric string) float64 {
	if len(mc.Triangles) == 0 {
		return 0
	}
	var total float64
	for _, tri := range mc.Triangles {
		switch metric {
		case MetricAngle:
			total += tri.MinAngle(mc.Points)
		case MetricAspect:
			total += tri.AspectRatio(mc.Points)
		}
	}
	return total / float64(len(mc.Triangles))
}
