package delaunay

import (
	"sort"

	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
)

const (
	// SuperTriangleScale sizes the bootstrap triangle relative to the input
	// bounding box so every input point lands inside its circumcircle
	SuperTriangleScale = 20.

	// Interior refinement budgets - the loops terminate silently at these
	// limits and keep the best mesh achieved so far
	MaxRefinementPasses  = 50
	MaxPoints            = 10000
	MaxInsertionsPerPass = 5
)

// DelaunayTriangulator is the transient working state of one incremental
// Bowyer-Watson pass. Points holds the caller's points plus three synthetic
// super-triangle points; the synthetic points and every triangle referencing
// them are stripped before the final mesh is produced. Create one per
// triangulation request, call Triangulate, discard.
type DelaunayTriangulator struct {
	Points    []geometry2D.Point
	Triangles []elements.Triangle

	superBase            int // index of the first super-triangle point
	superTriangleIndices [3]int
	inserted             bool
	superRemoved         bool
}

func NewDelaunayTriangulator(points []geometry2D.Point) (d *DelaunayTriangulator) {
	minX, maxX, minY, maxY := geometry2D.CalculateBounds(points)
	superTriangle := createSuperTriangle(minX, maxX, minY, maxY)

	d = &DelaunayTriangulator{
		Points:    append(append([]geometry2D.Point{}, points...), superTriangle[:]...),
		superBase: len(points),
	}
	d.superTriangleIndices = [3]int{d.superBase, d.superBase + 1, d.superBase + 2}

	// Reverse the winding if the synthetic triangle came out clockwise
	seed := elements.NewTriangle(d.superTriangleIndices, d.Points)
	if seed.Jacobian(d.Points) < 0. {
		d.superTriangleIndices[0], d.superTriangleIndices[2] =
			d.superTriangleIndices[2], d.superTriangleIndices[0]
		seed = elements.NewTriangle(d.superTriangleIndices, d.Points)
	}
	d.Triangles = []elements.Triangle{seed}
	return
}

func createSuperTriangle(minX, maxX, minY, maxY float64) (verts [3]geometry2D.Point) {
	deltaMax := maxX - minX
	if dy := maxY - minY; dy > deltaMax {
		deltaMax = dy
	}
	midX := 0.5 * (minX + maxX)
	midY := 0.5 * (minY + maxY)
	verts[0] = geometry2D.NewPoint(midX-SuperTriangleScale*deltaMax, midY-deltaMax)
	verts[1] = geometry2D.NewPoint(midX, midY+SuperTriangleScale*deltaMax)
	verts[2] = geometry2D.NewPoint(midX+SuperTriangleScale*deltaMax, midY-deltaMax)
	return
}

// Triangulate runs the incremental insertion over every caller point, strips
// the super triangle and returns the finished mesh
func (d *DelaunayTriangulator) Triangulate() (m *mesh.Mesh, err error) {
	if err = d.InsertPoints(); err != nil {
		return nil, err
	}
	d.RemoveSuperTriangle()
	return d.Mesh(), nil
}

// InsertPoints inserts the caller's points one by one, in array order - the
// order determines the exact resulting triangulation when ties occur and must
// stay fixed for reproducibility
func (d *DelaunayTriangulator) InsertPoints() error {
	if d.inserted {
		return nil
	}
	d.inserted = true
	for i := 0; i < d.superBase; i++ {
		if err := d.AddPoint(i); err != nil {
			return err
		}
	}
	return nil
}

// AddPoint inserts one point by the Bowyer-Watson cavity procedure: every
// triangle whose circumcircle strictly contains the point is removed, the
// polygonal cavity boundary is the set of edges not shared between two
// removed triangles, and each boundary edge is reconnected to the new point
// with positive winding. A degenerate insertion producing no cavity edges is
// a no-op, not an error.
func (d *DelaunayTriangulator) AddPoint(pointIndex int) error {
	point := d.Points[pointIndex]

	var badTriangles []int
	for i, tri := range d.Triangles {
		if tri.ContainsPointInCircumcircle(point) {
			badTriangles = append(badTriangles, i)
		}
	}

	// An edge survives as cavity boundary only when no other bad triangle
	// shares it - shared edges are interior to the cavity and are discarded
	edgeCount := make(map[elements.Edge]int)
	for _, badIndex := range badTriangles {
		tri := d.Triangles[badIndex]
		for i := 0; i < 3; i++ {
			edgeCount[elements.NewEdge(tri.Vertices[i], tri.Vertices[(i+1)%3])]++
		}
	}
	var polygonEdges []elements.Edge
	for _, badIndex := range badTriangles {
		tri := d.Triangles[badIndex]
		for i := 0; i < 3; i++ {
			edge := elements.NewEdge(tri.Vertices[i], tri.Vertices[(i+1)%3])
			if edgeCount[edge] == 1 {
				polygonEdges = append(polygonEdges, edge)
			}
		}
	}

	// Remove by descending index to keep remaining indices stable
	sort.Sort(sort.Reverse(sort.IntSlice(badTriangles)))
	for _, index := range badTriangles {
		d.Triangles = append(d.Triangles[:index], d.Triangles[index+1:]...)
	}

	for _, edge := range polygonEdges {
		vertices := [3]int{edge.Verts[0], edge.Verts[1], pointIndex}
		newTriangle := elements.NewTriangle(vertices, d.Points)
		if newTriangle.Jacobian(d.Points) <= 0. {
			// Swap the edge so every refill triangle winds counter-clockwise
			vertices = [3]int{edge.Verts[1], edge.Verts[0], pointIndex}
			newTriangle = elements.NewTriangle(vertices, d.Points)
		}
		d.Triangles = append(d.Triangles, newTriangle)
	}
	return nil
}

// RemoveSuperTriangle drops every triangle referencing a super-triangle vertex
func (d *DelaunayTriangulator) RemoveSuperTriangle() {
	if d.superRemoved {
		return
	}
	d.superRemoved = true
	kept := d.Triangles[:0]
	for _, tri := range d.Triangles {
		if !d.referencesSuperTriangle(tri) {
			kept = append(kept, tri)
		}
	}
	d.Triangles = kept
}

func (d *DelaunayTriangulator) referencesSuperTriangle(tri elements.Triangle) bool {
	for _, v := range tri.Vertices {
		if v >= d.superBase && v < d.superBase+3 {
			return true
		}
	}
	return false
}

// Mesh assembles the final mesh: the three synthetic points are excised from
// the vertex list and indices of refinement points inserted after them are
// shifted down. Requires RemoveSuperTriangle to have run.
func (d *DelaunayTriangulator) Mesh() (m *mesh.Mesh) {
	vertices := make([]geometry2D.Point, 0, len(d.Points)-3)
	vertices = append(vertices, d.Points[:d.superBase]...)
	vertices = append(vertices, d.Points[d.superBase+3:]...)

	remap := func(v int) int {
		if v >= d.superBase+3 {
			return v - 3
		}
		return v
	}
	triangles := make([]elements.Triangle, len(d.Triangles))
	for i, tri := range d.Triangles {
		indices := [3]int{
			remap(tri.Vertices[0]),
			remap(tri.Vertices[1]),
			remap(tri.Vertices[2]),
		}
		triangles[i] = elements.NewTriangle(indices, vertices)
	}
	return mesh.NewMesh(vertices, triangles)
}

// FilterOutsideTriangles discards triangles whose centroid fails the
// ray-casting point-in-polygon test against the leading boundaryCount points.
// Needed because Bowyer-Watson triangulates the convex hull of all points,
// which generally extends outside a non-convex boundary.
func (d *DelaunayTriangulator) FilterOutsideTriangles(boundaryCount int) {
	boundary := d.Points[:boundaryCount]
	kept := d.Triangles[:0]
	for _, tri := range d.Triangles {
		if geometry2D.PointInsidePolygon(tri.Centroid(d.Points), boundary) {
			kept = append(kept, tri)
		}
	}
	d.Triangles = kept
}

// RefineInterior repeatedly inserts centroids of triangles exceeding maxArea
// whose centroid lies inside the boundary loop, at most MaxInsertionsPerPass
// per pass to bound incremental-rebuild cost, until no oversized interior
// triangle remains or the pass/point budgets run out. Must run before
// RemoveSuperTriangle so insertions retriangulate incrementally.
func (d *DelaunayTriangulator) RefineInterior(maxArea float64, boundaryCount int) error {
	for iteration := 0; iteration < MaxRefinementPasses && len(d.Points) < MaxPoints; iteration++ {
		boundary := d.Points[:boundaryCount]

		var newPoints []geometry2D.Point
		for _, tri := range d.Triangles {
			if len(newPoints) >= MaxInsertionsPerPass {
				break
			}
			if tri.Area(d.Points) <= maxArea {
				continue
			}
			centroid := tri.Centroid(d.Points)
			if geometry2D.PointInsidePolygon(centroid, boundary) {
				newPoints = append(newPoints, centroid)
			}
		}
		if len(newPoints) == 0 {
			break
		}

		for _, newPoint := range newPoints {
			if len(d.Points) >= MaxPoints {
				break
			}
			pointIndex := len(d.Points)
			d.Points = append(d.Points, newPoint)
			if err := d.AddPoint(pointIndex); err != nil {
				return err
			}
		}
	}
	return nil
}
