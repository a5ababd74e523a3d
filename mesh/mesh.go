package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
)

// BoundaryMatchTolSq is the squared-distance tolerance used by TagBoundary to
// match mesh vertices against original boundary points. Configurable because
// the right tolerance depends on the coordinate scale of the input.
var BoundaryMatchTolSq = 1e-6

// Mesh is an indexed vertex/element container. Triangles carries denormalized
// point triples for caller convenience - TriangleIndices is authoritative.
// Invariant: every element index is a valid index into Vertices, every
// triangle has strictly positive Jacobian and every quad a strictly positive
// minimum Jacobian. ValidateJacobians is the gate enforcing this before a
// mesh reaches a caller.
type Mesh struct {
	Vertices        []geometry2D.Point   `json:"vertices"`
	Triangles       [][]geometry2D.Point `json:"triangles"`
	TriangleIndices [][3]int             `json:"triangle_indices"`
	Quads           [][]geometry2D.Point `json:"quads,omitempty"`
	QuadIndices     [][4]int             `json:"quad_indices,omitempty"`

	// BoundaryVertex tags each vertex as frozen boundary geometry. Set once
	// at creation by the generators, nil for meshes of unknown provenance.
	BoundaryVertex []bool `json:"-"`
}

func NewMesh(vertices []geometry2D.Point, triangles []elements.Triangle) (m *Mesh) {
	m = &Mesh{
		Vertices:        vertices,
		Triangles:       make([][]geometry2D.Point, len(triangles)),
		TriangleIndices: make([][3]int, len(triangles)),
	}
	for i, tri := range triangles {
		m.TriangleIndices[i] = tri.Vertices
		pts := tri.GetPoints(vertices)
		m.Triangles[i] = []geometry2D.Point{pts[0], pts[1], pts[2]}
	}
	return
}

func NewMeshWithQuads(vertices []geometry2D.Point, triangles []elements.Triangle,
	quads []elements.Quad) (m *Mesh) {
	m = NewMesh(vertices, triangles)
	m.Quads = make([][]geometry2D.Point, len(quads))
	m.QuadIndices = make([][4]int, len(quads))
	for i, quad := range quads {
		m.QuadIndices[i] = quad.Vertices
		pts := quad.GetPoints(vertices)
		m.Quads[i] = []geometry2D.Point{pts[0], pts[1], pts[2], pts[3]}
	}
	return
}

// TagBoundary marks every vertex within BoundaryMatchTolSq of a boundary
// point as frozen. Called once when a generator builds the mesh - boundary
// membership is never re-derived afterwards.
func (m *Mesh) TagBoundary(boundary []geometry2D.Point) {
	m.BoundaryVertex = make([]bool, len(m.Vertices))
	for i, vertex := range m.Vertices {
		for _, bp := range boundary {
			if vertex.DistanceSquaredTo(bp) < BoundaryMatchTolSq {
				m.BoundaryVertex[i] = true
				break
			}
		}
	}
}

// RefreshTriangles rebuilds the denormalized triangle point lists after
// vertex positions have changed
func (m *Mesh) RefreshTriangles() {
	for i, indices := range m.TriangleIndices {
		m.Triangles[i] = []geometry2D.Point{
			m.Vertices[indices[0]],
			m.Vertices[indices[1]],
			m.Vertices[indices[2]],
		}
	}
}

// ValidateJacobians is the single authoritative correctness gate: it fails on
// the first element with a non-positive Jacobian, naming the element and the
// offending value
func (m *Mesh) ValidateJacobians() error {
	for i, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		if jac := tri.Jacobian(m.Vertices); jac <= 0. {
			return fmt.Errorf("triangle %d has non-positive Jacobian: %v", i, jac)
		}
	}
	for i, indices := range m.QuadIndices {
		quad := elements.NewQuad(indices)
		if minJac := quad.MinJacobian(m.Vertices); minJac <= 0. {
			return fmt.Errorf("quad %d has non-positive minimum Jacobian: %v", i, minJac)
		}
	}
	return nil
}

// JacobianStats reports min/max/mean element Jacobian across triangles and
// quads, for post-generation diagnostics
func (m *Mesh) JacobianStats() (minJac, maxJac, avgJac float64) {
	jacs := make([]float64, 0, len(m.TriangleIndices)+len(m.QuadIndices))
	for _, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		jacs = append(jacs, tri.Jacobian(m.Vertices))
	}
	for _, indices := range m.QuadIndices {
		quad := elements.NewQuad(indices)
		jacs = append(jacs, quad.MinJacobian(m.Vertices))
	}
	if len(jacs) == 0 {
		return 0, 0, 0
	}
	return floats.Min(jacs), floats.Max(jacs), stat.Mean(jacs, nil)
}

// MeanTriangleArea is used by the quality evaluators for volume uniformity
func (m *Mesh) MeanTriangleArea() float64 {
	if len(m.TriangleIndices) == 0 {
		return 0
	}
	areas := make([]float64, len(m.TriangleIndices))
	for i, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		areas[i] = tri.Area(m.Vertices)
	}
	return stat.Mean(areas, nil)
}
