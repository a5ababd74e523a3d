package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
)

func unitSquareMesh() (*Mesh, []geometry2D.Point) {
	vertices := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	triangles := []elements.Triangle{
		elements.NewTriangle([3]int{0, 1, 2}, vertices),
		elements.NewTriangle([3]int{0, 2, 3}, vertices),
	}
	return NewMesh(vertices, triangles), vertices
}

func TestNewMesh(t *testing.T) {
	m, vertices := unitSquareMesh()
	assert.Equal(t, 4, len(m.Vertices))
	require.Equal(t, 2, len(m.TriangleIndices))
	require.Equal(t, 2, len(m.Triangles))
	// Denormalized triangles carry the actual point coordinates
	assert.Equal(t, vertices[1], m.Triangles[0][1])
	assert.Nil(t, m.BoundaryVertex)
}

func TestValidateJacobians(t *testing.T) {
	m, vertices := unitSquareMesh()
	require.NoError(t, m.ValidateJacobians())
	// Validation is idempotent, repeated calls see the same mesh
	require.NoError(t, m.ValidateJacobians())

	// A clockwise triangle fails, naming the offender
	bad := NewMesh(vertices, []elements.Triangle{
		elements.NewTriangle([3]int{0, 1, 2}, vertices),
		elements.NewTriangle([3]int{0, 3, 2}, vertices),
	})
	err := bad.ValidateJacobians()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triangle 1")
}

func TestValidateQuadJacobians(t *testing.T) {
	vertices := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	good := NewMeshWithQuads(vertices, nil, []elements.Quad{
		elements.NewQuad([4]int{0, 1, 2, 3}),
	})
	require.NoError(t, good.ValidateJacobians())

	flipped := NewMeshWithQuads(vertices, nil, []elements.Quad{
		elements.NewQuad([4]int{0, 3, 2, 1}),
	})
	err := flipped.ValidateJacobians()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quad 0")
}

func TestTagBoundary(t *testing.T) {
	m, _ := unitSquareMesh()
	boundary := []geometry2D.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
	}
	m.TagBoundary(boundary)
	require.Equal(t, 4, len(m.BoundaryVertex))
	assert.Equal(t, []bool{true, true, true, false}, m.BoundaryVertex)
}

func TestRefreshTriangles(t *testing.T) {
	m, _ := unitSquareMesh()
	m.Vertices[2] = geometry2D.Point{X: 2, Y: 2}
	m.RefreshTriangles()
	assert.Equal(t, m.Vertices[2], m.Triangles[0][2])
	assert.Equal(t, m.Vertices[2], m.Triangles[1][1])
}

func TestJacobianStats(t *testing.T) {
	m, _ := unitSquareMesh()
	// Both unit-square halves have Jacobian 1 (twice the 0.5 area)
	minJac, maxJac, avgJac := m.JacobianStats()
	assert.InDelta(t, 1., minJac, 1e-12)
	assert.InDelta(t, 1., maxJac, 1e-12)
	assert.InDelta(t, 1., avgJac, 1e-12)

	assert.InDelta(t, 0.5, m.MeanTriangleArea(), 1e-12)
}

func TestEmptyMeshStats(t *testing.T) {
	m := NewMesh(nil, nil)
	minJac, maxJac, avgJac := m.JacobianStats()
	assert.Equal(t, 0., minJac)
	assert.Equal(t, 0., maxJac)
	assert.Equal(t, 0., avgJac)
	assert.Equal(t, 0., m.MeanTriangleArea())
	assert.NoError(t, m.ValidateJacobians())
}
