package mesher

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/gomesh/annealing"
	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
)

var rectangle = geometry2D.Geometry{
	Points: []geometry2D.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3},
	},
	Name: "rectangle",
}

func TestGenerateConstrainedRectangleMesh(t *testing.T) {
	request := NewMeshRequestWithConstraints(rectangle, 0.5, 25)
	m, err := GenerateMesh(request)
	require.NoError(t, err)

	require.NotEmpty(t, m.TriangleIndices)
	// The area cap forces interior points beyond the 4 corners
	assert.Greater(t, len(m.Vertices), 4)
	require.NoError(t, m.ValidateJacobians())

	// The mesh tiles the 12 area rectangle
	var total float64
	for _, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		total += tri.Area(m.Vertices)
	}
	assert.InDelta(t, 12., total, 0.5)
}

func TestGenerateUnconstrainedMesh(t *testing.T) {
	request := NewMeshRequest(rectangle)
	m, err := GenerateMesh(request)
	require.NoError(t, err)
	assert.Equal(t, 4, len(m.Vertices))
	assert.Equal(t, 2, len(m.TriangleIndices))
	require.NoError(t, m.ValidateJacobians())
}

func TestGenerateMeshTooFewPoints(t *testing.T) {
	request := NewMeshRequest(geometry2D.Geometry{
		Points: []geometry2D.Point{{X: 0, Y: 0}, {X: 1, Y: 0}},
	})
	_, err := GenerateMesh(request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 points")
}

func TestGeneratePavingMesh(t *testing.T) {
	request := NewMeshRequestWithConstraints(rectangle, 1., 20)
	request.Algorithm = AlgorithmPaving
	m, err := GenerateMesh(request)
	require.NoError(t, err)
	assert.NotEmpty(t, m.QuadIndices)
	require.NoError(t, m.ValidateJacobians())
}

func TestGeneratePavingTooFewPoints(t *testing.T) {
	request := NewMeshRequest(geometry2D.Geometry{
		Points: []geometry2D.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1},
		},
	})
	request.Algorithm = AlgorithmPaving
	_, err := GenerateMesh(request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 4 points")
}

func TestGenerateAnnealingMesh(t *testing.T) {
	request := NewMeshRequestWithConstraints(rectangle, 1., 20)
	request.Algorithm = AlgorithmAnnealing
	iterations := 200
	request.AnnealingOptions = &annealing.Options{
		MaxIterations: &iterations,
	}
	m, err := GenerateMeshSeeded(request, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	require.NotEmpty(t, m.TriangleIndices)
	require.NoError(t, m.ValidateJacobians())
}

func TestFilterMeshOutsideBoundary(t *testing.T) {
	// An L-shaped boundary: the convex hull triangulation covers the notch
	// and filtering must carve it back out
	lShape := geometry2D.Geometry{
		Points: []geometry2D.Point{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2},
			{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 0, Y: 4},
		},
	}
	request := NewMeshRequest(lShape)
	m, err := GenerateMesh(request)
	require.NoError(t, err)
	require.NotEmpty(t, m.TriangleIndices)
	for _, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		centroid := tri.Centroid(m.Vertices)
		assert.True(t, geometry2D.PointInsidePolygon(centroid, lShape.Points),
			"triangle centroid (%v, %v) outside boundary", centroid.X, centroid.Y)
	}
}

func TestOptimizeMesh(t *testing.T) {
	request := NewMeshRequestWithConstraints(rectangle, 0.5, 25)
	m, err := GenerateMesh(request)
	require.NoError(t, err)
	before := append([]geometry2D.Point{}, m.Vertices...)

	targetArea := 0.5
	minArea := 0.001
	iterations := 200
	options := &annealing.Options{
		TargetArea:    &targetArea,
		MinArea:       &minArea,
		MaxIterations: &iterations,
	}
	require.NoError(t, OptimizeMesh(m, rectangle.Points, options, rand.New(rand.NewSource(21))))
	require.NoError(t, m.ValidateJacobians())
	// Boundary vertices survive optimization untouched. Optimization only
	// appends vertices, so the original indices are stable.
	for i := range before {
		if !m.BoundaryVertex[i] {
			continue
		}
		assert.Equal(t, before[i].X, m.Vertices[i].X)
		assert.Equal(t, before[i].Y, m.Vertices[i].Y)
	}
}
