package mesher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/gomesh/geometry2D"
)

func loadedCore() *MeshCore {
	mc := NewMeshCore()
	mc.AddPolygon([]float64{0, 0, 4, 0, 4, 4, 0, 4})
	return mc
}

func TestMeshCoreAddPolygon(t *testing.T) {
	mc := loadedCore()
	require.Equal(t, 4, len(mc.Points))
	assert.Equal(t, 4, mc.BoundaryCount)
	assert.Equal(t, geometry2D.Point{X: 4, Y: 4}, mc.Points[2])

	mc.Clear()
	assert.Empty(t, mc.Points)
	assert.Equal(t, 0, mc.BoundaryCount)
}

func TestMeshCoreGenerateMesh(t *testing.T) {
	mc := loadedCore()
	require.True(t, mc.GenerateMesh(1.))
	assert.Greater(t, len(mc.Points), 4)
	assert.NotEmpty(t, mc.Triangles)
	// Densified boundary leads the point list
	assert.Equal(t, geometry2D.Point{X: 0, Y: 0}, mc.Points[0])
	assert.Greater(t, mc.BoundaryCount, 4)

	empty := NewMeshCore()
	assert.False(t, empty.GenerateMesh(1.))
}

func TestMeshCoreRefine(t *testing.T) {
	mc := loadedCore()
	require.True(t, mc.GenerateMesh(2.))
	before := mc.AverageQuality(MetricAngle)

	insertions := mc.RefineMesh(MetricAngle, 30., 10)
	if insertions > 0 {
		assert.Greater(t, len(mc.Points), mc.BoundaryCount)
	}
	// Refinement never leaves the mesh worse on average than unrefined
	after := mc.AverageQuality(MetricAngle)
	assert.GreaterOrEqual(t, after, before*0.5)
}

func TestMeshCoreSmooth(t *testing.T) {
	mc := loadedCore()
	require.True(t, mc.GenerateMesh(1.))
	boundaryBefore := append([]geometry2D.Point{}, mc.Points[:mc.BoundaryCount]...)
	before := mc.AverageQuality(MetricAngle)

	require.True(t, mc.SmoothMesh(3))
	require.NotEmpty(t, mc.Triangles)
	// Boundary points never move under smoothing
	for i, p := range boundaryBefore {
		assert.Equal(t, p, mc.Points[i])
	}
	// Laplacian smoothing should not degrade the mean angle quality much
	assert.GreaterOrEqual(t, mc.AverageQuality(MetricAngle), before*0.8)
}

func TestMeshCoreAverageQuality(t *testing.T) {
	mc := NewMeshCore()
	assert.Equal(t, 0., mc.AverageQuality(MetricAngle))

	mc = loadedCore()
	require.True(t, mc.GenerateMesh(1.))
	angle := mc.AverageQuality(MetricAngle)
	aspect := mc.AverageQuality(MetricAspect)
	assert.Greater(t, angle, 0.)
	assert.Less(t, angle, 60.+1e-9)
	// The equilateral optimum for the aspect metric is 1
	assert.GreaterOrEqual(t, aspect, 1.)
}
