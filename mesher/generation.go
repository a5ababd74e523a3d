package mesher

import (
	"fmt"
	"math/rand"

	"github.com/meshforge/gomesh/annealing"
	"github.com/meshforge/gomesh/delaunay"
	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
	"github.com/meshforge/gomesh/paving"
)

// Verbose gates generation diagnostics on stdout
var Verbose = false

func logf(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf(format, args...)
	}
}

// GenerateMesh dispatches on the request's algorithm tag and runs the
// corresponding pipeline. Every path ends in global Jacobian validation, so a
// returned mesh always satisfies the positive-orientation invariant.
func GenerateMesh(request MeshRequest) (*mesh.Mesh, error) {
	return GenerateMeshSeeded(request, nil)
}

// GenerateMeshSeeded is GenerateMesh with an explicit random source for the
// stochastic optimizers, enabling deterministic replay
func GenerateMeshSeeded(request MeshRequest, rng *rand.Rand) (*mesh.Mesh, error) {
	if len(request.Geometry.Points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to generate mesh")
	}

	switch request.Algorithm {
	case AlgorithmPaving:
		return generatePavingMesh(request)
	case AlgorithmAnnealing:
		return generateAnnealingMesh(request, rng)
	default:
		return generateDelaunayMesh(request)
	}
}

func generateDelaunayMesh(request MeshRequest) (m *mesh.Mesh, err error) {
	boundaryPoints := request.Geometry.Points

	if request.MaxArea != nil {
		// Hexagonal lattice seeding plus interior refinement gives a more
		// uniform element size distribution than boundary points alone
		targetEdgeLength := delaunay.TargetEdgeLength(*request.MaxArea)
		points, boundaryCount := delaunay.GenerateHexagonalGrid(boundaryPoints, targetEdgeLength)

		d := delaunay.NewDelaunayTriangulator(points)
		if err = d.InsertPoints(); err != nil {
			return nil, err
		}
		if err = d.RefineInterior(*request.MaxArea, boundaryCount); err != nil {
			return nil, err
		}
		d.RemoveSuperTriangle()
		d.FilterOutsideTriangles(boundaryCount)
		m = d.Mesh()
		// Tag the refined boundary samples, not just the original loop
		// corners, so later optimization freezes the whole outline
		m.TagBoundary(points[:boundaryCount])
	} else {
		d := delaunay.NewDelaunayTriangulator(boundaryPoints)
		if m, err = d.Triangulate(); err != nil {
			return nil, err
		}
		m = filterMeshOutsideBoundary(m, boundaryPoints)
		m.TagBoundary(boundaryPoints)
	}

	if err = m.ValidateJacobians(); err != nil {
		return nil, fmt.Errorf("mesh validation failed: %w", err)
	}
	minJac, maxJac, avgJac := m.JacobianStats()
	logf("Delaunay mesh Jacobian stats - Min: %.6f, Max: %.6f, Avg: %.6f\n",
		minJac, maxJac, avgJac)
	return m, nil
}

func generateAnnealingMesh(request MeshRequest, rng *rand.Rand) (*mesh.Mesh, error) {
	targetArea := 100.
	if request.MaxArea != nil {
		targetArea = *request.MaxArea
	}
	qualityThreshold := 20. / 60.
	if request.MinAngle != nil {
		qualityThreshold = *request.MinAngle / 60.
	}

	maxIterations := annealing.DefaultMaxIterations
	var generator *annealing.GridAnnealingMeshGenerator
	if opts := request.AnnealingOptions; opts != nil {
		if opts.MaxIterations != nil {
			maxIterations = *opts.MaxIterations
		}
		temperature := annealing.DefaultTemperature
		if opts.Temperature != nil {
			temperature = *opts.Temperature
		}
		coolingRate := annealing.DefaultCoolingRate
		if opts.CoolingRate != nil {
			coolingRate = *opts.CoolingRate
		}
		if opts.QualityThreshold != nil {
			qualityThreshold = *opts.QualityThreshold
		}
		generator = annealing.NewGridAnnealingWithOptions(request.Geometry.Points,
			temperature, coolingRate, qualityThreshold, rng)
	} else {
		generator = annealing.NewGridAnnealingMeshGenerator(request.Geometry.Points,
			qualityThreshold, rng)
	}
	return generator.GenerateMeshWithIterations(targetArea, maxIterations)
}

func generatePavingMesh(request MeshRequest) (*mesh.Mesh, error) {
	if len(request.Geometry.Points) < 4 {
		return nil, fmt.Errorf("need at least 4 points for paving mesh")
	}
	targetSize := 100.
	if request.MaxArea != nil {
		targetSize = *request.MaxArea
	}
	generator := paving.NewPavingMeshGenerator(request.Geometry.Points)
	return generator.GenerateMesh(targetSize)
}

// OptimizeMesh runs the general annealing optimizer over an existing
// triangular mesh, preserving the original boundary loop
func OptimizeMesh(m *mesh.Mesh, boundary []geometry2D.Point,
	options *annealing.Options, rng *rand.Rand) error {
	optimizer := annealing.NewOptimizerFromOptions(options, rng)
	optimizer.SetBoundary(boundary)
	return optimizer.OptimizeMesh(m)
}

// filterMeshOutsideBoundary drops triangles whose centroid lies outside the
// boundary loop. Bowyer-Watson covers the convex hull, which can extend past
// a non-convex boundary.
func filterMeshOutsideBoundary(m *mesh.Mesh, boundary []geometry2D.Point) *mesh.Mesh {
	filtered := &mesh.Mesh{
		Vertices:       m.Vertices,
		BoundaryVertex: m.BoundaryVertex,
	}
	for i, indices := range m.TriangleIndices {
		p1 := m.Vertices[indices[0]]
		p2 := m.Vertices[indices[1]]
		p3 := m.Vertices[indices[2]]
		centroid := geometry2D.NewPoint(
			(p1.X+p2.X+p3.X)/3.,
			(p1.Y+p2.Y+p3.Y)/3.,
		)
		if geometry2D.PointInsidePolygon(centroid, boundary) {
			filtered.TriangleIndices = append(filtered.TriangleIndices, indices)
			filtered.Triangles = append(filtered.Triangles, m.Triangles[i])
		}
	}
	return filtered
}
