package annealing

import (
	"math/rand"

	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
)

// MaxRefinementPasses bounds the adaptive size-refinement post-process
const MaxRefinementPasses = 3

// Optimizer is the general post-process annealing optimizer: multi-criterion
// quality scoring with configurable weights, followed by adaptive split/merge
// refinement for size control. Apply it to a mesh produced elsewhere.
type Optimizer struct {
	Temperature          float64
	CoolingRate          float64
	MaxIterations        int
	CheckVolume          bool
	CheckAspectRatio     bool
	TargetAspectRatio    float64
	VolumeWeight         float64
	AspectRatioWeight    float64
	CheckSizeUniformity  bool
	SizeUniformityWeight float64
	TargetArea           float64
	MinArea              float64

	// BoundaryPoints is the original boundary loop, used both to reject
	// moves leaving the domain and to tag frozen vertices on meshes that
	// arrive untagged
	BoundaryPoints []geometry2D.Point

	rng *rand.Rand
}

// NewOptimizer returns an optimizer with all defaults. A nil rng means
// time-seeded; tests pass a fixed seed.
func NewOptimizer(rng *rand.Rand) *Optimizer {
	return &Optimizer{
		Temperature:          DefaultTemperature,
		CoolingRate:          DefaultCoolingRate,
		MaxIterations:        DefaultMaxIterations,
		CheckVolume:          true,
		CheckAspectRatio:     true,
		TargetAspectRatio:    DefaultTargetAspectRatio,
		VolumeWeight:         DefaultVolumeWeight,
		AspectRatioWeight:    DefaultAspectRatioWeight,
		CheckSizeUniformity:  true,
		SizeUniformityWeight: DefaultSizeUniformityWeight,
		TargetArea:           DefaultTargetArea,
		MinArea:              DefaultMinArea,
		rng:                  newRand(rng),
	}
}

func NewOptimizerFromOptions(options *Options, rng *rand.Rand) (o *Optimizer) {
	o = NewOptimizer(rng)
	if options == nil {
		return
	}
	o.Temperature = floatOr(options.Temperature, DefaultTemperature)
	o.CoolingRate = floatOr(options.CoolingRate, DefaultCoolingRate)
	o.MaxIterations = intOr(options.MaxIterations, DefaultMaxIterations)
	o.CheckVolume = boolOr(options.CheckVolume, true)
	o.CheckAspectRatio = boolOr(options.CheckAspectRatio, true)
	o.TargetAspectRatio = floatOr(options.TargetAspectRatio, DefaultTargetAspectRatio)
	o.VolumeWeight = floatOr(options.VolumeWeight, DefaultVolumeWeight)
	o.AspectRatioWeight = floatOr(options.AspectRatioWeight, DefaultAspectRatioWeight)
	o.CheckSizeUniformity = boolOr(options.CheckSizeUniformity, true)
	o.SizeUniformityWeight = floatOr(options.SizeUniformityWeight, DefaultSizeUniformityWeight)
	o.TargetArea = floatOr(options.TargetArea, DefaultTargetArea)
	o.MinArea = floatOr(options.MinArea, DefaultMinArea)
	return
}

func (o *Optimizer) SetBoundary(boundaryPoints []geometry2D.Point) {
	o.BoundaryPoints = boundaryPoints
}

func (o *Optimizer) evaluator() WeightedQuality {
	return WeightedQuality{
		CheckVolume:          o.CheckVolume,
		CheckAspectRatio:     o.CheckAspectRatio,
		CheckSizeUniformity:  o.CheckSizeUniformity,
		VolumeWeight:         o.VolumeWeight,
		AspectRatioWeight:    o.AspectRatioWeight,
		SizeUniformityWeight: o.SizeUniformityWeight,
		TargetAspectRatio:    o.TargetAspectRatio,
		TargetArea:           o.TargetArea,
		MinArea:              o.MinArea,
	}
}

// OptimizeMesh anneals the interior vertices of m in place, then runs the
// adaptive size-refinement post-process. Quad meshes are left untouched -
// vertex relocation under Delaunay retriangulation only makes sense for
// triangle meshes.
func (o *Optimizer) OptimizeMesh(m *mesh.Mesh) error {
	logf("GENERAL ANNEALING - Starting optimization\n")

	if len(m.QuadIndices) > 0 {
		logf("GENERAL ANNEALING - Skipping optimization for quad-based mesh (not supported)\n")
		return nil
	}
	if len(m.TriangleIndices) == 0 {
		logf("GENERAL ANNEALING - No triangular elements found, skipping optimization\n")
		return nil
	}

	if m.BoundaryVertex == nil {
		m.TagBoundary(o.BoundaryPoints)
	}

	sched := Schedule{
		Temperature:       o.Temperature,
		CoolingRate:       o.CoolingRate,
		MaxIterations:     o.MaxIterations,
		PerturbationScale: 0.05,
	}
	iterations, err := anneal(m, o.BoundaryPoints, sched, o.evaluator(), o.rng, "GENERAL ANNEALING")
	if err != nil {
		return err
	}
	logf("GENERAL ANNEALING - Optimization finished after %d iterations\n", iterations)

	return o.adaptiveSizeRefinement(m)
}

/*
	adaptiveSizeRefinement scans for triangles with area above twice the
	target ("oversized") and below the minimum ("undersized"). Oversized
	triangles gain a centroid vertex, picked up by the next retriangulation;
	undersized triangles have their non-boundary vertices nudged 10% toward
	the triangle centroid. The mesh is fully retriangulated after each pass
	and the loop stops early when a pass changes nothing.
*/
func (o *Optimizer) adaptiveSizeRefinement(m *mesh.Mesh) error {
	logf("ADAPTIVE REFINEMENT - Starting size-based refinement\n")

	for iteration := 0; iteration < MaxRefinementPasses; iteration++ {
		changed := false

		oversized := o.findTrianglesBySize(m, func(area float64) bool {
			return area > o.TargetArea*2.
		})
		undersized := o.findTrianglesBySize(m, func(area float64) bool {
			return area < o.MinArea
		})
		logf("ADAPTIVE REFINEMENT - Iteration %d: %d oversized, %d undersized triangles\n",
			iteration, len(oversized), len(undersized))

		for _, triangleIdx := range oversized {
			if o.splitTriangle(m, triangleIdx) {
				changed = true
			}
		}
		for _, triangleIdx := range undersized {
			if o.shrinkTriangle(m, triangleIdx) {
				changed = true
			}
		}

		if !changed {
			logf("ADAPTIVE REFINEMENT - Converged after %d iterations\n", iteration+1)
			break
		}
		if err := Retriangulate(m); err != nil {
			return err
		}
		logf("ADAPTIVE REFINEMENT - Retriangulated mesh: %d vertices, %d triangles\n",
			len(m.Vertices), len(m.TriangleIndices))
	}

	logf("ADAPTIVE REFINEMENT - Completed\n")
	return nil
}

func (o *Optimizer) findTrianglesBySize(m *mesh.Mesh, match func(area float64) bool) (found []int) {
	for i, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		if match(tri.Area(m.Vertices)) {
			found = append(found, i)
		}
	}
	return
}

// splitTriangle inserts a vertex at the triangle centroid when the centroid
// lies inside the boundary, reporting whether anything changed
func (o *Optimizer) splitTriangle(m *mesh.Mesh, triangleIdx int) bool {
	if triangleIdx >= len(m.TriangleIndices) {
		return false
	}
	tri := elements.Triangle{Vertices: m.TriangleIndices[triangleIdx]}
	centroid := tri.Centroid(m.Vertices)

	if !o.isInsideBoundary(centroid) {
		logf("ADAPTIVE REFINEMENT - Skipped adding centroid outside boundary for triangle %d\n", triangleIdx)
		return false
	}
	m.Vertices = append(m.Vertices, centroid)
	if m.BoundaryVertex != nil {
		m.BoundaryVertex = append(m.BoundaryVertex, false)
	}
	logf("ADAPTIVE REFINEMENT - Split triangle %d by adding vertex at centroid\n", triangleIdx)
	return true
}

// shrinkTriangle nudges the triangle's non-boundary vertices 10% toward its
// centroid, keeping each inside the boundary
func (o *Optimizer) shrinkTriangle(m *mesh.Mesh, triangleIdx int) bool {
	if triangleIdx >= len(m.TriangleIndices) {
		return false
	}
	indices := m.TriangleIndices[triangleIdx]
	tri := elements.Triangle{Vertices: indices}
	centroid := tri.Centroid(m.Vertices)

	const moveFactor = 0.1
	for _, vertexIdx := range indices {
		if m.BoundaryVertex != nil && m.BoundaryVertex[vertexIdx] {
			continue
		}
		vertex := m.Vertices[vertexIdx]
		moved := geometry2D.NewPoint(
			vertex.X+(centroid.X-vertex.X)*moveFactor,
			vertex.Y+(centroid.Y-vertex.Y)*moveFactor,
		)
		moved.ID = vertex.ID
		if o.isInsideBoundary(moved) {
			m.Vertices[vertexIdx] = moved
		} else {
			logf("ADAPTIVE REFINEMENT - Skipped moving vertex %d outside boundary\n", vertexIdx)
		}
	}
	logf("ADAPTIVE REFINEMENT - Adjusted small triangle %d by moving vertices toward centroid\n", triangleIdx)
	return true
}

// isInsideBoundary falls back to accepting everything when no boundary loop
// was supplied
func (o *Optimizer) isInsideBoundary(point geometry2D.Point) bool {
	if len(o.BoundaryPoints) == 0 {
		return true
	}
	return geometry2D.PointInsidePolygon(point, o.BoundaryPoints)
}
