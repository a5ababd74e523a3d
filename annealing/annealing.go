package annealing

import (
	"math"
	"math/rand"
	"time"

	"github.com/meshforge/gomesh/delaunay"
	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
)

// MinTemperature is the floor at which the annealing loop stops regardless of
// the iteration budget
const MinTemperature = 0.1

// QualityEvaluator scores a mesh, higher is better. The two historical
// optimizer variants differ only in their evaluator, so the Metropolis loop
// itself is shared.
type QualityEvaluator interface {
	Quality(m *mesh.Mesh) float64
}

// Schedule holds the shared annealing loop parameters
type Schedule struct {
	Temperature       float64
	CoolingRate       float64
	MaxIterations     int
	PerturbationScale float64 // proposal radius = temperature * scale
	QualityThreshold  float64 // early stop when > 0 and quality exceeds it
}

// newRand returns the caller's source, or a time-seeded one when nil. Tests
// pass a fixed seed for deterministic replay.
func newRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

/*
	anneal runs Metropolis vertex relocation on m:
	  - pick one eligible (non-boundary) vertex uniformly at random
	  - propose a uniform displacement in [-r,r]^2 with r = temperature*scale
	  - reject immediately, without retriangulating, if the displaced position
	    leaves the boundary polygon
	  - accept improving moves unconditionally, degrading moves with
	    probability exp(delta/temperature)
	Every applied move, accepted or rejected, triggers a full re-triangulation
	of all points. That is a deliberate simplicity tradeoff - realistic mesh
	sizes are small and the retriangulation sits behind Retriangulate so a
	local update can replace it without touching this loop.
	Temperature decays geometrically every iteration regardless of outcome.
*/
func anneal(m *mesh.Mesh, boundary []geometry2D.Point, sched Schedule,
	eval QualityEvaluator, rng *rand.Rand, label string) (iterations int, err error) {
	var eligible []int
	for i, isBoundary := range m.BoundaryVertex {
		if !isBoundary {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		// Nothing to relocate - every vertex is boundary geometry
		return 0, nil
	}

	temperature := sched.Temperature
	for iterations < sched.MaxIterations && temperature > MinTemperature {
		currentQuality := eval.Quality(m)
		if sched.QualityThreshold > 0 && currentQuality > sched.QualityThreshold {
			logf("%s - Quality threshold reached: %.4f\n", label, currentQuality)
			break
		}

		vertexIdx := eligible[rng.Intn(len(eligible))]
		oldVertex := m.Vertices[vertexIdx]

		perturbationRadius := temperature * sched.PerturbationScale
		dx := (2.*rng.Float64() - 1.) * perturbationRadius
		dy := (2.*rng.Float64() - 1.) * perturbationRadius
		newVertex := geometry2D.NewPoint(oldVertex.X+dx, oldVertex.Y+dy)
		newVertex.ID = oldVertex.ID

		// An empty boundary places no constraint on moves
		if len(boundary) == 0 || geometry2D.PointInsidePolygon(newVertex, boundary) {
			m.Vertices[vertexIdx] = newVertex
			if err = Retriangulate(m); err != nil {
				return iterations, err
			}

			newQuality := eval.Quality(m)
			delta := newQuality - currentQuality
			if delta > 0 || rng.Float64() < math.Exp(delta/temperature) {
				if iterations%1000 == 0 {
					logf("%s - Iteration %d: quality=%.4f, temp=%.2f\n",
						label, iterations, newQuality, temperature)
				}
			} else {
				m.Vertices[vertexIdx] = oldVertex
				if err = Retriangulate(m); err != nil {
					return iterations, err
				}
			}
		}

		temperature *= sched.CoolingRate
		iterations++
	}
	return iterations, nil
}

// Retriangulate rebuilds the mesh connectivity from scratch over the current
// vertex positions. Vertex order, and with it the boundary tags, is preserved.
func Retriangulate(m *mesh.Mesh) error {
	d := delaunay.NewDelaunayTriangulator(m.Vertices)
	fresh, err := d.Triangulate()
	if err != nil {
		return err
	}
	m.Vertices = fresh.Vertices
	m.Triangles = fresh.Triangles
	m.TriangleIndices = fresh.TriangleIndices
	return nil
}

// GridQuality is the generator-internal metric: the mean over valid
// (positive-Jacobian) triangles of (minAngle/60) * min(jacobian, 1)
type GridQuality struct{}

func (GridQuality) Quality(m *mesh.Mesh) float64 {
	var totalQuality float64
	var validTriangles int
	for _, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		jacobian := tri.Jacobian(m.Vertices)
		if jacobian > 0 {
			angleQuality := tri.MinAngle(m.Vertices) / 60.
			totalQuality += angleQuality * math.Min(jacobian, 1.)
			validTriangles++
		}
	}
	if validTriangles == 0 {
		return 0
	}
	return totalQuality / float64(validTriangles)
}

// WeightedQuality is the multi-criterion metric of the general optimizer: a
// per-triangle weighted average of angle, volume-uniformity, aspect-ratio and
// size-uniformity terms, normalized by the sum of active weights. Only
// strictly positive-Jacobian triangles contribute.
type WeightedQuality struct {
	CheckVolume          bool
	CheckAspectRatio     bool
	CheckSizeUniformity  bool
	VolumeWeight         float64
	AspectRatioWeight    float64
	SizeUniformityWeight float64
	TargetAspectRatio    float64
	TargetArea           float64
	MinArea              float64
}

func (wq WeightedQuality) Quality(m *mesh.Mesh) float64 {
	if len(m.TriangleIndices) == 0 {
		return 0
	}
	meanArea := m.MeanTriangleArea()

	var totalQuality float64
	var validTriangles int
	for _, indices := range m.TriangleIndices {
		tri := elements.Triangle{Vertices: indices}
		if tri.Jacobian(m.Vertices) <= 0 {
			continue
		}

		qualityScore := 0.5 * (tri.MinAngle(m.Vertices) / 60.)
		weightSum := 0.5

		if wq.CheckVolume {
			qualityScore += wq.volumeQuality(tri.Area(m.Vertices), meanArea) * wq.VolumeWeight
			weightSum += wq.VolumeWeight
		}
		if wq.CheckAspectRatio {
			qualityScore += wq.aspectRatioQuality(tri.AspectRatio(m.Vertices)) * wq.AspectRatioWeight
			weightSum += wq.AspectRatioWeight
		}
		if wq.CheckSizeUniformity {
			qualityScore += wq.sizeUniformityQuality(tri.Area(m.Vertices)) * wq.SizeUniformityWeight
			weightSum += wq.SizeUniformityWeight
		}

		if weightSum > 0 {
			totalQuality += qualityScore / weightSum
			validTriangles++
		}
	}
	if validTriangles == 0 {
		return 0
	}
	return totalQuality / float64(validTriangles)
}

// volumeQuality is the symmetric smaller/larger ratio of the triangle area to
// the mesh mean area, floored at 0.1
func (wq WeightedQuality) volumeQuality(area, meanArea float64) float64 {
	if meanArea == 0 {
		return 1.
	}
	ratio := area / meanArea
	if area > meanArea {
		ratio = meanArea / area
	}
	return math.Max(ratio, 0.1)
}

func (wq WeightedQuality) aspectRatioQuality(aspectRatio float64) float64 {
	normalizedDiff := math.Abs(aspectRatio-wq.TargetAspectRatio) / wq.TargetAspectRatio
	return math.Max(1.-math.Min(normalizedDiff, 1.), 0.1)
}

// sizeUniformityQuality penalizes both over- and under-sized triangles
// relative to the target/min area thresholds, floored at 0.05
func (wq WeightedQuality) sizeUniformityQuality(area float64) float64 {
	var sizeRatio float64
	switch {
	case area > wq.TargetArea:
		sizeRatio = wq.TargetArea / area
	case area < wq.MinArea:
		sizeRatio = area / wq.MinArea * 0.5
	default:
		sizeRatio = area / wq.TargetArea
	}
	return math.Max(sizeRatio, 0.05)
}
