package mesher

import (
	"github.com/meshforge/gomesh/annealing"
	"github.com/meshforge/gomesh/geometry2D"
)

// Algorithm tags accepted by GenerateMesh
const (
	AlgorithmDelaunay  = "delaunay"
	AlgorithmPaving    = "paving"
	AlgorithmAnnealing = "annealing"
)

// MeshRequest is the caller-facing mesh generation request. The zero
// Algorithm means delaunay; MaxArea and MinAngle are optional constraints.
type MeshRequest struct {
	Geometry         geometry2D.Geometry `json:"geometry"`
	MaxArea          *float64            `json:"max_area,omitempty"`
	MinAngle         *float64            `json:"min_angle,omitempty"`
	Algorithm        string              `json:"algorithm,omitempty"`
	AnnealingOptions *annealing.Options  `json:"annealing_options,omitempty"`
}

func NewMeshRequest(geometry geometry2D.Geometry) MeshRequest {
	return MeshRequest{Geometry: geometry}
}

// NewMeshRequestWithConstraints is the common constrained form: target
// element area and minimum angle in degrees
func NewMeshRequestWithConstraints(geometry geometry2D.Geometry, maxArea, minAngle float64) MeshRequest {
	return MeshRequest{
		Geometry: geometry,
		MaxArea:  &maxArea,
		MinAngle: &minAngle,
	}
}
