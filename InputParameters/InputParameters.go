package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/meshforge/gomesh/mesher"
)

// Parameters obtained from the YAML (or JSON) input file. ghodss/yaml works
// off the JSON tags, so the same schema flows straight into the mesh request.
type MeshParameters struct {
	Title   string             `json:"title,omitempty"`
	Request mesher.MeshRequest `json:"request"`
}

func (mp *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

func (mp *MeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("\"%s\"\t\t= Geometry\n", mp.Request.Geometry.Name)
	fmt.Printf("[%d]\t\t\t= Boundary Points\n", len(mp.Request.Geometry.Points))
	algorithm := mp.Request.Algorithm
	if algorithm == "" {
		algorithm = mesher.AlgorithmDelaunay
	}
	fmt.Printf("[%s]\t\t= Algorithm\n", algorithm)
	if mp.Request.MaxArea != nil {
		fmt.Printf("%8.5f\t\t= MaxArea\n", *mp.Request.MaxArea)
	}
	if mp.Request.MinAngle != nil {
		fmt.Printf("%8.5f\t\t= MinAngle\n", *mp.Request.MinAngle)
	}
}
