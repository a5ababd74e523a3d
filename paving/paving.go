package paving

import (
	"fmt"
	"math"

	"github.com/meshforge/gomesh/elements"
	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
)

// PavingMeshGenerator stamps a structured quadrilateral grid over the
// boundary polygon interior and fan-triangulates the boundary loop. Grid
// spacing derives from the target element size.
type PavingMeshGenerator struct {
	Points    []geometry2D.Point
	Quads     []elements.Quad
	Triangles []elements.Triangle
}

func NewPavingMeshGenerator(boundaryPoints []geometry2D.Point) *PavingMeshGenerator {
	return &PavingMeshGenerator{
		Points: append([]geometry2D.Point{}, boundaryPoints...),
	}
}

func (p *PavingMeshGenerator) GenerateMesh(targetSize float64) (m *mesh.Mesh, err error) {
	if len(p.Points) < 4 {
		return nil, fmt.Errorf("need at least 4 points for paving mesh")
	}

	boundary := append([]geometry2D.Point{}, p.Points...)
	boundaryCount := len(boundary)
	minX, maxX, minY, maxY := geometry2D.CalculateBounds(boundary)
	gridSize := math.Max(math.Sqrt(targetSize)*0.8, 1.)

	// Lattice points outside the boundary leave holes, so quads connect
	// neighbors through an explicit (row, col) index map rather than flat
	// index arithmetic
	gridIndex := make(map[[2]int]int)
	rows, cols := 0, 0
	row := 0
	for y := minY + gridSize; y < maxY; y += gridSize {
		col := 0
		for x := minX + gridSize; x < maxX; x += gridSize {
			point := geometry2D.NewPoint(x, y)
			if geometry2D.PointInsidePolygon(point, boundary) {
				gridIndex[[2]int{row, col}] = len(p.Points)
				p.Points = append(p.Points, point)
			}
			col++
		}
		if col > cols {
			cols = col
		}
		row++
	}
	rows = row

	for row = 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			baseIdx, haveBase := gridIndex[[2]int{row, col}]
			right, haveRight := gridIndex[[2]int{row, col + 1}]
			up, haveUp := gridIndex[[2]int{row + 1, col}]
			diag, haveDiag := gridIndex[[2]int{row + 1, col + 1}]
			if !haveBase || !haveRight || !haveUp || !haveDiag {
				continue
			}
			vertices := [4]int{baseIdx, right, diag, up}
			quad := elements.NewQuad(vertices)
			if quad.MinJacobian(p.Points) <= 0. {
				// Reverse the winding so the minimum Gauss-point Jacobian
				// comes out positive
				vertices = [4]int{baseIdx, up, diag, right}
				quad = elements.NewQuad(vertices)
			}
			p.Quads = append(p.Quads, quad)
		}
	}

	p.fillBoundaryWithTriangles(boundaryCount)

	m = mesh.NewMeshWithQuads(p.Points, p.Triangles, p.Quads)
	m.TagBoundary(boundary)
	if err = m.ValidateJacobians(); err != nil {
		return nil, fmt.Errorf("paving mesh validation failed: %w", err)
	}
	return m, nil
}

// fillBoundaryWithTriangles fans the boundary loop from vertex 0, correcting
// each triangle's winding individually
func (p *PavingMeshGenerator) fillBoundaryWithTriangles(boundaryCount int) {
	if boundaryCount < 3 {
		return
	}
	for i := 1; i < boundaryCount-1; i++ {
		vertices := [3]int{0, i, i + 1}
		triangle := elements.NewTriangle(vertices, p.Points)
		if triangle.Jacobian(p.Points) < 0. {
			vertices = [3]int{0, i + 1, i}
			triangle = elements.NewTriangle(vertices, p.Points)
		}
		p.Triangles = append(p.Triangles, triangle)
	}
}
