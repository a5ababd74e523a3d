package mesher

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesh"
)

// ExportCSV flattens the boundary geometry, mesh vertices and triangle index
// triples into rows for spreadsheet-style consumers
func ExportCSV(geometry geometry2D.Geometry, m *mesh.Mesh) (string, error) {
	var sb strings.Builder
	sb.WriteString("Type,Index,X,Y,Additional_Info\n")

	for i, point := range geometry.Points {
		fmt.Fprintf(&sb, "Point,%d,%v,%v,Boundary_Point_%d\n", i, point.X, point.Y, i)
	}
	if m != nil {
		for i, vertex := range m.Vertices {
			fmt.Fprintf(&sb, "Mesh_Vertex,%d,%v,%v,Mesh_Node\n", i, vertex.X, vertex.Y)
		}
		for i, triangle := range m.TriangleIndices {
			fmt.Fprintf(&sb, "Triangle,%d,%d,%d,Triangle_Nodes_%d\n",
				i, triangle[0], triangle[1], triangle[2])
		}
	}
	return sb.String(), nil
}

const (
	svgCanvas    = 800
	svgMargin    = 40
	elementStyle = "fill:rgb(235,235,245);stroke:rgb(60,60,90);stroke-width:1"
	vertexStyle  = "fill:rgb(200,40,40)"
)

// ExportSVG renders the mesh elements and vertices to w as a standalone SVG
// document, scaled to fit a fixed canvas
func ExportSVG(m *mesh.Mesh, w io.Writer) error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("cannot render empty mesh")
	}
	box := geometry2D.NewBoundingBox(m.Vertices)
	scale := float64(svgCanvas-2*svgMargin) / box.Diagonal()

	toScreen := func(pt geometry2D.Point) (x, y int) {
		x = svgMargin + int((pt.X-box.XMin[0])*scale)
		// SVG y axis points down
		y = svgCanvas - svgMargin - int((pt.Y-box.XMin[1])*scale)
		return
	}

	canvas := svg.New(w)
	canvas.Start(svgCanvas, svgCanvas)
	canvas.Rect(0, 0, svgCanvas, svgCanvas, "fill:rgb(255,255,255)")

	for _, indices := range m.TriangleIndices {
		xs := make([]int, 3)
		ys := make([]int, 3)
		for i, v := range indices {
			xs[i], ys[i] = toScreen(m.Vertices[v])
		}
		canvas.Polygon(xs, ys, elementStyle)
	}
	for _, indices := range m.QuadIndices {
		xs := make([]int, 4)
		ys := make([]int, 4)
		for i, v := range indices {
			xs[i], ys[i] = toScreen(m.Vertices[v])
		}
		canvas.Polygon(xs, ys, elementStyle)
	}
	for _, vertex := range m.Vertices {
		x, y := toScreen(vertex)
		canvas.Circle(x, y, 2, vertexStyle)
	}
	canvas.End()
	return nil
}
