package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is an immutable 2D coordinate with an optional caller-supplied
// identity. Equality is coordinate based - duplicate coordinates are a caller
// error, not validated here.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID string  `json:"id,omitempty"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) DistanceTo(rhs Point) float64 {
	return math.Sqrt(pt.DistanceSquaredTo(rhs))
}

func (pt Point) DistanceSquaredTo(rhs Point) float64 {
	dx := pt.X - rhs.X
	dy := pt.Y - rhs.Y
	return dx*dx + dy*dy
}

func (pt Point) Plus(rhs Point) Point {
	return Point{X: pt.X + rhs.X, Y: pt.Y + rhs.Y}
}

func (pt Point) Minus(rhs Point) Point {
	return Point{X: pt.X - rhs.X, Y: pt.Y - rhs.Y}
}

// Geometry is a named, ordered boundary point loop as supplied by a caller
type Geometry struct {
	Points []Point `json:"points"`
	Name   string  `json:"name,omitempty"`
}

func NewGeometry(points []Point) Geometry {
	return Geometry{Points: points}
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(geometry []Point) (box *BoundingBox) {
	if len(geometry) == 0 {
		return nil
	}
	xs := make([]float64, len(geometry))
	ys := make([]float64, len(geometry))
	for i, pt := range geometry {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	box = new(BoundingBox)
	box.XMin[0], box.XMax[0] = floats.Min(xs), floats.Max(xs)
	box.XMin[1], box.XMax[1] = floats.Min(ys), floats.Max(ys)
	return box
}

func (bb *BoundingBox) Centroid() (centroid Point) {
	return Point{
		X: 0.5 * (bb.XMax[0] + bb.XMin[0]),
		Y: 0.5 * (bb.XMax[1] + bb.XMin[1]),
	}
}

func (bb *BoundingBox) Diagonal() (delta float64) {
	return math.Max(bb.XMax[0]-bb.XMin[0], bb.XMax[1]-bb.XMin[1])
}

func (bb *BoundingBox) PointInside(point Point) (within bool) {
	if point.X > bb.XMax[0] || point.X < bb.XMin[0] {
		return false
	}
	if point.Y > bb.XMax[1] || point.Y < bb.XMin[1] {
		return false
	}
	return true
}

type Polygon struct {
	Box      *BoundingBox
	Geometry []Point
}

func NewPolygon(geom []Point) (poly *Polygon) {
	poly = new(Polygon)
	poly.Box = NewBoundingBox(geom)
	poly.Geometry = geom
	return poly
}

func (pg *Polygon) Area() (area float64) {
	/*
		Green's theorem in the plane over the closed loop
	*/
	n := len(pg.Geometry)
	for i := 0; i < n; i++ {
		pt0 := pg.Geometry[i]
		pt1 := pg.Geometry[(i+1)%n]
		area += pt0.X*pt1.Y - pt1.X*pt0.Y
	}
	return 0.5 * area
}

func (pg *Polygon) PointInside(point Point) (inside bool) {
	if !pg.Box.PointInside(point) {
		return false
	}
	return PointInsidePolygon(point, pg.Geometry)
}

// PointInsidePolygon classifies a point against a closed boundary loop by ray
// casting - an odd number of edge crossings on the +X ray means inside. Points
// exactly on an edge land on either side depending on float rounding.
func PointInsidePolygon(point Point, boundary []Point) (inside bool) {
	j := len(boundary) - 1
	for i := 0; i < len(boundary); i++ {
		pi := boundary[i]
		pj := boundary[j]
		if (pi.Y > point.Y) != (pj.Y > point.Y) &&
			point.X < (pj.X-pi.X)*(point.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// CalculateBounds returns the axis aligned bounds of a point set
func CalculateBounds(points []Point) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, point := range points {
		minX = math.Min(minX, point.X)
		maxX = math.Max(maxX, point.X)
		minY = math.Min(minY, point.Y)
		maxY = math.Max(maxY, point.Y)
	}
	return
}
