package elements

import (
	"math"

	"github.com/meshforge/gomesh/geometry2D"
)

/*
	Geometric degeneracy is handled with absolute epsilon thresholds. The right
	epsilon depends on the coordinate scale of the input, so both are exposed
	as package level knobs rather than buried inline.
*/
var (
	// DegenerateEps bounds the circumcircle determinant below which three
	// points are treated as collinear
	DegenerateEps = 1e-10
	// InCircleEps guards the strict in-circumcircle test against accepting
	// points sitting exactly on the circle boundary
	InCircleEps = 1e-10
)

// Triangle holds three vertex indices into a shared point array plus the
// circumcircle derived from the vertex positions at construction time. If a
// referenced vertex moves, the Triangle must be rebuilt with NewTriangle -
// never mutated in place - or the cached circumcircle goes stale.
type Triangle struct {
	Vertices       [3]int
	Circumcenter   geometry2D.Point
	CircumradiusSq float64
}

func NewTriangle(vertices [3]int, points []geometry2D.Point) (tri Triangle) {
	tri.Vertices = vertices
	tri.Circumcenter, tri.CircumradiusSq = Circumcircle(vertices, points)
	return
}

// Circumcircle solves the circumcenter system for three points. A determinant
// magnitude below DegenerateEps means the points are collinear: the radius is
// +Inf and the center arbitrary, so the in-circle test below never fires for
// degenerate triangles.
func Circumcircle(vertices [3]int, points []geometry2D.Point) (center geometry2D.Point, radiusSq float64) {
	p1 := points[vertices[0]]
	p2 := points[vertices[1]]
	p3 := points[vertices[2]]

	ax, ay := p1.X, p1.Y
	bx, by := p2.X, p2.Y
	cx, cy := p3.X, p3.Y

	d := 2. * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < DegenerateEps {
		return geometry2D.Point{}, math.Inf(1)
	}

	aSq := ax*ax + ay*ay
	bSq := bx*bx + by*by
	cSq := cx*cx + cy*cy
	center.X = (aSq*(by-cy) + bSq*(cy-ay) + cSq*(ay-by)) / d
	center.Y = (aSq*(cx-bx) + bSq*(ax-cx) + cSq*(bx-ax)) / d
	radiusSq = center.DistanceSquaredTo(p1)
	return
}

func (tri Triangle) ContainsPointInCircumcircle(point geometry2D.Point) bool {
	distSq := tri.Circumcenter.DistanceSquaredTo(point)
	return distSq < tri.CircumradiusSq-InCircleEps
}

func (tri Triangle) GetPoints(points []geometry2D.Point) (pts [3]geometry2D.Point) {
	pts[0] = points[tri.Vertices[0]]
	pts[1] = points[tri.Vertices[1]]
	pts[2] = points[tri.Vertices[2]]
	return
}

func (tri Triangle) Centroid(points []geometry2D.Point) geometry2D.Point {
	pts := tri.GetPoints(points)
	return geometry2D.Point{
		X: (pts[0].X + pts[1].X + pts[2].X) / 3.,
		Y: (pts[0].Y + pts[1].Y + pts[2].Y) / 3.,
	}
}

func (tri Triangle) Area(points []geometry2D.Point) float64 {
	return 0.5 * math.Abs(tri.Jacobian(points))
}

// Jacobian is twice the signed area - strictly positive iff the vertices wind
// counter-clockwise. This is the single source of truth for orientation.
func (tri Triangle) Jacobian(points []geometry2D.Point) float64 {
	pts := tri.GetPoints(points)
	dx21 := pts[1].X - pts[0].X
	dx31 := pts[2].X - pts[0].X
	dy21 := pts[1].Y - pts[0].Y
	dy31 := pts[2].Y - pts[0].Y
	return dx21*dy31 - dx31*dy21
}

func (tri Triangle) IsProperlyOriented(points []geometry2D.Point) bool {
	return tri.Jacobian(points) > 0.
}

// Angles returns the law-of-cosines interior angle at each vertex, in degrees
func (tri Triangle) Angles(points []geometry2D.Point) (angles [3]float64) {
	pts := tri.GetPoints(points)
	aSq := pts[1].DistanceSquaredTo(pts[2])
	bSq := pts[0].DistanceSquaredTo(pts[2])
	cSq := pts[0].DistanceSquaredTo(pts[1])
	a, b, c := math.Sqrt(aSq), math.Sqrt(bSq), math.Sqrt(cSq)

	angles[0] = math.Acos((bSq + cSq - aSq) / (2. * b * c))
	angles[1] = math.Acos((aSq + cSq - bSq) / (2. * a * c))
	angles[2] = math.Acos((aSq + bSq - cSq) / (2. * a * b))
	for i := range angles {
		angles[i] *= 180. / math.Pi
	}
	return
}

func (tri Triangle) MinAngle(points []geometry2D.Point) (min float64) {
	angles := tri.Angles(points)
	min = angles[0]
	for _, angle := range angles[1:] {
		min = math.Min(min, angle)
	}
	return
}

// AspectRatio is circumradius over twice the inradius: 1 for an equilateral
// triangle, +Inf as the triangle degenerates
func (tri Triangle) AspectRatio(points []geometry2D.Point) float64 {
	pts := tri.GetPoints(points)
	a := pts[1].DistanceTo(pts[2])
	b := pts[0].DistanceTo(pts[2])
	c := pts[0].DistanceTo(pts[1])

	s := 0.5 * (a + b + c)
	area := math.Sqrt(math.Max(s*(s-a)*(s-b)*(s-c), 0.))
	if area < 1e-9 {
		return math.Inf(1)
	}
	circumradius := a * b * c / (4. * area)
	inradius := area / s
	return circumradius / (2. * inradius)
}

// Edge is an unordered vertex index pair, canonicalized lower index first so
// it can be compared or used as a map key for shared-edge detection
type Edge struct {
	Verts [2]int
}

func NewEdge(v1, v2 int) (e Edge) {
	if v1 < v2 {
		e.Verts = [2]int{v1, v2}
	} else {
		e.Verts = [2]int{v2, v1}
	}
	return
}

// Quad holds four vertex indices in one consistent winding order
type Quad struct {
	Vertices [4]int
}

func NewQuad(vertices [4]int) (q Quad) {
	q.Vertices = vertices
	return
}

func (q Quad) GetPoints(points []geometry2D.Point) (pts [4]geometry2D.Point) {
	for i, v := range q.Vertices {
		pts[i] = points[v]
	}
	return
}

func (q Quad) Area(points []geometry2D.Point) float64 {
	pts := q.GetPoints(points)
	var sum float64
	for i := 0; i < 4; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%4]
		sum += p0.X*p1.Y - p1.X*p0.Y
	}
	return 0.5 * math.Abs(sum)
}

func (q Quad) JacobianAtCenter(points []geometry2D.Point) float64 {
	pts := q.GetPoints(points)
	dxDxi := 0.25 * (-pts[0].X + pts[1].X + pts[2].X - pts[3].X)
	dxDeta := 0.25 * (-pts[0].X - pts[1].X + pts[2].X + pts[3].X)
	dyDxi := 0.25 * (-pts[0].Y + pts[1].Y + pts[2].Y - pts[3].Y)
	dyDeta := 0.25 * (-pts[0].Y - pts[1].Y + pts[2].Y + pts[3].Y)
	return dxDxi*dyDeta - dxDeta*dyDxi
}

// MinJacobian samples the bilinear map derivatives at the four 2x2 Gauss
// quadrature nodes (+-1/sqrt(3), +-1/sqrt(3)) and returns the minimum. A quad
// can be positively oriented at its center yet inverted near a corner, which
// is why the centroid Jacobian alone is not a validity test.
func (q Quad) MinJacobian(points []geometry2D.Point) (minJac float64) {
	pts := q.GetPoints(points)
	gp := 1. / math.Sqrt(3.)
	xiVals := [4]float64{-gp, gp, gp, -gp}
	etaVals := [4]float64{-gp, -gp, gp, gp}

	minJac = math.Inf(1)
	for i := 0; i < 4; i++ {
		xi, eta := xiVals[i], etaVals[i]
		dxDxi := 0.25 * (-(1.-eta)*pts[0].X + (1.-eta)*pts[1].X + (1.+eta)*pts[2].X - (1.+eta)*pts[3].X)
		dxDeta := 0.25 * (-(1.-xi)*pts[0].X - (1.+xi)*pts[1].X + (1.+xi)*pts[2].X + (1.-xi)*pts[3].X)
		dyDxi := 0.25 * (-(1.-eta)*pts[0].Y + (1.-eta)*pts[1].Y + (1.+eta)*pts[2].Y - (1.+eta)*pts[3].Y)
		dyDeta := 0.25 * (-(1.-xi)*pts[0].Y - (1.+xi)*pts[1].Y + (1.+xi)*pts[2].Y + (1.-xi)*pts[3].Y)
		minJac = math.Min(minJac, dxDxi*dyDeta-dxDeta*dyDxi)
	}
	return
}

func (q Quad) IsProperlyOriented(points []geometry2D.Point) bool {
	return q.MinJacobian(points) > 0.
}
