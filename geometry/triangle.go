package geometry

import (
	"github.com/o0olele/navmesh-go/math32"
)

// Triangle is a triangle geometry
type Triangle struct {
	A math32.Vector3 `json:"a"`
	B math32.Vector3 `json:"b"`
	C math32.Vector3 `json:"c"`
}

// NewTriangle picks the three vertices of a face out of a vertex list.
func NewTriangle(vertices []math32.Vector3, ids [3]uint32) Triangle {
	return Triangle{A: vertices[ids[0]], B: vertices[ids[1]], C: vertices[ids[2]]}
}

// Centroid returns the mean of the three vertices.
func (t *Triangle) Centroid() math32.Vector3 {
	return t.A.Add(t.B).Add(t.C).Scale(1.0 / 3.0)
}

// RawNormal returns (B-A)x(C-A) without normalizing it; its length is twice the area.
func (t *Triangle) RawNormal() math32.Vector3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Normal returns the unit normal following the A, B, C winding.
func (t *Triangle) Normal() math32.Vector3 {
	return t.RawNormal().Normalize()
}

// footprintSlack is how far outside an edge, relative to that edge's
// length, a point still counts as inside the footprint.
const footprintSlack = 1e-4

// insidePrism reports whether p lies in the infinite prism spanned by the
// triangle along its normal. n is the raw normal; a positive slack widens
// every edge by slack times the edge length.
func (t *Triangle) insidePrism(p math32.Vector3, n math32.Vector3, slack float32) bool {
	// n x e has length |n||e|, so the test value is |n||e| times the
	// signed distance of p from the edge line.
	nl := n.Length()
	edge := func(a, b math32.Vector3) bool {
		e := b.Sub(a)
		return n.Cross(e).Dot(p.Sub(a)) >= -slack*nl*e.LengthSquared()
	}
	return edge(t.A, t.B) && edge(t.B, t.C) && edge(t.C, t.A)
}

// DistanceToPoint returns the euclidean distance from p to the closest point of
// the triangle: the plane distance inside the prism, otherwise the distance to
// the nearest edge.
func (t *Triangle) DistanceToPoint(p math32.Vector3) float32 {
	n := t.RawNormal()
	nl := n.Length()
	if nl == 0 {
		return math32.Min(SegmentDistance(p, t.A, t.B), math32.Min(SegmentDistance(p, t.B, t.C), SegmentDistance(p, t.C, t.A)))
	}
	if t.insidePrism(p, n, 0) {
		return math32.Abs(n.Dot(p.Sub(t.A)) / nl)
	}
	return math32.Min(SegmentDistance(p, t.A, t.B), math32.Min(SegmentDistance(p, t.B, t.C), SegmentDistance(p, t.C, t.A)))
}

// PlaneDistance returns the unsigned distance from p to the triangle plane.
func (t *Triangle) PlaneDistance(p math32.Vector3) float32 {
	n := t.Normal()
	return math32.Abs(n.Dot(p.Sub(t.A)))
}

// FootprintContains reports whether p, projected along the triangle normal,
// falls inside the triangle. Points on the boundary, or within rounding of
// it, count as inside.
func (t *Triangle) FootprintContains(p math32.Vector3) bool {
	n := t.RawNormal()
	if n.LengthSquared() == 0 {
		return false
	}
	return t.insidePrism(p, n, footprintSlack)
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b math32.Vector3) float32 {
	ab := b.Sub(a)
	lsq := ab.LengthSquared()
	if lsq == 0 {
		return p.Distance(a)
	}
	s := math32.Clamp(ab.Dot(p.Sub(a))/lsq, 0, 1)
	return p.Distance(a.Add(ab.Scale(s)))
}
