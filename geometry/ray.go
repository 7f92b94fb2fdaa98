package geometry

import "github.com/o0olele/navmesh-go/math32"

// Ray is a half line, Dir need not be normalized. Hit distances are in
// units of Dir.
type Ray struct {
	Origin math32.Vector3 `json:"origin"`
	Dir    math32.Vector3 `json:"dir"`
}

// At returns the point at parameter t
func (r Ray) At(t float32) math32.Vector3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectTriangle checks if the ray hits the triangle from either side (Möller–Trumbore)
func (r Ray) IntersectTriangle(tri *Triangle) (float32, bool) {
	const eps = 1e-6
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -eps && det < eps {
		return 0, false
	}
	invDet := 1.0 / det
	tvec := r.Origin.Sub(tri.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB clips the ray against the box (slab method) and returns the
// entry and exit parameters. An origin inside the box enters at 0.
func (r Ray) IntersectAABB(aabb AABB) (float32, float32, bool) {
	const eps = 1e-6
	tmin := float32(0)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin.Get(axis), r.Dir.Get(axis)
		lo, hi := aabb.Min.Get(axis), aabb.Max.Get(axis)
		if math32.Abs(d) < eps {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}
