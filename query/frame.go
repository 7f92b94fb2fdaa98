package query

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/o0olele/navmesh-go/math32"
)

// foldFrame unfolds the surfaces crossed since the funnel apex into the
// apex surface's plane, one rotation per fold edge.
type foldFrame struct {
	transform  mgl32.Mat4
	lastNormal math32.Vector3
}

// reset starts a new frame on the surface with the given normal
func (f *foldFrame) reset(normal math32.Vector3) {
	f.transform = mgl32.Ident4()
	f.lastNormal = normal
}

// flatten maps a point of the current surface into the apex plane
func (f *foldFrame) flatten(p math32.Vector3) math32.Vector3 {
	return math32.FromVec3(mgl32.TransformCoordinate(p.Vec3(), f.transform))
}

// cross moves the frame over the edge from right to left onto the surface
// with normal next. Points of that surface flatten next to the previous one.
func (f *foldFrame) cross(left, right, next math32.Vector3) {
	axis := left.Sub(right)
	if axis.LengthSquared() == 0 {
		f.lastNormal = next
		return
	}
	axis = axis.Normalize()

	prev := f.lastNormal
	angle := math32.Atan2(next.Cross(prev).Dot(axis), next.Dot(prev))

	pivot := right
	unfold := mgl32.Translate3D(pivot.X, pivot.Y, pivot.Z).
		Mul4(mgl32.HomogRotate3D(angle, axis.Vec3())).
		Mul4(mgl32.Translate3D(-pivot.X, -pivot.Y, -pivot.Z))
	f.transform = f.transform.Mul4(unfold)
	f.lastNormal = next
}

// foldCorner is where the straight flattened segment from apex to next
// crosses the portal edge left-right, mapped back onto the raw edge.
// It reports false when the segment is degenerate.
func foldCorner(apex, next, flatLeft, flatRight, rawLeft, rawRight, normal math32.Vector3) (math32.Vector3, bool) {
	m := next.Sub(apex).Cross(normal)
	if m.LengthSquared() == 0 {
		return math32.Vector3{}, false
	}
	m = m.Normalize()
	plane := mgl32.Vec4{m.X, m.Y, m.Z, -m.Dot(apex)}

	dl := plane.Dot(flatLeft.Vec3().Vec4(1))
	dr := plane.Dot(flatRight.Vec3().Vec4(1))
	if dl == dr {
		return rawLeft.Lerp(rawRight, 0.5), true
	}
	t := math32.Clamp(dl/(dl-dr), 0, 1)
	return rawLeft.Lerp(rawRight, t), true
}
