package geometry

import "github.com/o0olele/navmesh-go/math32"

// AABB is axis-aligned bounding box
type AABB struct {
	Min math32.Vector3 `json:"min" msgpack:"min"`
	Max math32.Vector3 `json:"max" msgpack:"max"`
}

// BoundsOf returns the box enclosing every point, or the zero box when points is empty.
func BoundsOf(points []math32.Vector3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Extend(p)
	}
	return box
}

// Extend grows the box to include point.
func (aabb *AABB) Extend(point math32.Vector3) {
	aabb.Min = math32.Vector3{X: math32.Min(aabb.Min.X, point.X), Y: math32.Min(aabb.Min.Y, point.Y), Z: math32.Min(aabb.Min.Z, point.Z)}
	aabb.Max = math32.Vector3{X: math32.Max(aabb.Max.X, point.X), Y: math32.Max(aabb.Max.Y, point.Y), Z: math32.Max(aabb.Max.Z, point.Z)}
}
