package math32

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector3 represents a 3D vector.
type Vector3 struct {
	X float32 `json:"x" msgpack:"x"`
	Y float32 `json:"y" msgpack:"y"`
	Z float32 `json:"z" msgpack:"z"`
}

// Add adds two vectors.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts two vectors.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale scales a vector by a scalar.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Distance calculates the distance between two vectors.
func (v Vector3) Distance(other Vector3) float32 {
	diff := v.Sub(other)
	return float32(math.Sqrt(float64(diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z)))
}

// DistanceSquared calculates the squared distance between two vectors.
func (v Vector3) DistanceSquared(other Vector3) float32 {
	diff := v.Sub(other)
	return diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z
}

// LengthSquared calculates the squared length of a vector.
func (v Vector3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length calculates the length of a vector.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Dot calculates the dot product of two vectors.
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross calculates the cross product of two vectors.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Normalize normalizes a vector.
func (v Vector3) Normalize() Vector3 {
	len := v.Length()
	if len == 0 {
		return Vector3{0, 0, 0}
	}
	return v.Scale(1.0 / len)
}

// Lerp interpolates linearly between v and other.
func (v Vector3) Lerp(other Vector3, t float32) Vector3 {
	return Vector3{
		v.X + (other.X-v.X)*t,
		v.Y + (other.Y-v.Y)*t,
		v.Z + (other.Z-v.Z)*t,
	}
}

// ApproxEqual reports whether the squared distance between v and other is below epsSq.
func (v Vector3) ApproxEqual(other Vector3, epsSq float32) bool {
	return v.DistanceSquared(other) < epsSq
}

// Quantize rounds every component to the nearest multiple of 10^-digits and
// returns the integer key. Vectors that round to the same grid point share a
// key; two vectors closer than 10^-digits can still land on either side of a
// rounding boundary.
func (v Vector3) Quantize(digits int) Vector3i {
	scale := math.Pow(10, float64(digits))
	return Vector3i{
		X: int64(math.Round(float64(v.X) * scale)),
		Y: int64(math.Round(float64(v.Y) * scale)),
		Z: int64(math.Round(float64(v.Z) * scale)),
	}
}

// Vec3 converts the vector to a mathgl vector.
func (v Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// FromVec3 converts a mathgl vector.
func FromVec3(v mgl32.Vec3) Vector3 {
	return Vector3{v[0], v[1], v[2]}
}

// String returns a string representation of the vector.
func (v Vector3) String() string {
	return fmt.Sprintf("[%2f,%2f,%2f]", v.X, v.Y, v.Z)
}

// Get returns the value of the vector at the given index.
func (v Vector3) Get(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return 0
}

// AppendFlat appends the components of the vectors to dst.
func AppendFlat(dst []float32, vs ...Vector3) []float32 {
	for _, v := range vs {
		dst = append(dst, v.X, v.Y, v.Z)
	}
	return dst
}

// FromFlat reads the i-th vector out of a flat xyz buffer.
func FromFlat(buf []float32, i int) Vector3 {
	return Vector3{buf[3*i], buf[3*i+1], buf[3*i+2]}
}
