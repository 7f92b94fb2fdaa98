package math32

import "math"

// MaxFloat32 is used as "no candidate" distance by the distance callbacks.
const MaxFloat32 = float32(math.MaxFloat32)

// Min returns the minimum of two values.
func Min[T float32 | int32 | int64](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two values.
func Max[T float32 | int32 | int64](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of a float32.
func Abs(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

// Clamp limits a to [lo, hi].
func Clamp(a, lo, hi float32) float32 {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

// Sqrt returns the square root of a float32.
func Sqrt(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}

// Atan2 returns the arc tangent of y/x in float32.
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// Cos returns the cosine of a float32 angle.
func Cos(a float32) float32 {
	return float32(math.Cos(float64(a)))
}
