package math32

// Vector3i is an integer vector, used as a hash key for quantized positions.
type Vector3i struct {
	X int64
	Y int64
	Z int64
}
