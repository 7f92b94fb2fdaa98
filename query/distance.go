package query

import (
	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// DistanceFunc measures how far point is from a polygon. bestSoFar is the
// smallest value returned for the current lookup, which lets expensive tests
// bail out early. Smaller is closer; math32.MaxFloat32 means "never".
type DistanceFunc func(point, centroid math32.Vector3, vertexIDs [3]uint32, vertices []math32.Vector3, bestSoFar float32) float32

// DistanceToTriangle is the euclidean distance from point to the closest point of the triangle.
func DistanceToTriangle(point, _ math32.Vector3, vertexIDs [3]uint32, vertices []math32.Vector3, _ float32) float32 {
	tri := geometry.NewTriangle(vertices, vertexIDs)
	return tri.DistanceToPoint(point)
}

// DistanceToFootprint accepts only triangles whose footprint along their own
// normal contains point and returns the distance to their plane.
func DistanceToFootprint(point, _ math32.Vector3, vertexIDs [3]uint32, vertices []math32.Vector3, bestSoFar float32) float32 {
	tri := geometry.NewTriangle(vertices, vertexIDs)
	distance := tri.PlaneDistance(point)
	if distance < bestSoFar && tri.FootprintContains(point) {
		return distance
	}
	return math32.MaxFloat32
}

// DistanceToCentroid is the squared distance to the polygon centroid.
func DistanceToCentroid(point, centroid math32.Vector3, _ [3]uint32, _ []math32.Vector3, _ float32) float32 {
	return point.DistanceSquared(centroid)
}
