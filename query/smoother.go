package query

import (
	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// simplifyPath drops interior points that lie within tolerance of the segment
// joining their neighbours. Endpoints always survive.
func simplifyPath(path polyline, tolerance float32) polyline {
	if tolerance <= 0 || len(path.points) <= 2 {
		return path
	}

	out := polyline{
		points:  make([]math32.Vector3, 0, len(path.points)),
		normals: make([]math32.Vector3, 0, len(path.normals)),
	}
	out.points = append(out.points, path.points[0])
	out.normals = append(out.normals, path.normals[0])

	for i := 1; i < len(path.points)-1; i++ {
		prev := out.points[len(out.points)-1]
		next := path.points[i+1]
		if geometry.SegmentDistance(path.points[i], prev, next) < tolerance {
			continue
		}
		out.points = append(out.points, path.points[i])
		out.normals = append(out.normals, path.normals[i])
	}

	last := len(path.points) - 1
	out.points = append(out.points, path.points[last])
	out.normals = append(out.normals, path.normals[last])
	return out
}
