package builder

import (
	"sort"

	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// face is a welded triangle on its way to becoming a Polygon
type face struct {
	ids      [3]uint32
	centroid math32.Vector3
	normal   math32.Vector3
}

// prepareGeometry welds vertices closer than 10^-precision, remaps the index
// buffer and drops every triangle that cannot carry an edge afterwards.
func prepareGeometry(vertexBuf []float32, indexBuf []uint32, precision int, report *BuildReport) ([]math32.Vector3, []face) {
	vertexCount := len(vertexBuf) / 3
	report.InputVertices = vertexCount
	report.TrailingFloats = len(vertexBuf) % 3
	report.InputTriangles = len(indexBuf) / 3
	report.TrailingIndices = len(indexBuf) % 3

	// 1. weld by quantized key, first occurrence wins
	keys := make(map[math32.Vector3i]uint32, vertexCount)
	remap := make([]uint32, vertexCount)
	unique := make([]math32.Vector3, 0, vertexCount)
	for i := 0; i < vertexCount; i++ {
		v := math32.FromFlat(vertexBuf, i)
		key := v.Quantize(precision)
		if id, ok := keys[key]; ok {
			remap[i] = id
			continue
		}
		id := uint32(len(unique))
		keys[key] = id
		remap[i] = id
		unique = append(unique, v)
	}
	report.MergedVertices = vertexCount - len(unique)

	// 2. remap faces and filter the ones welding broke
	faces := make([]face, 0, report.InputTriangles)
	seen := make(map[[3]uint32]struct{}, report.InputTriangles)
	for t := 0; t < report.InputTriangles; t++ {
		src := indexBuf[3*t : 3*t+3]
		if int(src[0]) >= vertexCount || int(src[1]) >= vertexCount || int(src[2]) >= vertexCount {
			report.OutOfRange++
			continue
		}
		ids := [3]uint32{remap[src[0]], remap[src[1]], remap[src[2]]}
		if ids[0] == ids[1] || ids[1] == ids[2] || ids[2] == ids[0] {
			report.Collapsed++
			continue
		}

		tri := geometry.NewTriangle(unique, ids)
		raw := tri.RawNormal()
		if raw.LengthSquared() == 0 {
			report.ZeroArea++
			continue
		}

		sorted := ids
		sort.Slice(sorted[:], func(i, j int) bool { return sorted[i] < sorted[j] })
		if _, dup := seen[sorted]; dup {
			report.Duplicates++
			continue
		}
		seen[sorted] = struct{}{}

		faces = append(faces, face{
			ids:      ids,
			centroid: tri.Centroid(),
			normal:   raw.Normalize(),
		})
	}

	return unique, faces
}
